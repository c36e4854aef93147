package plotting

import (
	"fmt"
	"image/color"
	"time"

	"github.com/swarmlab/accord/metrics"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// LatencyPlot plots decision latency measurements.
type LatencyPlot struct {
	startTimes   StartTimes
	measurements MeasurementMap
}

// NewLatencyPlot returns a new decision latency plotter.
func NewLatencyPlot() LatencyPlot {
	return LatencyPlot{
		startTimes:   NewStartTimes(),
		measurements: NewMeasurementMap(),
	}
}

// Add adds a measurement to the plot.
func (p *LatencyPlot) Add(measurement any) {
	p.startTimes.Add(measurement)

	latency, ok := measurement.(*metrics.LatencyMeasurement)
	if !ok {
		return
	}
	p.measurements.Add(latency.Event.Node, latency)
}

// PlotAverage plots the average latency of all nodes within each
// measurement interval.
func (p *LatencyPlot) PlotAverage(filename string, measurementInterval time.Duration) (err error) {
	plt := plot.New()

	grid := plotter.NewGrid()
	grid.Horizontal.Color = color.Gray{Y: 200}
	grid.Horizontal.Dashes = plotutil.Dashes(2)
	grid.Vertical.Color = color.Gray{Y: 200}
	grid.Vertical.Dashes = plotutil.Dashes(2)
	plt.Add(grid)

	plt.X.Label.Text = "Time (seconds)"
	plt.X.Tick.Marker = hplot.Ticks{N: 10}
	plt.Y.Label.Text = "Latency (ms)"
	plt.Y.Tick.Marker = hplot.Ticks{N: 10}

	// TODO: error bars from the logged variance
	if err := plotutil.AddLinePoints(plt, avgLatency(p, measurementInterval)); err != nil {
		return fmt.Errorf("failed to add line plot: %w", err)
	}

	if err := plt.Save(6*vg.Inch, 6*vg.Inch, filename); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}

	return nil
}

func avgLatency(p *LatencyPlot, interval time.Duration) plotter.XYer {
	intervals := GroupByTimeInterval(&p.startTimes, p.measurements, interval)
	return TimeAndAverage(intervals, func(m Measurement) (float64, uint64) {
		latency := m.(*metrics.LatencyMeasurement)
		return latency.Latency, latency.Count
	})
}
