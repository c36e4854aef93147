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

// ThroughputPlot plots decision throughput measurements.
type ThroughputPlot struct {
	startTimes   StartTimes
	measurements MeasurementMap
}

// NewThroughputPlot returns a new decision throughput plotter.
func NewThroughputPlot() ThroughputPlot {
	return ThroughputPlot{
		startTimes:   NewStartTimes(),
		measurements: NewMeasurementMap(),
	}
}

// Add adds a measurement to the plot.
func (p *ThroughputPlot) Add(measurement any) {
	p.startTimes.Add(measurement)

	throughput, ok := measurement.(*metrics.ThroughputMeasurement)
	if !ok {
		return
	}
	p.measurements.Add(throughput.Event.Node, throughput)
}

// PlotAverage plots the average throughput of all nodes within each
// measurement interval.
func (p *ThroughputPlot) PlotAverage(filename string, measurementInterval time.Duration) (err error) {
	plt := plot.New()

	grid := plotter.NewGrid()
	grid.Horizontal.Color = color.Gray{Y: 200}
	grid.Horizontal.Dashes = plotutil.Dashes(2)
	grid.Vertical.Color = color.Gray{Y: 200}
	grid.Vertical.Dashes = plotutil.Dashes(2)
	plt.Add(grid)

	plt.X.Label.Text = "Time (seconds)"
	plt.X.Tick.Marker = hplot.Ticks{N: 10}
	plt.Y.Label.Text = "Throughput (decisions/second)"
	plt.Y.Tick.Marker = hplot.Ticks{N: 10}

	if err := plotutil.AddLinePoints(plt, avgThroughput(p, measurementInterval)); err != nil {
		return fmt.Errorf("failed to add line plot: %w", err)
	}

	if err := plt.Save(6*vg.Inch, 6*vg.Inch, filename); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}

	return nil
}

func avgThroughput(p *ThroughputPlot, interval time.Duration) plotter.XYer {
	intervals := GroupByTimeInterval(&p.startTimes, p.measurements, interval)
	return TimeAndAverage(intervals, func(m Measurement) (float64, uint64) {
		throughput := m.(*metrics.ThroughputMeasurement)
		if throughput.Duration <= 0 {
			return 0, 0
		}
		return float64(throughput.Decisions) / throughput.Duration, 1
	})
}
