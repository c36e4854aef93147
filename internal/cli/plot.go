package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/swarmlab/accord/metrics/plotting"
)

var (
	latencyPlotPath    string
	throughputPlotPath string
	plotInterval       time.Duration

	plotCmd = &cobra.Command{
		Use:   "plot [measurements.json]",
		Short: "Plot measurements from a previous experiment.",
		Long: `The plot command reads a measurement file written by 'accord run --output'
and renders the requested plots. The measurement interval groups samples
from different nodes into buckets before averaging them; it should match
the interval the experiment ran with.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return plotMeasurements(args[0])
		},
	}
)

func init() {
	rootCmd.AddCommand(plotCmd)

	plotCmd.Flags().StringVar(&latencyPlotPath, "latency-plot", "", "file to write the decision latency plot to")
	plotCmd.Flags().StringVar(&throughputPlotPath, "throughput-plot", "", "file to write the throughput plot to")
	plotCmd.Flags().DurationVar(&plotInterval, "interval", time.Second, "length of time between data points")
}

func plotMeasurements(sourceFile string) error {
	file, err := os.Open(sourceFile)
	if err != nil {
		return fmt.Errorf("failed to open measurement file: %w", err)
	}
	defer file.Close()

	latencyPlot := plotting.NewLatencyPlot()
	throughputPlot := plotting.NewThroughputPlot()
	reader := plotting.NewReader(file, &latencyPlot, &throughputPlot)
	if err := reader.ReadAll(); err != nil {
		return fmt.Errorf("failed to read measurements: %w", err)
	}

	if latencyPlotPath != "" {
		if err := latencyPlot.PlotAverage(latencyPlotPath, plotInterval); err != nil {
			return fmt.Errorf("failed to plot decision latency: %w", err)
		}
	}
	if throughputPlotPath != "" {
		if err := throughputPlot.PlotAverage(throughputPlotPath, plotInterval); err != nil {
			return fmt.Errorf("failed to plot throughput: %w", err)
		}
	}
	return nil
}
