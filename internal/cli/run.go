package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/internal/profiling"
	"github.com/swarmlab/accord/metrics"
	"github.com/swarmlab/accord/simulation"
)

func runExperiment(ctx context.Context) {
	scenario := scenarioFromConfig()

	output := viper.GetString("output")
	if output != "" {
		err := os.MkdirAll(output, 0o755)
		checkf("failed to create output directory: %v", err)
	}

	stopProfilers, err := startLocalProfiling(output)
	checkf("failed to start profiling: %v", err)

	metricsLogger := metrics.NopLogger()
	closeMeasurements := func() {}
	if output != "" {
		f, err := os.OpenFile(filepath.Join(output, "measurements.json"), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		checkf("failed to create measurement file: %v", err)

		wr := bufio.NewWriter(f)
		metricsLogger, err = metrics.NewJSONLogger(wr)
		checkf("failed to create JSON logger: %v", err)

		closeMeasurements = func() {
			checkf("failed to close logger: %v", metricsLogger.Close())
			checkf("failed to flush writer: %v", wr.Flush())
			checkf("failed to close measurement file: %v", f.Close())
		}
	}

	runner, err := simulation.NewRunner(scenario, metricsLogger, viper.GetStringSlice("metrics"))
	checkf("failed to set up the experiment: %v", err)

	result, err := runner.Run(ctx)
	checkf("experiment failed: %v", err)

	fmt.Println(scenario)
	fmt.Printf("approved: %d, rejected: %d, timed out: %d\n", result.Approved, result.Rejected, result.TimedOut)

	if output != "" {
		data, err := json.MarshalIndent(result, "", "\t")
		checkf("failed to marshal the result: %v", err)
		err = os.WriteFile(filepath.Join(output, "result.json"), data, 0o644)
		checkf("failed to write the result: %v", err)
		fmt.Println("Wrote data to:", output)
	}

	closeMeasurements()
	checkf("failed to stop profilers: %v", stopProfilers())
}

func checkf(format string, args ...any) {
	for _, arg := range args {
		if err, _ := arg.(error); err != nil {
			log.Fatalf(format, args...)
		}
	}
}

func scenarioFromConfig() simulation.Scenario {
	scenario := simulation.Scenario{
		Algorithm:         viper.GetString("algorithm"),
		NumAgents:         viper.GetInt("agents"),
		Proposals:         viper.GetInt("proposals"),
		NodeID:            accord.ID(viper.GetString("node-id")),
		Seed:              viper.GetInt64("seed"),
		Rate:              viper.GetFloat64("rate"),
		Timeout:           viper.GetDuration("timeout"),
		TickInterval:      viper.GetDuration("measurement-interval"),
		HeartbeatInterval: viper.GetDuration("heartbeat-interval"),

		Threshold:            viper.GetFloat64("threshold"),
		ElectionTimeout:      viper.GetDuration("election-timeout"),
		Fanout:               viper.GetInt("fanout"),
		MaxRounds:            viper.GetInt("max-rounds"),
		ConvergenceThreshold: viper.GetFloat64("convergence-threshold"),
	}

	if failed := viper.GetStringSlice("failed"); len(failed) > 0 {
		scenario.Failed = simulation.NewAgentSet()
		for _, id := range failed {
			scenario.Failed.Add(accord.ID(id))
		}
	}
	if busy := viper.GetStringSlice("busy"); len(busy) > 0 {
		scenario.Busy = simulation.NewAgentSet()
		for _, id := range busy {
			scenario.Busy.Add(accord.ID(id))
		}
	}

	if weights := viper.GetStringMapString("weights"); len(weights) > 0 {
		scenario.Weights = make(map[accord.ID]float64, len(weights))
		for id, weight := range weights {
			w, err := strconv.ParseFloat(weight, 64)
			checkf("invalid weight for %s: %v", id, err)
			scenario.Weights[accord.ID(id)] = w
		}
	}

	scenario.Profile = &simulation.Profile{
		Approve: viper.GetUint("approve-weight"),
		Reject:  viper.GetUint("reject-weight"),
		Abstain: viper.GetUint("abstain-weight"),
	}
	return scenario
}

func startLocalProfiling(output string) (stop func() error, err error) {
	var (
		cpuProfile    string
		memProfile    string
		trace         string
		fgprofProfile string
	)
	if output == "" {
		return func() error { return nil }, nil
	}
	if viper.GetBool("cpu-profile") {
		cpuProfile = filepath.Join(output, "cpuprofile")
	}
	if viper.GetBool("mem-profile") {
		memProfile = filepath.Join(output, "memprofile")
	}
	if viper.GetBool("trace") {
		trace = filepath.Join(output, "trace")
	}
	if viper.GetBool("fgprof-profile") {
		fgprofProfile = filepath.Join(output, "fgprofprofile")
	}
	stop, err = profiling.StartProfilers(cpuProfile, memProfile, trace, fgprofProfile)
	return
}
