package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an experiment.",
	Long: `The run command pushes a batch of proposals through a simulated agent group
using the chosen consensus algorithm. Agents vote according to a weighted
profile, and agents named by '--failed' or '--busy' misbehave accordingly.

With '--output', the command saves the decision measurements as a JSON file
that 'accord plot' can read, along with any requested profiles.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runExperiment(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("algorithm", "quorum", "name of the consensus algorithm")
	runCmd.Flags().Int("agents", 7, "number of agents in the group")
	runCmd.Flags().Int("proposals", 100, "number of proposals to decide")
	runCmd.Flags().String("node-id", "node-1", "id of the local node")
	runCmd.Flags().StringSlice("failed", nil, "agents that never respond")
	runCmd.Flags().StringSlice("busy", nil, "agents that always abstain")
	runCmd.Flags().Uint("approve-weight", 60, "weight of an approve ballot in the voting profile")
	runCmd.Flags().Uint("reject-weight", 30, "weight of a reject ballot in the voting profile")
	runCmd.Flags().Uint("abstain-weight", 10, "weight of an abstain ballot in the voting profile")
	runCmd.Flags().Int64("seed", 0, "shared random number generator seed")
	runCmd.Flags().Float64("rate", 0, "rate limit for proposals (in proposals/second)")
	runCmd.Flags().Duration("timeout", time.Second, "per-proposal decision timeout")

	runCmd.Flags().Float64("threshold", 0, "decision threshold for the quorum and weighted algorithms")
	runCmd.Flags().StringToString("weights", nil, "per-agent ballot weights for the weighted algorithm (agent=weight)")
	runCmd.Flags().Duration("election-timeout", 0, "leader election timeout for the raft algorithm")
	runCmd.Flags().Duration("heartbeat-interval", 0, "leader heartbeat interval for the raft algorithm")
	runCmd.Flags().Int("fanout", 0, "peers sampled per round by the gossip algorithm")
	runCmd.Flags().Int("max-rounds", 0, "round limit for the gossip algorithm")
	runCmd.Flags().Float64("convergence-threshold", 0, "agreement ratio at which the gossip algorithm converges")

	runCmd.Flags().String("output", "", "the directory to save data and profiles to (disabled by default)")
	runCmd.Flags().Bool("cpu-profile", false, "enable cpu profiling")
	runCmd.Flags().Bool("mem-profile", false, "enable memory profiling")
	runCmd.Flags().Bool("trace", false, "enable trace")
	runCmd.Flags().Bool("fgprof-profile", false, "enable fgprof")

	runCmd.Flags().StringSlice("metrics", []string{"decision-latency", "throughput"}, "list of metrics to enable")
	runCmd.Flags().Duration("measurement-interval", time.Second, "time interval between measurements")

	err := viper.BindPFlags(runCmd.Flags())
	if err != nil {
		panic(err)
	}
}
