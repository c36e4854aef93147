package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/swarmlab/accord/consensus"
	"github.com/swarmlab/accord/logging"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	_ "github.com/swarmlab/accord/consensus/crdtvote"
	_ "github.com/swarmlab/accord/consensus/gossip"
	_ "github.com/swarmlab/accord/consensus/quorum"
	_ "github.com/swarmlab/accord/consensus/raft"
	_ "github.com/swarmlab/accord/consensus/weighted"
)

// rootCmd represents the base command when called without any subcommands
var (
	listAlgorithms bool
	cfgFile        string

	rootCmd = &cobra.Command{
		Use:   "accord",
		Short: "A command-line utility for running consensus experiments.",
		Long: `accord is a command-line utility for experimenting with consensus strategies
for groups of autonomous agents. It runs a simulated agent group in-process,
pushes proposals through a chosen decision strategy, and records measurements
that can be plotted afterwards.

To run an experiment, use the 'accord run' command.
By default, this command runs a small group of agents deciding by quorum vote.
Use 'accord help run' to view all parameters for this command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !listAlgorithms {
				return cmd.Usage()
			}
			for _, name := range consensus.ListAlgorithms() {
				fmt.Println(name)
			}
			return nil
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().BoolVar(&listAlgorithms, "list-algorithms", false, "list registered consensus algorithms")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.accord.yaml)")

	rootCmd.PersistentFlags().String("log-level", "info", "sets the log level (debug, info, warn, error)")
	cobra.CheckErr(viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")))
	rootCmd.PersistentFlags().StringSlice("log-pkgs", []string{}, "set the log level on a per-package basis.")
	cobra.CheckErr(viper.BindPFlag("log-pkgs", rootCmd.PersistentFlags().Lookup("log-pkgs")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".accord" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".accord")
	}

	viper.SetEnvPrefix("accord")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	logging.SetLogLevel(viper.GetString("log-level"))

	packageLevels := viper.GetStringSlice("log-pkgs")

	for _, packageLevel := range packageLevels {
		parts := strings.Split(packageLevel, ":")
		if len(parts) != 2 {
			fmt.Println("log-pkgs flag must be a comma-separated list of package:level strings")
			os.Exit(1)
		}
		logging.SetPackageLogLevel(parts[0], parts[1])
	}
}
