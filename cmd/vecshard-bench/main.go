// Package main implements vecshard-bench, a load generator for the engine.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// seed drives every random choice so runs are reproducible
	seed int64
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vecshard-bench",
	Short: "Benchmark exact k-NN queries against an in-memory shard",
	Long: `vecshard-bench loads a dataset into a single shard and measures query
throughput and latency. Engine settings are read from VECSHARD_ environment
variables and an optional .env file; flags override them.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "random seed for generated data and queries")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(genCmd)
}
