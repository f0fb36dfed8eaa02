package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/vecshard/internal/dataset"
	"github.com/hupe1980/vecshard/testutil"
)

var (
	genCount    int
	genDim      int
	genClusters int
	genSpread   float32
)

func init() {
	genCmd.Flags().IntVar(&genCount, "n", 100_000, "number of vectors")
	genCmd.Flags().IntVar(&genDim, "dim", 128, "vector dimension")
	genCmd.Flags().IntVar(&genClusters, "clusters", 0, "cluster count (0 for uniform data)")
	genCmd.Flags().Float32Var(&genSpread, "spread", 0.1, "cluster spread")
}

var genCmd = &cobra.Command{
	Use:   "gen <file>",
	Short: "Generate a random fvecs dataset",
	Long: `Generate a random dataset in fvecs layout.

The file extension selects compression: .zst for zstd, .lz4 for LZ4, anything
else for plain fvecs.

Examples:
  # 1M uniform vectors of dimension 96, zstd compressed
  vecshard-bench gen --n 1000000 --dim 96 data.fvecs.zst

  # Clustered data
  vecshard-bench gen --clusters 64 --spread 0.05 data.fvecs`,
	Args: cobra.ExactArgs(1),
	RunE: runGen,
}

func runGen(cmd *cobra.Command, args []string) error {
	if genCount <= 0 || genDim <= 0 {
		return fmt.Errorf("n and dim must be positive")
	}

	rng := testutil.NewRNG(seed)

	var flat []float32
	if genClusters > 0 {
		flat = testutil.Flatten(rng.ClusteredVectors(genCount, genDim, genClusters, genSpread))
	} else {
		flat = rng.UniformFlat(genCount, genDim)
	}

	if err := dataset.WriteFile(args[0], flat, genDim); err != nil {
		return fmt.Errorf("write %s: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d vectors of dimension %d to %s\n", genCount, genDim, args[0])
	return nil
}
