package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
		assert.NotEmpty(t, cmd.Short, cmd.Name())
		assert.NotEmpty(t, cmd.Long, cmd.Name())
	}

	assert.True(t, names["run"])
	assert.True(t, names["gen"])
}

func TestRunBenchRandom(t *testing.T) {
	var out bytes.Buffer

	err := runBench(t.Context(), &out, runOptions{
		count:   500,
		dim:     8,
		metric:  "cosine",
		k:       5,
		queries: 40,
		workers: 3,
		verify:  5,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "vectors: 500  dim: 8  metric: cosine")
	assert.Contains(t, out.String(), "queries: 40")
	assert.Contains(t, out.String(), "recall@5 vs brute force: 1.0000")
}

func TestGenThenRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.fvecs.zst")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"gen", "--n", "300", "--dim", "4", "--clusters", "3", path})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "wrote 300 vectors of dimension 4")

	out.Reset()
	err := runBench(t.Context(), &out, runOptions{
		data:    path,
		metric:  "euclidean",
		k:       3,
		queries: 10,
		workers: 2,
		verify:  2,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "vectors: 300  dim: 4")
}

func TestRunBenchRejectsBadOptions(t *testing.T) {
	var out bytes.Buffer

	assert.Error(t, runBench(t.Context(), &out, runOptions{count: 10, dim: 2, metric: "euclidean", k: 0, queries: 1, workers: 1}))
	assert.Error(t, runBench(t.Context(), &out, runOptions{count: 10, dim: 2, metric: "nope", k: 1, queries: 1, workers: 1}))
	assert.Error(t, runBench(t.Context(), &out, runOptions{data: filepath.Join(t.TempDir(), "missing"), metric: "euclidean", k: 1, queries: 1, workers: 1}))
}
