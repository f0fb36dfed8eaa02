// Package testutil provides testing utilities for vecshard.
//
// This package is intended for use in tests, benchmarks and the bench CLI.
// It provides helpers for generating random vectors and computing exact
// nearest neighbours independently of the engine.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	flat := rng.UniformFlat(1000, 128) // 1000 rows, uniform [0, 1)
//
// # Exact Search (Ground Truth)
//
//	want := testutil.BruteForceSearch(vectors, query, k, distance.SquaredEuclidean)
//
// # Recall Verification
//
//	recall := testutil.ComputeRecall(want, got)
package testutil
