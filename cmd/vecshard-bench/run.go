package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vecshard"
	"github.com/hupe1980/vecshard/distance"
	"github.com/hupe1980/vecshard/internal/config"
	"github.com/hupe1980/vecshard/internal/dataset"
	"github.com/hupe1980/vecshard/internal/simd"
	"github.com/hupe1980/vecshard/observability"
	"github.com/hupe1980/vecshard/testutil"
)

type runOptions struct {
	data        string
	count       int
	dim         int
	metric      string
	k           int
	queries     int
	workers     int
	parallelism int
	verify      int
	metricsAddr string
	linger      time.Duration
}

var runOpts runOptions

func init() {
	f := runCmd.Flags()
	f.StringVar(&runOpts.data, "data", "", "fvecs dataset to load (.zst/.lz4 supported); random data if empty")
	f.IntVar(&runOpts.count, "n", 100_000, "number of random vectors")
	f.IntVar(&runOpts.dim, "dim", 128, "dimension of random vectors")
	f.StringVar(&runOpts.metric, "metric", "euclidean", "distance metric")
	f.IntVar(&runOpts.k, "k", 10, "neighbours per query")
	f.IntVar(&runOpts.queries, "queries", 1000, "total queries")
	f.IntVar(&runOpts.workers, "workers", 4, "concurrent query workers")
	f.IntVar(&runOpts.parallelism, "parallelism", 0, "goroutines per query (0 keeps the configured value)")
	f.IntVar(&runOpts.verify, "verify", 10, "queries checked against brute force")
	f.StringVar(&runOpts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :2112")
	f.DurationVar(&runOpts.linger, "linger", 0, "keep serving metrics this long after the run")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load a shard and run concurrent queries",
	Long: `Load a shard and run concurrent queries against it.

Examples:
  # 100k random 128-d vectors, 4 workers
  vecshard-bench run

  # A dataset file with cosine distance and metrics on :2112
  vecshard-bench run --data sift.fvecs.zst --metric cosine --metrics-addr :2112`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runBench(ctx, cmd.OutOrStdout(), runOpts)
	},
}

func runBench(ctx context.Context, w io.Writer, o runOptions) error {
	if o.k <= 0 || o.queries <= 0 || o.workers <= 0 {
		return errors.New("k, queries and workers must be positive")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	collector, err := observability.NewPrometheusCollector(reg)
	if err != nil {
		return err
	}

	opts := append(cfg.Options(), vecshard.WithMetricsCollector(collector))
	if o.parallelism > 0 {
		opts = append(opts, vecshard.WithParallelism(o.parallelism))
	}

	eng := vecshard.New(opts...)
	defer eng.Close()

	if o.metricsAddr != "" {
		srv := &http.Server{
			Addr:              o.metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(w, "metrics server: %v\n", err)
			}
		}()
		defer srv.Close()
		fmt.Fprintf(w, "metrics on http://%s/metrics\n", o.metricsAddr)
	}

	rng := testutil.NewRNG(seed)

	flat, dim, err := loadData(o, rng)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "simd: %s\n", simd.ActiveISA())
	fmt.Fprintf(w, "vectors: %d  dim: %d  metric: %s\n", len(flat)/dim, dim, o.metric)

	if err := eng.InitShard(ctx, "bench", o.metric, dim); err != nil {
		return err
	}

	start := time.Now()
	if err := eng.Fit(ctx, flat); err != nil {
		return err
	}
	fmt.Fprintf(w, "fit: %s  memory: %d bytes", time.Since(start).Round(time.Millisecond), eng.MemoryUsage())
	if limit := eng.MemoryLimit(); limit > 0 {
		fmt.Fprintf(w, " of %d", limit)
	}
	fmt.Fprintln(w)

	queries := make([][]float32, o.queries)
	for i := range queries {
		queries[i] = rng.UniformFlat(1, dim)
	}

	latencies, elapsed, err := runQueries(ctx, eng, queries, o.k, o.workers)
	if err != nil {
		return err
	}
	report(w, latencies, elapsed)

	if o.verify > 0 {
		recall, err := verify(ctx, eng, flat, dim, queries[:min(o.verify, len(queries))], o.k, o.metric)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "recall@%d vs brute force: %.4f\n", o.k, recall)
	}

	if o.metricsAddr != "" && o.linger > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(o.linger):
		}
	}

	return nil
}

func loadData(o runOptions, rng *testutil.RNG) ([]float32, int, error) {
	if o.data != "" {
		flat, dim, err := dataset.ReadFile(o.data)
		if err != nil {
			return nil, 0, fmt.Errorf("load %s: %w", o.data, err)
		}
		return flat, dim, nil
	}

	if o.count <= 0 || o.dim <= 0 {
		return nil, 0, errors.New("n and dim must be positive")
	}
	return rng.UniformFlat(o.count, o.dim), o.dim, nil
}

func runQueries(ctx context.Context, eng *vecshard.Engine, queries [][]float32, k, workers int) ([]time.Duration, time.Duration, error) {
	latencies := make([]time.Duration, len(queries))

	var (
		mu   sync.Mutex
		next int
	)
	take := func() (int, bool) {
		mu.Lock()
		defer mu.Unlock()
		if next >= len(queries) {
			return 0, false
		}
		next++
		return next - 1, true
	}

	g, gctx := errgroup.WithContext(ctx)
	start := time.Now()

	for range workers {
		g.Go(func() error {
			out := make([]uint32, k)
			for {
				i, ok := take()
				if !ok {
					return nil
				}
				t0 := time.Now()
				if _, err := eng.Query(gctx, queries[i], k, out); err != nil {
					return fmt.Errorf("query %d: %w", i, err)
				}
				latencies[i] = time.Since(t0)
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return latencies, time.Since(start), nil
}

func report(w io.Writer, latencies []time.Duration, elapsed time.Duration) {
	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	pct := func(p float64) time.Duration {
		return sorted[min(len(sorted)-1, int(p*float64(len(sorted))))]
	}

	fmt.Fprintf(w, "queries: %d  elapsed: %s  qps: %.1f\n",
		len(sorted), elapsed.Round(time.Millisecond), float64(len(sorted))/elapsed.Seconds())
	fmt.Fprintf(w, "latency p50: %s  p95: %s  p99: %s  max: %s\n",
		pct(0.50), pct(0.95), pct(0.99), sorted[len(sorted)-1])
}

func verify(ctx context.Context, eng *vecshard.Engine, flat []float32, dim int, queries [][]float32, k int, metricName string) (float64, error) {
	m, err := distance.ParseMetric(metricName)
	if err != nil {
		return 0, err
	}

	rows := testutil.Rows(flat, dim)

	var total float64
	for _, q := range queries {
		want := testutil.BruteForceSearch(rows, q, k, func(a, b []float32) float32 {
			d, _ := m.Distance(a, b)
			return d
		})

		got, err := eng.Search(ctx, q, k)
		if err != nil {
			return 0, err
		}

		results := make([]testutil.SearchResult, len(got))
		for i, r := range got {
			results[i] = testutil.SearchResult{ID: r.ID, Distance: r.Distance}
		}
		total += testutil.ComputeRecall(want, results)
	}

	return total / float64(len(queries)), nil
}
