package vecshard

import (
	"log/slog"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"
)

const (
	// DefaultParallelThreshold is the store size from which a query is split
	// across goroutines.
	DefaultParallelThreshold = 1 << 15
)

type options struct {
	metricsCollector     MetricsCollector
	logger               *Logger
	memoryLimitBytes     int64
	parallelism          int
	parallelThreshold    int
	maxConcurrentQueries int64
	queriesPerSecond     float64
	queryBurst           int
}

// Option configures Engine constructor behavior.
type Option func(*options)

func defaultOptions() options {
	return options{
		metricsCollector:  NoopMetricsCollector{},
		logger:            NoopLogger(),
		parallelism:       runtime.GOMAXPROCS(0),
		parallelThreshold: DefaultParallelThreshold,
	}
}

func applyOptions(optFns []Option) options {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.parallelism <= 0 {
		o.parallelism = 1
	}
	if o.parallelThreshold <= 0 {
		o.parallelThreshold = DefaultParallelThreshold
	}
	return o
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vecshard.BasicMetricsCollector{}
//	eng := vecshard.New(vecshard.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMemoryLimit caps the bytes held by all vector stores. A Fit that
// would exceed it fails with ErrMemoryLimitExceeded and leaves the previous
// contents in place. While a Fit swaps, the old and new stores are both
// counted. Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimitBytes = bytes
	}
}

// WithParallelism sets how many goroutines may scan one large query.
// Values <= 1 disable parallel scans. Defaults to GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithParallelThreshold sets the minimum number of stored vectors for a
// query to be split across goroutines.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		o.parallelThreshold = n
	}
}

// WithMaxConcurrentQueries bounds the number of queries scanning at once.
// Further queries block until a slot frees or their context ends.
func WithMaxConcurrentQueries(n int) Option {
	return func(o *options) {
		o.maxConcurrentQueries = int64(n)
	}
}

// WithQueryRateLimit admits at most qps queries per second with the given
// burst. Queries wait for a token or until their context ends.
func WithQueryRateLimit(qps float64, burst int) Option {
	return func(o *options) {
		o.queriesPerSecond = qps
		o.queryBurst = burst
	}
}

type searchOptions struct {
	filter      *roaring.Bitmap
	parallelism int
}

// SearchOption configures a single Search call.
type SearchOption func(*searchOptions)

// WithFilter restricts candidates to the ids set in bm. Ids at or beyond the
// shard count are ignored.
func WithFilter(bm *roaring.Bitmap) SearchOption {
	return func(o *searchOptions) {
		o.filter = bm
	}
}

// WithSearchParallelism overrides the engine parallelism for one call.
func WithSearchParallelism(n int) SearchOption {
	return func(o *searchOptions) {
		o.parallelism = n
	}
}
