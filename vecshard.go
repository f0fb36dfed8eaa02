package vecshard

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/vecshard/distance"
	"github.com/hupe1980/vecshard/internal/resource"
	"github.com/hupe1980/vecshard/internal/vectorstore"
)

// Engine is a registry of named shards. The zero value is not usable; create
// one with New. Engine is safe for concurrent use.
type Engine struct {
	mu     sync.RWMutex
	shards map[string]*shard
	active *shard
	closed bool

	rc                *resource.Controller
	logger            *Logger
	metrics           MetricsCollector
	parallelism       int
	parallelThreshold int
}

// New creates an empty engine.
func New(optFns ...Option) *Engine {
	o := applyOptions(optFns)

	return &Engine{
		shards: make(map[string]*shard),
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes:     o.memoryLimitBytes,
			MaxConcurrentQueries: o.maxConcurrentQueries,
			QueriesPerSecond:     o.queriesPerSecond,
			QueryBurst:           o.queryBurst,
		}),
		logger:            o.logger,
		metrics:           o.metricsCollector,
		parallelism:       o.parallelism,
		parallelThreshold: o.parallelThreshold,
	}
}

// InitShard creates the shard name with the given metric and dimension and
// makes it the active shard. An existing shard of the same name is replaced:
// its vectors are discarded once in-flight queries on it have finished.
func (e *Engine) InitShard(ctx context.Context, name, metric string, dim int) (err error) {
	start := time.Now()
	replaced := false

	defer func() {
		e.metrics.RecordInitShard(time.Since(start), err)
		e.logger.LogInitShard(ctx, name, metric, dim, replaced, err)
	}()

	if name == "" {
		return fmt.Errorf("%w: shard name is empty", ErrInvalidArgument)
	}

	m, perr := distance.ParseMetric(metric)
	if perr != nil {
		return &ErrUnknownMetric{Name: metric, cause: perr}
	}

	if dim <= 0 {
		return &ErrInvalidDimension{Dimension: dim, Metric: m}
	}

	if want := m.FixedDimension(); want != 0 && dim != want {
		return &ErrInvalidDimension{Dimension: dim, Want: want, Metric: m}
	}

	s, err := newShard(name, m, dim)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	old := e.shards[name]
	e.shards[name] = s
	e.active = s
	e.mu.Unlock()

	if old != nil {
		replaced = true
		e.release(old.drop())
	}

	return nil
}

// Fit replaces the contents of the active shard. See FitShard.
func (e *Engine) Fit(ctx context.Context, vectors []float32) error {
	return e.fit(ctx, "", vectors)
}

// FitShard replaces the contents of the named shard with vectors, a flat
// buffer of len(vectors)/dim rows. Row i receives id i. The buffer is copied;
// the caller may reuse it once FitShard returns.
//
// Fit is all-or-nothing: on any error the previous contents stay visible.
func (e *Engine) FitShard(ctx context.Context, name string, vectors []float32) error {
	if name == "" {
		return fmt.Errorf("%w: shard name is empty", ErrInvalidArgument)
	}
	return e.fit(ctx, name, vectors)
}

func (e *Engine) fit(ctx context.Context, name string, vectors []float32) (err error) {
	start := time.Now()
	count := 0
	var generation uint64

	defer func() {
		e.metrics.RecordFit(count, time.Since(start), err)
		e.logger.LogFit(ctx, name, count, generation, err)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	s, err := e.lookup(name)
	if err != nil {
		return err
	}
	name = s.name

	if len(vectors) == 0 || len(vectors)%s.dim != 0 {
		return &ErrMisalignedBuffer{Length: len(vectors), Dimension: s.dim}
	}

	n := len(vectors) / s.dim
	withNorms := s.metric.NeedsNorms()

	size := vectorstore.SizeFor(n, s.dim, withNorms)
	if err := e.rc.AcquireMemory(size); err != nil {
		return translateError(fmt.Errorf("fit %d vectors (%d bytes): %w", n, size, err))
	}

	st, err := vectorstore.New(s.dim, vectors, withNorms)
	if err != nil {
		e.rc.ReleaseMemory(size)
		return fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}

	s.mu.Lock()
	if s.dropped {
		s.mu.Unlock()
		e.rc.ReleaseMemory(size)
		return fmt.Errorf("%w: shard %q was replaced during fit", ErrNotInitialized, s.name)
	}
	old := s.store
	s.store = st
	s.generation++
	generation = s.generation
	s.mu.Unlock()

	e.release(old.SizeBytes())
	count = n

	return nil
}

// Info describes the named shard.
func (e *Engine) Info(name string) (ShardInfo, error) {
	s, err := e.acquireRead(name)
	if err != nil {
		return ShardInfo{}, err
	}
	defer s.mu.RUnlock()

	return s.info(), nil
}

// Shards returns the names of all shards in ascending order.
func (e *Engine) Shards() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return slices.Sorted(maps.Keys(e.shards))
}

// Active returns the name of the active shard, or "" if there is none.
func (e *Engine) Active() string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.active == nil {
		return ""
	}
	return e.active.name
}

// Vector returns a copy of vector id from the named shard.
func (e *Engine) Vector(name string, id uint32) ([]float32, error) {
	s, err := e.acquireRead(name)
	if err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	v, ok := s.store.CopyVector(int(id))
	if !ok {
		return nil, fmt.Errorf("%w: id %d in shard %q (count %d)", ErrNotFound, id, s.name, s.store.Count())
	}
	return v, nil
}

// Drop removes the named shard and releases its memory. If it was the active
// shard, no shard is active afterwards.
func (e *Engine) Drop(ctx context.Context, name string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	s, ok := e.shards[name]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNotInitialized, name)
	}
	delete(e.shards, name)
	if e.active == s {
		e.active = nil
	}
	e.mu.Unlock()

	released := s.drop()
	e.release(released)
	e.logger.LogDrop(ctx, name, released)

	return nil
}

// MemoryUsage returns the bytes currently held by vector stores.
func (e *Engine) MemoryUsage() int64 {
	return e.rc.MemoryUsage()
}

// MemoryLimit returns the configured vector store budget in bytes, or 0 when
// memory is only tracked.
func (e *Engine) MemoryLimit() int64 {
	return e.rc.MemoryLimit()
}

// Close drops every shard. Subsequent calls fail with ErrClosed.
// Close is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	shards := e.shards
	e.shards = make(map[string]*shard)
	e.active = nil
	e.mu.Unlock()

	for _, s := range shards {
		e.release(s.drop())
	}

	return nil
}

func (e *Engine) release(bytes int64) {
	e.rc.ReleaseMemory(bytes)
	e.metrics.RecordMemory(e.rc.MemoryUsage())
}

// lookup resolves name, or the active shard when name is empty, without
// locking the shard.
func (e *Engine) lookup(name string) (*shard, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return nil, ErrClosed
	}

	if name == "" {
		if e.active == nil {
			return nil, fmt.Errorf("%w: no active shard", ErrNotInitialized)
		}
		return e.active, nil
	}

	s, ok := e.shards[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotInitialized, name)
	}
	return s, nil
}

// acquireRead resolves name and returns the shard read-locked. A shard that
// is dropped between lookup and locking is retried, so the caller always sees
// the registry's current shard for that name.
func (e *Engine) acquireRead(name string) (*shard, error) {
	for {
		s, err := e.lookup(name)
		if err != nil {
			return nil, err
		}

		s.mu.RLock()
		if !s.dropped {
			return s, nil
		}
		s.mu.RUnlock()
	}
}
