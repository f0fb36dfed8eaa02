// Package ffi adapts the engine to a foreign caller: raw buffers become
// bounds-checked views, errors become status codes, and a process-wide
// default engine backs the exported C symbols of cmd/shardpy.
package ffi

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"github.com/hupe1980/vecshard"
	"github.com/hupe1980/vecshard/internal/config"
)

// Boundary serves status-code calls against one engine and remembers the
// outcome of the most recent call for diagnostics.
type Boundary struct {
	eng *vecshard.Engine

	mu      sync.Mutex
	lastErr error
}

// NewBoundary wraps eng.
func NewBoundary(eng *vecshard.Engine) *Boundary {
	return &Boundary{eng: eng}
}

// Engine returns the wrapped engine.
func (b *Boundary) Engine() *vecshard.Engine {
	return b.eng
}

// InitShard creates or resets the named shard and makes it active.
func (b *Boundary) InitShard(name, metric string, dim int) Status {
	return b.record(b.eng.InitShard(context.Background(), name, metric, dim))
}

// Fit loads vectors into the active shard.
func (b *Boundary) Fit(vectors Float32View) Status {
	return b.record(b.eng.Fit(context.Background(), vectors.Slice()))
}

// Query writes the nearest ids into out and returns how many were written.
func (b *Boundary) Query(x Float32View, k int, out Uint32View) (int, Status) {
	n, err := b.eng.Query(context.Background(), x.Slice(), k, out.Slice())
	return n, b.record(err)
}

// FitRaw is Fit over n floats at ptr.
func (b *Boundary) FitRaw(ptr unsafe.Pointer, n int) Status {
	view, err := Float32ViewFromRaw(ptr, n)
	if err != nil {
		return b.record(err)
	}
	return b.Fit(view)
}

// QueryRaw is Query over n floats at x, writing into outLen ids at out.
func (b *Boundary) QueryRaw(x unsafe.Pointer, n, k int, out unsafe.Pointer, outLen int) (int, Status) {
	query, err := Float32ViewFromRaw(x, n)
	if err != nil {
		return 0, b.record(err)
	}
	ids, err := Uint32ViewFromRaw(out, outLen)
	if err != nil {
		return 0, b.record(err)
	}
	return b.Query(query, k, ids)
}

// LastError returns the error of the most recent call, or nil if it
// succeeded.
func (b *Boundary) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func (b *Boundary) record(err error) Status {
	b.mu.Lock()
	b.lastErr = err
	b.mu.Unlock()
	return StatusOf(err)
}

var defaultBoundary = sync.OnceValues(func() (*Boundary, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewBoundary(vecshard.New(cfg.Options()...)), nil
})

// Default returns the process-wide boundary, built on first use from the
// VECSHARD_ environment.
func Default() (*Boundary, error) {
	return defaultBoundary()
}
