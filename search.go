package vecshard

import (
	"context"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vecshard/internal/searcher"
	"github.com/hupe1980/vecshard/internal/vectorstore"
)

const (
	// ctxCheckMask controls how often a scan polls its context.
	ctxCheckMask = 1<<14 - 1

	// scoreBlock is the number of contiguous rows scored per kernel call.
	scoreBlock = 256
)

// Result is a neighbour returned by Search.
type Result struct {
	ID       uint32
	Distance float32
}

// Query writes the ids of the k vectors closest to x in the active shard into
// out and returns how many were written. See QueryShard.
func (e *Engine) Query(ctx context.Context, x []float32, k int, out []uint32) (int, error) {
	return e.query(ctx, "", x, k, out)
}

// QueryShard writes the ids of the k vectors closest to x in the named shard
// into out, ordered by ascending distance with ties broken by ascending id.
//
// When the shard holds fewer than k vectors, only Count ids are written and
// the rest of out is left untouched; the returned count is authoritative. out
// must hold at least min(k, Count) ids. On error nothing is written.
func (e *Engine) QueryShard(ctx context.Context, name string, x []float32, k int, out []uint32) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: shard name is empty", ErrInvalidArgument)
	}
	return e.query(ctx, name, x, k, out)
}

func (e *Engine) query(ctx context.Context, name string, x []float32, k int, out []uint32) (n int, err error) {
	start := time.Now()

	defer func() {
		e.metrics.RecordQuery(k, n, time.Since(start), err)
		e.logger.LogQuery(ctx, name, k, n, err)
	}()

	err = e.read(ctx, name, x, k, func(s *shard, limit int) error {
		name = s.name

		if len(out) < limit {
			return fmt.Errorf("%w: output buffer holds %d ids, need %d", ErrInvalidArgument, len(out), limit)
		}

		srch, err := e.scan(ctx, s, x, limit, nil, e.parallelism)
		if err != nil {
			return err
		}
		defer searcher.Put(srch)

		srch.Results = srch.Heap.Drain(srch.Results[:0])
		for i, item := range srch.Results {
			out[i] = item.ID
		}
		n = len(srch.Results)

		return nil
	})
	if err != nil {
		return 0, err
	}

	return n, nil
}

// Search returns the k vectors closest to x in the active shard with their
// distances. See SearchShard.
func (e *Engine) Search(ctx context.Context, x []float32, k int, opts ...SearchOption) ([]Result, error) {
	return e.search(ctx, "", x, k, opts)
}

// SearchShard returns up to k neighbours of x in the named shard, ordered by
// ascending distance with ties broken by ascending id. Euclidean distances are
// reported as the true root distance.
func (e *Engine) SearchShard(ctx context.Context, name string, x []float32, k int, opts ...SearchOption) ([]Result, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: shard name is empty", ErrInvalidArgument)
	}
	return e.search(ctx, name, x, k, opts)
}

func (e *Engine) search(ctx context.Context, name string, x []float32, k int, opts []SearchOption) (results []Result, err error) {
	start := time.Now()

	so := searchOptions{parallelism: e.parallelism}
	for _, opt := range opts {
		opt(&so)
	}

	defer func() {
		e.metrics.RecordQuery(k, len(results), time.Since(start), err)
		e.logger.LogQuery(ctx, name, k, len(results), err)
	}()

	err = e.read(ctx, name, x, k, func(s *shard, limit int) error {
		name = s.name

		srch, err := e.scan(ctx, s, x, limit, so.filter, so.parallelism)
		if err != nil {
			return err
		}
		defer searcher.Put(srch)

		srch.Results = srch.Heap.Drain(srch.Results[:0])
		results = make([]Result, len(srch.Results))
		for i, item := range srch.Results {
			results[i] = Result{ID: item.ID, Distance: s.metric.Finalize(item.Distance)}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// read validates a query against the shard and runs fn with the shard
// read-locked and holding an admission slot. fn receives k capped at the
// shard's count, so result buffers are never sized by the caller's k.
func (e *Engine) read(ctx context.Context, name string, x []float32, k int, fn func(s *shard, limit int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if k <= 0 {
		return &ErrInvalidK{K: k}
	}

	if err := e.rc.AdmitQuery(ctx); err != nil {
		return err
	}
	defer e.rc.ReleaseQuery()

	s, err := e.acquireRead(name)
	if err != nil {
		return err
	}
	defer s.mu.RUnlock()

	if len(x) != s.dim {
		return &ErrDimensionMismatch{Expected: s.dim, Actual: len(x)}
	}

	count := s.store.Count()
	if count == 0 {
		return fmt.Errorf("%w: shard %q", ErrEmptyIndex, s.name)
	}

	return fn(s, min(k, count))
}

// scan scores x against every vector of s (or the ids in filter) and returns
// a pooled searcher whose heap holds the k best. The caller must Put it.
func (e *Engine) scan(ctx context.Context, s *shard, x []float32, k int, filter *roaring.Bitmap, parallelism int) (*searcher.Searcher, error) {
	st := s.store
	n := st.Count()
	sc := st.NewScorer(s.metric, s.kernel, x)

	if parallelism <= 1 || n < e.parallelThreshold {
		srch := searcher.Get(k)
		if err := scanRange(ctx, &sc, srch, 0, n, filter); err != nil {
			searcher.Put(srch)
			return nil, err
		}
		return srch, nil
	}

	chunks := min(parallelism, n)
	size := (n + chunks - 1) / chunks

	parts := make([]*searcher.Searcher, 0, chunks)
	defer func() {
		for _, p := range parts {
			searcher.Put(p)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		part := searcher.Get(k)
		parts = append(parts, part)

		g.Go(func() error {
			local := sc
			return scanRange(gctx, &local, part, lo, hi, filter)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := searcher.Get(k)
	for _, p := range parts {
		merged.Heap.Merge(p.Heap)
		merged.OpsPerformed += p.OpsPerformed
	}

	return merged, nil
}

// scanRange pushes rows [lo, hi) into srch, restricted to filter when set.
func scanRange(ctx context.Context, sc *vectorstore.Scorer, srch *searcher.Searcher, lo, hi int, filter *roaring.Bitmap) error {
	if filter != nil {
		it := filter.Iterator()
		it.AdvanceIfNeeded(uint32(lo))

		for i := 0; it.HasNext(); i++ {
			if i&ctxCheckMask == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			id := it.Next()
			if int(id) >= hi {
				break
			}

			srch.Heap.Push(searcher.Item{ID: id, Distance: sc.Score(int(id))})
			srch.OpsPerformed++
		}

		return nil
	}

	var scores [scoreBlock]float32

	for base := lo; base < hi; base += scoreBlock {
		if (base-lo)&ctxCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		block := scores[:min(scoreBlock, hi-base)]
		sc.ScoreRange(base, block)

		for i, d := range block {
			srch.Heap.Push(searcher.Item{ID: uint32(base + i), Distance: d})
		}
	}
	srch.OpsPerformed += hi - lo

	return nil
}
