package searcher

import "sync"

// Searcher is a reusable execution context for a scan over one shard or one
// chunk of it.
//
// Searcher is NOT thread-safe. It is intended to be owned by a single goroutine
// during a search operation.
type Searcher struct {
	// Heap holds the best candidates found so far.
	Heap *TopK

	// Results is a reusable buffer the heap is drained into.
	Results []Item

	// OpsPerformed tracks the number of distance calculations.
	OpsPerformed int
}

var searcherPool = sync.Pool{
	New: func() any {
		return NewSearcher(16)
	},
}

// NewSearcher creates a new searcher bounded to k results.
func NewSearcher(k int) *Searcher {
	return &Searcher{
		Heap:    NewTopK(k),
		Results: make([]Item, 0, k),
	}
}

// Get returns a Searcher from the pool, reset for k results.
func Get(k int) *Searcher {
	s := searcherPool.Get().(*Searcher)
	s.Reset(k)
	return s
}

// Put returns a Searcher to the pool.
func Put(s *Searcher) {
	if s == nil {
		return
	}
	searcherPool.Put(s)
}

// Reset clears the searcher state for reuse.
func (s *Searcher) Reset(k int) {
	s.Heap.Reset(k)
	s.Results = s.Results[:0]
	s.OpsPerformed = 0
}
