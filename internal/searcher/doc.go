// Package searcher provides pooled search context for zero-allocation queries.
//
// The Searcher struct owns the reusable resources needed by an exhaustive
// scan:
//   - a bounded max-heap holding the best k candidates seen so far
//   - a result buffer the heap is drained into
//
// Searchers are managed by a package-level pool for reuse across queries.
package searcher
