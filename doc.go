// Package vecshard provides an in-memory exact k-nearest-neighbour engine over
// fixed-dimension float32 vectors, addressed by named shards.
//
// A shard is configured once with a metric and a dimension, bulk-loaded with
// Fit, and queried with Query or Search. Every query is an exhaustive scan,
// so results are exact: up to k ids ordered by ascending distance with ties
// broken by ascending id.
//
// # Quick Start
//
//	ctx := context.Background()
//	eng := vecshard.New()
//	defer eng.Close()
//
//	_ = eng.InitShard(ctx, "points", "euclidean", 2)
//	_ = eng.Fit(ctx, []float32{0, 0, 10, 10, 1, 1})
//
//	out := make([]uint32, 2)
//	n, _ := eng.Query(ctx, []float32{0.1, 0.1}, 2, out)
//	fmt.Println(out[:n]) // [0 2]
//
// # Active Shard
//
// InitShard makes the named shard active. Fit, Query and Search operate on the
// active shard; FitShard, QueryShard and SearchShard address a shard by name.
// Calling InitShard again with an existing name discards its contents.
//
// # Metrics
//
// Metric names are resolved once, at InitShard:
//
//   - "euclidean" (alias "l2"): ranked on the squared distance, reported as the root
//   - "cosine" (alias "angular"): 1 - cos(a, b); zero vectors sit at distance 1
//   - "dot" (aliases "ip", "inner_product"): the negated dot product
//   - "haversine": great-circle metres between [lat, lon] pairs in degrees
//
// # Search with Distances
//
//	results, _ := eng.Search(ctx, query, 10, vecshard.WithFilter(allowed))
//	for _, r := range results {
//	    fmt.Println(r.ID, r.Distance)
//	}
//
// # Errors
//
// All failures are returned synchronously and match one of the sentinels
// with errors.Is:
//
//	ErrInvalidArgument   bad dimension, k, metric name or output buffer
//	ErrShapeMismatch     buffer length does not fit the shard dimension
//	ErrNotInitialized    no active shard or unknown shard name
//	ErrEmptyIndex        query against a shard with no vectors
//	ErrResourceExhausted memory budget exceeded
//
// # Concurrency
//
// Engine is safe for concurrent use. Queries on a shard run in parallel with
// each other; Fit and shard replacement wait for in-flight queries on that
// shard and never expose a partially loaded store.
package vecshard
