// Package distance provides vector distance calculations with SIMD acceleration.
//
// # Supported Metrics
//
//   - MetricEuclidean: L2 distance (ranked on the squared form)
//   - MetricCosine: 1 - cosine similarity
//   - MetricDot: negated inner product
//   - MetricHaversine: great-circle meters between [lat, lon] pairs
//
// Metrics are resolved by name once with ParseMetric and dispatched through
// a closed set of kernels.
//
// # Usage
//
//	m, err := distance.ParseMetric("euclidean")
//	fn, _ := m.Kernel()
//	d := m.Finalize(fn(a, b))
package distance
