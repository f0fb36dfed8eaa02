// Package distance provides the metrics a shard can be configured with.
// Float32 kernels come from internal/simd and use SIMD when available.
package distance

import (
	"fmt"
	"math"
	"strings"

	"github.com/chewxy/math32"
	"github.com/hupe1980/vecshard/internal/simd"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	return simd.Dot(a, b)
}

// SquaredEuclidean calculates the squared L2 distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredEuclidean(a, b []float32) float32 {
	return simd.SquaredL2(a, b)
}

// Euclidean calculates the L2 distance between two vectors.
func Euclidean(a, b []float32) float32 {
	return math32.Sqrt(simd.SquaredL2(a, b))
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float32 {
	return math32.Sqrt(simd.Dot(v, v))
}

// Cosine returns the cosine distance 1 - cos(a, b), clamped to [0, 2].
// A zero vector is treated as orthogonal to everything.
func Cosine(a, b []float32) float32 {
	return CosineWithNorms(a, b, Norm(a), Norm(b))
}

// CosineWithNorms is Cosine with precomputed L2 norms.
func CosineWithNorms(a, b []float32, normA, normB float32) float32 {
	if normA == 0 || normB == 0 {
		return 1
	}
	sim := simd.Dot(a, b) / (normA * normB)
	// Rounding can push |sim| slightly past 1.
	switch {
	case sim > 1:
		sim = 1
	case sim < -1:
		sim = -1
	}
	return 1 - sim
}

// EarthRadius is the mean earth radius in meters used by Haversine.
const EarthRadius = 6371000

const degToRad = math.Pi / 180

// Haversine returns the great-circle distance in meters between two
// [latitude, longitude] points given in degrees. Only the first two
// components of each vector are read. The trigonometry runs in float64:
// float32 asin loses meter-level resolution for nearby points.
func Haversine(a, b []float32) float32 {
	latA, lonA := float64(a[0])*degToRad, float64(a[1])*degToRad
	latB, lonB := float64(b[0])*degToRad, float64(b[1])*degToRad
	sinDLat, sinDLon := math.Sin((latA-latB)/2), math.Sin((lonA-lonB)/2)
	h := sinDLat*sinDLat + math.Cos(latA)*math.Cos(latB)*sinDLon*sinDLon
	return float32(2 * EarthRadius * math.Asin(math.Sqrt(min(h, 1))))
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm := Norm(v)
	if norm == 0 {
		return false
	}
	simd.ScaleInPlace(v, 1/norm)
	return true
}

// Metric represents the distance metric used for vector comparison.
// For every metric a smaller score means closer.
type Metric int

const (
	MetricEuclidean Metric = iota
	MetricCosine
	MetricDot
	MetricHaversine
)

func (m Metric) String() string {
	switch m {
	case MetricEuclidean:
		return "euclidean"
	case MetricCosine:
		return "cosine"
	case MetricDot:
		return "dot"
	case MetricHaversine:
		return "haversine"
	default:
		return fmt.Sprintf("unknown(%d)", m)
	}
}

// Valid reports whether m is one of the known metrics.
func (m Metric) Valid() bool {
	return m >= MetricEuclidean && m <= MetricHaversine
}

// ParseMetric resolves a metric by name. Matching is case-insensitive and
// accepts a few common aliases.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "euclidean", "l2":
		return MetricEuclidean, nil
	case "cosine", "angular":
		return MetricCosine, nil
	case "dot", "ip", "inner_product":
		return MetricDot, nil
	case "haversine":
		return MetricHaversine, nil
	default:
		return 0, fmt.Errorf("unknown metric: %q", name)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float32) float32

// Kernel returns the ranking function for m. Rankings are monotonic in the
// reported distance but may skip work: euclidean ranks on the squared
// distance and dot ranks on the negated product.
func (m Metric) Kernel() (Func, error) {
	switch m {
	case MetricEuclidean:
		return SquaredEuclidean, nil
	case MetricCosine:
		return Cosine, nil
	case MetricDot:
		return negDot, nil
	case MetricHaversine:
		return Haversine, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}

// Finalize converts a ranking score produced by Kernel into the reported
// distance.
func (m Metric) Finalize(score float32) float32 {
	if m == MetricEuclidean {
		return math32.Sqrt(score)
	}
	return score
}

// Distance computes the reported distance between a and b.
func (m Metric) Distance(a, b []float32) (float32, error) {
	fn, err := m.Kernel()
	if err != nil {
		return 0, err
	}
	return m.Finalize(fn(a, b)), nil
}

// NeedsNorms reports whether scoring benefits from cached vector norms.
func (m Metric) NeedsNorms() bool {
	return m == MetricCosine
}

// FixedDimension returns the only dimension m accepts, or 0 if any positive
// dimension is allowed.
func (m Metric) FixedDimension() int {
	if m == MetricHaversine {
		return 2
	}
	return 0
}

func negDot(a, b []float32) float32 {
	return -simd.Dot(a, b)
}
