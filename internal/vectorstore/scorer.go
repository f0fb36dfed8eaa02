package vectorstore

import (
	"github.com/hupe1980/vecshard/distance"
	"github.com/hupe1980/vecshard/internal/simd"
)

// Scorer computes ranking scores of one query against rows of a Store.
// It is a value type; building one does not allocate.
type Scorer struct {
	store  *Store
	metric distance.Metric
	kernel distance.Func
	query  []float32
	qNorm  float32
}

// NewScorer binds query to the store with a metric and its resolved kernel.
// len(query) must equal the store dimension.
func (s *Store) NewScorer(metric distance.Metric, kernel distance.Func, query []float32) Scorer {
	sc := Scorer{
		store:  s,
		metric: metric,
		kernel: kernel,
		query:  query,
	}
	if metric == distance.MetricCosine {
		sc.qNorm = distance.Norm(query)
	}
	return sc
}

// Score returns the ranking score of row id.
func (sc *Scorer) Score(id int) float32 {
	v := sc.store.Vector(id)
	if sc.metric == distance.MetricCosine {
		return distance.CosineWithNorms(sc.query, v, sc.qNorm, sc.store.Norm(id))
	}
	return sc.kernel(sc.query, v)
}

// ScoreRange writes the ranking scores of rows [lo, lo+len(out)) into out.
// Every score equals what Score returns for the same row.
func (sc *Scorer) ScoreRange(lo int, out []float32) {
	dim := sc.store.dim
	rows := sc.store.data[lo*dim : (lo+len(out))*dim]

	switch sc.metric {
	case distance.MetricEuclidean:
		simd.SquaredL2Batch(sc.query, rows, dim, out)
	case distance.MetricDot:
		simd.DotBatch(sc.query, rows, dim, out)
		for i := range out {
			out[i] = -out[i]
		}
	default:
		for i := range out {
			out[i] = sc.Score(lo + i)
		}
	}
}
