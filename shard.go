package vecshard

import (
	"sync"
	"time"

	"github.com/hupe1980/vecshard/distance"
	"github.com/hupe1980/vecshard/internal/vectorstore"
)

// shard is one named dataset: a fixed metric and dimension plus the store
// loaded by the latest Fit.
//
// Lock ordering: Engine.mu may be held while acquiring shard.mu, never the
// reverse.
type shard struct {
	name    string
	metric  distance.Metric
	kernel  distance.Func
	dim     int
	created time.Time

	mu         sync.RWMutex
	store      *vectorstore.Store // nil until the first Fit
	generation uint64
	dropped    bool
}

func newShard(name string, metric distance.Metric, dim int) (*shard, error) {
	kernel, err := metric.Kernel()
	if err != nil {
		return nil, err
	}
	return &shard{
		name:    name,
		metric:  metric,
		kernel:  kernel,
		dim:     dim,
		created: time.Now(),
	}, nil
}

// drop discards the store once in-flight readers have finished and returns
// the bytes it held.
func (s *shard) drop() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	released := s.store.SizeBytes()
	s.store = nil
	s.dropped = true
	return released
}

// info must be called with s.mu held.
func (s *shard) info() ShardInfo {
	return ShardInfo{
		Name:       s.name,
		Metric:     s.metric,
		Dimension:  s.dim,
		Count:      s.store.Count(),
		SizeBytes:  s.store.SizeBytes(),
		Generation: s.generation,
		CreatedAt:  s.created,
	}
}

// ShardInfo describes a shard.
type ShardInfo struct {
	Name      string
	Metric    distance.Metric
	Dimension int
	// Count is the number of vectors loaded by the latest Fit.
	Count     int
	SizeBytes int64
	// Generation increments on every successful Fit.
	Generation uint64
	CreatedAt  time.Time
}
