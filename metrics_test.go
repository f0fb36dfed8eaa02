package vecshard

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicMetricsCollector(t *testing.T) {
	mc := &BasicMetricsCollector{}

	mc.RecordInitShard(time.Millisecond, nil)
	mc.RecordInitShard(time.Millisecond, errors.New("boom"))
	mc.RecordFit(10, 4*time.Millisecond, nil)
	mc.RecordFit(0, 2*time.Millisecond, errors.New("boom"))
	mc.RecordQuery(5, 5, 2*time.Microsecond, nil)
	mc.RecordQuery(5, 0, 4*time.Microsecond, errors.New("boom"))
	mc.RecordMemory(128)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.InitShardCount)
	assert.Equal(t, int64(1), stats.InitShardErrors)
	assert.Equal(t, int64(2), stats.FitCount)
	assert.Equal(t, int64(1), stats.FitErrors)
	assert.Equal(t, int64(10), stats.FitVectors)
	assert.Equal(t, (3 * time.Millisecond).Nanoseconds(), stats.FitAvgNanos)
	assert.Equal(t, int64(2), stats.QueryCount)
	assert.Equal(t, int64(1), stats.QueryErrors)
	assert.Equal(t, int64(5), stats.QueryResults)
	assert.Equal(t, (3 * time.Microsecond).Nanoseconds(), stats.QueryAvgNanos)
	assert.Equal(t, int64(128), stats.MemoryBytes)
}

func TestEngineRecordsMetrics(t *testing.T) {
	ctx := t.Context()
	mc := &BasicMetricsCollector{}
	eng := newTestEngine(t, WithMetricsCollector(mc))

	require.NoError(t, eng.InitShard(ctx, "s", "euclidean", 2))
	require.Error(t, eng.InitShard(ctx, "s", "euclidean", 0))
	require.NoError(t, eng.Fit(ctx, []float32{1, 1, 2, 2, 3, 3}))

	out := make([]uint32, 2)
	_, err := eng.Query(ctx, []float32{0, 0}, 2, out)
	require.NoError(t, err)
	_, err = eng.Query(ctx, []float32{0}, 2, out)
	require.Error(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.InitShardCount)
	assert.Equal(t, int64(1), stats.InitShardErrors)
	assert.Equal(t, int64(3), stats.FitVectors)
	assert.Equal(t, int64(2), stats.QueryCount)
	assert.Equal(t, int64(1), stats.QueryErrors)
	assert.Equal(t, int64(2), stats.QueryResults)
	assert.Equal(t, int64(24), stats.MemoryBytes)
}

func TestEngineLogs(t *testing.T) {
	ctx := t.Context()
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	eng := newTestEngine(t, WithLogger(logger))

	require.NoError(t, eng.InitShard(ctx, "s", "cosine", 2))
	require.NoError(t, eng.InitShard(ctx, "s", "cosine", 2))
	require.NoError(t, eng.Fit(ctx, []float32{1, 0}))
	_, err := eng.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.NoError(t, eng.Drop(ctx, "s"))

	out := buf.String()
	assert.Contains(t, out, `msg="shard initialized" shard=s metric=cosine dimension=2 replaced=false`)
	assert.Contains(t, out, "replaced=true")
	assert.Contains(t, out, `msg="fit completed" shard=s count=1 generation=1`)
	assert.Contains(t, out, `msg="query completed" shard=s k=1 results=1`)
	assert.Contains(t, out, `msg="shard dropped" shard=s`)
	assert.Equal(t, 5, strings.Count(out, "\n"))
}

func TestNilOptionsFallBackToNoop(t *testing.T) {
	ctx := t.Context()
	eng := newTestEngine(t, WithLogger(nil), WithMetricsCollector(nil), WithParallelism(0), WithParallelThreshold(-1))

	require.NoError(t, eng.InitShard(ctx, "s", "dot", 1))
	require.NoError(t, eng.Fit(ctx, []float32{1, 2}))

	results, err := eng.Search(ctx, []float32{1}, 2)
	require.NoError(t, err)
	assert.Equal(t, []Result{{ID: 1, Distance: -2}, {ID: 0, Distance: -1}}, results)
}
