package vectorstore

import (
	"testing"

	"github.com/hupe1980/vecshard/distance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("ReshapesFlatBuffer", func(t *testing.T) {
		s, err := New(2, []float32{0, 0, 10, 10, 1, 1}, false)
		require.NoError(t, err)
		assert.Equal(t, 2, s.Dim())
		assert.Equal(t, 3, s.Count())
		assert.Equal(t, []float32{10, 10}, s.Vector(1))
		assert.Equal(t, int64(24), s.SizeBytes())
		assert.False(t, s.HasNorms())
	})

	t.Run("CopiesInput", func(t *testing.T) {
		in := []float32{1, 2, 3}
		s, err := New(3, in, false)
		require.NoError(t, err)
		in[0] = 99
		assert.Equal(t, float32(1), s.Vector(0)[0])
	})

	t.Run("Norms", func(t *testing.T) {
		s, err := New(2, []float32{3, 4, 0, 0}, true)
		require.NoError(t, err)
		assert.True(t, s.HasNorms())
		assert.InDelta(t, float32(5), s.Norm(0), 1e-6)
		assert.Equal(t, float32(0), s.Norm(1))
		assert.Equal(t, int64(24), s.SizeBytes())
	})

	t.Run("InvalidDimension", func(t *testing.T) {
		_, err := New(0, []float32{1}, false)
		assert.ErrorIs(t, err, ErrInvalidDimension)
	})

	t.Run("InvalidLength", func(t *testing.T) {
		for _, n := range []int{0, 1, 2, 4, 5} {
			_, err := New(3, make([]float32, n), false)
			assert.ErrorIs(t, err, ErrInvalidLength, "len=%d", n)
		}
	})
}

func TestCopyVector(t *testing.T) {
	s, err := New(2, []float32{1, 2, 3, 4}, false)
	require.NoError(t, err)

	v, ok := s.CopyVector(1)
	require.True(t, ok)
	assert.Equal(t, []float32{3, 4}, v)
	v[0] = 0
	assert.Equal(t, float32(3), s.Vector(1)[0])

	_, ok = s.CopyVector(2)
	assert.False(t, ok)
	_, ok = s.CopyVector(-1)
	assert.False(t, ok)
}

func TestNilStore(t *testing.T) {
	var s *Store
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 0, s.Dim())
	assert.Equal(t, int64(0), s.SizeBytes())
	assert.False(t, s.HasNorms())
	_, ok := s.CopyVector(0)
	assert.False(t, ok)
}

func TestScorer(t *testing.T) {
	flat := []float32{0, 0, 3, 4, -3, -4}

	t.Run("Euclidean", func(t *testing.T) {
		s, err := New(2, flat, false)
		require.NoError(t, err)
		kernel, err := distance.MetricEuclidean.Kernel()
		require.NoError(t, err)

		sc := s.NewScorer(distance.MetricEuclidean, kernel, []float32{0, 0})
		assert.Equal(t, float32(0), sc.Score(0))
		assert.InDelta(t, float32(25), sc.Score(1), 1e-5)
	})

	t.Run("CosineUsesNorms", func(t *testing.T) {
		s, err := New(2, flat, true)
		require.NoError(t, err)
		kernel, err := distance.MetricCosine.Kernel()
		require.NoError(t, err)

		sc := s.NewScorer(distance.MetricCosine, kernel, []float32{6, 8})
		assert.Equal(t, float32(1), sc.Score(0))
		assert.InDelta(t, float32(0), sc.Score(1), 1e-6)
		assert.InDelta(t, float32(2), sc.Score(2), 1e-6)
	})

	t.Run("Dot", func(t *testing.T) {
		s, err := New(2, flat, false)
		require.NoError(t, err)
		kernel, err := distance.MetricDot.Kernel()
		require.NoError(t, err)

		sc := s.NewScorer(distance.MetricDot, kernel, []float32{1, 1})
		assert.InDelta(t, float32(-7), sc.Score(1), 1e-6)
		assert.InDelta(t, float32(7), sc.Score(2), 1e-6)
	})
}

func TestScoreRange(t *testing.T) {
	flat := []float32{0, 0, 3, 4, -3, -4, 1, 1}

	for _, metric := range []distance.Metric{
		distance.MetricEuclidean, distance.MetricCosine, distance.MetricDot, distance.MetricHaversine,
	} {
		t.Run(metric.String(), func(t *testing.T) {
			s, err := New(2, flat, metric.NeedsNorms())
			require.NoError(t, err)
			kernel, err := metric.Kernel()
			require.NoError(t, err)

			sc := s.NewScorer(metric, kernel, []float32{2, 1})
			out := make([]float32, 3)
			sc.ScoreRange(1, out)

			for i, got := range out {
				assert.Equal(t, sc.Score(1+i), got)
			}
		})
	}
}
