package vecshard

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/vecshard/distance"
	"github.com/hupe1980/vecshard/internal/resource"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   error
		not  []error
	}{
		{
			name: "dimension mismatch",
			err:  &ErrDimensionMismatch{Expected: 3, Actual: 2},
			is:   ErrShapeMismatch,
			not:  []error{ErrInvalidArgument},
		},
		{
			name: "misaligned buffer",
			err:  &ErrMisalignedBuffer{Length: 5, Dimension: 2},
			is:   ErrShapeMismatch,
			not:  []error{ErrInvalidArgument},
		},
		{
			name: "invalid dimension",
			err:  &ErrInvalidDimension{Dimension: 0},
			is:   ErrInvalidArgument,
			not:  []error{ErrShapeMismatch},
		},
		{
			name: "unknown metric",
			err:  &ErrUnknownMetric{Name: "x"},
			is:   ErrInvalidArgument,
		},
		{
			name: "invalid k",
			err:  &ErrInvalidK{K: 0},
			is:   ErrInvalidArgument,
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("query: %w", &ErrInvalidK{K: -1}),
			is:   ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.is)
			for _, other := range tt.not {
				assert.NotErrorIs(t, tt.err, other)
			}
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "dimension mismatch: expected 3, got 2", (&ErrDimensionMismatch{Expected: 3, Actual: 2}).Error())
	assert.Equal(t, "invalid dimension: 0", (&ErrInvalidDimension{Dimension: 0}).Error())
	assert.Equal(t,
		"invalid dimension 3 for metric haversine: want 2",
		(&ErrInvalidDimension{Dimension: 3, Want: 2, Metric: distance.MetricHaversine}).Error(),
	)
}

func TestUnknownMetricUnwrap(t *testing.T) {
	cause := errors.New("parse failure")
	err := &ErrUnknownMetric{Name: "x", cause: cause}

	assert.ErrorIs(t, err, cause)
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	err := translateError(fmt.Errorf("fit: %w", resource.ErrMemoryLimitExceeded))
	assert.ErrorIs(t, err, ErrResourceExhausted)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)

	plain := errors.New("other")
	assert.Equal(t, plain, translateError(plain))
}
