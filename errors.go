package vecshard

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vecshard/distance"
	"github.com/hupe1980/vecshard/internal/resource"
)

var (
	// ErrInvalidArgument is returned for a bad dimension, k, metric name or
	// output buffer.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrShapeMismatch is returned when a buffer length does not fit the
	// shard dimension.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrNotInitialized is returned when no shard is active or the named
	// shard does not exist.
	ErrNotInitialized = errors.New("shard not initialized")

	// ErrEmptyIndex is returned when querying a shard that holds no vectors.
	ErrEmptyIndex = errors.New("empty index")

	// ErrNotFound is returned when a vector id is outside the shard.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned when an operation is attempted on a closed engine.
	ErrClosed = errors.New("engine closed")

	// ErrResourceExhausted is returned when a configured resource limit
	// rejects the operation.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrMemoryLimitExceeded is returned by Fit when the new store does not
	// fit the memory budget. It matches ErrResourceExhausted.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
// It matches ErrShapeMismatch.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Is(target error) bool { return target == ErrShapeMismatch }

// ErrMisalignedBuffer indicates a flat buffer whose length is zero or not a
// multiple of the shard dimension. It matches ErrShapeMismatch.
type ErrMisalignedBuffer struct {
	Length    int
	Dimension int
}

func (e *ErrMisalignedBuffer) Error() string {
	return fmt.Sprintf("buffer length %d is not a positive multiple of dimension %d", e.Length, e.Dimension)
}

func (e *ErrMisalignedBuffer) Is(target error) bool { return target == ErrShapeMismatch }

// ErrInvalidDimension indicates an invalid configured dimension.
// It matches ErrInvalidArgument.
type ErrInvalidDimension struct {
	Dimension int
	// Want is non-zero when the metric only accepts one dimension.
	Want   int
	Metric distance.Metric
}

func (e *ErrInvalidDimension) Error() string {
	if e.Want != 0 {
		return fmt.Sprintf("invalid dimension %d for metric %s: want %d", e.Dimension, e.Metric, e.Want)
	}
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

func (e *ErrInvalidDimension) Is(target error) bool { return target == ErrInvalidArgument }

// ErrUnknownMetric indicates an unsupported metric name.
// The original underlying error can be accessed via errors.Unwrap.
type ErrUnknownMetric struct {
	Name  string
	cause error
}

func (e *ErrUnknownMetric) Error() string {
	return fmt.Sprintf("unknown metric: %q", e.Name)
}

func (e *ErrUnknownMetric) Unwrap() error { return e.cause }

func (e *ErrUnknownMetric) Is(target error) bool { return target == ErrInvalidArgument }

// ErrInvalidK indicates a non-positive neighbour count.
// It matches ErrInvalidArgument.
type ErrInvalidK struct {
	K int
}

func (e *ErrInvalidK) Error() string {
	return fmt.Sprintf("k must be positive, got %d", e.K)
}

func (e *ErrInvalidK) Is(target error) bool { return target == ErrInvalidArgument }

// translateError maps internal errors to the public taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, resource.ErrMemoryLimitExceeded) && !errors.Is(err, ErrResourceExhausted) {
		return fmt.Errorf("%w: %w", ErrResourceExhausted, err)
	}
	return err
}
