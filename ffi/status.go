package ffi

import (
	"errors"

	"github.com/hupe1980/vecshard"
)

// Status is the integer code reported across the C boundary.
type Status int32

const (
	OK                Status = 0
	InvalidArgument   Status = 1
	ShapeMismatch     Status = 2
	NotInitialized    Status = 3
	EmptyIndex        Status = 4
	ResourceExhausted Status = 5
	Internal          Status = 6
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case InvalidArgument:
		return "invalid argument"
	case ShapeMismatch:
		return "shape mismatch"
	case NotInitialized:
		return "not initialized"
	case EmptyIndex:
		return "empty index"
	case ResourceExhausted:
		return "resource exhausted"
	default:
		return "internal"
	}
}

// StatusOf maps an engine error to its status code.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, vecshard.ErrShapeMismatch):
		return ShapeMismatch
	case errors.Is(err, vecshard.ErrInvalidArgument), errors.Is(err, ErrInvalidView):
		return InvalidArgument
	case errors.Is(err, vecshard.ErrNotInitialized):
		return NotInitialized
	case errors.Is(err, vecshard.ErrEmptyIndex):
		return EmptyIndex
	case errors.Is(err, vecshard.ErrResourceExhausted):
		return ResourceExhausted
	default:
		return Internal
	}
}
