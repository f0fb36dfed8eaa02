package vectorstore

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vecshard/distance"
)

const float32Size = 4

var (
	// ErrInvalidDimension is returned when dim is not positive.
	ErrInvalidDimension = errors.New("dimension must be positive")

	// ErrInvalidLength is returned when the flat buffer is empty or not a
	// multiple of the dimension.
	ErrInvalidLength = errors.New("buffer length is not a positive multiple of the dimension")
)

// Store is an immutable, contiguous block of fixed-length vectors.
type Store struct {
	dim   int
	count int
	data  []float32
	norms []float32 // nil unless built with norms
}

// New copies flat into a new Store. flat must hold a positive multiple of dim
// components. The caller's slice is never retained.
func New(dim int, flat []float32, withNorms bool) (*Store, error) {
	if dim <= 0 {
		return nil, ErrInvalidDimension
	}
	if len(flat) == 0 || len(flat)%dim != 0 {
		return nil, fmt.Errorf("%w: len=%d dim=%d", ErrInvalidLength, len(flat), dim)
	}

	s := &Store{
		dim:   dim,
		count: len(flat) / dim,
		data:  make([]float32, len(flat)),
	}
	copy(s.data, flat)

	if withNorms {
		s.norms = make([]float32, s.count)
		for i := range s.count {
			s.norms[i] = distance.Norm(s.Vector(i))
		}
	}

	return s, nil
}

// SizeFor returns the bytes a store of count vectors would occupy.
func SizeFor(count, dim int, withNorms bool) int64 {
	n := int64(count) * int64(dim)
	if withNorms {
		n += int64(count)
	}
	return n * float32Size
}

// Dim returns the vector dimension.
func (s *Store) Dim() int {
	if s == nil {
		return 0
	}
	return s.dim
}

// Count returns the number of stored vectors.
func (s *Store) Count() int {
	if s == nil {
		return 0
	}
	return s.count
}

// SizeBytes returns the memory held by vector data and norms.
func (s *Store) SizeBytes() int64 {
	if s == nil {
		return 0
	}
	return SizeFor(s.count, s.dim, s.norms != nil)
}

// Vector returns a read-only view of row id. It performs no bounds checking
// beyond the slice expression.
func (s *Store) Vector(id int) []float32 {
	off := id * s.dim
	return s.data[off : off+s.dim : off+s.dim]
}

// Norm returns the cached L2 norm of row id, computing it if the store was
// built without norms.
func (s *Store) Norm(id int) float32 {
	if s.norms != nil {
		return s.norms[id]
	}
	return distance.Norm(s.Vector(id))
}

// HasNorms reports whether norms were precomputed.
func (s *Store) HasNorms() bool {
	return s != nil && s.norms != nil
}

// CopyVector returns a copy of row id, or false if id is out of range.
func (s *Store) CopyVector(id int) ([]float32, bool) {
	if id < 0 || id >= s.Count() {
		return nil, false
	}
	out := make([]float32, s.dim)
	copy(out, s.Vector(id))
	return out, true
}
