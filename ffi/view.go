package ffi

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrInvalidView is returned when a raw pointer and length do not describe
// a usable buffer.
var ErrInvalidView = errors.New("invalid buffer view")

// maxViewLen caps raw lengths so that byte sizes cannot overflow.
const maxViewLen = 1 << 40

// Float32View is a bounds-checked, read-only view of caller-owned float32
// memory. Views are only valid for the duration of the call they were built
// for.
type Float32View struct {
	data []float32
}

// Float32s wraps a Go slice.
func Float32s(s []float32) Float32View {
	return Float32View{data: s}
}

// Float32ViewFromRaw builds a view over n floats starting at ptr.
// A nil pointer is only accepted together with n == 0.
func Float32ViewFromRaw(ptr unsafe.Pointer, n int) (Float32View, error) {
	if err := checkRaw(ptr, n); err != nil {
		return Float32View{}, err
	}
	if n == 0 {
		return Float32View{}, nil
	}
	return Float32View{data: unsafe.Slice((*float32)(ptr), n)}, nil
}

// Len returns the number of elements.
func (v Float32View) Len() int {
	return len(v.data)
}

// At returns element i.
func (v Float32View) At(i int) (float32, error) {
	if i < 0 || i >= len(v.data) {
		return 0, fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidView, i, len(v.data))
	}
	return v.data[i], nil
}

// Slice exposes the viewed memory. The engine copies what it keeps, so the
// slice never outlives the call.
func (v Float32View) Slice() []float32 {
	return v.data
}

// Uint32View is a bounds-checked, writable view of caller-owned uint32
// memory.
type Uint32View struct {
	data []uint32
}

// Uint32s wraps a Go slice.
func Uint32s(s []uint32) Uint32View {
	return Uint32View{data: s}
}

// Uint32ViewFromRaw builds a view over n uint32s starting at ptr.
// A nil pointer is only accepted together with n == 0.
func Uint32ViewFromRaw(ptr unsafe.Pointer, n int) (Uint32View, error) {
	if err := checkRaw(ptr, n); err != nil {
		return Uint32View{}, err
	}
	if n == 0 {
		return Uint32View{}, nil
	}
	return Uint32View{data: unsafe.Slice((*uint32)(ptr), n)}, nil
}

// Len returns the number of elements.
func (v Uint32View) Len() int {
	return len(v.data)
}

// Set stores id at index i.
func (v Uint32View) Set(i int, id uint32) error {
	if i < 0 || i >= len(v.data) {
		return fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidView, i, len(v.data))
	}
	v.data[i] = id
	return nil
}

// Slice exposes the viewed memory.
func (v Uint32View) Slice() []uint32 {
	return v.data
}

func checkRaw(ptr unsafe.Pointer, n int) error {
	switch {
	case n < 0:
		return fmt.Errorf("%w: negative length %d", ErrInvalidView, n)
	case n > maxViewLen:
		return fmt.Errorf("%w: length %d exceeds %d", ErrInvalidView, n, maxViewLen)
	case ptr == nil && n > 0:
		return fmt.Errorf("%w: nil pointer with length %d", ErrInvalidView, n)
	}
	return nil
}
