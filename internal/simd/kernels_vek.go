package simd

import "github.com/viterin/vek/vek32"

// vek32 ships AVX2 assembly for the reductions we need and dispatches on its
// own, so these wrappers only adapt the signatures. vek32 panics on empty
// input, which the generic kernels treat as zero.

// l2Block is the stack buffer length squaredL2Vek subtracts into.
const l2Block = 256

func dotVek(a, b []float32) float32 {
	if len(a) == 0 {
		return 0
	}
	return vek32.Dot(a, b[:len(a)])
}

// squaredL2Vek sums squared differences without the root vek32.Distance
// takes, so rankings see the exact squared distance and a vector is at 0
// from itself.
func squaredL2Vek(a, b []float32) float32 {
	b = b[:len(a)]

	var (
		buf [l2Block]float32
		sum float32
	)
	for lo := 0; lo < len(a); lo += l2Block {
		hi := min(lo+l2Block, len(a))
		d := vek32.Sub_Into(buf[:hi-lo], a[lo:hi], b[lo:hi])
		sum += vek32.Dot(d, d)
	}
	return sum
}

func scaleVek(a []float32, scalar float32) {
	vek32.MulNumber_Inplace(a, scalar)
}
