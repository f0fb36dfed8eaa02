package simd

// Kernel function pointers - set once at init, zero runtime overhead.
// Generic implementations are the default; capability init overrides
// them with accelerated versions when available.
var (
	kernelDot            = dotGeneric
	kernelSquaredL2      = squaredL2Generic
	kernelScale          = scaleGeneric
	kernelDotBatch       = dotBatchGeneric
	kernelSquaredL2Batch = squaredL2BatchGeneric
)

// Dot calculates the dot product of two vectors.
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func Dot(a, b []float32) float32 {
	return kernelDot(a, b)
}

// SquaredL2 calculates the squared L2 distance.
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func SquaredL2(a, b []float32) float32 {
	return kernelSquaredL2(a, b)
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace(a []float32, scalar float32) {
	kernelScale(a, scalar)
}

// DotBatch calculates dot products for a batch of vectors.
// targets is a flattened array of N vectors, each of dimension dim.
// out must have length N (len(targets) / dim).
func DotBatch(query []float32, targets []float32, dim int, out []float32) {
	kernelDotBatch(query, targets, dim, out)
}

// SquaredL2Batch calculates squared L2 distance for a batch.
func SquaredL2Batch(query []float32, targets []float32, dim int, out []float32) {
	kernelSquaredL2Batch(query, targets, dim, out)
}

// ============================================================================
// Generic implementations
// ============================================================================

// dotGeneric is unrolled by four so the compiler keeps independent
// accumulators in registers.
func dotGeneric(a, b []float32) float32 {
	n := len(a)
	b = b[:n]
	var s0, s1, s2, s3 float32
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	for ; i < n; i++ {
		s0 += a[i] * b[i]
	}
	return (s0 + s1) + (s2 + s3)
}

func squaredL2Generic(a, b []float32) float32 {
	n := len(a)
	b = b[:n]
	var s0, s1, s2, s3 float32
	i := 0
	for ; i+4 <= n; i += 4 {
		d0 := a[i] - b[i]
		d1 := a[i+1] - b[i+1]
		d2 := a[i+2] - b[i+2]
		d3 := a[i+3] - b[i+3]
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
	}
	for ; i < n; i++ {
		d := a[i] - b[i]
		s0 += d * d
	}
	return (s0 + s1) + (s2 + s3)
}

func scaleGeneric(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

func dotBatchGeneric(query []float32, targets []float32, dim int, out []float32) {
	batchGeneric(query, targets, dim, out, kernelDot)
}

func squaredL2BatchGeneric(query []float32, targets []float32, dim int, out []float32) {
	batchGeneric(query, targets, dim, out, kernelSquaredL2)
}

func batchGeneric(query, targets []float32, dim int, out []float32, fn func(a, b []float32) float32) {
	if dim <= 0 || len(out) == 0 || len(query) < dim {
		return
	}

	q := query[:dim]
	n := min(len(out), len(targets)/dim)

	for i := 0; i < n; i++ {
		offset := i * dim
		out[i] = fn(q, targets[offset:offset+dim])
	}
}
