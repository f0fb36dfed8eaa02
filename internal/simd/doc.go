// Package simd provides the float32 kernels used by the distance package.
//
// # Supported Platforms
//
//   - x86-64: AVX2+FMA through github.com/viterin/vek
//   - everything else: unrolled pure Go
//
// Runtime CPU feature detection (golang.org/x/sys/cpu) selects the kernel set
// once at package init. Set VECSHARD_SIMD=generic to force the Go fallback.
//
// # Operations
//
//   - Distance: Dot, SquaredL2
//   - Batch: DotBatch, SquaredL2Batch
//   - Utility: ScaleInPlace
package simd
