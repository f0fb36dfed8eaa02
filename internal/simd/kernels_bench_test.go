package simd

import (
	"math/rand"
	"testing"
)

func BenchmarkSquaredL2(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	for _, dim := range []int{128, 768} {
		x, y := randVec(rng, dim), randVec(rng, dim)
		b.Run(ActiveISA().String(), func(b *testing.B) {
			for b.Loop() {
				_ = SquaredL2(x, y)
			}
		})
		b.Run("generic", func(b *testing.B) {
			for b.Loop() {
				_ = squaredL2Generic(x, y)
			}
		})
	}
}
