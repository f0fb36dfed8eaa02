package vecshard

import (
	"fmt"
	"testing"

	"github.com/hupe1980/vecshard/testutil"
)

// BenchmarkFit benchmarks bulk ingestion
func BenchmarkFit(b *testing.B) {
	for _, dim := range []int{128, 768} {
		b.Run(fmt.Sprintf("dim=%d", dim), func(b *testing.B) {
			ctx := b.Context()
			eng := New()
			defer eng.Close()

			if err := eng.InitShard(ctx, "bench", "euclidean", dim); err != nil {
				b.Fatal(err)
			}
			data := testutil.NewRNG(1).UniformFlat(10_000, dim)

			b.SetBytes(int64(len(data) * 4))
			for b.Loop() {
				if err := eng.Fit(ctx, data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkQuery benchmarks exact KNN queries
func BenchmarkQuery(b *testing.B) {
	const dim = 128

	for _, size := range []int{1_000, 100_000} {
		for _, metric := range []string{"euclidean", "cosine", "dot"} {
			b.Run(fmt.Sprintf("n=%d/%s", size, metric), func(b *testing.B) {
				ctx := b.Context()
				eng := New()
				defer eng.Close()

				rng := testutil.NewRNG(1)
				if err := eng.InitShard(ctx, "bench", metric, dim); err != nil {
					b.Fatal(err)
				}
				if err := eng.Fit(ctx, rng.UniformFlat(size, dim)); err != nil {
					b.Fatal(err)
				}

				q := rng.UniformFlat(1, dim)
				out := make([]uint32, 10)

				b.ReportAllocs()
				for b.Loop() {
					if _, err := eng.Query(ctx, q, 10, out); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// BenchmarkQueryParallelScan compares sequential and chunked scans
func BenchmarkQueryParallelScan(b *testing.B) {
	const (
		dim  = 128
		size = 200_000
	)

	data := testutil.NewRNG(1).UniformFlat(size, dim)
	q := testutil.NewRNG(2).UniformFlat(1, dim)

	for _, par := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("parallelism=%d", par), func(b *testing.B) {
			ctx := b.Context()
			eng := New(WithParallelism(par))
			defer eng.Close()

			if err := eng.InitShard(ctx, "bench", "euclidean", dim); err != nil {
				b.Fatal(err)
			}
			if err := eng.Fit(ctx, data); err != nil {
				b.Fatal(err)
			}

			for b.Loop() {
				if _, err := eng.Search(ctx, q, 10); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
