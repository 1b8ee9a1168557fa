package testing

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/localdb/localdb/lib/store"
)

// BenchStoreFactory creates a fresh, open document store for one benchmark.
type BenchStoreFactory func(b *testing.B) store.DocumentStore

// RunStoreBenchmarks runs all benchmarks for a document store implementation.
func RunStoreBenchmarks(b *testing.B, name string, factory BenchStoreFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Put", func(b *testing.B) {
			benchmarkPut(b, factory(b))
		})
		b.Run("PutExisting", func(b *testing.B) {
			benchmarkPutExisting(b, factory(b))
		})
		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, factory(b))
		})
		b.Run("Delete", func(b *testing.B) {
			benchmarkDelete(b, factory(b))
		})
		b.Run("MixedUsage", func(b *testing.B) {
			benchmarkMixedUsage(b, factory(b))
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchPayload(n int) map[string]interface{} {
	return map[string]interface{}{
		"n":     float64(n),
		"name":  fmt.Sprintf("record-%d", n),
		"flags": []interface{}{"a", "b"},
	}
}

func benchmarkPut(b *testing.B, s store.DocumentStore) {
	b.Cleanup(func() { s.Close() })
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := s.Put(ctx, fmt.Sprintf("bench-%d", i), benchPayload(i)); res.IsErr() {
			b.Fatalf("put failed")
		}
	}
}

func benchmarkPutExisting(b *testing.B, s store.DocumentStore) {
	b.Cleanup(func() { s.Close() })
	ctx := context.Background()

	s.Put(ctx, "bench", benchPayload(0))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := s.Put(ctx, "bench", benchPayload(i)); res.IsErr() {
			b.Fatalf("put failed")
		}
	}
}

func benchmarkGet(b *testing.B, s store.DocumentStore) {
	b.Cleanup(func() { s.Close() })
	ctx := context.Background()

	const keys = 1000
	for i := 0; i < keys; i++ {
		s.Put(ctx, fmt.Sprintf("bench-%d", i), benchPayload(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := fmt.Sprintf("bench-%d", rand.Intn(keys))
		if res := s.Get(ctx, id); res.IsErr() {
			b.Fatalf("get failed")
		}
	}
}

func benchmarkDelete(b *testing.B, s store.DocumentStore) {
	b.Cleanup(func() { s.Close() })
	ctx := context.Background()

	for i := 0; i < b.N; i++ {
		s.Put(ctx, fmt.Sprintf("bench-%d", i), benchPayload(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := s.Delete(ctx, fmt.Sprintf("bench-%d", i)); res.IsErr() {
			b.Fatalf("delete failed")
		}
	}
}

func benchmarkMixedUsage(b *testing.B, s store.DocumentStore) {
	b.Cleanup(func() { s.Close() })
	ctx := context.Background()

	const keys = 256
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := fmt.Sprintf("bench-%d", i%keys)
		switch i % 4 {
		case 0, 1:
			s.Put(ctx, id, benchPayload(i))
		case 2:
			s.Get(ctx, id)
		case 3:
			s.Delete(ctx, id)
		}
	}
}
