package docstore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/shelf/internal/storage"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// newBenchStore returns a file-backed store seeded with n rows in "items".
func newBenchStore(b *testing.B, n int) *Store {
	b.Helper()
	s, err := New(filepath.Join(b.TempDir(), "bench.json"), storage.NewFile())
	if err != nil {
		b.Fatalf("failed to create store: %v", err)
	}
	b.Cleanup(func() { s.Close() })

	ctx := context.Background()
	for i := range n {
		if _, err := s.Create(ctx, "items", types.Row{"name": fmt.Sprintf("item %d", i)}); err != nil {
			b.Fatalf("failed to seed row %d: %v", i, err)
		}
	}
	return s
}

func BenchmarkCreate(b *testing.B) {
	for _, size := range []int{0, 100, 1000} {
		b.Run(fmt.Sprintf("rows=%d", size), func(b *testing.B) {
			s := newBenchStore(b, size)
			ctx := context.Background()
			for b.Loop() {
				if _, err := s.Create(ctx, "items", types.Row{"name": "bench"}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkGetByID(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("rows=%d", size), func(b *testing.B) {
			s := newBenchStore(b, size)
			ctx := context.Background()
			i := 0
			for b.Loop() {
				if _, err := s.GetByID(ctx, "items", i%size); err != nil {
					b.Fatal(err)
				}
				i++
			}
		})
	}
}
