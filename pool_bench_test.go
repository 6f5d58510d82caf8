package stackpool

import (
	"bytes"
	"testing"
)

func BenchmarkPush(b *testing.B) {
	pool := New[int](WithCapacity(b.N))

	b.ResetTimer()

	s := pool.NewStack()
	for i := 0; i < b.N; i++ {
		s = pool.Push(i, s)
	}
}

func BenchmarkPushPop(b *testing.B) {
	pool := New[int](WithCapacity(1))

	b.ResetTimer()

	// Steady state: every push is served from the free list.
	for i := 0; i < b.N; i++ {
		s := pool.Push(i, End)
		pool.Pop(s)
	}
}

func BenchmarkFreeStack(b *testing.B) {
	const depth = 128

	pool := New[int](WithCapacity(depth))

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s := pool.NewStack()
		for v := 0; v < depth; v++ {
			s = pool.Push(v, s)
		}
		pool.FreeStack(s)
	}
}

func BenchmarkValues(b *testing.B) {
	const depth = 1024

	pool := New[int](WithCapacity(depth))

	s := pool.NewStack()
	for v := 0; v < depth; v++ {
		s = pool.Push(v, s)
	}

	b.ResetTimer()

	var sink int
	for i := 0; i < b.N; i++ {
		for v := range pool.Values(s) {
			sink += v
		}
	}
	_ = sink
}

func BenchmarkCursor(b *testing.B) {
	const depth = 1024

	pool := New[int](WithCapacity(depth))

	s := pool.NewStack()
	for v := 0; v < depth; v++ {
		s = pool.Push(v, s)
	}

	b.ResetTimer()

	var sink int
	for i := 0; i < b.N; i++ {
		for c := pool.Begin(s); c.Valid(); c.Next() {
			sink += c.Value()
		}
	}
	_ = sink
}

func BenchmarkWriteSnapshot(b *testing.B) {
	pool := New[int](WithCapacity(4096), WithCompression(CompressionZSTD))

	s := pool.NewStack()
	for v := 0; v < 4096; v++ {
		s = pool.Push(v, s)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		if err := pool.WriteSnapshot(&buf); err != nil {
			b.Fatal(err)
		}
	}
}
