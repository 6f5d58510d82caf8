package stackpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_NewStack(t *testing.T) {
	pool := New[int]()

	s := pool.NewStack()
	assert.Equal(t, End, s)
	assert.True(t, pool.Empty(s))

	// Every call yields the same sentinel.
	assert.Equal(t, s, pool.NewStack())
}

func TestPool_Push(t *testing.T) {
	pool := New[int]()

	s := pool.NewStack()

	i1 := pool.Push(10, s)
	assert.Equal(t, Index(1), i1)
	assert.Equal(t, 10, pool.Value(i1))
	assert.Equal(t, End, pool.Next(i1))

	i2 := pool.Push(20, i1)
	assert.Equal(t, Index(2), i2)
	assert.Equal(t, 20, pool.Value(i2))
	assert.Equal(t, i1, pool.Next(i2))
}

func TestPool_Pop(t *testing.T) {
	pool := New[int]()

	i1 := pool.Push(10, pool.NewStack())
	i2 := pool.Push(20, i1)

	// Pop is the inverse of Push.
	head := pool.Pop(i2)
	assert.Equal(t, i1, head)
	assert.Equal(t, 10, pool.Value(head))

	// The freed slot is recycled by the next push, to any stack.
	i3 := pool.Push(30, End)
	assert.Equal(t, i2, i3)
	assert.Equal(t, 30, pool.Value(i3))
	assert.Equal(t, End, pool.Next(i3))
}

func TestPool_FreeStack(t *testing.T) {
	pool := New[int]()

	s := pool.NewStack()
	for v := 1; v <= 3; v++ {
		s = pool.Push(v, s)
	}

	s = pool.FreeStack(s)
	assert.Equal(t, End, s)
	assert.True(t, pool.Empty(s))

	// FreeStack pops head-first, so the bottom slot ends up on top of the
	// free list and is reused first.
	i := pool.Push(40, End)
	assert.Equal(t, Index(1), i)
	assert.Equal(t, 40, pool.Value(i))
}

func TestPool_Recycling(t *testing.T) {
	pool := New[int](WithCapacity(8))

	s := pool.NewStack()
	for v := 0; v < 5; v++ {
		s = pool.Push(v, s)
	}

	pool.FreeStack(s)

	// The next 5 pushes reuse the 5 reclaimed slots before the array grows.
	capBefore := pool.Capacity()
	s2 := pool.NewStack()
	for v := 0; v < 5; v++ {
		s2 = pool.Push(v, s2)
		assert.Equal(t, capBefore, pool.Capacity())
	}

	stats := pool.Stats()
	assert.Equal(t, 5, stats.Allocated)
	assert.Equal(t, uint64(5), stats.Recycled)
}

func TestPool_Reserve(t *testing.T) {
	pool := New[int]()
	pool.Reserve(100)
	require.Equal(t, 100, pool.Capacity())

	s := pool.NewStack()
	for v := 0; v < 100; v++ {
		s = pool.Push(v, s)
		assert.Equal(t, 100, pool.Capacity())
	}

	// Reserve never shrinks.
	pool.Reserve(10)
	assert.Equal(t, 100, pool.Capacity())
}

func TestPool_WithCapacity(t *testing.T) {
	pool := New[string](WithCapacity(16))
	assert.Equal(t, 16, pool.Capacity())

	s := pool.Push("a", pool.NewStack())
	assert.Equal(t, "a", pool.Value(s))
	assert.Equal(t, 16, pool.Capacity())
}

func TestPool_ZeroValue(t *testing.T) {
	var pool Pool[int]

	s := pool.Push(1, pool.NewStack())
	assert.Equal(t, Index(1), s)
	assert.Equal(t, 1, pool.Value(s))
}

func TestPool_Ref(t *testing.T) {
	pool := New[int]()

	s := pool.Push(1, pool.NewStack())
	*pool.Ref(s) = 99

	assert.Equal(t, 99, pool.Value(s))
}

func TestPool_Len(t *testing.T) {
	pool := New[int]()

	s := pool.NewStack()
	assert.Equal(t, 0, pool.Len(s))

	for v := 0; v < 7; v++ {
		s = pool.Push(v, s)
	}
	assert.Equal(t, 7, pool.Len(s))

	s = pool.Pop(s)
	assert.Equal(t, 6, pool.Len(s))
}

func TestPool_MultipleStacks(t *testing.T) {
	pool := New[int]()

	s1 := pool.NewStack()
	s2 := pool.NewStack()

	for v := 0; v < 4; v++ {
		s1 = pool.Push(v, s1)
		s2 = pool.Push(v*10, s2)
	}

	assert.Equal(t, 4, pool.Len(s1))
	assert.Equal(t, 4, pool.Len(s2))
	assert.Equal(t, 3, pool.Value(s1))
	assert.Equal(t, 30, pool.Value(s2))

	// Freeing one stack leaves the other untouched.
	pool.FreeStack(s1)
	assert.Equal(t, 4, pool.Len(s2))
	assert.Equal(t, 30, pool.Value(s2))
	require.NoError(t, pool.Audit(s2))
}

func TestPool_Clone(t *testing.T) {
	pool := New[int]()

	s := pool.NewStack()
	for v := 1; v <= 3; v++ {
		s = pool.Push(v, s)
	}
	s = pool.Pop(s)

	clone := pool.Clone()

	// Handles are valid against the clone.
	assert.Equal(t, pool.Len(s), clone.Len(s))
	assert.Equal(t, pool.Value(s), clone.Value(s))
	assert.Equal(t, pool.Stats(), clone.Stats())

	// The copies are independent.
	*pool.Ref(s) = 42
	assert.Equal(t, 2, clone.Value(s))

	// Both recycle the same freed slot next.
	assert.Equal(t, pool.Push(7, End), clone.Push(7, End))
}

func TestPool_Reset(t *testing.T) {
	pool := New[int](WithCapacity(8))

	s := pool.NewStack()
	for v := 0; v < 5; v++ {
		s = pool.Push(v, s)
	}
	pool.FreeStack(s)

	pool.Reset()

	assert.Equal(t, 8, pool.Capacity())
	assert.Equal(t, 0, pool.Stats().Allocated)

	// The pool allocates from scratch again.
	assert.Equal(t, Index(1), pool.Push(1, End))
}

func TestPool_Stats(t *testing.T) {
	pool := New[int]()

	s := pool.NewStack()
	for v := 0; v < 3; v++ {
		s = pool.Push(v, s)
	}
	s = pool.Pop(s)

	stats := pool.Stats()
	assert.Equal(t, 3, stats.Allocated)
	assert.Equal(t, 1, stats.Free)
	assert.Equal(t, 2, stats.Live)
	assert.Equal(t, uint64(3), stats.Pushes)
	assert.Equal(t, uint64(0), stats.Recycled)

	pool.Push(9, s)

	stats = pool.Stats()
	assert.Equal(t, 3, stats.Allocated)
	assert.Equal(t, 0, stats.Free)
	assert.Equal(t, uint64(1), stats.Recycled)
}

func TestPool_String(t *testing.T) {
	pool := New[int](WithCapacity(4))
	pool.Push(1, End)

	assert.Equal(t, "Pool{capacity: 4, allocated: 1, live: 1, free: 0, pushes: 1, recycled: 0}", pool.String())
}

func TestPool_TrustedHandlePanics(t *testing.T) {
	pool := New[int]()

	assert.Panics(t, func() { pool.Value(End) })
	assert.Panics(t, func() { pool.Next(Index(5)) })
}
