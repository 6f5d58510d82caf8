package stackpool

// Index identifies a node inside a Pool. Indices are 1-based: Index i
// addresses slot i-1 of the backing array, so that the zero value End can
// serve as both the empty-stack handle and the empty-free-list marker
// without an option-like wrapper.
//
// An Index is only meaningful against the Pool that issued it. Handles are
// trusted, not validated: passing End or a stale index to Value, Ref, Next
// or Pop panics via the slice bounds check.
type Index uint32

// End is the sentinel index meaning "no node". It doubles as the handle of
// every empty stack.
const End Index = 0

type node[T any] struct {
	value T
	next  Index
}

// Pool hosts many independent singly-linked stacks inside one contiguous
// growable array of nodes. Stacks are identified by the Index of their head
// node; nodes freed by Pop or FreeStack are threaded onto an internal free
// list and recycled by later pushes before the array grows again.
//
// Invariant: once allocated, every slot is reachable from exactly one chain
// at any time, either a caller-visible stack or the free list.
//
// A Pool is single-owner mutable state. It performs no internal locking;
// callers needing concurrency must serialize access externally, e.g. one
// pool per worker.
//
// The zero value is an empty pool ready for use. Use New to apply options.
type Pool[T any] struct {
	nodes []node[T]
	free  Index

	// Single-owner state, so plain counters rather than atomics.
	pushes   uint64
	recycled uint64

	logger      *Logger
	compression CompressionType
}

// New creates a Pool, optionally pre-sized via WithCapacity.
func New[T any](opts ...Option) *Pool[T] {
	o := options{
		compression: CompressionNone,
	}

	for _, opt := range opts {
		opt(&o)
	}

	p := &Pool[T]{
		logger:      o.logger,
		compression: o.compression,
	}

	if o.capacity > 0 {
		p.nodes = make([]node[T], 0, o.capacity)
	}

	return p
}

func (p *Pool[T]) node(x Index) *node[T] {
	return &p.nodes[x-1]
}

// NewStack returns the handle of a new, empty stack. No storage is touched;
// an empty stack is just the End sentinel.
func (p *Pool[T]) NewStack() Index {
	return End
}

// Empty reports whether the stack with head x is empty.
func (p *Pool[T]) Empty(x Index) bool {
	return x == End
}

// Capacity returns the current slot capacity of the backing array. It bears
// no fixed relation to the number of occupied slots.
func (p *Pool[T]) Capacity() int {
	return cap(p.nodes)
}

// Reserve grows the backing array's capacity to at least n slots, so that
// pushes up to n never reallocate. It never shrinks.
func (p *Pool[T]) Reserve(n int) {
	if n <= cap(p.nodes) {
		return
	}

	grown := make([]node[T], len(p.nodes), n)
	copy(grown, p.nodes)
	p.nodes = grown
}

// Value returns the payload stored at x. Precondition: x is the live head of
// a non-empty chain.
func (p *Pool[T]) Value(x Index) T {
	return p.node(x).value
}

// Ref returns a mutable reference to the payload stored at x.
//
// The reference is invalidated by any growth of the pool (a later Push or
// Reserve may relocate the backing array). The Index x itself stays valid.
func (p *Pool[T]) Ref(x Index) *T {
	return &p.node(x).value
}

// Next returns the successor index of x, End if x is the last node of its
// chain.
func (p *Pool[T]) Next(x Index) Index {
	return p.node(x).next
}

// Push prepends v to the stack with head x and returns the new head.
//
// The new node reuses the most recently freed slot when the free list is
// non-empty, otherwise the backing array grows by one slot. O(1) amortized.
func (p *Pool[T]) Push(v T, x Index) Index {
	p.pushes++

	if p.free == End {
		p.nodes = append(p.nodes, node[T]{value: v, next: x})
		return Index(len(p.nodes))
	}

	head := p.free
	n := p.node(head)
	p.free = n.next
	n.value = v
	n.next = x
	p.recycled++

	return head
}

// Pop removes the head node of a non-empty stack and returns the new head.
// The removed slot becomes the head of the free list. Precondition: x != End.
func (p *Pool[T]) Pop(x Index) Index {
	n := p.node(x)
	next := n.next
	n.next = p.free
	p.free = x

	return next
}

// FreeStack pops the stack with head x until it is empty, returning every
// node to the free list, and returns End. O(k) in the chain length.
func (p *Pool[T]) FreeStack(x Index) Index {
	for x != End {
		x = p.Pop(x)
	}

	return x
}

// Len returns the number of nodes in the stack with head x. O(k).
func (p *Pool[T]) Len(x Index) int {
	n := 0
	for ; x != End; x = p.node(x).next {
		n++
	}

	return n
}

// Clone returns a deep copy of the pool: the node array, the free list and
// the counters. Handles issued by the original are valid against the clone
// and address the copied slots.
func (p *Pool[T]) Clone() *Pool[T] {
	clone := &Pool[T]{
		nodes:       make([]node[T], len(p.nodes), cap(p.nodes)),
		free:        p.free,
		pushes:      p.pushes,
		recycled:    p.recycled,
		logger:      p.logger,
		compression: p.compression,
	}
	copy(clone.nodes, p.nodes)

	return clone
}

// Reset returns the pool to the empty state while keeping the allocated
// capacity. All previously issued handles become invalid. The historical
// push counters are preserved.
func (p *Pool[T]) Reset() {
	p.nodes = p.nodes[:0]
	p.free = End
}
