package stackpool

import "iter"

// Cursor is a forward-only cursor over one stack chain. It is restartable
// only by obtaining a fresh cursor from the head via Begin; a consumed
// cursor is not reset.
//
// Mutating the stack (Push, Pop, FreeStack) while a cursor is live
// invalidates it: the chain it was walking may be relinked through the free
// list.
type Cursor[T any] struct {
	pool *Pool[T]
	cur  Index
}

// Begin returns a cursor positioned at the head of the stack x.
func (p *Pool[T]) Begin(x Index) Cursor[T] {
	return Cursor[T]{pool: p, cur: x}
}

// EndCursor returns the past-the-end cursor, positioned at the End sentinel.
// Every finite chain walk terminates at a cursor equal to it.
func (p *Pool[T]) EndCursor() Cursor[T] {
	return Cursor[T]{pool: p, cur: End}
}

// Valid reports whether the cursor points at a node, i.e. has not reached
// the End sentinel.
func (c Cursor[T]) Valid() bool {
	return c.cur != End
}

// Next advances the cursor to the successor node.
func (c *Cursor[T]) Next() {
	c.cur = c.pool.Next(c.cur)
}

// Value returns the payload at the current position. Precondition: Valid().
func (c Cursor[T]) Value() T {
	return c.pool.Value(c.cur)
}

// Ref returns a mutable reference to the payload at the current position.
// Precondition: Valid(). See Pool.Ref for the growth caveat.
func (c Cursor[T]) Ref() *T {
	return c.pool.Ref(c.cur)
}

// At returns the index of the current position.
func (c Cursor[T]) At() Index {
	return c.cur
}

// Equal compares positions only; pool identity is not considered. Two
// cursors over different pools but equal numeric index compare equal.
func (c Cursor[T]) Equal(other Cursor[T]) bool {
	return c.cur == other.cur
}

// Values returns a read-only range-over-func view of the stack with head x,
// yielding payload copies from the head down.
func (p *Pool[T]) Values(x Index) iter.Seq[T] {
	return func(yield func(T) bool) {
		for ; x != End; x = p.Next(x) {
			if !yield(p.Value(x)) {
				return
			}
		}
	}
}

// Refs is the mutable counterpart of Values, yielding a reference to each
// payload in the stack with head x. The stack must not be mutated or grown
// while ranging.
func (p *Pool[T]) Refs(x Index) iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for ; x != End; x = p.Next(x) {
			if !yield(p.Ref(x)) {
				return
			}
		}
	}
}
