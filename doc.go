// Package stackpool provides an arena-based allocator that hosts many
// independent singly-linked stacks inside one contiguous node array.
//
// Each node holds a payload and the index of its successor; a stack is just
// the Index of its head node, with the zero Index End denoting the empty
// stack. Nodes freed by Pop or FreeStack are threaded onto an internal free
// list and recycled by later pushes before the array grows, so creating and
// destroying many short-lived stacks (graph traversal frontiers,
// backtracking state) costs no per-node heap allocation.
//
// # Quick Start
//
//	pool := stackpool.New[int](stackpool.WithCapacity(64))
//
//	s := pool.NewStack()
//	s = pool.Push(10, s)
//	s = pool.Push(20, s)
//
//	for v := range pool.Values(s) {
//		fmt.Println(v) // 20, then 10
//	}
//
//	s = pool.FreeStack(s) // slots return to the free list, s == stackpool.End
//
// # Contract
//
// Handles are trusted, not validated: dereferencing End or a stale Index
// panics. Growth of the node array may relocate payloads, invalidating
// references returned by Ref, but never invalidates Index handles. A Pool is
// single-owner state with no internal locking; callers needing concurrency
// serialize access externally, e.g. one pool per worker.
package stackpool
