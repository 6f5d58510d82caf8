package stackpool

import "fmt"

// Stats is a point-in-time snapshot of pool usage.
//
// Note on semantics:
//   - Capacity: slot capacity of the backing array
//   - Allocated: slots ever created (occupied range of the array)
//   - Free: length of the free list
//   - Live: allocated slots currently on caller-visible stacks
//   - Pushes: cumulative push count
//   - Recycled: pushes served from the free list instead of growth
type Stats struct {
	Capacity  int
	Allocated int
	Free      int
	Live      int
	Pushes    uint64
	Recycled  uint64
}

// Stats returns the current pool statistics. O(free-list length).
func (p *Pool[T]) Stats() Stats {
	free := 0
	for x := p.free; x != End; x = p.node(x).next {
		free++
	}

	return Stats{
		Capacity:  cap(p.nodes),
		Allocated: len(p.nodes),
		Free:      free,
		Live:      len(p.nodes) - free,
		Pushes:    p.pushes,
		Recycled:  p.recycled,
	}
}

func (p *Pool[T]) String() string {
	stats := p.Stats()
	return fmt.Sprintf(
		"Pool{capacity: %d, allocated: %d, live: %d, free: %d, pushes: %d, recycled: %d}",
		stats.Capacity,
		stats.Allocated,
		stats.Live,
		stats.Free,
		stats.Pushes,
		stats.Recycled,
	)
}
