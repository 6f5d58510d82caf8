package stackpool

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
)

// Audit verifies the pool invariant against the given set of live stack
// heads: together with the free list, the chains must partition the
// allocated slots, with no slot on two chains, no slot on none, and no
// cycles. The first violation found is returned as an *IntegrityError.
//
// Audit is diagnostic tooling for tests and debugging: it walks every chain
// but never mutates the pool, and it leaves the trusted-handle fast path of
// the handle operations untouched. Passing a stale or foreign head is
// exactly the kind of caller error it is meant to surface.
func (p *Pool[T]) Audit(heads ...Index) error {
	seen := roaring.New()
	guard := bitset.New(uint(len(p.nodes)))

	walk := func(chain int, head Index) (*roaring.Bitmap, error) {
		reach := roaring.New()
		guard.ClearAll()

		for x := head; x != End; x = p.node(x).next {
			if int(x) > len(p.nodes) {
				return nil, &IntegrityError{Slot: x, Chain: chain, Reason: "index beyond allocated range"}
			}

			slot := uint(x - 1)
			if guard.Test(slot) {
				return nil, &IntegrityError{Slot: x, Chain: chain, Reason: "cycle detected"}
			}
			guard.Set(slot)
			reach.Add(uint32(x - 1))
		}

		return reach, nil
	}

	check := func(chain int, head Index) error {
		reach, err := walk(chain, head)
		if err != nil {
			return err
		}

		if overlap := roaring.And(seen, reach); !overlap.IsEmpty() {
			return &IntegrityError{
				Slot:   Index(overlap.Minimum() + 1),
				Chain:  chain,
				Reason: "slot reachable from more than one chain",
			}
		}
		seen.Or(reach)

		return nil
	}

	for i, head := range heads {
		if err := check(i, head); err != nil {
			return err
		}
	}

	if err := check(FreeChain, p.free); err != nil {
		return err
	}

	if seen.GetCardinality() != uint64(len(p.nodes)) {
		for slot := uint32(0); int(slot) < len(p.nodes); slot++ {
			if !seen.Contains(slot) {
				return &IntegrityError{
					Slot:   Index(slot + 1),
					Chain:  NoChain,
					Reason: "slot not reachable from any chain",
				}
			}
		}
	}

	return nil
}
