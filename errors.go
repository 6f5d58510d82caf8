package stackpool

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSnapshot is returned when snapshot data is malformed or
	// carries an unknown compression algorithm.
	ErrInvalidSnapshot = errors.New("stackpool: invalid snapshot")
	// ErrSnapshotVersion is returned when a snapshot was written by an
	// incompatible format version.
	ErrSnapshotVersion = errors.New("stackpool: unsupported snapshot version")
)

// IntegrityError reports a violation of the pool invariant that every
// allocated slot is reachable from exactly one chain (a live stack or the
// free list). It is produced only by Audit; handle operations never check.
type IntegrityError struct {
	// Slot is the offending node index.
	Slot Index
	// Chain is the position of the chain in the audited head list where the
	// violation surfaced, or FreeChain for the free list. For leaked slots
	// it is NoChain.
	Chain int
	// Reason describes the violation.
	Reason string
}

const (
	// FreeChain marks the free list in IntegrityError.Chain.
	FreeChain = -1
	// NoChain marks a slot unreachable from any audited chain.
	NoChain = -2
)

func (e *IntegrityError) Error() string {
	switch e.Chain {
	case FreeChain:
		return fmt.Sprintf("stackpool: integrity: slot %d in free list: %s", e.Slot, e.Reason)
	case NoChain:
		return fmt.Sprintf("stackpool: integrity: slot %d: %s", e.Slot, e.Reason)
	default:
		return fmt.Sprintf("stackpool: integrity: slot %d in chain %d: %s", e.Slot, e.Chain, e.Reason)
	}
}
