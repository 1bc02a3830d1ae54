// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines the abstract receive buffer pool API: fixed-region bpage
// allocation for incoming messages with per-core partial-page caching.

package api

// ReceivePool hands out bpage-granular buffer space from a caller-owned
// contiguous region. Implementations never block: contended descriptors
// are skipped, and callers park on Subscribe when no space is available.
type ReceivePool interface {
	// Allocate fills msg.BpageOffsets to cover msg.Length bytes.
	// Returns ErrNotEnoughFree with msg left empty when the region
	// cannot supply the required full bpages.
	Allocate(msg *Message) error

	// GetBuffer resolves a byte offset within msg to the backing
	// region memory. The returned slice spans the contiguous bytes
	// available from that offset.
	GetBuffer(msg *Message, offset int) []byte

	// ReleaseBuffers returns the bpages behind the given offsets.
	// Safe to call on a destroyed pool.
	ReleaseBuffers(offsets []uint32)

	// CheckWaiting wakes parked readers if free bpages are available.
	// Intended to be called after a batch of releases.
	CheckWaiting()

	// Subscribe returns a channel closed on the next free-page wake.
	Subscribe() <-chan struct{}

	// Stats exposes accounting counters for observability.
	Stats() ReceivePoolStats

	// SetLeaseCycles adjusts how long a core keeps exclusive append
	// rights on a partial bpage before it may be stolen.
	SetLeaseCycles(cycles uint64)

	// Destroy releases descriptor state. Idempotent.
	Destroy()
}

// ReceivePoolStats aggregates pool accounting for observability.
type ReceivePoolStats struct {
	TotalBpages  int64
	FreeBpages   int64
	BpageReuses  int64
	BpageSteals  int64
	FailedAllocs int64
}
