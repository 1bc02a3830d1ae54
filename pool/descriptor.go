// File: pool/descriptor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bpage descriptor table entries and per-core allocation slots.

package pool

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-rxpool/api"
)

// bpage describes one buffer page of the region.
//
// refs counts live message slices, plus one bias unit while an owner
// core holds the partial-fill lease. owner and expiration are only
// meaningful together: a page with owner != api.NoOwner may be appended
// to by that core until expiration passes, after which any allocation
// scan may steal it once the slice references are gone.
type bpage struct {
	lock       sync.Mutex
	refs       atomic.Int32
	owner      atomic.Int32
	expiration atomic.Uint64
}

// usable reports whether the page looks claimable: free, or holding an
// expired lease with no live slices. Lock-free callers treat the answer
// as a hint and must re-check after taking the page lock.
func (b *bpage) usable(now uint64) bool {
	refs := b.refs.Load()
	if refs >= 2 {
		return false
	}
	if refs == 1 && (b.owner.Load() == api.NoOwner || b.expiration.Load() > now) {
		return false
	}
	return true
}

const cacheLinePad = 64

// coreSlot caches the allocation state of one CPU. Slots are padded so
// distinct cores never share a cache line. Goroutine migration can make
// two goroutines race on one slot; the fields are atomics so such races
// cost at most a wasted partial page, never corruption.
type coreSlot struct {
	// pageHint is the bpage this core last filled partially.
	pageHint atomic.Int32
	// allocated is the bytes already handed out inside pageHint.
	allocated atomic.Int32
	// nextCandidate is where this core's next page scan begins.
	nextCandidate atomic.Int32
	// bpageReuses counts partial-page hint hits.
	bpageReuses atomic.Uint64

	_ [cacheLinePad]byte
}
