// File: pool/alloc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The allocation algorithms: fresh-page scanning with lease stealing,
// message allocation with per-core partial-page reuse, offset-to-memory
// resolution, and release accounting.

package pool

import (
	"github.com/momentics/hioload-rxpool/api"
)

// minExtra is the smallest scan headroom beyond the in-use page count.
const minExtra = 4

// getPages claims n fresh bpages and writes their indices into pages.
// With setOwner the pages are leased to the calling core (refs biased to
// 2: one lease token, one for the first message slice); otherwise they
// become shared full pages (refs 1, no owner).
//
// Admission is a single atomic subtraction of the free count: once past
// it the scan is committed to produce n pages, stealing expired leases
// as needed. Contended descriptors are skipped, never waited on.
func (p *Pool) getPages(n int, pages []uint32, setOwner bool) error {
	coreID := p.coreID()
	core := &p.cores[coreID]
	now := p.clock()
	alloced := 0
	limit := int32(0)

	if p.freeBpages.Add(-int32(n)) < 0 {
		p.freeBpages.Add(int32(n))
		return api.ErrNotEnoughFree
	}

	for alloced < n {
		// Prefer low indexes when the pool has headroom: confining
		// allocations to a prefix of the descriptor array keeps its
		// metadata cache footprint small. The limit must be
		// recomputed on each wrap because concurrent allocations
		// shrink the free count under us.
		if limit == 0 {
			inUse := p.numBpages - p.freeBpages.Load()
			extra := inUse >> 2
			if extra < minExtra {
				extra = minExtra
			}
			limit = inUse + extra
			if limit > p.numBpages {
				limit = p.numBpages
			}
		}

		cur := core.nextCandidate.Load()
		core.nextCandidate.Store(cur + 1)
		if cur >= limit {
			core.nextCandidate.Store(0)
			limit = 0
			continue
		}

		b := &p.descriptors[cur]
		// Quick unlocked filter; authoritative re-check under lock.
		if !b.usable(now) {
			continue
		}
		if hook := p.lockHook; hook != nil {
			hook(cur)
		}
		if !b.lock.TryLock() {
			continue
		}
		if !b.usable(now) {
			b.lock.Unlock()
			continue
		}
		if b.owner.Load() != api.NoOwner {
			// Stealing an expired lease: the page was occupying a
			// slot never counted as free, while the admission
			// above already spent one unit of free budget for it.
			// Restore that unit.
			p.freeBpages.Add(1)
			p.bpageSteals.Add(1)
		}
		if setOwner {
			b.refs.Store(2)
			b.owner.Store(int32(coreID))
			b.expiration.Store(now + p.leaseCycles.Load())
		} else {
			b.refs.Store(1)
			b.owner.Store(api.NoOwner)
		}
		b.lock.Unlock()
		pages[alloced] = uint32(cur)
		alloced++
	}
	return nil
}

// Allocate fills msg.BpageOffsets with enough bpage space for
// msg.Length bytes: full bpages first, then the remainder appended to
// this core's partial page when the lease still holds, or to a freshly
// leased page otherwise.
//
// On failure msg is left with NumBpages == 0 and any claimed full pages
// are returned to the pool.
func (p *Pool) Allocate(msg *api.Message) error {
	if p.region == nil {
		return api.ErrPoolDestroyed
	}
	if msg.Length < 0 || msg.Length > api.MaxMessageLength {
		return api.ErrInvalidArgument
	}

	fullPages := msg.Length >> api.BpageShift
	partial := msg.Length & (api.BpageSize - 1)

	var pages [api.MaxMessageBpages]uint32
	if fullPages > 0 {
		if err := p.getPages(fullPages, pages[:fullPages], false); err != nil {
			msg.NumBpages = 0
			p.noteFailure()
			return err
		}
		for i := 0; i < fullPages; i++ {
			msg.BpageOffsets[i] = pages[i] << api.BpageShift
		}
	}
	msg.NumBpages = fullPages
	if partial == 0 {
		return nil
	}

	coreID := p.coreID()
	core := &p.cores[coreID]
	if p.reuseHint(core, int32(coreID), msg, partial) {
		return nil
	}

	if err := p.getPages(1, pages[:1], true); err != nil {
		p.ReleaseBuffers(msg.BpageOffsets[:msg.NumBpages])
		msg.NumBpages = 0
		p.noteFailure()
		return err
	}
	msg.BpageOffsets[msg.NumBpages] = pages[0] << api.BpageShift
	msg.NumBpages++
	core.pageHint.Store(int32(pages[0]))
	core.allocated.Store(int32(partial))
	return nil
}

// reuseHint tries to append partial bytes to the core's hinted bpage.
// Reports false when the hint is stale (lock contended, page stolen, or
// full with live slices); the stale-overflow case drops the lease so the
// page can drain to shared-full and eventually free.
func (p *Pool) reuseHint(core *coreSlot, coreID int32, msg *api.Message, partial int) bool {
	hint := core.pageHint.Load()
	b := &p.descriptors[hint]
	if hook := p.lockHook; hook != nil {
		hook(hint)
	}
	if !b.lock.TryLock() {
		return false
	}
	if b.owner.Load() != coreID {
		b.lock.Unlock()
		return false
	}
	allocated := core.allocated.Load()
	if int(allocated)+partial > api.BpageSize {
		if b.refs.Load() != 1 {
			// Live slices still reference the page; give up the
			// lease and let releases drain it to free.
			b.owner.Store(api.NoOwner)
			b.refs.Add(-1)
			b.lock.Unlock()
			return false
		}
		// Only the lease token is left: every slice handed out from
		// this page has been released, so wrap around and fill it
		// again from the start.
		allocated = 0
	}
	b.refs.Add(1)
	b.expiration.Store(p.clock() + p.leaseCycles.Load())
	b.lock.Unlock()

	msg.BpageOffsets[msg.NumBpages] = uint32(hint)<<api.BpageShift + uint32(allocated)
	msg.NumBpages++
	core.allocated.Store(allocated + int32(partial))
	core.bpageReuses.Add(1)
	return true
}

// noteFailure records a failed allocation and arms the free-page edge
// trigger.
func (p *Pool) noteFailure() {
	p.failedAllocs.Add(1)
	p.needy.Store(true)
}

// GetBuffer resolves a byte offset within msg to region memory. The
// returned slice spans the contiguous bytes available from that offset:
// the rest of the bpage, or the rest of the message on its final bpage.
// Pure arithmetic on immutable message state; no locking.
func (p *Pool) GetBuffer(msg *api.Message, offset int) []byte {
	if offset < 0 {
		return nil
	}
	idx := offset >> api.BpageShift
	if idx >= msg.NumBpages {
		return nil
	}
	pageOff := offset & (api.BpageSize - 1)
	available := api.BpageSize - pageOff
	if idx == msg.NumBpages-1 {
		if rem := msg.Length & (api.BpageSize - 1); rem != 0 {
			available = rem - pageOff
		}
	}
	start := int(msg.BpageOffsets[idx]) + pageOff
	return p.region[start : start+available]
}

// ReleaseBuffers drops one reference per offset. A page whose refs hit
// zero without an owner returns to the free set and wakes waiters.
// No-op on a destroyed pool so teardown can race with releases.
func (p *Pool) ReleaseBuffers(offsets []uint32) {
	if p.region == nil {
		return
	}
	freed := 0
	for _, off := range offsets {
		idx := int32(off >> api.BpageShift)
		if idx >= p.numBpages {
			continue
		}
		b := &p.descriptors[idx]
		b.lock.Lock()
		if b.refs.Add(-1) == 0 && b.owner.Load() == api.NoOwner {
			p.freeBpages.Add(1)
			freed++
		}
		b.lock.Unlock()
	}
	if freed > 0 {
		p.notifyWaiters()
	}
}
