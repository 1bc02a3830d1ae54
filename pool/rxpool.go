// File: pool/rxpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool lifecycle, configuration options, and accounting surfaces.

package pool

import (
	"math"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/momentics/hioload-rxpool/api"
	"github.com/momentics/hioload-rxpool/internal/concurrency"
)

// DefaultLeaseCycles is how long a core keeps exclusive append rights on
// a partial bpage, in clock units (nanoseconds under the default clock).
const DefaultLeaseCycles = uint64(10 * time.Millisecond)

var startTime = time.Now()

// monotonicClock is the default time source: nanoseconds since process
// start, strictly non-decreasing.
func monotonicClock() uint64 {
	return uint64(time.Since(startTime))
}

// Pool is a receive buffer pool over a caller-owned contiguous region.
// There is no pool-wide lock; all mutation happens under per-descriptor
// locks plus two atomics (free count, waiter flag).
type Pool struct {
	region      []byte
	numBpages   int32
	descriptors []bpage
	cores       []coreSlot

	// freeBpages approximates the number of descriptors with zero refs
	// and no owner. Admission control subtracts up front, so transient
	// negative values occur only inside a failed reservation.
	freeBpages atomic.Int32

	leaseCycles atomic.Uint64

	bpageSteals  atomic.Int64
	failedAllocs atomic.Int64

	// needy flags that an Allocate failed since the last wake, making
	// the free-page notification edge-triggered.
	needy   atomic.Bool
	waiters *waitQueue
	onFree  func()

	clock func() uint64
	cpu   func() int

	// lockHook, when set, runs right before every descriptor trylock.
	// Used to exercise races between the unlocked scan filter and the
	// locked re-check.
	lockHook func(index int32)
}

var _ api.ReceivePool = (*Pool)(nil)

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithLeaseCycles sets the partial-page ownership lease duration.
func WithLeaseCycles(cycles uint64) Option {
	return func(p *Pool) { p.leaseCycles.Store(cycles) }
}

// WithClock replaces the monotonic time source.
func WithClock(clock func() uint64) Option {
	return func(p *Pool) { p.clock = clock }
}

// WithCPUFunc replaces the core identity source.
func WithCPUFunc(cpu func() int) Option {
	return func(p *Pool) { p.cpu = cpu }
}

// WithNotify registers the edge-triggered free-page callback. It fires
// once per transition from "allocation failed" to "pages freed"; the
// callee schedules the actual retry.
func WithNotify(fn func()) Option {
	return func(p *Pool) { p.onFree = fn }
}

// New builds a pool over region. The region base must be aligned to
// api.BpageSize, its length a multiple of api.BpageSize, and it must
// hold at least api.MinPoolBpages bpages.
func New(region []byte, opts ...Option) (*Pool, error) {
	if len(region) == 0 || len(region)%api.BpageSize != 0 {
		return nil, api.ErrInvalidArgument
	}
	if uintptr(unsafe.Pointer(unsafe.SliceData(region)))&(api.BpageSize-1) != 0 {
		return nil, api.ErrInvalidArgument
	}
	n := len(region) >> api.BpageShift
	if n < api.MinPoolBpages {
		return nil, api.ErrInvalidArgument
	}
	if n > math.MaxInt32 {
		return nil, api.ErrOutOfMemory
	}

	p := &Pool{
		region:      region,
		numBpages:   int32(n),
		descriptors: make([]bpage, n),
		cores:       make([]coreSlot, concurrency.NumCPUs()),
		waiters:     newWaitQueue(),
		clock:       monotonicClock,
		cpu:         concurrency.CurrentCPUID,
	}
	p.leaseCycles.Store(DefaultLeaseCycles)
	for i := range p.descriptors {
		p.descriptors[i].owner.Store(api.NoOwner)
	}
	p.freeBpages.Store(int32(n))
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Destroy drops the descriptor state. Idempotent; releases that race
// with destruction become no-ops via the nil region check.
func (p *Pool) Destroy() {
	if p.region == nil {
		return
	}
	p.region = nil
	p.descriptors = nil
	p.cores = nil
}

// NumBpages returns the region capacity in bpages.
func (p *Pool) NumBpages() int {
	return int(p.numBpages)
}

// SetLeaseCycles adjusts the ownership lease at runtime. Pages leased
// before the change keep their old expiration.
func (p *Pool) SetLeaseCycles(cycles uint64) {
	p.leaseCycles.Store(cycles)
}

// Stats returns a snapshot of the pool accounting counters.
func (p *Pool) Stats() api.ReceivePoolStats {
	var reuses uint64
	for i := range p.cores {
		reuses += p.cores[i].bpageReuses.Load()
	}
	return api.ReceivePoolStats{
		TotalBpages:  int64(p.numBpages),
		FreeBpages:   int64(p.freeBpages.Load()),
		BpageReuses:  int64(reuses),
		BpageSteals:  p.bpageSteals.Load(),
		FailedAllocs: p.failedAllocs.Load(),
	}
}

// Subscribe registers the caller for the next free-page wake and returns
// without blocking. The returned channel is closed on the wake edge.
func (p *Pool) Subscribe() <-chan struct{} {
	return p.waiters.subscribe()
}

// CheckWaiting wakes parked readers when free bpages are available.
// Called by the transport after reaping finished messages.
func (p *Pool) CheckWaiting() {
	if p.region == nil || p.freeBpages.Load() <= 0 {
		return
	}
	p.notifyWaiters()
}

// notifyWaiters closes parked subscription channels and, when an
// allocation failed since the last wake, fires the notify callback.
func (p *Pool) notifyWaiters() {
	p.waiters.wake()
	if p.needy.CompareAndSwap(true, false) && p.onFree != nil {
		p.onFree()
	}
}

// coreID maps the current CPU onto a core slot index.
func (p *Pool) coreID() int {
	id := p.cpu()
	if id >= len(p.cores) || id < 0 {
		id %= len(p.cores)
		if id < 0 {
			id += len(p.cores)
		}
	}
	return id
}
