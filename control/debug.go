// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// On-demand accounting probes for live pool inspection. Unlike the
// metrics registry, which stores published snapshots, a probe reads the
// pool's counters at dump time.

package control

import (
	"sort"
	"sync"

	"github.com/momentics/hioload-rxpool/api"
)

// PoolProbe reads the live accounting state of one pool.
type PoolProbe func() api.ReceivePoolStats

// PoolProbes holds registered probes by pool name.
type PoolProbes struct {
	mu     sync.RWMutex
	probes map[string]PoolProbe
}

// NewPoolProbes creates an empty probe registry.
func NewPoolProbes() *PoolProbes {
	return &PoolProbes{
		probes: make(map[string]PoolProbe),
	}
}

// Register attaches a named probe. A later registration under the same
// name replaces the earlier one.
func (pp *PoolProbes) Register(name string, probe PoolProbe) {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	pp.probes[name] = probe
}

// Names lists the registered probe names, sorted.
func (pp *PoolProbes) Names() []string {
	pp.mu.RLock()
	defer pp.mu.RUnlock()
	names := make([]string, 0, len(pp.probes))
	for name := range pp.probes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dump invokes every probe and returns the collected accounting.
func (pp *PoolProbes) Dump() map[string]api.ReceivePoolStats {
	pp.mu.RLock()
	defer pp.mu.RUnlock()
	out := make(map[string]api.ReceivePoolStats, len(pp.probes))
	for name, probe := range pp.probes {
		out[name] = probe()
	}
	return out
}
