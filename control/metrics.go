// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Accounting snapshot registry for receive pools. A process may run one
// pool per socket; each publishes under its own name.

package control

import (
	"sync"
	"time"

	"github.com/momentics/hioload-rxpool/api"
)

// MetricsRegistry keeps the latest accounting snapshot per pool.
type MetricsRegistry struct {
	mu      sync.RWMutex
	pools   map[string]api.ReceivePoolStats
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		pools: make(map[string]api.ReceivePoolStats),
	}
}

// Publish records the current stats snapshot for the named pool.
func (mr *MetricsRegistry) Publish(name string, stats api.ReceivePoolStats) {
	mr.mu.Lock()
	mr.pools[name] = stats
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Pool returns the last published snapshot for one pool.
func (mr *MetricsRegistry) Pool(name string) (api.ReceivePoolStats, bool) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	stats, ok := mr.pools[name]
	return stats, ok
}

// Snapshot returns all published pool snapshots.
func (mr *MetricsRegistry) Snapshot() map[string]api.ReceivePoolStats {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]api.ReceivePoolStats, len(mr.pools))
	for name, stats := range mr.pools {
		out[name] = stats
	}
	return out
}

// Updated returns the time of the last publish.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}
