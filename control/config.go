// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Typed runtime configuration for the receive pool, with atomic
// snapshot reads and hot-reload propagation to the pool.

package control

import (
	"sync"
	"time"
)

// PoolConfig is the set of pool knobs adjustable at runtime. Values are
// copied on read; a snapshot never changes under the caller.
type PoolConfig struct {
	// LeaseCycles is the partial-page ownership lease duration in
	// clock units (nanoseconds under the pool's default clock).
	LeaseCycles uint64
}

// DefaultPoolConfig returns the starting configuration.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		LeaseCycles: uint64(10 * time.Millisecond),
	}
}

// ConfigStore holds the live PoolConfig and notifies listeners on every
// update, so a running pool re-arms its lease without restarting.
type ConfigStore struct {
	mu        sync.RWMutex
	config    PoolConfig
	listeners []func(PoolConfig)
}

// NewConfigStore initializes a store with the given starting config.
func NewConfigStore(initial PoolConfig) *ConfigStore {
	return &ConfigStore{config: initial}
}

// Load returns the current configuration snapshot.
func (cs *ConfigStore) Load() PoolConfig {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.config
}

// Update applies fn to a copy of the current config, installs the
// result, and dispatches reload listeners synchronously, so the caller
// observes the new state once Update returns.
func (cs *ConfigStore) Update(fn func(*PoolConfig)) {
	cs.mu.Lock()
	next := cs.config
	fn(&next)
	cs.config = next
	listeners := make([]func(PoolConfig), len(cs.listeners))
	copy(listeners, cs.listeners)
	cs.mu.Unlock()
	for _, l := range listeners {
		l(next)
	}
}

// SetLeaseCycles installs a new lease duration. Zero is rejected: a
// zero lease would make every partial page stealable immediately.
func (cs *ConfigStore) SetLeaseCycles(cycles uint64) bool {
	if cycles == 0 {
		return false
	}
	cs.Update(func(c *PoolConfig) { c.LeaseCycles = cycles })
	return true
}

// OnReload registers a listener invoked with each installed config.
func (cs *ConfigStore) OnReload(fn func(PoolConfig)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
