// File: facade/rxpool.go
// Unified facade layer for hioload-rxpool.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// This file defines the RxPool struct, which aggregates the receive
// buffer pool, its backing region, and the control plane (dynamic
// configuration, metrics, debug probes) behind a single facade. The
// facade owns the region lifecycle and maps configuration updates onto
// the running pool.

package facade

import (
	"log"
	"sync"
	"time"

	"github.com/momentics/hioload-rxpool/api"
	"github.com/momentics/hioload-rxpool/control"
	"github.com/momentics/hioload-rxpool/pool"
)

// Config holds parameters immutable per run.
// RegionBpages, LeaseCycles and EnableDebug are applied at construction;
// EnableMetrics is consulted by PublishStats. Only the lease duration can
// be changed afterwards, via the config store.
type Config struct {
	RegionBpages  int    // Receive region capacity, in bpages
	LeaseCycles   uint64 // Partial-page ownership lease, in clock units
	EnableMetrics bool   // Whether to publish pool stats into the registry
	EnableDebug   bool   // Whether to register debug probes
}

// DefaultConfig returns default configuration values.
// These sane defaults support typical use cases without extensive tuning.
func DefaultConfig() *Config {
	return &Config{
		RegionBpages:  1024, // 64 MiB receive window
		LeaseCycles:   uint64(10 * time.Millisecond),
		EnableMetrics: true,
		EnableDebug:   true,
	}
}

// RxPool is the main facade type. It wires the pool to the control
// plane and owns the region it allocated.
type RxPool struct {
	pool    *pool.Pool
	region  []byte
	config  *control.ConfigStore
	metrics *control.MetricsRegistry
	probes  *control.PoolProbes

	cfg    *Config
	mu     sync.Mutex // Protects closed flag
	closed bool
}

// poolName keys this facade's pool in the metrics and probe registries.
const poolName = "rxpool"

// New allocates a bpage-aligned region and builds a pool plus control
// plane over it.
func New(cfg *Config) (*RxPool, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	region, err := pool.AllocateRegion(cfg.RegionBpages * api.BpageSize)
	if err != nil {
		return nil, err
	}
	p, err := pool.New(region, pool.WithLeaseCycles(cfg.LeaseCycles))
	if err != nil {
		if rerr := pool.ReleaseRegion(region); rerr != nil {
			log.Printf("rxpool: failed to release region: %v", rerr)
		}
		return nil, err
	}

	r := &RxPool{
		pool:    p,
		region:  region,
		config:  control.NewConfigStore(control.PoolConfig{LeaseCycles: cfg.LeaseCycles}),
		metrics: control.NewMetricsRegistry(),
		probes:  control.NewPoolProbes(),
		cfg:     cfg,
	}
	r.config.OnReload(func(c control.PoolConfig) {
		r.pool.SetLeaseCycles(c.LeaseCycles)
	})
	if cfg.EnableDebug {
		r.probes.Register(poolName, r.pool.Stats)
	}
	return r, nil
}

// Pool returns the receive pool interface.
func (r *RxPool) Pool() api.ReceivePool {
	return r.pool
}

// Config returns the dynamic configuration store. Installing a new
// lease duration through it re-arms the running pool.
func (r *RxPool) Config() *control.ConfigStore {
	return r.config
}

// Metrics returns the metrics registry.
func (r *RxPool) Metrics() *control.MetricsRegistry {
	return r.metrics
}

// Probes returns the debug probe registry.
func (r *RxPool) Probes() *control.PoolProbes {
	return r.probes
}

// PublishStats pushes a pool accounting snapshot into the metrics
// registry. Callers decide the cadence.
func (r *RxPool) PublishStats() {
	if !r.cfg.EnableMetrics {
		return
	}
	r.metrics.Publish(poolName, r.pool.Stats())
}

// Close destroys the pool and releases the region. Idempotent.
func (r *RxPool) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.pool.Destroy()
	return pool.ReleaseRegion(r.region)
}
