// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime control plane for the receive buffer pool, typed end to end:
// PoolConfig snapshots with hot-reload listeners (the lease duration is
// the one live knob), a per-pool accounting snapshot registry, and
// on-demand probes that read pool counters at dump time.
package control
