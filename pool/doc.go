// Package pool
// Author: momentics <momentics@gmail.com>
//
// Receive buffer pool for Homa-style message transports.
//
// The pool slices a caller-owned contiguous region into fixed-size bpages
// and hands them to incoming messages. Small messages from the same core
// share a partially-filled bpage under a time-bounded ownership lease;
// expired leases are stolen by concurrent allocations. All hot-path
// locking is per-descriptor trylock: the allocator never blocks and never
// queues internally.
// See rxpool.go, alloc.go, waitq.go for implementation details.
package pool
