// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package concurrency provides CPU identity and topology helpers for
// per-core sharded state. Platform-specific resolution lives in files
// selected by build tags; unsupported systems degrade to a single-slot
// layout, which stays correct and only loses sharding.
package concurrency
