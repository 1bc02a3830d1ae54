//go:build linux

// File: pool/region_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux region allocator backed by anonymous mmap, as used for large
// receive windows that must live outside the Go heap.

package pool

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rxpool/api"
)

// regionMaps tracks the full mapping behind each aligned sub-slice so
// ReleaseRegion can unmap exactly what was mapped.
var regionMaps sync.Map // uintptr of aligned base -> raw mapping

func allocRegion(size int) ([]byte, error) {
	// mmap only guarantees OS page alignment; over-map by one bpage so
	// a bpage-aligned base always fits inside the mapping.
	raw, err := unix.Mmap(-1, 0, size+api.BpageSize,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, api.ErrOutOfMemory
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	off := 0
	if rem := int(base & (api.BpageSize - 1)); rem != 0 {
		off = api.BpageSize - rem
	}
	region := raw[off : off+size : off+size]
	regionMaps.Store(base+uintptr(off), raw)
	return region, nil
}

func freeRegion(region []byte) error {
	key := uintptr(unsafe.Pointer(unsafe.SliceData(region)))
	raw, ok := regionMaps.LoadAndDelete(key)
	if !ok {
		return api.ErrInvalidArgument
	}
	return unix.Munmap(raw.([]byte))
}
