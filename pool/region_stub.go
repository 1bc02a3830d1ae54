//go:build !linux

// File: pool/region_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"unsafe"

	"github.com/momentics/hioload-rxpool/api"
)

// allocRegion carves an aligned window out of an oversized heap slice.
// The garbage collector reclaims the backing array after ReleaseRegion.
func allocRegion(size int) ([]byte, error) {
	raw := make([]byte, size+api.BpageSize)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	off := 0
	if rem := int(base & (api.BpageSize - 1)); rem != 0 {
		off = api.BpageSize - rem
	}
	return raw[off : off+size : off+size], nil
}

func freeRegion(region []byte) error {
	return nil
}
