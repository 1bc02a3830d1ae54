// File: pool/region.go
// Author: momentics <momentics@gmail.com>
//
// Cross-platform allocation of bpage-aligned receive regions. Platform
// allocators live in region_linux.go and region_stub.go; both guarantee
// the base address alignment New requires.

package pool

import (
	"github.com/momentics/hioload-rxpool/api"
)

// AllocateRegion returns a bpage-aligned region of size bytes. size
// must be a positive multiple of api.BpageSize.
func AllocateRegion(size int) ([]byte, error) {
	if size <= 0 || size%api.BpageSize != 0 {
		return nil, api.ErrInvalidArgument
	}
	return allocRegion(size)
}

// ReleaseRegion returns a region obtained from AllocateRegion to the
// system. The region must not be used afterwards.
func ReleaseRegion(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	return freeRegion(region)
}
