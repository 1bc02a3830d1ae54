// Package api
// Author: momentics
//
// Bpage geometry and the per-message buffer descriptor.
//
// An incoming message is backed by a list of bpage offsets into a single
// contiguous receive region. All but the last offset refer to fully-owned
// bpages; the last may point into the middle of a partial bpage shared
// with other small messages allocated by the same core.

package api

// Bpage geometry. A bpage is the unit of receive buffer allocation.
const (
	// BpageShift is log2 of the bpage size.
	BpageShift = 16

	// BpageSize is the size of one bpage in bytes (64 KiB).
	BpageSize = 1 << BpageShift

	// MinPoolBpages is the smallest region the pool accepts, in bpages.
	MinPoolBpages = 4

	// MaxMessageLength is the largest incoming message the pool will
	// back with buffers.
	MaxMessageLength = 1_000_000

	// MaxMessageBpages bounds the offset list of a single message:
	// enough full bpages for MaxMessageLength plus a shared partial.
	MaxMessageBpages = (MaxMessageLength+BpageSize-1)/BpageSize + 1
)

// NoOwner marks a bpage descriptor with no owning core.
const NoOwner = -1

// Message is the receive-side buffer descriptor for one incoming message.
// The pool fills BpageOffsets during Allocate; afterwards the struct is
// immutable until the offsets are handed back via ReleaseBuffers.
type Message struct {
	// Length is the total message size in bytes. Set by the caller
	// before Allocate.
	Length int

	// NumBpages is the number of valid entries in BpageOffsets.
	NumBpages int

	// BpageOffsets holds byte offsets into the pool region, one per
	// bpage backing the message. Entry k < NumBpages-1 always refers
	// to the start of a full bpage.
	BpageOffsets [MaxMessageBpages]uint32
}

// Offsets returns the valid slice of the offset list, ready to pass to
// ReleaseBuffers.
func (m *Message) Offsets() []uint32 {
	return m.BpageOffsets[:m.NumBpages]
}
