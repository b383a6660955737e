// Package transport models the virtqueue boundary: descriptor fetching
// and guest notification. The core package drives these interfaces; it
// never constructs a transport itself. Real virtqueue plumbing
// (descriptor chain walking, used-ring updates) lives in whatever embeds
// this device. See memqueue.go for the
// in-memory stand-in used by tests and the demo binary.
package transport

import (
	"context"
	"errors"
)

// ErrBufferTooSmall is returned by Respond when a descriptor's in-buffer
// cannot hold the response.
var ErrBufferTooSmall = errors.New("transport: in-buffer too small for response")

// ErrClosed is returned by Next once the queue has been torn down.
var ErrClosed = errors.New("transport: queue closed")

// RequestDescriptor is one command-queue descriptor chain: the guest's
// out-buffer bytes (header + type-specific payload) and the capacity of
// the in-buffer the device must write a status (and, for PROBE, a property
// payload) into.
type RequestDescriptor struct {
	Out    []byte
	InCap  int
	opaque any // transport-private handle, round-tripped through Respond/Detach
}

// RequestQueue is the request (command) virtqueue.
type RequestQueue interface {
	// Next blocks until a descriptor chain is available or ctx is
	// cancelled.
	Next(ctx context.Context) (*RequestDescriptor, error)
	// Respond writes resp into the descriptor's in-buffer, pushes the
	// chain back to the used ring, and notifies the guest. It returns
	// ErrBufferTooSmall without mutating transport state if resp doesn't
	// fit; the caller (request processor) treats that as transport
	// breakage.
	Respond(ctx context.Context, d *RequestDescriptor, resp []byte) error
	// Detach drops a malformed descriptor chain with no response, for the
	// short-header / oversized-payload fatal path.
	Detach(ctx context.Context, d *RequestDescriptor) error
}

// EventQueue is the event virtqueue fault records are posted to.
type EventQueue interface {
	// TryPush attempts a non-blocking pop of an event descriptor, writes
	// payload into it, and notifies the guest. ok is false if no
	// descriptor was available; the caller logs and drops the fault
	// rather than treating that as an error.
	TryPush(ctx context.Context, payload []byte) (ok bool, err error)
}
