package core

import (
	"context"

	"github.com/jimyag/viommu/internal/viommu/transport"
	"github.com/jimyag/viommu/internal/viommu/wire"
)

// eventQueueSink adapts a transport.EventQueue (which takes a context) to
// the context-free EventSink a Device holds, since fault emission happens
// synchronously under the core mutex from whichever goroutine is
// translating; there is nothing for a context to cancel partway through
// a non-blocking push.
type eventQueueSink struct {
	ctx context.Context
	eq  transport.EventQueue
}

func (s eventQueueSink) TryPush(payload []byte) (bool, error) {
	return s.eq.TryPush(s.ctx, payload)
}

// NewEventSink wraps a transport.EventQueue as an EventSink for
// NewDevice.
func NewEventSink(eq transport.EventQueue) EventSink {
	if eq == nil {
		return nil
	}
	return eventQueueSink{ctx: context.Background(), eq: eq}
}

// Serve drives the request processor: it pops
// descriptor chains from reqs until ctx is cancelled or the queue reports
// it is closed, dispatching each to Dispatch and writing the status (and,
// for PROBE, the property payload) back.
func (d *Device) Serve(ctx context.Context, reqs transport.RequestQueue) error {
	for {
		desc, err := reqs.Next(ctx)
		if err != nil {
			return err
		}
		d.serveOne(ctx, reqs, desc)
	}
}

func (d *Device) serveOne(ctx context.Context, reqs transport.RequestQueue, desc *transport.RequestDescriptor) {
	if len(desc.Out) < wire.HeaderSize || desc.InCap < 1 {
		d.logger.Warn().Msg("request: short descriptor, detaching")
		_ = reqs.Detach(ctx, desc)
		return
	}

	status, payload := d.Dispatch(desc.Out)

	resp := make([]byte, 1+len(payload))
	resp[0] = byte(status)
	copy(resp[1:], payload)

	if err := reqs.Respond(ctx, desc, resp); err != nil {
		d.logger.Warn().Err(err).Msg("request: response did not fit in-buffer, detaching")
		_ = reqs.Detach(ctx, desc)
	}
}
