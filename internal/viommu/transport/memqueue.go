package transport

import (
	"context"
	"sync"
)

// MemRequestQueue is an in-memory stand-in for the guest-facing request
// virtqueue, used by the demo binary and integration tests. It is not a
// virtqueue implementation (descriptor fetching and used-ring bookkeeping
// are out of scope); it only has to honor the RequestQueue contract
// closely enough to drive the request processor end-to-end without a
// real guest.
type MemRequestQueue struct {
	mu     sync.Mutex
	closed bool
	reqs   chan *memRequest
}

type memRequest struct {
	desc   *RequestDescriptor
	respCh chan memResponse
}

type memResponse struct {
	data []byte
	err  error
}

// NewMemRequestQueue creates a queue with the given descriptor backlog.
func NewMemRequestQueue(backlog int) *MemRequestQueue {
	return &MemRequestQueue{reqs: make(chan *memRequest, backlog)}
}

// Submit plays the guest driver's part: build a descriptor chain with the
// given out-buffer and in-buffer capacity, enqueue it, and block for the
// device's response.
func (q *MemRequestQueue) Submit(ctx context.Context, out []byte, inCap int) ([]byte, error) {
	mr := &memRequest{
		desc:   &RequestDescriptor{Out: out, InCap: inCap},
		respCh: make(chan memResponse, 1),
	}
	mr.desc.opaque = mr

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, ErrClosed
	}
	q.mu.Unlock()

	select {
	case q.reqs <- mr:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case resp := <-mr.respCh:
		return resp.data, resp.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemRequestQueue) Next(ctx context.Context) (*RequestDescriptor, error) {
	select {
	case mr, ok := <-q.reqs:
		if !ok {
			return nil, ErrClosed
		}
		return mr.desc, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemRequestQueue) Respond(_ context.Context, d *RequestDescriptor, resp []byte) error {
	if len(resp) > d.InCap {
		return ErrBufferTooSmall
	}
	mr := d.opaque.(*memRequest)
	mr.respCh <- memResponse{data: resp}
	return nil
}

func (q *MemRequestQueue) Detach(_ context.Context, d *RequestDescriptor) error {
	mr := d.opaque.(*memRequest)
	mr.respCh <- memResponse{err: ErrClosed}
	return nil
}

// Close stops the queue; any blocked Next returns ErrClosed.
func (q *MemRequestQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.reqs)
}

// MemEventQueue is an in-memory stand-in for the event virtqueue: a
// bounded channel simulating a finite number of guest-posted event
// buffers. A full channel models "no event buffer available", which
// TryPush surfaces as ok=false.
type MemEventQueue struct {
	events chan []byte
}

func NewMemEventQueue(capacity int) *MemEventQueue {
	return &MemEventQueue{events: make(chan []byte, capacity)}
}

func (q *MemEventQueue) TryPush(_ context.Context, payload []byte) (bool, error) {
	select {
	case q.events <- payload:
		return true, nil
	default:
		return false, nil
	}
}

// Pop drains one posted event, for tests playing the guest side; the demo
// binary does not drain its event queue.
func (q *MemEventQueue) Pop() ([]byte, bool) {
	select {
	case ev := <-q.events:
		return ev, true
	default:
		return nil, false
	}
}
