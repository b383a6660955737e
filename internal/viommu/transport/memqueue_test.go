package transport_test

import (
	"context"
	"testing"
	"time"

	"github.com/jimyag/viommu/internal/viommu/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemRequestQueue_SubmitRoundTrip(t *testing.T) {
	t.Parallel()

	q := transport.NewMemRequestQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan struct{})
	var resp []byte
	var submitErr error
	go func() {
		resp, submitErr = q.Submit(ctx, []byte("out-buf"), 8)
		close(done)
	}()

	desc, err := q.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("out-buf"), desc.Out)
	assert.Equal(t, 8, desc.InCap)

	require.NoError(t, q.Respond(ctx, desc, []byte("ok")))

	<-done
	require.NoError(t, submitErr)
	assert.Equal(t, []byte("ok"), resp)
}

func TestMemRequestQueue_RespondTooBig(t *testing.T) {
	t.Parallel()

	q := transport.NewMemRequestQueue(1)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		_, _ = q.Submit(ctx, []byte("x"), 1)
		close(done)
	}()

	desc, err := q.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, transport.ErrBufferTooSmall, q.Respond(ctx, desc, []byte("too long")))

	require.NoError(t, q.Detach(ctx, desc))
	<-done
}

func TestMemRequestQueue_CloseUnblocksNext(t *testing.T) {
	t.Parallel()

	q := transport.NewMemRequestQueue(0)
	q.Close()

	_, err := q.Next(context.Background())
	assert.Equal(t, transport.ErrClosed, err)
}

func TestMemRequestQueue_SubmitAfterClose(t *testing.T) {
	t.Parallel()

	q := transport.NewMemRequestQueue(0)
	q.Close()

	_, err := q.Submit(context.Background(), nil, 0)
	assert.Equal(t, transport.ErrClosed, err)
}

func TestMemEventQueue_TryPushAndPop(t *testing.T) {
	t.Parallel()

	q := transport.NewMemEventQueue(1)
	ctx := context.Background()

	ok, err := q.TryPush(ctx, []byte("fault-1"))
	require.NoError(t, err)
	assert.True(t, ok)

	// queue has capacity 1 and is now full.
	ok, err = q.TryPush(ctx, []byte("fault-2"))
	require.NoError(t, err)
	assert.False(t, ok)

	payload, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, []byte("fault-1"), payload)

	_, ok = q.Pop()
	assert.False(t, ok)
}
