package transport_test

import (
	"context"
	"testing"

	"github.com/jimyag/viommu/internal/viommu/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockRequestQueue_SatisfiesInterface(t *testing.T) {
	t.Parallel()

	m := &transport.MockRequestQueue{}
	ctx := context.Background()
	desc := &transport.RequestDescriptor{Out: []byte{1}, InCap: 4}

	m.On("Next", ctx).Return(desc, nil)
	m.On("Respond", ctx, desc, []byte("ok")).Return(nil)
	m.On("Detach", ctx, desc).Return(nil)

	var q transport.RequestQueue = m
	got, err := q.Next(ctx)
	require.NoError(t, err)
	assert.Same(t, desc, got)

	require.NoError(t, q.Respond(ctx, desc, []byte("ok")))
	require.NoError(t, q.Detach(ctx, desc))

	m.AssertExpectations(t)
}

func TestMockEventQueue_SatisfiesInterface(t *testing.T) {
	t.Parallel()

	m := &transport.MockEventQueue{}
	ctx := context.Background()

	m.On("TryPush", ctx, []byte("evt")).Return(true, nil)

	var q transport.EventQueue = m
	ok, err := q.TryPush(ctx, []byte("evt"))
	require.NoError(t, err)
	assert.True(t, ok)

	m.AssertExpectations(t)
}
