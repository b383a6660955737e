package transport

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRequestQueue is a testify/mock RequestQueue: one method per
// interface method, args asserted via .On(...).
type MockRequestQueue struct {
	mock.Mock
}

func (m *MockRequestQueue) Next(ctx context.Context) (*RequestDescriptor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RequestDescriptor), args.Error(1)
}

func (m *MockRequestQueue) Respond(ctx context.Context, d *RequestDescriptor, resp []byte) error {
	args := m.Called(ctx, d, resp)
	return args.Error(0)
}

func (m *MockRequestQueue) Detach(ctx context.Context, d *RequestDescriptor) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

// MockEventQueue is a testify/mock EventQueue.
type MockEventQueue struct {
	mock.Mock
}

func (m *MockEventQueue) TryPush(ctx context.Context, payload []byte) (bool, error) {
	args := m.Called(ctx, payload)
	return args.Bool(0), args.Error(1)
}
