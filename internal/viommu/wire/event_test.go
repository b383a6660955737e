package wire_test

import (
	"testing"

	"github.com/jimyag/viommu/internal/viommu/wire"
	"github.com/stretchr/testify/assert"
)

func TestEventRoundTrip(t *testing.T) {
	t.Parallel()

	ev := wire.Event{
		Reason:   wire.FaultMapping,
		Flags:    wire.FlagWrite | wire.FlagAddressValid,
		Endpoint: 0x100,
		Address:  0xdeadbeef,
	}
	buf := ev.Encode()
	assert.Len(t, buf, wire.EventSize)

	got, ok := wire.DecodeEvent(buf)
	assert.True(t, ok)
	assert.Equal(t, ev, got)

	_, ok = wire.DecodeEvent(buf[:8])
	assert.False(t, ok)
}

func TestEventFlagsShareBitsWithPermission(t *testing.T) {
	t.Parallel()

	assert.Equal(t, wire.PermRead, wire.FlagRead)
	assert.Equal(t, wire.PermWrite, wire.FlagWrite)
	assert.Equal(t, wire.PermExec, wire.FlagExec)
}
