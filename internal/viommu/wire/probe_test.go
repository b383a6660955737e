package wire_test

import (
	"testing"

	"github.com/jimyag/viommu/internal/viommu/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbePropertiesRoundTrip(t *testing.T) {
	t.Parallel()

	var buf []byte
	buf = append(buf, wire.EncodeResvMemProperty(wire.ReservedRegion, 0x0, 0xfff)...)
	buf = append(buf, wire.EncodeResvMemProperty(wire.ReservedMSI, 0xfee00000, 0xfeefffff)...)
	buf = append(buf, wire.EncodeTerminateProperty()...)

	props := wire.DecodeProbeProperties(buf)
	require.Len(t, props, 2)

	assert.Equal(t, wire.PropResvMem, props[0].Type)
	assert.Equal(t, wire.ReservedRegion, props[0].Subtype)
	assert.Equal(t, uint64(0x0), props[0].Start)
	assert.Equal(t, uint64(0xfff), props[0].End)

	assert.Equal(t, wire.ReservedMSI, props[1].Subtype)
	assert.Equal(t, uint64(0xfee00000), props[1].Start)
	assert.Equal(t, uint64(0xfeefffff), props[1].End)
}

func TestDecodeProbeProperties_StopsAtTerminator(t *testing.T) {
	t.Parallel()

	var buf []byte
	buf = append(buf, wire.EncodeResvMemProperty(wire.ReservedRegion, 0, 0xfff)...)
	buf = append(buf, wire.EncodeTerminateProperty()...)
	// trailing garbage past the terminator must be ignored.
	buf = append(buf, wire.EncodeResvMemProperty(wire.ReservedRegion, 0x2000, 0x2fff)...)

	props := wire.DecodeProbeProperties(buf)
	assert.Len(t, props, 1)
}

func TestDecodeProbeProperties_EmptyBuffer(t *testing.T) {
	t.Parallel()

	assert.Empty(t, wire.DecodeProbeProperties(nil))
}
