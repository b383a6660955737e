package wire

import "encoding/binary"

// Probe property types.
const (
	PropTerminate uint16 = 0
	PropResvMem   uint16 = 1
)

// Reserved-region subtypes carried inside a RESV_MEM property.
type ReservedSubtype uint8

const (
	ReservedRegion ReservedSubtype = 0
	ReservedMSI    ReservedSubtype = 1
)

// resvMemPayloadSize is {subtype u8, reserved u8[3], start u64, end u64}.
const resvMemPayloadSize = 20

// propHeaderSize is {type u16, length u16}.
const propHeaderSize = 4

// ResvMemPropertySize is one full RESV_MEM property: header + payload.
const ResvMemPropertySize = propHeaderSize + resvMemPayloadSize

// TerminatePropertySize is the zero-length terminator property.
const TerminatePropertySize = propHeaderSize

// EncodeResvMemProperty serializes one RESV_MEM property record.
func EncodeResvMemProperty(subtype ReservedSubtype, start, end uint64) []byte {
	buf := make([]byte, ResvMemPropertySize)
	binary.LittleEndian.PutUint16(buf[0:2], PropResvMem)
	binary.LittleEndian.PutUint16(buf[2:4], resvMemPayloadSize)
	buf[4] = byte(subtype)
	binary.LittleEndian.PutUint64(buf[8:16], start)
	binary.LittleEndian.PutUint64(buf[16:24], end)
	return buf
}

// EncodeTerminateProperty serializes the type-0 terminator.
func EncodeTerminateProperty() []byte {
	buf := make([]byte, TerminatePropertySize)
	binary.LittleEndian.PutUint16(buf[0:2], PropTerminate)
	binary.LittleEndian.PutUint16(buf[2:4], 0)
	return buf
}

// ProbeProperty is a decoded probe property, used by tests that round-trip
// the property buffer built by the request processor.
type ProbeProperty struct {
	Type    uint16
	Subtype ReservedSubtype
	Start   uint64
	End     uint64
}

// DecodeProbeProperties walks a property buffer until the type-0 terminator
// or the buffer is exhausted.
func DecodeProbeProperties(buf []byte) []ProbeProperty {
	var props []ProbeProperty
	for len(buf) >= propHeaderSize {
		typ := binary.LittleEndian.Uint16(buf[0:2])
		length := binary.LittleEndian.Uint16(buf[2:4])
		if typ == PropTerminate {
			break
		}
		payload := buf[propHeaderSize:]
		if int(length) > len(payload) {
			break
		}
		if typ == PropResvMem && length >= resvMemPayloadSize {
			props = append(props, ProbeProperty{
				Type:    typ,
				Subtype: ReservedSubtype(payload[0]),
				Start:   binary.LittleEndian.Uint64(payload[4:12]),
				End:     binary.LittleEndian.Uint64(payload[12:20]),
			})
		}
		buf = buf[propHeaderSize+int(length):]
	}
	return props
}
