package wire

import "encoding/binary"

// FaultReason identifies why a translation was refused.
type FaultReason uint8

const (
	FaultUnknown FaultReason = 1
	FaultDomain  FaultReason = 2
	FaultMapping FaultReason = 3
)

// Fault flags, distinct from Permission's MAP bits only in the addition
// of ADDRESS_VALID; the READ/WRITE/EXEC bits share Permission's numeric
// values.
const (
	FlagRead         Permission = PermRead
	FlagWrite        Permission = PermWrite
	FlagExec         Permission = PermExec
	FlagAddressValid Permission = 0x100
)

// EventSize is the fixed {reason u8, reserved u8[3], flags u32, endpoint u32,
// reserved u8[4], address u64} event record.
const EventSize = 24

// Event is one fault record posted to the event queue.
type Event struct {
	Reason   FaultReason
	Flags    Permission
	Endpoint uint32
	Address  uint64
}

// Encode serializes the event in wire order.
func (e Event) Encode() []byte {
	buf := make([]byte, EventSize)
	buf[0] = byte(e.Reason)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(e.Flags))
	binary.LittleEndian.PutUint32(buf[8:12], e.Endpoint)
	binary.LittleEndian.PutUint64(buf[16:24], e.Address)
	return buf
}

// DecodeEvent parses an event record previously produced by Encode; used by
// tests that play the guest side.
func DecodeEvent(buf []byte) (Event, bool) {
	if len(buf) < EventSize {
		return Event{}, false
	}
	return Event{
		Reason:   FaultReason(buf[0]),
		Flags:    Permission(binary.LittleEndian.Uint32(buf[4:8])),
		Endpoint: binary.LittleEndian.Uint32(buf[8:12]),
		Address:  binary.LittleEndian.Uint64(buf[16:24]),
	}, true
}
