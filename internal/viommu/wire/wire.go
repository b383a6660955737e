// Package wire implements the command- and event-queue byte layout for the
// paravirtualized IOMMU device: request/status/event structs and their
// little-endian encoding, independent of any transport or core logic.
package wire

import "encoding/binary"

// RequestType identifies the shape of a request's payload.
type RequestType uint8

const (
	ReqAttach RequestType = 1
	ReqDetach RequestType = 2
	ReqMap    RequestType = 3
	ReqUnmap  RequestType = 4
	ReqProbe  RequestType = 5
)

// Status is the single-byte result code written to a request's in-buffer
// tail.
type Status uint8

const (
	StatusOK     Status = 0
	StatusIOErr  Status = 1
	StatusUnsupp Status = 2
	StatusDevErr Status = 3
	StatusInval  Status = 4
	StatusRange  Status = 5
	StatusNoent  Status = 6
	StatusFault  Status = 7
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusIOErr:
		return "IOERR"
	case StatusUnsupp:
		return "UNSUPP"
	case StatusDevErr:
		return "DEVERR"
	case StatusInval:
		return "INVAL"
	case StatusRange:
		return "RANGE"
	case StatusNoent:
		return "NOENT"
	case StatusFault:
		return "FAULT"
	default:
		return "UNKNOWN"
	}
}

// Permission is the MAP flags bitset, reused verbatim as the requested
// access flags at translate time and the violated-direction flags in a
// fault record.
type Permission uint32

const (
	PermRead  Permission = 1 << 0
	PermWrite Permission = 1 << 1
	PermExec  Permission = 1 << 2
)

func (p Permission) Has(bit Permission) bool { return p&bit != 0 }

// HeaderSize is the fixed {request_type u8, reserved u8[3]} prologue of
// every request descriptor chain.
const HeaderSize = 4

// DecodeHeader reads the request header. buf must be at least HeaderSize
// bytes; callers are responsible for rejecting a shorter buffer before
// calling this.
func DecodeHeader(buf []byte) RequestType {
	return RequestType(buf[0])
}

// AttachPayloadSize is the ATTACH/DETACH payload size.
const AttachPayloadSize = 16 // domain u32, endpoint u32, reserved u8[8]

type AttachRequest struct {
	Domain   uint32
	Endpoint uint32
}

func DecodeAttach(buf []byte) (AttachRequest, bool) {
	if len(buf) < AttachPayloadSize {
		return AttachRequest{}, false
	}
	return AttachRequest{
		Domain:   binary.LittleEndian.Uint32(buf[0:4]),
		Endpoint: binary.LittleEndian.Uint32(buf[4:8]),
	}, true
}

// MapPayloadSize is the MAP payload size.
const MapPayloadSize = 32 // domain u32, virt_start u64, virt_end u64, phys_start u64, flags u32

type MapRequest struct {
	Domain    uint32
	VirtStart uint64
	VirtEnd   uint64
	PhysStart uint64
	Flags     Permission
}

func DecodeMap(buf []byte) (MapRequest, bool) {
	if len(buf) < MapPayloadSize {
		return MapRequest{}, false
	}
	return MapRequest{
		Domain:    binary.LittleEndian.Uint32(buf[0:4]),
		VirtStart: binary.LittleEndian.Uint64(buf[4:12]),
		VirtEnd:   binary.LittleEndian.Uint64(buf[12:20]),
		PhysStart: binary.LittleEndian.Uint64(buf[20:28]),
		Flags:     Permission(binary.LittleEndian.Uint32(buf[28:32])),
	}, true
}

// UnmapPayloadSize is the UNMAP payload size.
const UnmapPayloadSize = 24 // domain u32, virt_start u64, virt_end u64, reserved u8[4]

type UnmapRequest struct {
	Domain    uint32
	VirtStart uint64
	VirtEnd   uint64
}

func DecodeUnmap(buf []byte) (UnmapRequest, bool) {
	if len(buf) < UnmapPayloadSize {
		return UnmapRequest{}, false
	}
	return UnmapRequest{
		Domain:    binary.LittleEndian.Uint32(buf[0:4]),
		VirtStart: binary.LittleEndian.Uint64(buf[4:12]),
		VirtEnd:   binary.LittleEndian.Uint64(buf[12:20]),
	}, true
}

// ProbePayloadSize is the fixed PROBE request payload (endpoint + reserved);
// the property buffer lives in the in-buffer and is sized separately.
const ProbePayloadSize = 68 // endpoint u32, reserved u8[64]; properties live in the in-buffer

type ProbeRequest struct {
	Endpoint uint32
}

func DecodeProbe(buf []byte) (ProbeRequest, bool) {
	if len(buf) < 4 {
		return ProbeRequest{}, false
	}
	return ProbeRequest{Endpoint: binary.LittleEndian.Uint32(buf[0:4])}, true
}

// EncodeAttach/Map/Unmap exist for symmetry with the decoders, for tests,
// which need to build request bytes the same way a guest driver would.

func EncodeHeader(t RequestType) []byte {
	return []byte{byte(t), 0, 0, 0}
}

func EncodeAttach(r AttachRequest) []byte {
	buf := make([]byte, AttachPayloadSize)
	binary.LittleEndian.PutUint32(buf[0:4], r.Domain)
	binary.LittleEndian.PutUint32(buf[4:8], r.Endpoint)
	return buf
}

func EncodeMap(r MapRequest) []byte {
	buf := make([]byte, MapPayloadSize)
	binary.LittleEndian.PutUint32(buf[0:4], r.Domain)
	binary.LittleEndian.PutUint64(buf[4:12], r.VirtStart)
	binary.LittleEndian.PutUint64(buf[12:20], r.VirtEnd)
	binary.LittleEndian.PutUint64(buf[20:28], r.PhysStart)
	binary.LittleEndian.PutUint32(buf[28:32], uint32(r.Flags))
	return buf
}

func EncodeUnmap(r UnmapRequest) []byte {
	buf := make([]byte, UnmapPayloadSize)
	binary.LittleEndian.PutUint32(buf[0:4], r.Domain)
	binary.LittleEndian.PutUint64(buf[4:12], r.VirtStart)
	binary.LittleEndian.PutUint64(buf[12:20], r.VirtEnd)
	return buf
}

func EncodeProbe(r ProbeRequest) []byte {
	buf := make([]byte, ProbePayloadSize)
	binary.LittleEndian.PutUint32(buf[0:4], r.Endpoint)
	return buf
}
