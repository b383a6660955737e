package core

import (
	"sync"

	"github.com/jimyag/viommu/internal/viommu/wire"
	"github.com/jimyag/viommu/pkg/idgen"
	"github.com/rs/zerolog"
)

// DeviceConfig configures a Device at construction: the device-config
// region plus the reserved-region table, which is device-configured
// rather than wire-negotiated.
type DeviceConfig struct {
	PageSizeMask uint64
	InputRange   Interval
	DomainStart  uint32
	DomainEnd    uint32
	ProbeSize    uint32
	Features     Features
	Reserved     []ReservedRegion
}

// EventSink is where Device posts fault records. Its shape
// matches transport.EventQueue exactly so a transport.EventQueue value
// satisfies it without this package importing transport.
type EventSink interface {
	TryPush(payload []byte) (ok bool, err error)
}

// Metrics are the read-only counters the debug API exposes. They live
// under the core mutex rather than atomics so a single lock discipline
// covers all device state.
type Metrics struct {
	RequestsByType map[wire.RequestType]uint64
	FaultsByReason map[wire.FaultReason]uint64
}

func newMetrics() Metrics {
	return Metrics{
		RequestsByType: make(map[wire.RequestType]uint64),
		FaultsByReason: make(map[wire.FaultReason]uint64),
	}
}

func (m Metrics) clone() Metrics {
	out := newMetrics()
	for k, v := range m.RequestsByType {
		out.RequestsByType[k] = v
	}
	for k, v := range m.FaultsByReason {
		out.FaultsByReason[k] = v
	}
	return out
}

// recentFaultCap bounds the in-memory fault history the debug API
// exposes. Older faults still reach EventSink; this ring only serves
// introspection.
const recentFaultCap = 64

// FaultRecord is one entry in the device's bounded fault history.
type FaultRecord struct {
	TraceID      uint64
	Reason       wire.FaultReason
	Violated     wire.Permission
	Endpoint     uint32
	Address      uint64
	AddressValid bool
}

// Device is the translation core: the mutex-guarded union of the
// domain/endpoint/notifier registries, the reserved-region table, and the
// synchronous translate/fault paths. A single mutex
// serializes every read and write; see translator.go, requestproc.go,
// invalidate.go and fault.go for the operations that take it.
type Device struct {
	mu sync.Mutex

	domains   *DomainRegistry
	endpoints *EndpointRegistry
	notifiers *NotifierRegistry
	reserved  []ReservedRegion

	cfg     DeviceConfig
	metrics Metrics
	faults  []FaultRecord

	events EventSink
	idgen  *idgen.Generator
	logger zerolog.Logger
}

// NewDevice constructs a Device. events may be nil, in which case faults
// are logged and dropped unconditionally (useful for tests that only care
// about the returned no-permission translation).
func NewDevice(cfg DeviceConfig, events EventSink, logger zerolog.Logger) *Device {
	return &Device{
		domains:   NewDomainRegistry(),
		endpoints: NewEndpointRegistry(),
		notifiers: NewNotifierRegistry(),
		reserved:  append([]ReservedRegion(nil), cfg.Reserved...),
		cfg:       cfg,
		metrics:   newMetrics(),
		events:    events,
		idgen:     idgen.New(),
		logger:    logger,
	}
}

// Reset tears down every domain, endpoint, and notifier subscription.
// It vacuously honors the "no domain with live endpoints is dropped"
// invariant by tearing everything down together.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.domains.Reset()
	d.endpoints.Reset()
	d.notifiers.Reset()
	d.metrics = newMetrics()
	d.faults = nil
}

// RegisterNotifier subscribes n to invalidation events for endpointID;
// it acquires the core mutex itself.
func (d *Device) RegisterNotifier(endpointID uint32, n Notifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifiers.Register(endpointID, n)
}

// UnregisterNotifier unsubscribes the notifier for endpointID, honoring
// the Active->None transition.
func (d *Device) UnregisterNotifier(endpointID uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifiers.Unregister(endpointID)
}

// Metrics returns a point-in-time copy of the device's counters.
func (d *Device) Metrics() Metrics {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.metrics.clone()
}

// Counts returns the number of live domains, endpoints, and notifier
// subscriptions, for the debug API.
func (d *Device) Counts() (domains, endpoints, notifiers int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.domains.Len(), d.endpoints.Len(), d.notifiers.Len()
}

// RecentFaults returns up to recentFaultCap of the most recently recorded
// faults, oldest first.
func (d *Device) RecentFaults() []FaultRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]FaultRecord, len(d.faults))
	copy(out, d.faults)
	return out
}
