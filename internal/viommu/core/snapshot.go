package core

import (
	"slices"

	"github.com/jimyag/viommu/internal/viommu/wire"
)

// SnapshotMapping is one serialized mapping record.
type SnapshotMapping struct {
	Low, High uint64
	Phys      uint64
	Perm      wire.Permission
}

// SnapshotDomain is one serialized domain: its mappings and the stream IDs
// of its current members. Endpoint->domain back references are not stored
// here; they are reconstructed on Restore by scanning each domain's
// member list.
type SnapshotDomain struct {
	ID       uint32
	Mappings []SnapshotMapping
	Members  []uint32
}

// SnapshotEndpoint is a serialized endpoint keyed by ID.
// Binding is not stored; it is derived from which domain's Members list
// the endpoint appears in.
type SnapshotEndpoint struct {
	ID uint32
}

// Snapshot is the full serializable device state: domains with their
// interval trees, and endpoints keyed by ID.
type Snapshot struct {
	Domains   []SnapshotDomain
	Endpoints []SnapshotEndpoint
}

// Snapshot serializes the current domain/endpoint state in ascending ID
// order. Notifier subscriptions are transport-side state and are not
// part of the persisted snapshot.
func (d *Device) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	var snap Snapshot
	for _, id := range sortedKeys(d.endpoints.endpoints) {
		snap.Endpoints = append(snap.Endpoints, SnapshotEndpoint{ID: id})
	}
	for _, id := range sortedKeys(d.domains.domains) {
		dom := d.domains.domains[id]
		sd := SnapshotDomain{ID: id}
		dom.Mappings.ForEach(func(key Interval, m Mapping) {
			sd.Mappings = append(sd.Mappings, SnapshotMapping{
				Low: key.Low, High: key.High, Phys: m.Phys, Perm: m.Perm,
			})
		})
		sd.Members = sortedKeys(dom.Members)
		snap.Domains = append(snap.Domains, sd)
	}
	return snap
}

func sortedKeys[V any](m map[uint32]V) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Restore replaces the device's domain/endpoint state with snap,
// reconstructing endpoint->domain back references by scanning each
// domain's member list and matching stream IDs.
// Notifier subscriptions are untouched; a restored device relies on
// downstream consumers re-subscribing and calling Replay.
func (d *Device) Restore(snap Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.endpoints.Reset()
	d.domains.Reset()

	for _, se := range snap.Endpoints {
		d.endpoints.Get(se.ID)
	}
	for _, sd := range snap.Domains {
		dom := d.domains.Get(sd.ID)
		for _, sm := range sd.Mappings {
			dom.Mappings.Insert(Interval{Low: sm.Low, High: sm.High}, Mapping{Phys: sm.Phys, Perm: sm.Perm})
		}
		for _, epID := range sd.Members {
			ep := d.endpoints.Get(epID)
			ep.bind(sd.ID)
			dom.Members[epID] = struct{}{}
		}
	}
}
