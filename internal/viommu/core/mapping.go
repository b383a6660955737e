package core

import "github.com/jimyag/viommu/internal/viommu/wire"

// Mapping is one guest-virtual -> host-physical translation record, scoped
// to a single domain.
type Mapping struct {
	Phys uint64
	Perm wire.Permission
}

// Translated returns the physical address for va, which must already be
// known to fall within [lo, hi].
func (m Mapping) Translated(lo, va uint64) uint64 {
	return m.Phys + (va - lo)
}

// ReservedRegion is a device-configured IOVA range with a fixed policy:
// MSI regions pass through untranslated, RESERVED regions reject all
// accesses.
type ReservedRegion struct {
	Interval
	Subtype wire.ReservedSubtype
}
