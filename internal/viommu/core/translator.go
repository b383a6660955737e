package core

import "github.com/jimyag/viommu/internal/viommu/wire"

// TranslateResult is the outcome of a successful translation. Mask is
// the page-granularity mask derived from the device's configured
// page-size mask.
type TranslateResult struct {
	Address    uint64
	Permission wire.Permission
	Mask       uint64
}

// noPermission is returned, together with ok=false, whenever translation
// fails; callers must not forward Address/Permission in that case.
var noPermission = TranslateResult{}

// Translate is the synchronous DMA-access fast path. It is called from
// the DMA-issuing thread(s), independent of request
// processing, and takes the same core mutex so translations observe
// either the pre- or post-state of any mutation, never a partial one.
func (d *Device) Translate(streamID uint32, address uint64, access wire.Permission) (TranslateResult, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.translateLocked(streamID, address, access)
}

func (d *Device) translateLocked(streamID uint32, address uint64, access wire.Permission) (TranslateResult, bool) {
	bypass := d.cfg.Features.Has(FeatureBypass)

	ep, known := d.endpoints.Lookup(streamID)
	if !known {
		if bypass {
			return d.identity(address, access), true
		}
		d.faultLocked(wire.FaultUnknown, 0, streamID, address, false)
		return noPermission, false
	}

	if region, hit := d.reservedAt(address); hit {
		switch region.Subtype {
		case wire.ReservedMSI:
			return d.identity(address, access), true
		default: // wire.ReservedRegion
			d.faultLocked(wire.FaultMapping, 0, streamID, address, false)
			return noPermission, false
		}
	}

	domainID, bound := ep.Bound()
	if !bound {
		if bypass {
			return d.identity(address, access), true
		}
		d.faultLocked(wire.FaultDomain, 0, streamID, address, false)
		return noPermission, false
	}

	dom, ok := d.domains.Lookup(domainID)
	invariant(ok, "endpoint %d bound to unknown domain %d", streamID, domainID)

	key, mapping, hit := dom.Mappings.LookupContaining(address)
	if !hit {
		d.faultLocked(wire.FaultMapping, 0, streamID, address, false)
		return noPermission, false
	}

	if access.Has(wire.PermRead) && !mapping.Perm.Has(wire.PermRead) ||
		access.Has(wire.PermWrite) && !mapping.Perm.Has(wire.PermWrite) {
		violated := access &^ mapping.Perm
		d.faultLocked(wire.FaultMapping, violated, streamID, address, true)
		return noPermission, false
	}

	return TranslateResult{
		Address:    mapping.Translated(key.Low, address),
		Permission: access,
		Mask:       d.cfg.PageSizeMask,
	}, true
}

func (d *Device) identity(address uint64, access wire.Permission) TranslateResult {
	return TranslateResult{Address: address, Permission: access, Mask: d.cfg.PageSizeMask}
}
