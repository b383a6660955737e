package core

import "github.com/jimyag/viommu/internal/viommu/wire"

// Dispatch decodes a request header + payload already known to be at
// least wire.HeaderSize bytes (the caller, the transport-facing request
// loop, detaches shorter descriptors before calling this) and runs the matching
// handler. It returns the wire status and, for PROBE, the property
// payload to place in the in-buffer after the status byte.
func (d *Device) Dispatch(out []byte) (wire.Status, []byte) {
	reqType := wire.DecodeHeader(out)
	payload := out[wire.HeaderSize:]

	switch reqType {
	case wire.ReqAttach:
		req, ok := wire.DecodeAttach(payload)
		if !ok {
			return wire.StatusDevErr, nil
		}
		return StatusOf(d.handleAttach(req)), nil

	case wire.ReqDetach:
		req, ok := wire.DecodeAttach(payload) // DETACH shares ATTACH's payload shape
		if !ok {
			return wire.StatusDevErr, nil
		}
		return StatusOf(d.handleDetach(req)), nil

	case wire.ReqMap:
		if !d.cfg.Features.Has(FeatureMapUnmap) {
			return wire.StatusUnsupp, nil
		}
		req, ok := wire.DecodeMap(payload)
		if !ok {
			return wire.StatusDevErr, nil
		}
		return StatusOf(d.handleMap(req)), nil

	case wire.ReqUnmap:
		if !d.cfg.Features.Has(FeatureMapUnmap) {
			return wire.StatusUnsupp, nil
		}
		req, ok := wire.DecodeUnmap(payload)
		if !ok {
			return wire.StatusDevErr, nil
		}
		return StatusOf(d.handleUnmap(req)), nil

	case wire.ReqProbe:
		if !d.cfg.Features.Has(FeatureProbe) {
			return wire.StatusUnsupp, nil
		}
		req, ok := wire.DecodeProbe(payload)
		if !ok {
			return wire.StatusDevErr, nil
		}
		props, err := d.handleProbe(req)
		if err != nil {
			return StatusOf(err), nil
		}
		return wire.StatusOK, props

	default:
		return wire.StatusUnsupp, nil
	}
}

// handleAttach gets-or-creates the endpoint and domain, links them, and
// replays the domain's existing mappings to the endpoint's notifier. An
// endpoint already bound elsewhere is fully detached first.
func (d *Device) handleAttach(req wire.AttachRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metrics.RequestsByType[wire.ReqAttach]++

	ep := d.endpoints.Get(req.Endpoint)
	if domainID, bound := ep.Bound(); bound && domainID != req.Domain {
		d.fullDetachLocked(ep, domainID)
	}

	dom := d.domains.Get(req.Domain)
	ep.bind(req.Domain)
	dom.Members[ep.ID] = struct{}{}

	d.notifyInstallSingle(ep.ID, dom)
	return nil
}

// handleDetach unbinds the endpoint from its domain. The request's
// domain_id is accepted but never compared against the endpoint's actual
// binding, matching what Linux guests expect of the device.
func (d *Device) handleDetach(req wire.AttachRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metrics.RequestsByType[wire.ReqDetach]++

	ep, ok := d.endpoints.Lookup(req.Endpoint)
	if !ok {
		return ErrNoent
	}
	domainID, bound := ep.Bound()
	if !bound {
		return ErrInval
	}
	d.fullDetachLocked(ep, domainID)
	return nil
}

// fullDetachLocked invalidates every mapping of the endpoint's domain to
// its notifier, unlinks it from the domain's member set, clears its
// binding, and reaps the domain if it is now empty. Must be called with
// d.mu held.
func (d *Device) fullDetachLocked(ep *Endpoint, domainID uint32) {
	dom, ok := d.domains.Lookup(domainID)
	invariant(ok, "endpoint %d bound to unknown domain %d", ep.ID, domainID)

	d.notifyInvalidateSingle(ep.ID, dom)
	delete(dom.Members, ep.ID)
	ep.unbind()
	d.domains.Reap(dom)
}

// handleMap inserts a mapping into the domain's tree and fans an install
// event out to every notifier bound to one of the domain's endpoints.
func (d *Device) handleMap(req wire.MapRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metrics.RequestsByType[wire.ReqMap]++

	if req.VirtStart > req.VirtEnd {
		return WrapStatusError(ErrInval.Code, "virt_start > virt_end", nil)
	}
	dom, ok := d.domains.Lookup(req.Domain)
	if !ok {
		return ErrNoent
	}

	key := Interval{Low: req.VirtStart, High: req.VirtEnd}
	m := Mapping{Phys: req.PhysStart, Perm: req.Flags}
	if !dom.Mappings.Insert(key, m) {
		return WrapStatusError(ErrInval.Code, "range already mapped", nil)
	}

	d.fanOutInstall(dom, key.Low, key.High, m.Phys, m.Perm)
	return nil
}

// handleUnmap removes every mapping fully covered by the request range.
// A mapping the range would split stops the walk with RANGE;
// already-removed mappings are not rolled back.
func (d *Device) handleUnmap(req wire.UnmapRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metrics.RequestsByType[wire.ReqUnmap]++

	dom, ok := d.domains.Lookup(req.Domain)
	if !ok {
		return ErrNoent
	}

	for {
		key, _, hit := dom.Mappings.FirstOverlapping(req.VirtStart, req.VirtEnd)
		if !hit {
			d.domains.Reap(dom)
			return nil
		}
		if key.Low < req.VirtStart || key.High > req.VirtEnd {
			d.domains.Reap(dom)
			return ErrRange
		}
		dom.Mappings.Remove(key)
		d.fanOutInvalidate(dom, key.Low, key.High)
	}
}

// handleProbe fills a fixed-size property buffer with reserved-region
// records followed by a terminator.
func (d *Device) handleProbe(req wire.ProbeRequest) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metrics.RequestsByType[wire.ReqProbe]++

	var buf []byte
	for _, r := range d.reserved {
		buf = append(buf, wire.EncodeResvMemProperty(r.Subtype, r.Low, r.High)...)
	}
	buf = append(buf, wire.EncodeTerminateProperty()...)

	if uint32(len(buf)) > d.cfg.ProbeSize {
		return nil, ErrInval
	}
	return buf, nil
}
