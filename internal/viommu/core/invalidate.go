package core

import "github.com/jimyag/viommu/internal/viommu/wire"

// fanOutInstall emits an install event for [low, high] to every notifier
// bound to a member of domain.
func (d *Device) fanOutInstall(domain *Domain, low, high, phys uint64, perm wire.Permission) {
	for epID := range domain.Members {
		if n, ok := d.notifiers.Lookup(epID); ok {
			n.Install(low, high, phys, perm)
		}
	}
}

// fanOutInvalidate emits an invalidate event for [low, high] to every
// notifier bound to a member of domain.
func (d *Device) fanOutInvalidate(domain *Domain, low, high uint64) {
	for epID := range domain.Members {
		if n, ok := d.notifiers.Lookup(epID); ok {
			n.Invalidate(low, high)
		}
	}
}

// notifyInstallSingle emits install events for every mapping in domain to
// the single notifier watching endpointID, if any: the ATTACH path,
// which only needs to catch up the newly attached endpoint's own
// notifier.
func (d *Device) notifyInstallSingle(endpointID uint32, domain *Domain) {
	n, ok := d.notifiers.Lookup(endpointID)
	if !ok {
		return
	}
	domain.Mappings.ForEach(func(key Interval, m Mapping) {
		n.Install(key.Low, key.High, m.Phys, m.Perm)
	})
}

// notifyInvalidateSingle emits invalidate events for every mapping
// currently in domain to the single notifier watching endpointID, if any:
// the full-detach path.
func (d *Device) notifyInvalidateSingle(endpointID uint32, domain *Domain) {
	n, ok := d.notifiers.Lookup(endpointID)
	if !ok {
		return
	}
	domain.Mappings.ForEach(func(key Interval, _ Mapping) {
		n.Invalidate(key.Low, key.High)
	})
}

// Replay walks endpointID's domain and re-emits an install event for
// every currently-live mapping to that endpoint's notifier. Replaying
// twice emits the same set of install events as replaying once, since it
// only ever reads current state.
func (d *Device) Replay(endpointID uint32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	ep, ok := d.endpoints.Lookup(endpointID)
	if !ok {
		return false
	}
	domainID, bound := ep.Bound()
	if !bound {
		return false
	}
	dom, ok := d.domains.Lookup(domainID)
	invariant(ok, "endpoint %d bound to unknown domain %d", endpointID, domainID)

	d.notifyInstallSingle(endpointID, dom)
	return true
}
