package core

// Domain is a translation context: an interval tree of mappings shared by
// every endpoint currently bound to it. The endpoint set stores stream
// IDs only, not endpoint objects; the binding is resolved by a registry
// lookup at each use site, which avoids a reference-counted
// endpoint<->domain cycle.
type Domain struct {
	ID       uint32
	Mappings *IntervalTree[Mapping]
	Members  map[uint32]struct{}
}

func newDomain(id uint32) *Domain {
	return &Domain{
		ID:       id,
		Mappings: NewIntervalTree[Mapping](),
		Members:  make(map[uint32]struct{}),
	}
}

// Empty reports whether the domain has neither live endpoints nor
// mappings, the only condition under which it may be reaped.
func (d *Domain) Empty() bool {
	return len(d.Members) == 0 && d.Mappings.Len() == 0
}

// DomainRegistry maps domain IDs to Domain objects. The map itself is
// unordered; Snapshot sorts the IDs so its output is in ascending order.
type DomainRegistry struct {
	domains map[uint32]*Domain
}

func NewDomainRegistry() *DomainRegistry {
	return &DomainRegistry{domains: make(map[uint32]*Domain)}
}

// Get returns the domain for id, creating it if absent. Only ATTACH may
// call this.
func (r *DomainRegistry) Get(id uint32) *Domain {
	d, ok := r.domains[id]
	if !ok {
		d = newDomain(id)
		r.domains[id] = d
	}
	return d
}

// Lookup returns the domain for id without creating it.
func (r *DomainRegistry) Lookup(id uint32) (*Domain, bool) {
	d, ok := r.domains[id]
	return d, ok
}

// Reap removes d from the registry if it is empty. A domain with live
// endpoints is never dropped.
func (r *DomainRegistry) Reap(d *Domain) {
	if d.Empty() {
		delete(r.domains, d.ID)
	}
}

// Reset drops every domain, used by Device.Reset.
func (r *DomainRegistry) Reset() {
	r.domains = make(map[uint32]*Domain)
}

// Len reports the number of live domains, for metrics.
func (r *DomainRegistry) Len() int { return len(r.domains) }
