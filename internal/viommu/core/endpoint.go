package core

// Endpoint is a DMA-capable device identified by a stream ID.
// Its binding is a non-owning reference to a domain ID, not a pointer, so
// the endpoint<->domain relationship never forms a reference-counted
// cycle.
type Endpoint struct {
	ID     uint32
	bound  bool
	domain uint32
}

// Bound reports whether the endpoint currently has a domain binding, and
// which domain ID if so.
func (e *Endpoint) Bound() (uint32, bool) {
	return e.domain, e.bound
}

func (e *Endpoint) bind(domainID uint32) {
	e.bound = true
	e.domain = domainID
}

func (e *Endpoint) unbind() {
	e.bound = false
	e.domain = 0
}

// EndpointRegistry maps stream IDs to Endpoint objects.
type EndpointRegistry struct {
	endpoints map[uint32]*Endpoint
}

func NewEndpointRegistry() *EndpointRegistry {
	return &EndpointRegistry{endpoints: make(map[uint32]*Endpoint)}
}

// Get returns the endpoint for id, creating it if absent. Only ATTACH may
// call this.
func (r *EndpointRegistry) Get(id uint32) *Endpoint {
	e, ok := r.endpoints[id]
	if !ok {
		e = &Endpoint{ID: id}
		r.endpoints[id] = e
	}
	return e
}

// Lookup returns the endpoint for id without creating it.
func (r *EndpointRegistry) Lookup(id uint32) (*Endpoint, bool) {
	e, ok := r.endpoints[id]
	return e, ok
}

// Reset drops every endpoint, used by Device.Reset.
func (r *EndpointRegistry) Reset() {
	r.endpoints = make(map[uint32]*Endpoint)
}

// Len reports the number of known endpoints, for metrics.
func (r *EndpointRegistry) Len() int { return len(r.endpoints) }
