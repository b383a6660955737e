package core

import "github.com/jimyag/viommu/internal/viommu/wire"

// Notifier is a downstream translation-consumer's invalidation handle.
// Implementations are invoked synchronously while the
// core mutex is held and must not call back into this package: no
// blocking I/O, no re-entrant Attach/Map/etc.
type Notifier interface {
	// Install tells the notifier a new translation is live.
	Install(low, high, phys uint64, perm wire.Permission)
	// Invalidate tells the notifier a translation is no longer valid.
	Invalidate(low, high uint64)
}

// NotifierRegistry is the set of notifiers currently subscribed, keyed by
// the endpoint they watch.
type NotifierRegistry struct {
	byEndpoint map[uint32]Notifier
}

func NewNotifierRegistry() *NotifierRegistry {
	return &NotifierRegistry{byEndpoint: make(map[uint32]Notifier)}
}

// Register subscribes n for endpointID. A second Register for the same
// endpoint replaces the prior notifier.
func (r *NotifierRegistry) Register(endpointID uint32, n Notifier) {
	r.byEndpoint[endpointID] = n
}

// Unregister removes the notifier for endpointID, if any.
func (r *NotifierRegistry) Unregister(endpointID uint32) {
	delete(r.byEndpoint, endpointID)
}

// Lookup returns the notifier watching endpointID, if subscribed.
func (r *NotifierRegistry) Lookup(endpointID uint32) (Notifier, bool) {
	n, ok := r.byEndpoint[endpointID]
	return n, ok
}

// Reset drops every subscription, used by Device.Reset.
func (r *NotifierRegistry) Reset() {
	r.byEndpoint = make(map[uint32]Notifier)
}

// Len reports the number of active subscriptions, for metrics.
func (r *NotifierRegistry) Len() int { return len(r.byEndpoint) }
