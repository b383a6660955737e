package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jimyag/viommu/internal/viommu/core"
	"github.com/rs/zerolog"
)

// DeviceInterface is the narrow slice of *core.Device the debug API
// needs, so handlers can be tested against a fake without spinning up a
// real Device.
type DeviceInterface interface {
	Snapshot() core.Snapshot
	Counts() (domains, endpoints, notifiers int)
	Replay(endpointID uint32) bool
}

// Domains serves domain and endpoint introspection plus the replay
// trigger.
type Domains struct {
	device DeviceInterface
}

func NewDomains(device DeviceInterface) *Domains {
	return &Domains{device: device}
}

func (d *Domains) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/domains", adapt3(d.ListDomains))
	router.GET("/domains/:id", adapt5(d.GetDomain))
	router.GET("/endpoints", adapt3(d.ListEndpoints))
	router.GET("/endpoints/:id", adapt5(d.GetEndpoint))
	router.POST("/endpoints/:id/replay", adapt5(d.ReplayEndpoint))
}

// DomainInfo is one domain's introspection view: its live mappings and
// the stream IDs currently bound to it.
type DomainInfo struct {
	ID       uint32                 `json:"id"`
	Mappings []core.SnapshotMapping `json:"mappings"`
	Members  []uint32               `json:"members"`
}

type ListDomainsResponse struct {
	Domains []DomainInfo `json:"domains"`
}

func (d *Domains) ListDomains(ctx *gin.Context) (*ListDomainsResponse, error) {
	snap := d.device.Snapshot()
	resp := &ListDomainsResponse{Domains: make([]DomainInfo, 0, len(snap.Domains))}
	for _, sd := range snap.Domains {
		resp.Domains = append(resp.Domains, DomainInfo{ID: sd.ID, Mappings: sd.Mappings, Members: sd.Members})
	}
	return resp, nil
}

type GetDomainArgs struct {
	ID uint32 `uri:"id" binding:"required"`
}

func (d *Domains) GetDomain(ctx *gin.Context, args *GetDomainArgs) (*DomainInfo, error) {
	logger := zerolog.Ctx(ctx)
	snap := d.device.Snapshot()
	for _, sd := range snap.Domains {
		if sd.ID == args.ID {
			return &DomainInfo{ID: sd.ID, Mappings: sd.Mappings, Members: sd.Members}, nil
		}
	}
	logger.Debug().Uint32("domain_id", args.ID).Msg("domain not found")
	return nil, errDomainNotFound
}

// EndpointInfo is one endpoint's introspection view: whether it currently
// holds a domain binding.
type EndpointInfo struct {
	ID       uint32 `json:"id"`
	Bound    bool   `json:"bound"`
	DomainID uint32 `json:"domain_id,omitempty"`
}

type ListEndpointsResponse struct {
	Endpoints []EndpointInfo `json:"endpoints"`
}

func (d *Domains) ListEndpoints(ctx *gin.Context) (*ListEndpointsResponse, error) {
	snap := d.device.Snapshot()
	boundBy := make(map[uint32]uint32, len(snap.Endpoints))
	for _, sd := range snap.Domains {
		for _, epID := range sd.Members {
			boundBy[epID] = sd.ID
		}
	}

	resp := &ListEndpointsResponse{Endpoints: make([]EndpointInfo, 0, len(snap.Endpoints))}
	for _, se := range snap.Endpoints {
		domainID, bound := boundBy[se.ID]
		resp.Endpoints = append(resp.Endpoints, EndpointInfo{ID: se.ID, Bound: bound, DomainID: domainID})
	}
	return resp, nil
}

type GetEndpointArgs struct {
	ID uint32 `uri:"id" binding:"required"`
}

func (d *Domains) GetEndpoint(ctx *gin.Context, args *GetEndpointArgs) (*EndpointInfo, error) {
	logger := zerolog.Ctx(ctx)
	snap := d.device.Snapshot()
	for _, se := range snap.Endpoints {
		if se.ID != args.ID {
			continue
		}
		info := EndpointInfo{ID: se.ID}
		for _, sd := range snap.Domains {
			for _, epID := range sd.Members {
				if epID == se.ID {
					info.Bound = true
					info.DomainID = sd.ID
				}
			}
		}
		return &info, nil
	}
	logger.Debug().Uint32("endpoint_id", args.ID).Msg("endpoint not found")
	return nil, errEndpointNotFound
}

type ReplayArgs struct {
	ID uint32 `uri:"id" binding:"required"`
}

type ReplayResponse struct {
	Replayed bool `json:"replayed"`
}

// ReplayEndpoint re-emits install events for every mapping currently
// live in the endpoint's domain to its subscribed notifier, the one
// mutating operation this otherwise read-only surface exposes.
func (d *Domains) ReplayEndpoint(ctx *gin.Context, args *ReplayArgs) (*ReplayResponse, error) {
	logger := zerolog.Ctx(ctx)
	ok := d.device.Replay(args.ID)
	logger.Info().Uint32("endpoint_id", args.ID).Bool("replayed", ok).Msg("replay triggered")
	return &ReplayResponse{Replayed: ok}, nil
}
