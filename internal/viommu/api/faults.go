package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jimyag/viommu/internal/viommu/core"
	"github.com/jimyag/viommu/internal/viommu/wire"
)

// MetricsInterface is the narrow slice of *core.Device the metrics and
// fault-history handlers need.
type MetricsInterface interface {
	Metrics() core.Metrics
	Counts() (domains, endpoints, notifiers int)
	RecentFaults() []core.FaultRecord
}

// Faults serves the counters and bounded fault history.
type Faults struct {
	device MetricsInterface
}

func NewFaults(device MetricsInterface) *Faults {
	return &Faults{device: device}
}

func (f *Faults) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/metrics", adapt3(f.GetMetrics))
	router.GET("/faults", adapt3(f.ListFaults))
}

// MetricsResponse is the counters view: per-request-type and
// per-fault-reason totals plus live registry sizes.
type MetricsResponse struct {
	RequestsByType map[string]uint64 `json:"requests_by_type"`
	FaultsByReason map[string]uint64 `json:"faults_by_reason"`
	Domains        int               `json:"domains"`
	Endpoints      int               `json:"endpoints"`
	Notifiers      int               `json:"notifiers"`
}

func (f *Faults) GetMetrics(ctx *gin.Context) (*MetricsResponse, error) {
	m := f.device.Metrics()
	domains, endpoints, notifiers := f.device.Counts()

	resp := &MetricsResponse{
		RequestsByType: make(map[string]uint64, len(m.RequestsByType)),
		FaultsByReason: make(map[string]uint64, len(m.FaultsByReason)),
		Domains:        domains,
		Endpoints:      endpoints,
		Notifiers:      notifiers,
	}
	for k, v := range m.RequestsByType {
		resp.RequestsByType[requestTypeName(k)] = v
	}
	for k, v := range m.FaultsByReason {
		resp.FaultsByReason[faultReasonName(k)] = v
	}
	return resp, nil
}

// FaultRecordView is the JSON-friendly rendering of a core.FaultRecord.
type FaultRecordView struct {
	TraceID      uint64 `json:"trace_id"`
	Reason       string `json:"reason"`
	Violated     string `json:"violated"`
	Endpoint     uint32 `json:"endpoint"`
	Address      uint64 `json:"address"`
	AddressValid bool   `json:"address_valid"`
}

type ListFaultsResponse struct {
	Faults []FaultRecordView `json:"faults"`
}

func (f *Faults) ListFaults(ctx *gin.Context) (*ListFaultsResponse, error) {
	records := f.device.RecentFaults()
	resp := &ListFaultsResponse{Faults: make([]FaultRecordView, 0, len(records))}
	for _, r := range records {
		resp.Faults = append(resp.Faults, FaultRecordView{
			TraceID:      r.TraceID,
			Reason:       faultReasonName(r.Reason),
			Violated:     permissionName(r.Violated),
			Endpoint:     r.Endpoint,
			Address:      r.Address,
			AddressValid: r.AddressValid,
		})
	}
	return resp, nil
}

func requestTypeName(t wire.RequestType) string {
	switch t {
	case wire.ReqAttach:
		return "ATTACH"
	case wire.ReqDetach:
		return "DETACH"
	case wire.ReqMap:
		return "MAP"
	case wire.ReqUnmap:
		return "UNMAP"
	case wire.ReqProbe:
		return "PROBE"
	default:
		return "UNKNOWN"
	}
}

func faultReasonName(r wire.FaultReason) string {
	switch r {
	case wire.FaultUnknown:
		return "UNKNOWN"
	case wire.FaultDomain:
		return "DOMAIN"
	case wire.FaultMapping:
		return "MAPPING"
	default:
		return "UNSPECIFIED"
	}
}

func permissionName(p wire.Permission) string {
	s := ""
	if p.Has(wire.PermRead) {
		s += "R"
	}
	if p.Has(wire.PermWrite) {
		s += "W"
	}
	if p.Has(wire.PermExec) {
		s += "X"
	}
	if s == "" {
		return "-"
	}
	return s
}
