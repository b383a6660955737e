package core

// Features is the negotiated virtio feature bitset. Only the
// device-semantics bits gate core behavior; the transport-level bits
// (EVENT_IDX, INDIRECT_DESC, VERSION_1) are recorded for completeness but
// have no effect on this package, which never touches virtqueue framing.
type Features uint64

const (
	FeatureInputRange Features = 1 << iota
	FeatureDomainRange
	FeatureMapUnmap
	FeatureBypass
	FeatureMMIO
	FeatureProbe
	FeatureEventIdx
	FeatureIndirectDesc
	FeatureVersion1
)

func (f Features) Has(bit Features) bool { return f&bit != 0 }
