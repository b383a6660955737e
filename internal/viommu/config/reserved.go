package config

import (
	"fmt"
	"os"

	"github.com/jimyag/viommu/internal/viommu/core"
	"github.com/jimyag/viommu/internal/viommu/wire"
	"gopkg.in/yaml.v3"
)

// reservedRegionsFile is the YAML-on-disk shape for static reserved
// regions. Subtype is the lowercase string form of wire.ReservedSubtype
// ("reserved" or "msi") since the wire integer isn't meant to be hand-
// authored in a deployment config.
type reservedRegionsFile struct {
	Regions []reservedRegionEntry `yaml:"regions"`
}

type reservedRegionEntry struct {
	Low     uint64 `yaml:"low"`
	High    uint64 `yaml:"high"`
	Subtype string `yaml:"subtype"`
}

func loadReservedRegions(path string) ([]core.ReservedRegion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc reservedRegionsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}

	regions := make([]core.ReservedRegion, 0, len(doc.Regions))
	for _, entry := range doc.Regions {
		subtype, err := parseSubtype(entry.Subtype)
		if err != nil {
			return nil, fmt.Errorf("region [%d, %d]: %w", entry.Low, entry.High, err)
		}
		regions = append(regions, core.ReservedRegion{
			Interval: core.Interval{Low: entry.Low, High: entry.High},
			Subtype:  subtype,
		})
	}

	return regions, nil
}

func parseSubtype(s string) (wire.ReservedSubtype, error) {
	switch s {
	case "", "reserved":
		return wire.ReservedRegion, nil
	case "msi":
		return wire.ReservedMSI, nil
	default:
		return 0, fmt.Errorf("unknown reserved-region subtype %q", s)
	}
}
