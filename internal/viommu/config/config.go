// Package config builds a viommud Config from environment variables, with
// an optional YAML overlay for static reserved-region declarations (see
// reserved.go).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jimyag/viommu/internal/viommu/core"
)

// Config holds everything viommud needs to construct a core.Device, its
// persistence store, and its debug API.
type Config struct {
	// PageSizeMask is the negotiated page-size bitmap.
	// Configured via VIOMMU_PAGE_SIZE_MASK, default 0xfff (4 KiB pages).
	PageSizeMask uint64

	// DomainStart/DomainEnd are the domain ID range recorded in the
	// device config. Configured via
	// VIOMMU_DOMAIN_RANGE_START/VIOMMU_DOMAIN_RANGE_END. The device does
	// not check ATTACH's domain ID against this range.
	DomainStart uint32
	DomainEnd   uint32

	// ProbeSize is the in-buffer property region size PROBE is allowed
	// to fill. Configured via VIOMMU_PROBE_SIZE.
	ProbeSize uint32

	// Bypass enables FeatureBypass. Configured via VIOMMU_BYPASS.
	Bypass bool

	// MapUnmap and Probe gate the corresponding optional request types.
	// Both default to enabled; disabling one makes the device answer
	// the corresponding requests with UNSUPP, for a minimal profile.
	MapUnmap bool
	Probe    bool

	// DataDir holds the snapshot database (persistence.Store). Configured
	// via VIOMMU_DATA_DIR, default ~/.local/share/viommu.
	DataDir string

	// Address is the debug API's listen address. Configured via
	// VIOMMU_ADDRESS, default 0.0.0.0:7777.
	Address string

	// ReservedRegionsFile is an optional YAML file of static RESERVED/MSI
	// regions (see reserved.go). Configured via VIOMMU_RESERVED_REGIONS_FILE.
	ReservedRegionsFile string

	// Reserved is populated from ReservedRegionsFile by New, or left empty
	// if no file was configured.
	Reserved []core.ReservedRegion
}

// New builds a Config from the environment, loading the YAML reserved-
// region overlay if VIOMMU_RESERVED_REGIONS_FILE is set.
func New() (*Config, error) {
	cfg := &Config{
		PageSizeMask:        getUint64("VIOMMU_PAGE_SIZE_MASK", 0xfff),
		DomainStart:         uint32(getUint64("VIOMMU_DOMAIN_RANGE_START", 0)),
		DomainEnd:           uint32(getUint64("VIOMMU_DOMAIN_RANGE_END", 0xffffffff)),
		ProbeSize:           uint32(getUint64("VIOMMU_PROBE_SIZE", 512)),
		Bypass:              getBool("VIOMMU_BYPASS", false),
		MapUnmap:            getBool("VIOMMU_MAP_UNMAP", true),
		Probe:               getBool("VIOMMU_PROBE", true),
		DataDir:             getDataDir(),
		Address:             getAddress(),
		ReservedRegionsFile: os.Getenv("VIOMMU_RESERVED_REGIONS_FILE"),
	}

	if cfg.ReservedRegionsFile != "" {
		regions, err := loadReservedRegions(cfg.ReservedRegionsFile)
		if err != nil {
			return nil, fmt.Errorf("load reserved regions: %w", err)
		}
		cfg.Reserved = regions
	}

	return cfg, nil
}

// Features assembles the core.Features bitset this Config implies.
func (c *Config) Features() core.Features {
	f := core.FeatureInputRange | core.FeatureDomainRange
	if c.Bypass {
		f |= core.FeatureBypass
	}
	if c.MapUnmap {
		f |= core.FeatureMapUnmap
	}
	if c.Probe {
		f |= core.FeatureProbe
	}
	return f
}

func getUint64(key string, def uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getDataDir returns the snapshot database directory, preferring
// VIOMMU_DATA_DIR over the user's XDG data directory.
func getDataDir() string {
	if dir := os.Getenv("VIOMMU_DATA_DIR"); dir != "" {
		return dir
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "viommu")
	}

	return filepath.Join(".", "data")
}

func getAddress() string {
	if addr := os.Getenv("VIOMMU_ADDRESS"); addr != "" {
		return addr
	}

	return "0.0.0.0:7777"
}
