package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jimyag/viommu/internal/viommu/config"
	"github.com/jimyag/viommu/internal/viommu/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, uint64(0xfff), cfg.PageSizeMask)
	assert.Equal(t, uint32(0), cfg.DomainStart)
	assert.Equal(t, uint32(0xffffffff), cfg.DomainEnd)
	assert.Equal(t, uint32(512), cfg.ProbeSize)
	assert.False(t, cfg.Bypass)
	assert.True(t, cfg.MapUnmap)
	assert.True(t, cfg.Probe)
	assert.Equal(t, "0.0.0.0:7777", cfg.Address)
	assert.Empty(t, cfg.Reserved)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("VIOMMU_PAGE_SIZE_MASK", "0xffff")
	t.Setenv("VIOMMU_DOMAIN_RANGE_START", "1")
	t.Setenv("VIOMMU_DOMAIN_RANGE_END", "100")
	t.Setenv("VIOMMU_PROBE_SIZE", "1024")
	t.Setenv("VIOMMU_BYPASS", "true")
	t.Setenv("VIOMMU_MAP_UNMAP", "false")
	t.Setenv("VIOMMU_PROBE", "false")
	t.Setenv("VIOMMU_ADDRESS", "127.0.0.1:9999")

	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, uint64(0xffff), cfg.PageSizeMask)
	assert.Equal(t, uint32(1), cfg.DomainStart)
	assert.Equal(t, uint32(100), cfg.DomainEnd)
	assert.Equal(t, uint32(1024), cfg.ProbeSize)
	assert.True(t, cfg.Bypass)
	assert.False(t, cfg.MapUnmap)
	assert.False(t, cfg.Probe)
	assert.Equal(t, "127.0.0.1:9999", cfg.Address)
}

func TestConfig_Features(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Bypass: true, MapUnmap: true, Probe: false}
	f := cfg.Features()

	assert.True(t, f.Has(core.FeatureInputRange))
	assert.True(t, f.Has(core.FeatureDomainRange))
	assert.True(t, f.Has(core.FeatureBypass))
	assert.True(t, f.Has(core.FeatureMapUnmap))
	assert.False(t, f.Has(core.FeatureProbe))
}

func TestNew_ReservedRegionsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reserved.yaml")
	yamlBody := `
regions:
  - low: 0xfee00000
    high: 0xfeefffff
    subtype: msi
  - low: 0
    high: 0xfff
    subtype: reserved
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))
	t.Setenv("VIOMMU_RESERVED_REGIONS_FILE", path)

	cfg, err := config.New()
	require.NoError(t, err)
	require.Len(t, cfg.Reserved, 2)

	assert.Equal(t, uint64(0xfee00000), cfg.Reserved[0].Low)
	assert.Equal(t, uint64(0xfeefffff), cfg.Reserved[0].High)

	assert.Equal(t, uint64(0), cfg.Reserved[1].Low)
	assert.Equal(t, uint64(0xfff), cfg.Reserved[1].High)
}

func TestNew_ReservedRegionsFile_BadSubtype(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reserved.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regions:\n  - low: 0\n    high: 1\n    subtype: bogus\n"), 0o644))
	t.Setenv("VIOMMU_RESERVED_REGIONS_FILE", path)

	_, err := config.New()
	assert.Error(t, err)
}
