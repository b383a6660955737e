package persistence_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jimyag/viommu/internal/viommu/core"
	"github.com/jimyag/viommu/internal/viommu/persistence"
	"github.com/jimyag/viommu/internal/viommu/persistence/model"
	"github.com/jimyag/viommu/internal/viommu/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *persistence.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viommu.db")
	store, err := persistence.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_Load_Empty(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Domains)
	assert.Empty(t, snap.Endpoints)
}

func TestStore_SaveAndLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	snap := core.Snapshot{
		Endpoints: []core.SnapshotEndpoint{{ID: 1}, {ID: 2}},
		Domains: []core.SnapshotDomain{
			{
				ID: 7,
				Mappings: []core.SnapshotMapping{
					{Low: 0x1000, High: 0x1fff, Phys: 0x80001000, Perm: wire.PermRead | wire.PermWrite},
				},
				Members: []uint32{1, 2},
			},
		},
	}

	require.NoError(t, store.Save(context.Background(), snap))

	got, err := store.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, got.Endpoints, 2)
	require.Len(t, got.Domains, 1)
	assert.Equal(t, uint32(7), got.Domains[0].ID)
	require.Len(t, got.Domains[0].Mappings, 1)
	assert.Equal(t, uint64(0x1000), got.Domains[0].Mappings[0].Low)
	assert.Equal(t, uint64(0x80001000), got.Domains[0].Mappings[0].Phys)
	assert.ElementsMatch(t, []uint32{1, 2}, got.Domains[0].Members)
}

func TestStore_Save_ReplacesPreviousSnapshot(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first := core.Snapshot{Domains: []core.SnapshotDomain{{ID: 1}}}
	require.NoError(t, store.Save(ctx, first))

	second := core.Snapshot{Domains: []core.SnapshotDomain{{ID: 2}}}
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Domains, 1)
	assert.Equal(t, uint32(2), got.Domains[0].ID)
}

func TestStore_Load_RejectsFutureSchema(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, core.Snapshot{}))

	require.NoError(t, store.DB().Model(&model.SnapshotMeta{}).Where("id = ?", 1).Update("version", model.SchemaVersion+1).Error)

	_, err := store.Load(ctx)
	require.Error(t, err)
	var futureErr *persistence.ErrFutureSchema
	assert.ErrorAs(t, err, &futureErr)
}
