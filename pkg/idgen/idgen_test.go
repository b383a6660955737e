package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	gen := New()
	assert.NotNil(t, gen)
	assert.NotNil(t, gen.sf)
}

func TestGenerateID_Incremental(t *testing.T) {
	t.Parallel()

	gen := New()

	var prevID uint64
	for i := 0; i < 100; i++ {
		id, err := gen.GenerateID()
		require.NoError(t, err)

		if i > 0 {
			assert.Greater(t, id, prevID, "ID should be incremental: %d > %d", id, prevID)
		}
		prevID = id
	}
}

func TestGenerateID_Unique(t *testing.T) {
	t.Parallel()

	gen := New()

	ids := make(map[uint64]bool)
	for i := 0; i < 1000; i++ {
		id, err := gen.GenerateID()
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %d", id)
		ids[id] = true
	}
}

func TestDefaultGenerator(t *testing.T) {
	t.Parallel()

	gen1 := DefaultGenerator()
	gen2 := DefaultGenerator()

	assert.Equal(t, gen1, gen2)
	assert.NotNil(t, gen1)
	assert.NotNil(t, gen1.sf)
}

func TestPackageLevelGenerateID(t *testing.T) {
	t.Parallel()

	var prevID uint64
	for i := 0; i < 100; i++ {
		id, err := GenerateID()
		require.NoError(t, err)

		if i > 0 {
			assert.Greater(t, id, prevID, "ID should be incremental: %d > %d", id, prevID)
		}
		prevID = id
	}
}
