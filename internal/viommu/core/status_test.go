package core_test

import (
	"errors"
	"testing"

	"github.com/jimyag/viommu/internal/viommu/core"
	"github.com/jimyag/viommu/internal/viommu/wire"
	"github.com/stretchr/testify/assert"
)

func TestStatusError_IsComparesCodeOnly(t *testing.T) {
	t.Parallel()

	err := core.WrapStatusError(wire.StatusNoent, "no such endpoint 7", nil)
	assert.True(t, errors.Is(err, core.ErrNoent))
	assert.False(t, errors.Is(err, core.ErrInval))
}

func TestStatusError_UnwrapReturnsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying")
	err := core.WrapStatusError(wire.StatusDevErr, "wrapped", cause)
	assert.Same(t, cause, errors.Unwrap(err))
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, wire.StatusOK, core.StatusOf(nil))
	assert.Equal(t, wire.StatusNoent, core.StatusOf(core.ErrNoent))
	assert.Equal(t, wire.StatusDevErr, core.StatusOf(errors.New("not a status error")))
}
