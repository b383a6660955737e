package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvariant_PanicsOnViolation(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		invariant(false, "endpoint %d bound to unknown domain %d", 1, 2)
	})
}

func TestInvariant_NoPanicWhenSatisfied(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		invariant(true, "unreachable")
	})
}
