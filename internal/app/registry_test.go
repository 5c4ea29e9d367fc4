package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayrunWorkers(t *testing.T) {
	t.Run("unset falls through to processor default", func(t *testing.T) {
		t.Setenv("PAYRUN_CONCURRENCY", "")
		assert.Equal(t, 0, payrunWorkers())
	})

	t.Run("reads a positive value", func(t *testing.T) {
		t.Setenv("PAYRUN_CONCURRENCY", "16")
		assert.Equal(t, 16, payrunWorkers())
	})

	t.Run("garbage and non-positive values are ignored", func(t *testing.T) {
		t.Setenv("PAYRUN_CONCURRENCY", "lots")
		assert.Equal(t, 0, payrunWorkers())

		t.Setenv("PAYRUN_CONCURRENCY", "-3")
		assert.Equal(t, 0, payrunWorkers())
	})
}
