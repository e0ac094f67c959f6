package testutil

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed uint64) *core.Rng {
	if seed == 0 {
		seed = 12345 // fixed default so tests stay deterministic
	}
	return core.NewRng(seed)
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// AssertPanic asserts that the given function panics
func AssertPanic(t *testing.T, f func(), msgAndArgs ...interface{}) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic but none occurred: %v", msgAndArgs)
		}
	}()
	f()
}
