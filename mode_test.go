// Copyright (c) 2025 the conread authors
// released under the ISC license

package conread

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withColorSupport(t *testing.T, supported bool) {
	t.Helper()
	restore := stdoutSupportsColor
	stdoutSupportsColor = func() bool { return supported }
	t.Cleanup(func() { stdoutSupportsColor = restore })
}

func TestResolveModesDefaults(t *testing.T) {
	modes := ResolveModes(nil)
	assert.False(t, modes.JSON)
	assert.False(t, modes.Color)
}

func TestResolveModesExplicitContext(t *testing.T) {
	withColorSupport(t, true)
	modes := ResolveModes(testContext{json: true, color: true})
	assert.True(t, modes.JSON)
	assert.True(t, modes.Color)
}

func TestResolveModesColorRequiresTerminalSupport(t *testing.T) {
	withColorSupport(t, false)
	modes := ResolveModes(testContext{color: true})
	assert.False(t, modes.Color)
}

func TestResolveModesColorRequiresContextPermission(t *testing.T) {
	withColorSupport(t, true)
	modes := ResolveModes(testContext{color: false})
	assert.False(t, modes.Color)
}

func TestResolveModesDiscovery(t *testing.T) {
	SetContextDiscovery(func() Context { return testContext{json: true} })
	t.Cleanup(func() { SetContextDiscovery(nil) })

	modes := ResolveModes(nil)
	assert.True(t, modes.JSON)

	// an explicit context wins over discovery
	modes = ResolveModes(testContext{})
	assert.False(t, modes.JSON)
}
