// Copyright (c) 2025 the conread authors
// released under the ISC license

package conread

import (
	"github.com/jwalton/go-supportscolor"
)

// Context is the ambient context contract exposed by the embedding CLI. It
// tells conread whether the current invocation wants machine-readable JSON
// and whether terminal styling is acceptable.
type Context interface {
	IsJSONOutput() bool
	AllowsColor() bool
}

// Modes is the result of one mode resolution. It is valid for a single
// operation; callers must not cache it across operations.
type Modes struct {
	// JSON selects the structured interpretation of standard input.
	JSON bool
	// Color permits ANSI styling of prompts.
	Color bool
}

var discoverContext func() Context

// stdoutSupportsColor is swappable so tests can simulate a color terminal.
var stdoutSupportsColor = func() bool {
	return supportscolor.Stdout().SupportsColor
}

// SetContextDiscovery registers a fallback used by ResolveModes when no
// context is passed explicitly. The embedding CLI typically registers a
// lookup for its current invocation here, once, at startup.
func SetContextDiscovery(f func() Context) {
	discoverContext = f
}

// ResolveModes resolves the input mode for one operation. A nil ctx falls
// back to the registered discovery function; if that yields nothing, both
// flags are false. Color additionally requires that stdout is attached to a
// color-capable terminal, regardless of what the context allows.
func ResolveModes(ctx Context) Modes {
	if ctx == nil && discoverContext != nil {
		ctx = discoverContext()
	}
	if ctx == nil {
		return Modes{}
	}
	return Modes{
		JSON:  ctx.IsJSONOutput(),
		Color: ctx.AllowsColor() && stdoutSupportsColor(),
	}
}
