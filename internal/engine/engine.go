// Package engine compiles and runs code snippets against a persistent
// Context. Two script engines are supported: goja (ECMAScript, the default)
// and tengo. Both report code failures as data in the Result rather than as
// Go errors, so a buggy snippet never takes the kernel down.
package engine

import (
	"fmt"

	"github.com/itsmostafa/gokernel/internal/capture"
)

// Result holds everything one execution produced. Stdout and Stderr contain
// whatever the code emitted up to the point execution stopped; partial
// output before a failure is preserved.
type Result struct {
	// Stdout is the captured conventional output
	Stdout string
	// Stderr is the captured diagnostic output
	Stderr string
	// Error is the full diagnostic text of a compile or runtime failure,
	// empty when the execution succeeded
	Error string
}

// Engine executes one code snippet at a time against the shared Context.
type Engine interface {
	// Name returns the engine's registered name (e.g., "goja", "tengo")
	Name() string

	// Execute compiles and runs code. Definitions the code makes in ctx
	// persist for future calls regardless of whether this call failed.
	Execute(code string, ctx *Context) Result
}

// New returns the engine registered under name, writing emitted output
// through streams.
func New(name string, streams *capture.Streams) (Engine, error) {
	switch name {
	case "goja", "js", "javascript":
		return NewGojaEngine(streams)
	case "tengo":
		return NewTengoEngine(streams), nil
	default:
		return nil, fmt.Errorf("unknown engine %q (supported: goja, tengo)", name)
	}
}
