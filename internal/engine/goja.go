package engine

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/itsmostafa/gokernel/internal/capture"
)

// gojaBuiltins are names the engine injects into the runtime. They are not
// part of the caller's namespace and are never mirrored into the Context.
var gojaBuiltins = map[string]bool{
	"print":   true,
	"console": true,
}

// GojaEngine executes ECMAScript with goja. A single goja.Runtime lives for
// the whole process, so functions and closures defined in one call remain
// callable in later calls.
type GojaEngine struct {
	vm      *goja.Runtime
	streams *capture.Streams
}

// NewGojaEngine creates the runtime and installs the output hooks.
func NewGojaEngine(streams *capture.Streams) (*GojaEngine, error) {
	e := &GojaEngine{
		vm:      goja.New(),
		streams: streams,
	}
	if err := e.setupGlobals(); err != nil {
		return nil, fmt.Errorf("failed to set up goja globals: %w", err)
	}
	return e, nil
}

// Name returns "goja".
func (e *GojaEngine) Name() string { return "goja" }

// Execute compiles code, runs it in the persistent runtime, and mirrors the
// runtime's globals back into ctx. Compile failures produce an error with
// the syntax diagnostic and source position; runtime failures produce an
// error with the exception message and JS stack, plus any output captured
// before the failure.
func (e *GojaEngine) Execute(code string, ctx *Context) Result {
	scope, restore := e.streams.Capture()
	defer restore()

	// Values placed in the Context from outside the runtime become globals.
	for _, name := range ctx.Names() {
		if e.vm.Get(name) == nil {
			val, _ := ctx.Get(name)
			if err := e.vm.Set(name, val); err != nil {
				return Result{Error: fmt.Sprintf("failed to bind %s: %v", name, err)}
			}
		}
	}

	// Non-strict, so bare assignment creates a global as callers expect.
	prog, err := goja.Compile("<exec>", code, false)
	if err != nil {
		return Result{Error: fmt.Sprintf("compile error: %v", err)}
	}

	var errText string
	if _, err := e.vm.RunProgram(prog); err != nil {
		if ex, ok := err.(*goja.Exception); ok {
			// Exception.String includes the message and the frame chain.
			errText = fmt.Sprintf("runtime error: %s", strings.TrimRight(ex.String(), "\n"))
		} else {
			errText = fmt.Sprintf("runtime error: %v", err)
		}
	}

	// Mirror globals even after a failure; definitions made before the
	// failure point persist.
	e.mirrorGlobals(ctx)

	return Result{
		Stdout: scope.Stdout(),
		Stderr: scope.Stderr(),
		Error:  errText,
	}
}

// setupGlobals installs print and console into the runtime. Both write
// through the capture streams, looked up per call so scopes take effect.
func (e *GojaEngine) setupGlobals() error {
	printFunc := func(call goja.FunctionCall) goja.Value {
		fmt.Fprintln(e.streams.Stdout(), joinArgs(call.Arguments))
		return goja.Undefined()
	}
	if err := e.vm.Set("print", printFunc); err != nil {
		return err
	}

	console := e.vm.NewObject()
	if err := console.Set("log", printFunc); err != nil {
		return err
	}
	errorFunc := func(call goja.FunctionCall) goja.Value {
		fmt.Fprintln(e.streams.Stderr(), joinArgs(call.Arguments))
		return goja.Undefined()
	}
	if err := console.Set("error", errorFunc); err != nil {
		return err
	}
	return e.vm.Set("console", console)
}

// mirrorGlobals copies the runtime's enumerable globals into ctx so the
// Context stays the inspectable record of the namespace. The runtime itself
// remains the live namespace.
func (e *GojaEngine) mirrorGlobals(ctx *Context) {
	for _, name := range e.vm.GlobalObject().Keys() {
		if gojaBuiltins[name] {
			continue
		}
		val := e.vm.Get(name)
		if val == nil {
			continue
		}
		ctx.Set(name, val.Export())
	}
}

func joinArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
