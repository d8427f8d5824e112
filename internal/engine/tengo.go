package engine

import (
	"fmt"

	"github.com/d5/tengo/v2"

	"github.com/itsmostafa/gokernel/internal/capture"
)

// tengoBuiltins are names the engine injects into every script. They are not
// mirrored into the Context after a run.
var tengoBuiltins = map[string]bool{
	"print":    true,
	"println":  true,
	"eprint":   true,
	"eprintln": true,
}

// TengoEngine executes Tengo scripts. Each call builds a fresh script, so
// persistence works by re-adding the Context's bindings before the run and
// extracting the script's globals back into the Context afterwards.
type TengoEngine struct {
	streams *capture.Streams
}

// NewTengoEngine creates a tengo-backed engine writing through streams.
func NewTengoEngine(streams *capture.Streams) *TengoEngine {
	return &TengoEngine{streams: streams}
}

// Name returns "tengo".
func (e *TengoEngine) Name() string { return "tengo" }

// Execute compiles and runs code with ctx's bindings in scope. Compile
// failures carry tengo's parse diagnostic with source position; runtime
// failures carry the error and its trace. Globals assigned before a runtime
// failure are still extracted into ctx.
func (e *TengoEngine) Execute(code string, ctx *Context) Result {
	scope, restore := e.streams.Capture()
	defer restore()

	script := tengo.NewScript([]byte(code))
	e.addBuiltins(script)

	for _, name := range ctx.Names() {
		val, _ := ctx.Get(name)
		if err := script.Add(name, toTengoValue(val)); err != nil {
			// Values tengo cannot represent stay in the Context but are
			// not visible to the script.
			continue
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return Result{Error: fmt.Sprintf("compile error: %v", err)}
	}

	var errText string
	if err := compiled.Run(); err != nil {
		errText = fmt.Sprintf("runtime error: %v", err)
	}

	for _, v := range compiled.GetAll() {
		name := v.Name()
		if name == "" || tengoBuiltins[name] {
			continue
		}
		ctx.Set(name, fromTengoObject(v.Object()))
	}

	return Result{
		Stdout: scope.Stdout(),
		Stderr: scope.Stderr(),
		Error:  errText,
	}
}

// addBuiltins installs the output functions. print/println write to the
// conventional stream, eprint/eprintln to the diagnostic stream, all through
// the capture scope active during the run.
func (e *TengoEngine) addBuiltins(script *tengo.Script) {
	write := func(newline bool, stderr bool) tengo.CallableFunc {
		return func(args ...tengo.Object) (tengo.Object, error) {
			w := e.streams.Stdout()
			if stderr {
				w = e.streams.Stderr()
			}
			for i, arg := range args {
				if i > 0 {
					fmt.Fprint(w, " ")
				}
				fmt.Fprint(w, objectToString(arg))
			}
			if newline {
				fmt.Fprint(w, "\n")
			}
			return tengo.UndefinedValue, nil
		}
	}

	_ = script.Add("print", &tengo.UserFunction{Name: "print", Value: write(false, false)})
	_ = script.Add("println", &tengo.UserFunction{Name: "println", Value: write(true, false)})
	_ = script.Add("eprint", &tengo.UserFunction{Name: "eprint", Value: write(false, true)})
	_ = script.Add("eprintln", &tengo.UserFunction{Name: "eprintln", Value: write(true, true)})
}

// toTengoValue converts a Context value to one tengo's Script.Add accepts.
// Native tengo objects (function definitions in particular) pass through
// unchanged so they stay callable in later calls.
func toTengoValue(v any) any {
	switch val := v.(type) {
	case tengo.Object:
		return val
	case string:
		return val
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return val
	case bool:
		return val
	case []any:
		return val
	case map[string]any:
		return val
	case nil:
		return nil
	default:
		return fmt.Sprintf("%v", v)
	}
}

// fromTengoObject converts a tengo object back to a plain Go value for the
// Context. Functions have no plain Go form and are kept as tengo objects;
// toTengoValue hands them back to the next script intact.
func fromTengoObject(obj tengo.Object) any {
	switch v := obj.(type) {
	case *tengo.CompiledFunction:
		return v
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		arr := make([]any, len(v.Value))
		for i, item := range v.Value {
			arr[i] = fromTengoObject(item)
		}
		return arr
	case *tengo.Map:
		m := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			m[k] = fromTengoObject(item)
		}
		return m
	case *tengo.Undefined:
		return nil
	default:
		return obj.String()
	}
}

// objectToString renders a tengo object the way print should show it:
// strings bare, everything else via the object's own representation.
func objectToString(obj tengo.Object) string {
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return fmt.Sprintf("%d", v.Value)
	case *tengo.Float:
		return fmt.Sprintf("%g", v.Value)
	case *tengo.Bool:
		if v.IsFalsy() {
			return "false"
		}
		return "true"
	case *tengo.Undefined:
		return "undefined"
	default:
		return obj.String()
	}
}
