package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/itsmostafa/gokernel/internal/capture"
)

func newTengoForTest() (*TengoEngine, *Context) {
	streams := capture.New(&bytes.Buffer{}, &bytes.Buffer{})
	return NewTengoEngine(streams), NewContext()
}

func TestTengoEngine_Persistence(t *testing.T) {
	eng, ctx := newTengoForTest()

	res := eng.Execute("x := 1", ctx)
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}

	res = eng.Execute("println(x)", ctx)
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Stdout != "1\n" {
		t.Errorf("expected stdout %q, got %q", "1\n", res.Stdout)
	}
}

func TestTengoEngine_Reassignment(t *testing.T) {
	eng, ctx := newTengoForTest()

	if res := eng.Execute("count := 1", ctx); res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res := eng.Execute("count = count + 1", ctx); res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}

	res := eng.Execute("println(count)", ctx)
	if res.Stdout != "2\n" {
		t.Errorf("expected stdout %q, got %q", "2\n", res.Stdout)
	}
}

func TestTengoEngine_FunctionsPersist(t *testing.T) {
	eng, ctx := newTengoForTest()

	res := eng.Execute("double := func(n) { return n * 2 }", ctx)
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}

	res = eng.Execute("println(double(21))", ctx)
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Stdout != "42\n" {
		t.Errorf("expected stdout %q, got %q", "42\n", res.Stdout)
	}
}

func TestTengoEngine_DefinitionsBeforeFailurePersist(t *testing.T) {
	eng, ctx := newTengoForTest()

	res := eng.Execute(`kept := "yes"; x := 1; x()`, ctx)
	if res.Error == "" {
		t.Fatal("expected a runtime error")
	}

	if v, ok := ctx.Get("kept"); !ok || v != "yes" {
		t.Errorf("expected context to hold kept=%q after the failure, got %v (ok=%v)", "yes", v, ok)
	}

	res = eng.Execute("println(kept)", ctx)
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Stdout != "yes\n" {
		t.Errorf("expected stdout %q, got %q", "yes\n", res.Stdout)
	}
}

func TestTengoEngine_CompileFailureIsolation(t *testing.T) {
	eng, ctx := newTengoForTest()

	res := eng.Execute("f := func(:", ctx)
	if res.Error == "" {
		t.Fatal("expected a compile error")
	}
	if !strings.Contains(res.Error, "compile error") {
		t.Errorf("expected a compile error indicator, got: %s", res.Error)
	}
	if res.Stdout != "" || res.Stderr != "" {
		t.Errorf("expected empty output on compile failure, got stdout=%q stderr=%q", res.Stdout, res.Stderr)
	}

	res = eng.Execute(`ok := "still alive"; println(ok)`, ctx)
	if res.Error != "" {
		t.Fatalf("unexpected error after compile failure: %s", res.Error)
	}
	if res.Stdout != "still alive\n" {
		t.Errorf("expected stdout %q, got %q", "still alive\n", res.Stdout)
	}
}

func TestTengoEngine_PartialOutputBeforeFailure(t *testing.T) {
	eng, ctx := newTengoForTest()

	res := eng.Execute(`println("a"); x := 1; x()`, ctx)
	if res.Stdout != "a\n" {
		t.Errorf("expected partial stdout %q, got %q", "a\n", res.Stdout)
	}
	if res.Error == "" {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(res.Error, "runtime error") {
		t.Errorf("expected a runtime error indicator, got: %s", res.Error)
	}
}

func TestTengoEngine_StderrBuiltins(t *testing.T) {
	eng, ctx := newTengoForTest()

	res := eng.Execute(`eprintln("diag"); println("out")`, ctx)
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Stderr != "diag\n" {
		t.Errorf("expected stderr %q, got %q", "diag\n", res.Stderr)
	}
	if res.Stdout != "out\n" {
		t.Errorf("expected stdout %q, got %q", "out\n", res.Stdout)
	}
}

func TestTengoEngine_EmptyCode(t *testing.T) {
	eng, ctx := newTengoForTest()

	res := eng.Execute("", ctx)
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Stdout != "" || res.Stderr != "" {
		t.Errorf("expected empty output, got stdout=%q stderr=%q", res.Stdout, res.Stderr)
	}
	if ctx.Len() != 0 {
		t.Errorf("expected no context mutation, got %d names", ctx.Len())
	}
}

func TestTengoEngine_ContextRoundTrip(t *testing.T) {
	eng, ctx := newTengoForTest()

	res := eng.Execute(`parts := ["a", "b"]; total := 2`, ctx)
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}

	if v, ok := ctx.Get("total"); !ok || v != 2 {
		t.Errorf("expected total=2 in context, got %#v (ok=%v)", v, ok)
	}
	arr, ok := ctx.Get("parts")
	if !ok {
		t.Fatal("expected parts in context")
	}
	got, ok := arr.([]any)
	if !ok || len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("expected parts=[a b], got %#v", arr)
	}
	if _, ok := ctx.Get("println"); ok {
		t.Error("injected builtins must not be mirrored into the context")
	}
}

func TestTengoEngine_StreamIsolation(t *testing.T) {
	var realOut, realErr bytes.Buffer
	streams := capture.New(&realOut, &realErr)
	eng := NewTengoEngine(streams)

	eng.Execute(`println("noisy"); eprintln("noisier")`, NewContext())

	if realOut.Len() != 0 || realErr.Len() != 0 {
		t.Errorf("executed code leaked to real streams: out=%q err=%q", realOut.String(), realErr.String())
	}
}
