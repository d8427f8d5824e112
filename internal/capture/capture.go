// Package capture provides scoped redirection of the output executed code
// emits. While a scope is active, writes land in per-call buffers instead of
// the real destinations; the restore function reinstates the originals on
// every exit path.
package capture

import (
	"bytes"
	"io"
)

// Streams routes the conventional and diagnostic output of executed code.
// Outside a capture scope writes go to the destinations given to New; inside
// a scope they are appended to the scope's buffers. The kernel loop runs one
// execution at a time, so at most one scope is ever active.
type Streams struct {
	stdout io.Writer
	stderr io.Writer
}

// New creates a Streams routing to the given real destinations.
func New(stdout, stderr io.Writer) *Streams {
	return &Streams{stdout: stdout, stderr: stderr}
}

// Stdout returns the current conventional-output destination. Callers must
// look it up per write, not cache it, so that capture scopes take effect.
func (s *Streams) Stdout() io.Writer {
	return s.stdout
}

// Stderr returns the current diagnostic-output destination.
func (s *Streams) Stderr() io.Writer {
	return s.stderr
}

// Scope holds the buffers written to while a capture is active.
type Scope struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// Capture swaps both destinations for the scope's buffers and returns the
// scope with a restore function. The caller must defer restore so the
// originals come back even when the executed code panics.
func (s *Streams) Capture() (*Scope, func()) {
	sc := &Scope{}
	prevOut, prevErr := s.stdout, s.stderr
	s.stdout, s.stderr = &sc.stdout, &sc.stderr
	return sc, func() {
		s.stdout, s.stderr = prevOut, prevErr
	}
}

// Stdout returns everything written to the conventional stream so far.
func (sc *Scope) Stdout() string {
	return sc.stdout.String()
}

// Stderr returns everything written to the diagnostic stream so far.
func (sc *Scope) Stderr() string {
	return sc.stderr.String()
}
