// Package kernel implements the request loop: one JSON request per input
// line, one JSON response per output line, executed synchronously against a
// single persistent context.
package kernel

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/itsmostafa/gokernel/internal/engine"
	"github.com/itsmostafa/gokernel/internal/history"
)

// Config wires the loop to its streams and collaborators.
type Config struct {
	// In is the request stream, one JSON object per line
	In io.Reader
	// Out is the response stream; every response is flushed before the
	// next request is read
	Out io.Writer
	// Diag receives kernel diagnostics, never protocol traffic
	Diag io.Writer
	// Engine executes request code
	Engine engine.Engine
	// Context is the process's single persistent namespace
	Context *engine.Context
	// History optionally records a transcript of served requests
	History history.Recorder
	// Session identifies this process lifetime in diagnostics
	Session string
	// Verbose enables the startup banner and shutdown summary on Diag
	Verbose bool
}

// Stats counts what one loop run did.
type Stats struct {
	// Served is the number of requests answered
	Served int
	// Skipped is the number of undecodable lines dropped without a response
	Skipped int
}

// Run reads requests until the input stream ends. Undecodable lines are
// dropped silently: the caller gets no acknowledgment for them, which keeps
// compatibility with existing front-ends (see DESIGN.md). A nil return means
// clean end-of-stream; a non-nil return is a fatal loop failure and the
// process should exit non-zero.
func Run(cfg Config) error {
	if cfg.Diag == nil {
		cfg.Diag = io.Discard
	}
	if cfg.Verbose {
		writeBanner(cfg.Diag, cfg.Engine.Name(), cfg.Session)
	}

	in := bufio.NewReader(cfg.In)
	out := bufio.NewWriter(cfg.Out)
	var stats Stats

	for {
		line, readErr := in.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("fatal kernel error: reading request: %w", readErr)
		}

		if len(line) > 0 {
			if err := serve(cfg, out, line, &stats); err != nil {
				return err
			}
		}

		// EOF ends the loop cleanly, including after a final unterminated
		// line.
		if readErr != nil {
			break
		}
	}

	if cfg.Verbose {
		writeSummary(cfg.Diag, stats, cfg.Context.Len())
	}
	return nil
}

// serve handles one input line: decode, execute, encode, flush.
func serve(cfg Config, out *bufio.Writer, line string, stats *Stats) error {
	var req Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		stats.Skipped++
		return nil
	}

	res := cfg.Engine.Execute(req.Code, cfg.Context)

	data, err := json.Marshal(newResponse(res))
	if err != nil {
		return fmt.Errorf("fatal kernel error: encoding response: %w", err)
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("fatal kernel error: writing response: %w", err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("fatal kernel error: flushing response: %w", err)
	}
	stats.Served++

	if cfg.History != nil {
		entry := history.Entry{
			Seq:    stats.Served,
			Code:   req.Code,
			Stdout: res.Stdout,
			Stderr: res.Stderr,
			Error:  res.Error,
		}
		if err := cfg.History.Record(entry); err != nil {
			return fmt.Errorf("fatal kernel error: recording history: %w", err)
		}
	}
	return nil
}
