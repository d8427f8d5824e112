package kernel

import "github.com/itsmostafa/gokernel/internal/engine"

// Request is one decoded request line. Only code is recognized; other fields
// on the wire are ignored, and a missing code decodes to the empty string.
type Request struct {
	Code string `json:"code"`
}

// Response is one encoded response line. Error is null on success so callers
// can branch on it without string comparison.
type Response struct {
	Stdout string  `json:"stdout"`
	Stderr string  `json:"stderr"`
	Error  *string `json:"error"`
}

func newResponse(res engine.Result) Response {
	resp := Response{
		Stdout: res.Stdout,
		Stderr: res.Stderr,
	}
	if res.Error != "" {
		resp.Error = &res.Error
	}
	return resp
}
