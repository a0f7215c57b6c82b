package mercury

import "iter"

// Outcome is the tagged result of running one handler to completion.
// The variant set is closed: Body, Stream, Pass, Render, and Fault.
// Exactly one variant is produced per handler invocation; a nil Outcome
// is treated as an empty Body.
type Outcome interface {
	outcome()
}

// Body is a complete response body.
type Body string

// Stream is a lazily produced response body. The host pulls chunks while
// writing the response; production must not be invoked concurrently with
// itself.
type Stream struct {
	Chunks iter.Seq[string]
}

// Pass declines the current route, advancing dispatch to the next
// matching candidate.
type Pass struct{}

// Render asks a named template engine to produce the response body.
type Render struct {
	Engine  string
	Ref     string
	Options RenderOptions
	Locals  map[string]any
}

// Fault aborts dispatch with an error response. Subsequent candidates are
// never tried after a fault.
type Fault struct {
	Err error
}

func (Body) outcome()   {}
func (Stream) outcome() {}
func (Pass) outcome()   {}
func (Render) outcome() {}
func (Fault) outcome()  {}
