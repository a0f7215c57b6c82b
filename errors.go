package mercury

import (
	"errors"
	"fmt"
)

// ErrUnknownEngine reports a Render outcome naming an engine that was
// never registered.
var ErrUnknownEngine = errors.New("unknown template engine")

// ErrUnknownFault stands in for a Fault outcome that carries no error
// value, so the error response always has a body.
var ErrUnknownFault = errors.New("unknown fault")

// RenderError wraps a failure raised by a template engine during render.
type RenderError struct {
	Engine string
	Ref    string
	Err    error
}

// Error returns the render failure message.
func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s template %q: %v", e.Engine, e.Ref, e.Err)
}

// Unwrap returns the engine's underlying error.
func (e *RenderError) Unwrap() error { return e.Err }

// PanicError wraps a panic recovered from a handler body, with the stack
// captured at the recovery site.
type PanicError struct {
	Value any
	Stack []byte
}

// Error returns the panic value followed by the captured stack.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic: %v\n%s", e.Value, e.Stack)
}
