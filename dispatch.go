package mercury

import (
	"fmt"
	"html"
	"net/http"
	"runtime/debug"
	"strings"
)

// Handler is the core handler signature. It receives the request-scoped
// Context and produces exactly one Outcome. Returning nil is equivalent to
// returning an empty Body.
type Handler func(c *Context) Outcome

// Context is the execution scope of one handler invocation: the extracted
// route parameters, the immutable request view, and the mutable response
// builder. It also carries the outcome constructors, so a handler body
// reads straight-line:
//
//	app.Get("/hello/:name", func(c *mercury.Context) mercury.Outcome {
//		return c.Text("hello, " + c.Params.Get("name"))
//	})
type Context struct {
	Params   Params
	Request  *Request
	Response *Response
}

// Text produces a Body outcome.
func (c *Context) Text(body string) Outcome { return Body(body) }

// Pass abandons this route; dispatch tries the next matching one.
func (c *Context) Pass() Outcome { return Pass{} }

// Render produces a RenderTemplate outcome for the named engine.
func (c *Context) Render(engine, ref string, opts RenderOptions, locals map[string]any) Outcome {
	return Render{Engine: engine, Ref: ref, Options: opts, Locals: locals}
}

// Stream adopts a lazy chunk producer as the response body.
func (c *Context) Stream(chunks func(yield func(string) bool)) Outcome {
	return Stream{Chunks: chunks}
}

// Error aborts dispatch with a fault response.
func (c *Context) Error(err error) Outcome { return Fault{Err: err} }

// fallbackRenderBody stands in when a template engine returns an empty
// string; an empty render still produces a response.
const fallbackRenderBody = "<!-- empty render result -->"

// Invoke is the hosting entry point: it dispatches one request against the
// route table and returns the finalized response. Every error path resolves
// to a well-formed response; Invoke never panics on handler failure.
func (a *App) Invoke(req *Request) *Result {
	if a.tracer != nil {
		_, end := a.tracer.StartSpan(req.Context(), "mercury.dispatch", map[string]string{
			"method": req.Method,
			"path":   req.Path,
		})
		defer end()
	}
	return a.dispatch(req)
}

// dispatch consumes the candidate sequence one route at a time. The first
// candidate that does not pass decides the response: a body or stream
// finalizes it, a fault short-circuits to an error response and no further
// candidate is tried. An exhausted sequence finalizes the unmatched-route
// response.
func (a *App) dispatch(req *Request) *Result {
	res := NewResponse()

	for cand := range a.candidates(req.Method, req.Path) {
		undo := res.applyDefaults(cand.route.headers)

		switch out := a.execute(cand, req, res).(type) {
		case Pass:
			// A declined candidate must not leak its header
			// defaults into the next candidate's response.
			undo()
			continue
		case Fault:
			a.logger.Error("handler fault",
				"route", cand.route.label(),
				"method", req.Method,
				"path", req.Path,
				"err", out.Err,
			)
			return faultResult(out.Err)
		case Body:
			res.Write(string(out))
			return res.finalize()
		case Stream:
			return res.finalizeStream(out.Chunks)
		}
	}

	return a.unmatched(req, res)
}

// execute runs one candidate's handler with its execution scope bound.
// Panics are contained here and surface as Fault; Render outcomes are
// resolved against the engine registry before returning, so dispatch only
// ever sees Body, Stream, Pass, or Fault.
func (a *App) execute(cand candidate, req *Request, res *Response) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			out = Fault{Err: &PanicError{Value: rec, Stack: debug.Stack()}}
		}
	}()

	out = cand.route.handler(&Context{
		Params:   cand.params,
		Request:  req,
		Response: res,
	})

	switch o := out.(type) {
	case nil:
		out = Body("")
	case Render:
		out = a.render(o)
	case Fault:
		if o.Err == nil {
			out = Fault{Err: ErrUnknownFault}
		}
	}
	return out
}

// render resolves a Render outcome into Body or Fault. An unknown engine
// name and an engine error are both faults; an empty render result still
// responds, with a placeholder body.
func (a *App) render(r Render) Outcome {
	engine, ok := a.engines[r.Engine]
	if !ok {
		return Fault{Err: fmt.Errorf("%w: %q", ErrUnknownEngine, r.Engine)}
	}

	body, err := engine.Render(r.Ref, r.Options, r.Locals)
	if err != nil {
		return Fault{Err: &RenderError{Engine: r.Engine, Ref: r.Ref, Err: err}}
	}
	if body == "" {
		body = fallbackRenderBody
	}
	return Body(body)
}

// faultResult builds the error response for a Fault outcome: status 500,
// text/html, the stringified error with newlines rendered as line breaks.
// A fault constructed without an error value still gets a well-formed body.
func faultResult(err error) *Result {
	if err == nil {
		err = ErrUnknownFault
	}
	body := strings.ReplaceAll(html.EscapeString(err.Error()), "\n", "<br>")
	return &Result{
		Status: http.StatusInternalServerError,
		Header: map[string]string{"Content-Type": contentTypeHTML},
		Body:   body,
	}
}

// unmatched finalizes the response when no route matched or every matching
// route passed. The body is produced lazily as a chunk sequence: the
// unmatched verb and path always, diagnostic dumps only under the debug
// flag.
func (a *App) unmatched(req *Request, res *Response) *Result {
	res.Status(a.notFoundStatus)
	res.SetHeader("Content-Type", contentTypeHTML)

	debugDump := a.debug
	return res.finalizeStream(func(yield func(string) bool) {
		if !yield(fmt.Sprintf("<h1>no route matched %s %s</h1>\n",
			html.EscapeString(req.Method), html.EscapeString(req.Path))) {
			return
		}
		if !debugDump {
			return
		}
		if !yield("<pre>" + html.EscapeString(req.dump()) + "</pre>\n") {
			return
		}
		yield("<pre>" + html.EscapeString(res.dump()) + "</pre>\n")
	})
}
