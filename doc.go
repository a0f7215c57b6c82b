// Package mercury is a Sinatra-style micro web framework for Go. Routes
// pair an HTTP verb and a path pattern with a handler closure; the first
// registered route whose pattern matches the request path produces the
// response.
//
// Patterns mix literal segments with `:name` captures (one path segment)
// and `*` splats (any remainder, across slashes):
//
//	app := mercury.New()
//	app.Get("/hello/:name", func(c *mercury.Context) mercury.Outcome {
//		return c.Text("hello, " + c.Params.Get("name"))
//	})
//	app.Get("/files/*", func(c *mercury.Context) mercury.Outcome {
//		return c.Text(c.Params.Splat()[0])
//	})
//
// A handler produces exactly one Outcome: a complete Body, a lazily pulled
// Stream, a Render dispatched to a named template engine, a Pass that
// falls through to the next matching route, or a Fault that short-circuits
// dispatch into a 500 response. Overlapping patterns are tried strictly in
// registration order, so a handler can decline with c.Pass() and let a
// later, more general route answer.
//
// App implements http.Handler, and middleware uses the standard
// func(http.Handler) http.Handler signature, so the entire Go middleware
// ecosystem works natively. Non-HTTP hosts can call Invoke directly with a
// Request and write the returned Result themselves.
package mercury
