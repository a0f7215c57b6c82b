package mercury

// route holds one verb+pattern registration. Routes are created at
// application-definition time and are immutable during dispatch; the order
// they were registered in is the sole tie-break between overlapping
// patterns.
type route struct {
	method   string
	pattern  string
	compiled CompiledPattern
	handler  Handler

	name    string
	headers map[string]string
}

// RouteOption configures a route at registration time.
type RouteOption func(*route)

// WithRouteName names the route for log attribution. Unnamed routes fall
// back to their pattern string.
func WithRouteName(name string) RouteOption {
	return func(rt *route) {
		rt.name = name
	}
}

// WithRouteHeader sets a default response header applied before the
// route's handler runs. The handler may overwrite it.
func WithRouteHeader(key, value string) RouteOption {
	return func(rt *route) {
		if rt.headers == nil {
			rt.headers = make(map[string]string)
		}
		rt.headers[key] = value
	}
}

// label returns the route's name for observability surfaces.
func (rt *route) label() string {
	if rt.name != "" {
		return rt.name
	}
	return rt.method + " " + rt.pattern
}
