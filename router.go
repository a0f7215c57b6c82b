package mercury

import (
	"context"
	"iter"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// App is the central type that holds the route table, template engines,
// middleware, and configuration. It implements http.Handler.
//
// Registration is expected to happen once at startup, before any request
// is dispatched. The route table is read-only during dispatch, so one App
// may serve concurrent requests.
type App struct {
	routes     map[string][]route
	engines    map[string]Engine
	middleware []Middleware

	debug          bool
	notFoundStatus int

	logger *slog.Logger
	tracer SpanStarter

	mu sync.Mutex
}

// AppOption configures an App.
type AppOption func(*App)

// WithDebug toggles diagnostic dumps in the unmatched-route response.
// Never enable it in a production posture.
func WithDebug(debug bool) AppOption {
	return func(a *App) {
		a.debug = debug
	}
}

// WithNotFoundStatus sets the status reported when no route matches or
// every matching route passes. The default is 500, matching the classic
// micro-framework behavior; set 404 for the conventional posture.
func WithNotFoundStatus(code int) AppOption {
	return func(a *App) {
		a.notFoundStatus = code
	}
}

// WithLogger sets the structured logger used for dispatch faults.
func WithLogger(logger *slog.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// WithEngine registers a named template engine.
func WithEngine(name string, e Engine) AppOption {
	return func(a *App) {
		a.engines[name] = e
	}
}

// SpanStarter is a tracing hook interface for creating spans per dispatch.
// Implement this with your preferred tracing backend (e.g., OpenTelemetry).
type SpanStarter interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, func())
}

// WithTracer sets a tracing hook for the app.
func WithTracer(s SpanStarter) AppOption {
	return func(a *App) {
		a.tracer = s
	}
}

// New creates a new App with the given options.
func New(opts ...AppOption) *App {
	a := &App{
		routes:         make(map[string][]route),
		engines:        make(map[string]Engine),
		notFoundStatus: http.StatusInternalServerError,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Use adds middleware to the app. Middleware is applied in the order added
// and wraps the HTTP hosting layer, outside route dispatch.
func (a *App) Use(mw ...Middleware) {
	a.middleware = append(a.middleware, mw...)
}

// RegisterEngine registers a named template engine after construction.
func (a *App) RegisterEngine(name string, e Engine) {
	a.engines[name] = e
}

// Get registers a handler for GET requests matching pattern.
func (a *App) Get(pattern string, h Handler, opts ...RouteOption) {
	a.addRoute(http.MethodGet, pattern, h, opts...)
}

// Post registers a handler for POST requests matching pattern.
func (a *App) Post(pattern string, h Handler, opts ...RouteOption) {
	a.addRoute(http.MethodPost, pattern, h, opts...)
}

// Put registers a handler for PUT requests matching pattern.
func (a *App) Put(pattern string, h Handler, opts ...RouteOption) {
	a.addRoute(http.MethodPut, pattern, h, opts...)
}

// Delete registers a handler for DELETE requests matching pattern.
func (a *App) Delete(pattern string, h Handler, opts ...RouteOption) {
	a.addRoute(http.MethodDelete, pattern, h, opts...)
}

// addRoute appends a route to its verb bucket. The pattern is compiled
// once here; compilation is pure, so caching it changes nothing
// observable.
func (a *App) addRoute(method, pattern string, h Handler, opts ...RouteOption) {
	rt := route{
		method:   method,
		pattern:  pattern,
		compiled: Compile(pattern),
		handler:  h,
	}
	for _, opt := range opts {
		opt(&rt)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.routes[method] = append(a.routes[method], rt)
}

// Routes returns "METHOD pattern" descriptions of every registration, in
// a stable verb order with registration order preserved within a verb.
func (a *App) Routes() []string {
	var out []string
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		for _, rt := range a.routes[method] {
			out = append(out, rt.method+" "+rt.pattern)
		}
	}
	return out
}

// candidate is one ready-to-invoke handler binding: a matched route plus
// the parameters its pattern extracted from the path.
type candidate struct {
	route  *route
	params Params
}

// candidates lazily produces the matching routes for a verb and path, in
// registration order. Verbs with no registered routes, including unknown
// verbs, yield an empty sequence. The sequence is finite and
// non-restartable; dispatch consumes it exactly once.
func (a *App) candidates(method, path string) iter.Seq[candidate] {
	bucket := a.routes[method]
	return func(yield func(candidate) bool) {
		for i := range bucket {
			params, ok := bucket[i].compiled.Match(path)
			if !ok {
				continue
			}
			if !yield(candidate{route: &bucket[i], params: params}) {
				return
			}
		}
	}
}

// ListenAndServe starts an HTTP server on the given address.
// It blocks until the context is cancelled, then shuts down gracefully.
func (a *App) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
