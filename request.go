package mercury

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Request is the read-only view of one incoming request: method, decoded
// path, merged query/form parameters, cookies, headers, and environment
// metadata supplied by the hosting layer. It is constructed once per
// request and must not be shared across requests.
type Request struct {
	Method string
	Path   string

	params  url.Values
	header  http.Header
	cookies []*http.Cookie
	env     map[string]string

	ctx context.Context
}

// NewRequest builds a minimal request, mainly for tests and non-HTTP
// hosts. Query parameters in rawPath are decoded into the request's
// parameter set.
func NewRequest(method, rawPath string) *Request {
	path, query, _ := strings.Cut(rawPath, "?")
	params, _ := url.ParseQuery(query)
	return &Request{
		Method: method,
		Path:   path,
		params: params,
		header: make(http.Header),
		env:    make(map[string]string),
		ctx:    context.Background(),
	}
}

// newRequestFromHTTP adapts a server request. Form parameters are merged
// into the query parameters, query winning on conflicts being irrelevant
// here: ParseForm already folds both into r.Form with query first.
func newRequestFromHTTP(r *http.Request) *Request {
	//nolint:errcheck // malformed bodies leave r.Form with the query subset
	r.ParseForm()

	return &Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		params:  r.Form,
		header:  r.Header,
		cookies: r.Cookies(),
		env: map[string]string{
			"REMOTE_ADDR": r.RemoteAddr,
			"HOST":        r.Host,
			"PROTO":       r.Proto,
			"REQUEST_URI": r.RequestURI,
		},
		ctx: r.Context(),
	}
}

// Param returns the first query/form value for name.
func (r *Request) Param(name string) string { return r.params.Get(name) }

// ParamValues returns all query/form values for name.
func (r *Request) ParamValues(name string) []string { return r.params[name] }

// Header returns the first header value for name.
func (r *Request) Header(name string) string { return r.header.Get(name) }

// Cookie returns the named cookie's value.
func (r *Request) Cookie(name string) (string, bool) {
	for _, c := range r.cookies {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// Env returns hosting-layer metadata such as REMOTE_ADDR and HOST.
func (r *Request) Env(name string) string { return r.env[name] }

// Context returns the hosting layer's request context. It reports
// cancellation when the client goes away mid-stream.
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// dump renders the request for the debug diagnostic page.
func (r *Request) dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "request: %s %s\n", r.Method, r.Path)

	keys := make([]string, 0, len(r.params))
	for k := range r.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  param %s=%q\n", k, r.params[k])
	}

	envKeys := make([]string, 0, len(r.env))
	for k := range r.env {
		envKeys = append(envKeys, k)
	}
	sort.Strings(envKeys)
	for _, k := range envKeys {
		fmt.Fprintf(&b, "  env %s=%s\n", k, r.env[k])
	}
	return b.String()
}
