package mercury

import (
	"fmt"
	"iter"
	"net/http"
	"sort"
	"strings"
	"time"
)

const contentTypeHTML = "text/html"

// Response accumulates one request's status, headers, cookie operations,
// and body chunks. It belongs to the dispatch loop and is finalized
// exactly once into a Result.
type Response struct {
	status    int
	header    map[string]string
	cookies   []*http.Cookie
	chunks    []string
	finalized bool
}

// NewResponse returns an empty builder with status 200.
func NewResponse() *Response {
	return &Response{
		status: http.StatusOK,
		header: make(map[string]string),
	}
}

// Status sets the response status code.
func (r *Response) Status(code int) { r.status = code }

// SetHeader sets a response header, replacing any previous value.
func (r *Response) SetHeader(key, value string) { r.header[key] = value }

// Header returns the current value of a response header.
func (r *Response) Header(key string) string { return r.header[key] }

// SetCookie queues a cookie to be set on the response.
func (r *Response) SetCookie(c *http.Cookie) { r.cookies = append(r.cookies, c) }

// DeleteCookie queues an expired cookie, instructing the client to drop it.
func (r *Response) DeleteCookie(name string) {
	r.cookies = append(r.cookies, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
}

// Write appends a body chunk.
func (r *Response) Write(chunk string) { r.chunks = append(r.chunks, chunk) }

// applyDefaults sets header defaults (handlers may overwrite them) and
// returns a function restoring the affected keys to their prior state,
// for candidates that decline the request.
func (r *Response) applyDefaults(headers map[string]string) func() {
	if len(headers) == 0 {
		return func() {}
	}

	prev := make(map[string]string, len(headers))
	had := make(map[string]bool, len(headers))
	for k, v := range headers {
		if old, ok := r.header[k]; ok {
			prev[k] = old
			had[k] = true
		}
		r.header[k] = v
	}

	return func() {
		for k := range headers {
			if had[k] {
				r.header[k] = prev[k]
			} else {
				delete(r.header, k)
			}
		}
	}
}

// Result is the finalized (status, headers, body-or-stream) triple handed
// back to the hosting layer. A non-nil Chunks means the body is streamed;
// Body is then the prefix written before streaming began, usually empty.
type Result struct {
	Status  int
	Header  map[string]string
	Cookies []*http.Cookie
	Body    string
	Chunks  iter.Seq[string]
}

// finalize seals the builder into a complete-body Result.
func (r *Response) finalize() *Result {
	r.seal()
	return &Result{
		Status:  r.status,
		Header:  r.headerWithDefaults(),
		Cookies: r.cookies,
		Body:    strings.Join(r.chunks, ""),
	}
}

// finalizeStream seals the builder into a streaming Result. Chunks already
// written become the stream's prefix.
func (r *Response) finalizeStream(chunks iter.Seq[string]) *Result {
	r.seal()
	return &Result{
		Status:  r.status,
		Header:  r.headerWithDefaults(),
		Cookies: r.cookies,
		Body:    strings.Join(r.chunks, ""),
		Chunks:  chunks,
	}
}

// seal guards against double finalization, which would mean two handlers
// owned the same response.
func (r *Response) seal() {
	if r.finalized {
		panic("mercury: response finalized twice")
	}
	r.finalized = true
}

func (r *Response) headerWithDefaults() map[string]string {
	if _, ok := r.header["Content-Type"]; !ok {
		r.header["Content-Type"] = contentTypeHTML
	}
	return r.header
}

// dump renders the response state for the debug diagnostic page.
func (r *Response) dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "response: status %d\n", r.status)

	keys := make([]string, 0, len(r.header))
	for k := range r.header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  header %s: %s\n", k, r.header[k])
	}
	return b.String()
}
