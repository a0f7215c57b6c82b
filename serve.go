package mercury

import "net/http"

// ServeHTTP implements http.Handler: it adapts the server request into the
// framework's request view, dispatches it, and writes the finalized result
// back, streaming chunk by chunk when the handler produced a lazy body.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := http.Handler(http.HandlerFunc(a.handle))
	for i := len(a.middleware) - 1; i >= 0; i-- {
		handler = a.middleware[i](handler)
	}
	handler.ServeHTTP(w, r)
}

func (a *App) handle(w http.ResponseWriter, r *http.Request) {
	result := a.Invoke(newRequestFromHTTP(r))

	for _, c := range result.Cookies {
		http.SetCookie(w, c)
	}
	for k, v := range result.Header {
		w.Header().Set(k, v)
	}
	w.WriteHeader(result.Status)

	if result.Body != "" {
		//nolint:errcheck,gosec // best-effort after WriteHeader
		w.Write([]byte(result.Body))
	}
	if result.Chunks == nil {
		return
	}

	flusher, _ := w.(http.Flusher)
	ctx := r.Context()
	for chunk := range result.Chunks {
		// Stop pulling once the client is gone; the producer is
		// released by breaking out of the range.
		if ctx.Err() != nil {
			return
		}
		if _, err := w.Write([]byte(chunk)); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}
