package mercury

import "iter"

// Test-only exports for internal functions.

// AppCandidates exposes the lazy candidate sequence for router tests.
func AppCandidates(a *App, method, path string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for cand := range a.candidates(method, path) {
			if !yield(cand.route.pattern) {
				return
			}
		}
	}
}

// FallbackRenderBody exposes the placeholder used for empty render output.
const FallbackRenderBody = fallbackRenderBody

// DecodeCapture exposes the capture decoder for extractor tests.
var DecodeCapture = decodeCapture
