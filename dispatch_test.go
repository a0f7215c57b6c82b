package mercury_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strogo/mercury"
)

func collect(result *mercury.Result) string {
	var b strings.Builder
	b.WriteString(result.Body)
	if result.Chunks != nil {
		for chunk := range result.Chunks {
			b.WriteString(chunk)
		}
	}
	return b.String()
}

func TestInvoke_firstMatchWins(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/x", func(c *mercury.Context) mercury.Outcome { return c.Text("first") })
	app.Get("/x", func(c *mercury.Context) mercury.Outcome { return c.Text("second") })

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/x"))

	assert.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, "first", result.Body)
}

func TestInvoke_passAdvancesToNextRoute(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/x", func(c *mercury.Context) mercury.Outcome { return c.Pass() })
	app.Get("/x", func(c *mercury.Context) mercury.Outcome { return c.Text("second") })

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/x"))

	assert.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, "second", result.Body)
}

func TestInvoke_allPassedIsServerError(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/x", func(c *mercury.Context) mercury.Outcome { return c.Pass() })
	app.Get("/x", func(c *mercury.Context) mercury.Outcome { return c.Pass() })

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/x"))

	assert.Equal(t, http.StatusInternalServerError, result.Status)
	assert.Equal(t, "text/html", result.Header["Content-Type"])
	assert.Contains(t, collect(result), "/x")
}

func TestInvoke_noRouteMatched(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/elsewhere", func(c *mercury.Context) mercury.Outcome { return c.Text("hi") })

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/missing"))

	assert.Equal(t, http.StatusInternalServerError, result.Status)
	body := collect(result)
	assert.Contains(t, body, "GET")
	assert.Contains(t, body, "/missing")
}

func TestInvoke_notFoundStatusOverride(t *testing.T) {
	t.Parallel()

	app := mercury.New(mercury.WithNotFoundStatus(http.StatusNotFound))

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/missing"))

	assert.Equal(t, http.StatusNotFound, result.Status)
}

func TestInvoke_debugDumps(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		debug    bool
		wantDump bool
	}{
		"debug off omits dumps":   {debug: false, wantDump: false},
		"debug on includes dumps": {debug: true, wantDump: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			app := mercury.New(mercury.WithDebug(tc.debug))
			result := app.Invoke(mercury.NewRequest(http.MethodGet, "/nowhere?q=1"))

			body := collect(result)
			assert.Contains(t, body, "/nowhere")
			if tc.wantDump {
				assert.Contains(t, body, "request:")
				assert.Contains(t, body, "response:")
			} else {
				assert.NotContains(t, body, "request:")
			}
		})
	}
}

func TestInvoke_faultStopsDispatch(t *testing.T) {
	t.Parallel()

	secondRan := false

	app := mercury.New()
	app.Get("/x", func(c *mercury.Context) mercury.Outcome {
		return c.Error(errors.New("storage offline"))
	})
	app.Get("/x", func(c *mercury.Context) mercury.Outcome {
		secondRan = true
		return c.Text("never")
	})

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/x"))

	assert.Equal(t, http.StatusInternalServerError, result.Status)
	assert.Equal(t, "text/html", result.Header["Content-Type"])
	assert.Contains(t, result.Body, "storage offline")
	assert.False(t, secondRan, "a fault must not be retried against later routes")
}

func TestInvoke_faultWithoutError(t *testing.T) {
	t.Parallel()

	tests := map[string]mercury.Handler{
		"zero-value fault": func(_ *mercury.Context) mercury.Outcome {
			return mercury.Fault{}
		},
		"nil error": func(c *mercury.Context) mercury.Outcome {
			return c.Error(nil)
		},
	}

	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			app := mercury.New()
			app.Get("/x", handler)
			app.Get("/x", func(c *mercury.Context) mercury.Outcome {
				return c.Text("never")
			})

			result := app.Invoke(mercury.NewRequest(http.MethodGet, "/x"))

			assert.Equal(t, http.StatusInternalServerError, result.Status)
			assert.Contains(t, result.Body, "unknown fault")
		})
	}
}

func TestInvoke_panicBecomesFault(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/x", func(_ *mercury.Context) mercury.Outcome {
		panic("unexpected condition")
	})

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/x"))

	assert.Equal(t, http.StatusInternalServerError, result.Status)
	assert.Contains(t, result.Body, "unexpected condition")
	assert.Contains(t, result.Body, "<br>", "traceback newlines render as line breaks")
}

func TestInvoke_faultBodyIsEscaped(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/x", func(c *mercury.Context) mercury.Outcome {
		return c.Error(errors.New("<script>alert(1)</script>"))
	})

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/x"))

	assert.NotContains(t, result.Body, "<script>")
	assert.Contains(t, result.Body, "&lt;script&gt;")
}

func TestInvoke_nilOutcomeIsEmptyBody(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/x", func(_ *mercury.Context) mercury.Outcome { return nil })

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/x"))

	assert.Equal(t, http.StatusOK, result.Status)
	assert.Empty(t, result.Body)
}

func TestInvoke_handlerSeesParams(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/users/:id/files/*", func(c *mercury.Context) mercury.Outcome {
		return c.Text(c.Params.Get("id") + ":" + c.Params.Splat()[0])
	})

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/users/42/files/a/b.txt"))

	require.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, "42:a/b.txt", result.Body)
}

func TestInvoke_responseBuilder(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Post("/things", func(c *mercury.Context) mercury.Outcome {
		c.Response.Status(http.StatusCreated)
		c.Response.SetHeader("Location", "/things/1")
		c.Response.Write("created")
		return c.Text(" thing 1")
	})

	result := app.Invoke(mercury.NewRequest(http.MethodPost, "/things"))

	assert.Equal(t, http.StatusCreated, result.Status)
	assert.Equal(t, "/things/1", result.Header["Location"])
	assert.Equal(t, "created thing 1", result.Body)
}

func TestInvoke_routeHeaders(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/plain", func(c *mercury.Context) mercury.Outcome { return c.Text("ok") },
		mercury.WithRouteHeader("Content-Type", "text/plain"),
		mercury.WithRouteName("plain"))

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/plain"))

	assert.Equal(t, "text/plain", result.Header["Content-Type"])
}

func TestInvoke_passedRouteHeadersDoNotLeak(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/x", func(c *mercury.Context) mercury.Outcome { return c.Pass() },
		mercury.WithRouteHeader("X-Variant", "a"))
	app.Get("/x", func(c *mercury.Context) mercury.Outcome { return c.Text("ok") })

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/x"))

	assert.Equal(t, "ok", result.Body)
	_, present := result.Header["X-Variant"]
	assert.False(t, present, "headers of a declined route must not survive it")
}

func TestInvoke_passedRouteHeadersRestorePrior(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/x", func(c *mercury.Context) mercury.Outcome {
		c.Response.SetHeader("Content-Type", "application/json")
		return c.Pass()
	}, mercury.WithRouteHeader("Content-Type", "text/plain"))
	app.Get("/x", func(c *mercury.Context) mercury.Outcome { return c.Text("{}") })

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/x"))

	// The declining route both carried a header default and had its
	// handler overwrite it; neither value outlives the decline, but a
	// value set before dispatch reached that route would. Here nothing
	// preceded it, so the framework default applies again.
	assert.Equal(t, "text/html", result.Header["Content-Type"])
}

func TestInvoke_passedRouteHeadersAbsentFromUnmatchedPage(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/x", func(c *mercury.Context) mercury.Outcome { return c.Pass() },
		mercury.WithRouteHeader("X-Variant", "a"))

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/x"))

	assert.Equal(t, http.StatusInternalServerError, result.Status)
	_, present := result.Header["X-Variant"]
	assert.False(t, present)
}

func TestInvoke_streamOutcome(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/feed", func(c *mercury.Context) mercury.Outcome {
		return mercury.Chunks("one ", "two ", "three")
	})

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/feed"))

	require.NotNil(t, result.Chunks)
	assert.Equal(t, "one two three", collect(result))
}

func TestInvoke_defaultContentType(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/x", func(c *mercury.Context) mercury.Outcome { return c.Text("<b>hi</b>") })

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/x"))

	assert.Equal(t, "text/html", result.Header["Content-Type"])
}
