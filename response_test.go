package mercury_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strogo/mercury"
)

func TestResponse_cookieOperations(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Post("/session", func(c *mercury.Context) mercury.Outcome {
		c.Response.SetCookie(&http.Cookie{Name: "session", Value: "abc", Path: "/"})
		c.Response.DeleteCookie("stale")
		return c.Text("ok")
	})

	result := app.Invoke(mercury.NewRequest(http.MethodPost, "/session"))

	require.Len(t, result.Cookies, 2)
	assert.Equal(t, "session", result.Cookies[0].Name)
	assert.Equal(t, "abc", result.Cookies[0].Value)
	assert.Equal(t, "stale", result.Cookies[1].Name)
	assert.Negative(t, result.Cookies[1].MaxAge, "deleted cookie must expire immediately")
}

func TestResponse_writtenChunksPrefixStream(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/x", func(c *mercury.Context) mercury.Outcome {
		c.Response.Write("prefix ")
		return mercury.Chunks("then ", "stream")
	})

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/x"))

	assert.Equal(t, "prefix ", result.Body)
	assert.Equal(t, "prefix then stream", collect(result))
}

func TestResponse_headerDefaultPreserved(t *testing.T) {
	t.Parallel()

	app := mercury.New()
	app.Get("/x", func(c *mercury.Context) mercury.Outcome {
		c.Response.SetHeader("Content-Type", "application/json")
		return c.Text(`{}`)
	})

	result := app.Invoke(mercury.NewRequest(http.MethodGet, "/x"))

	assert.Equal(t, "application/json", result.Header["Content-Type"])
}

func TestResponse_headerReadback(t *testing.T) {
	t.Parallel()

	res := mercury.NewResponse()
	res.SetHeader("X-One", "1")

	assert.Equal(t, "1", res.Header("X-One"))
	assert.Empty(t, res.Header("X-Two"))
}
