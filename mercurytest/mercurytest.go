// Package mercurytest provides test helpers for the mercury framework.
package mercurytest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/strogo/mercury"
)

// Client wraps an httptest.Server for convenient app testing.
type Client struct {
	Server *httptest.Server
}

// NewClient creates a test client from an app.
func NewClient(t testing.TB, app *mercury.App) *Client {
	t.Helper()
	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)
	return &Client{Server: srv}
}

// Response holds a fully read response.
type Response struct {
	Status int
	Header http.Header
	Body   string
	Raw    *http.Response
}

// Get sends a GET request.
func (c *Client) Get(t testing.TB, path string) *Response {
	t.Helper()
	return c.do(t, http.MethodGet, path, "")
}

// Post sends a POST request with a form-encoded body.
func (c *Client) Post(t testing.TB, path, form string) *Response {
	t.Helper()
	return c.do(t, http.MethodPost, path, form)
}

// Put sends a PUT request with a form-encoded body.
func (c *Client) Put(t testing.TB, path, form string) *Response {
	t.Helper()
	return c.do(t, http.MethodPut, path, form)
}

// Delete sends a DELETE request.
func (c *Client) Delete(t testing.TB, path string) *Response {
	t.Helper()
	return c.do(t, http.MethodDelete, path, "")
}

func (c *Client) do(t testing.TB, method, path, form string) *Response {
	t.Helper()

	var body io.Reader
	if form != "" {
		body = strings.NewReader(form)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, c.Server.URL+path, body)
	if err != nil {
		t.Fatalf("build %s %s: %v", method, path, err)
	}
	if form != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("close response body: %v", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s %s body: %v", method, path, err)
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   string(data),
		Raw:    resp,
	}
}
