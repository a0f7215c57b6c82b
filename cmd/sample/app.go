package main

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/strogo/mercury"
)

const docTemplates = `
{{define "page"}}<html><head><title>{{.title}}</title></head>
<body><h1>{{.title}}</h1><p>{{.body}}</p></body></html>
{{end}}
`

// newApp assembles the demonstration application: one route per framework
// feature, plus the middleware stack from the config.
func newApp(cfg *mercury.Config, logger *slog.Logger) (*mercury.App, error) {
	pages, err := template.New("docs").Parse(docTemplates)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	app := mercury.New(
		mercury.WithDebug(cfg.Debug),
		mercury.WithLogger(logger),
		mercury.WithEngine("html", mercury.NewHTMLEngine(pages)),
	)

	app.Use(mercury.Recovery())
	app.Use(mercury.Logger(logger))
	app.Use(mercury.Metrics(mercury.MetricsConfig{}))
	if cfg.RateLimit.Enabled {
		app.Use(mercury.RateLimitFromSettings(cfg.RateLimit))
	}

	app.Get("/", func(c *mercury.Context) mercury.Outcome {
		c.Response.SetHeader("Content-Type", "text/plain")
		return c.Text("mercury sample app — try /hello/:name, /files/*, /docs/:page, /ticker\n")
	})

	app.Get("/hello/:name", func(c *mercury.Context) mercury.Outcome {
		greeting := c.Request.Param("greeting")
		if greeting == "" {
			greeting = "hello"
		}
		return c.Text(fmt.Sprintf("%s, %s!\n", greeting, c.Params.Get("name")))
	}, mercury.WithRouteName("hello"), mercury.WithRouteHeader("Content-Type", "text/plain"))

	app.Get("/files/*", func(c *mercury.Context) mercury.Outcome {
		c.Response.SetHeader("Content-Type", "text/plain")
		return c.Text("you asked for " + c.Params.Splat()[0] + "\n")
	})

	app.Get("/docs/:page", func(c *mercury.Context) mercury.Outcome {
		page := c.Params.Get("page")
		return c.Render("html", "page", nil, map[string]any{
			"title": page,
			"body":  "Documentation for " + page + ".",
		})
	})

	app.Get("/ticker", func(c *mercury.Context) mercury.Outcome {
		c.Response.SetHeader("Content-Type", "text/plain")
		return c.Stream(func(yield func(string) bool) {
			for i := 1; i <= 5; i++ {
				if !yield(fmt.Sprintf("tick %d at %s\n", i, time.Now().Format(time.RFC3339))) {
					return
				}
				time.Sleep(200 * time.Millisecond)
			}
		})
	})

	// Pass chain: the first /admin route only answers authenticated
	// requests, the second catches everyone else.
	app.Get("/admin", func(c *mercury.Context) mercury.Outcome {
		if _, ok := c.Request.Cookie("session"); !ok {
			return c.Pass()
		}
		return c.Text("welcome back\n")
	})
	app.Get("/admin", func(c *mercury.Context) mercury.Outcome {
		c.Response.Status(http.StatusUnauthorized)
		return c.Text("authentication required\n")
	})

	app.Post("/login", func(c *mercury.Context) mercury.Outcome {
		user := strings.TrimSpace(c.Request.Param("user"))
		if user == "" {
			c.Response.Status(http.StatusBadRequest)
			return c.Text("user is required\n")
		}
		c.Response.SetCookie(&http.Cookie{Name: "session", Value: user, Path: "/"})
		return c.Text("logged in as " + user + "\n")
	})

	app.Delete("/logout", func(c *mercury.Context) mercury.Outcome {
		c.Response.DeleteCookie("session")
		return c.Text("logged out\n")
	})

	app.Put("/notes/:id", func(c *mercury.Context) mercury.Outcome {
		body := c.Request.Param("body")
		return c.Text(fmt.Sprintf("note %s updated (%d bytes)\n", c.Params.Get("id"), len(body)))
	})

	app.Get("/boom", func(_ *mercury.Context) mercury.Outcome {
		panic(errors.New("intentional failure"))
	})

	return app, nil
}
