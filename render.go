package mercury

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

// RenderOptions carries engine-specific rendering options, such as a
// layout selection. Engines ignore keys they do not understand.
type RenderOptions map[string]any

// Engine renders a named template with the given options and locals.
// Engines are invoked per-render and must not retain state across calls.
type Engine interface {
	Render(ref string, opts RenderOptions, locals map[string]any) (string, error)
}

// HTMLEngine renders html/template templates from a parsed set, with
// contextual escaping.
type HTMLEngine struct {
	templates *htmltemplate.Template
}

// NewHTMLEngine wraps a parsed html/template set.
func NewHTMLEngine(templates *htmltemplate.Template) *HTMLEngine {
	return &HTMLEngine{templates: templates}
}

// Render executes the template named ref with locals as its data.
func (e *HTMLEngine) Render(ref string, _ RenderOptions, locals map[string]any) (string, error) {
	var buf strings.Builder
	if err := e.templates.ExecuteTemplate(&buf, ref, locals); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TextEngine renders text/template templates from a parsed set.
type TextEngine struct {
	templates *texttemplate.Template
}

// NewTextEngine wraps a parsed text/template set.
func NewTextEngine(templates *texttemplate.Template) *TextEngine {
	return &TextEngine{templates: templates}
}

// Render executes the template named ref with locals as its data.
func (e *TextEngine) Render(ref string, _ RenderOptions, locals map[string]any) (string, error) {
	var buf strings.Builder
	if err := e.templates.ExecuteTemplate(&buf, ref, locals); err != nil {
		return "", err
	}
	return buf.String(), nil
}
