package core

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
)

// Deps wires the func map to the parsed template set.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	// StaticPrefix is the URL prefix of static assets (default "/static/").
	StaticPrefix string
}

// Funcs returns a template.FuncMap containing helpers shared by all templates.
func Funcs(deps Deps) template.FuncMap {
	prefix := deps.StaticPrefix
	if prefix == "" {
		prefix = "/static/"
	}
	return template.FuncMap{
		"static":        func(p string) string { return prefix + strings.TrimPrefix(p, "/") },
		"truncateText":  TruncateText,
		"renderSection": renderSection(deps),
	}
}

// renderSection executes the content template of a page into the layout.
func renderSection(deps Deps) func(string, any) (template.HTML, error) {
	return func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		if deps.ContentTemplateFor == nil {
			return "", errors.New("content template lookup not configured")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped during execution.
		return template.HTML(buf.String()), nil
	}
}

// TruncateText truncates a string to a maximum number of runes (not bytes),
// ending with an ellipsis when shortened.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen > 1 {
		return string(runes[:maxLen-1]) + "…"
	}
	return string(runes[:1])
}
