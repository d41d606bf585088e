package core

import (
	"bytes"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "Almoço", TruncateText("Almoço", 10))
	assert.Equal(t, "Almo…", TruncateText("Almoço com cliente", 5))
	assert.Equal(t, "A", TruncateText("Almoço", 1))
	assert.Equal(t, "Almoço", TruncateText("Almoço", 0))
}

func TestFuncs_StaticAndRenderSection(t *testing.T) {
	var tmpl *template.Template
	funcs := Funcs(Deps{
		Template:           &tmpl,
		ContentTemplateFor: func(string) string { return "inner" },
	})

	var err error
	tmpl, err = template.New("root").Funcs(funcs).Parse(
		`{{define "inner"}}<b>{{.}}</b>{{end}}{{define "outer"}}{{static "/css/app.css"}} {{renderSection "x" .}}{{end}}`,
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "outer", "<hi>"))
	assert.Equal(t, "/static/css/app.css <b>&lt;hi&gt;</b>", buf.String())
}
