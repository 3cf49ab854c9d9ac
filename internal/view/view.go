// Package view renders the admin HTML pages and the records list fragment.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/aiowing/aiowing/internal/model"
	"github.com/aiowing/aiowing/internal/service"
)

//go:embed templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticFS returns the admin static assets rooted at their directory.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// LoginData is the login page context.
type LoginData struct {
	CurrentUser *model.User
}

// RecordsData is the records page and fragment context.
type RecordsData struct {
	CurrentUser *model.User
	*service.RecordPage
}

// Renderer executes the embedded templates.
type Renderer struct {
	login      *template.Template
	records    *template.Template
	recordList *template.Template
}

var funcs = template.FuncMap{
	"timestamp": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04")
	},
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(templatesFS,
		"templates/layout.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse base templates: %w", err)
	}

	login, err := page(base, "templates/login.html")
	if err != nil {
		return nil, err
	}
	records, err := page(base, "templates/records.html")
	if err != nil {
		return nil, err
	}

	return &Renderer{
		login:      login,
		records:    records,
		recordList: base,
	}, nil
}

func page(base *template.Template, file string) (*template.Template, error) {
	clone, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone base templates: %w", err)
	}
	t, err := clone.ParseFS(templatesFS, file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return t, nil
}

// Login renders the login page.
func (r *Renderer) Login(w io.Writer, data LoginData) error {
	return execute(w, r.login, "layout", data)
}

// Records renders the full records page.
func (r *Renderer) Records(w io.Writer, data RecordsData) error {
	return execute(w, r.records, "layout", data)
}

// RecordList renders the records list fragment to a string for the JSON
// envelope.
func (r *Renderer) RecordList(data RecordsData) (string, error) {
	var buf bytes.Buffer
	if err := execute(&buf, r.recordList, "record_list", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// execute renders into a buffer first so a template error never leaves a
// half-written response.
func execute(w io.Writer, t *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
