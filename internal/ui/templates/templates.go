// Package templates renders the UI pages.
//
// Each page is an html/template file under pages/ that defines "title" and "content" and is executed inside one of
// the layouts. Pages are exposed to handlers as templ components.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/a-h/templ"
	"github.com/infinity-booking/provider-ui/internal/ui/routes"
	"github.com/infinity-booking/provider-ui/internal/ui/types"
)

//go:embed layouts/*.html partials/*.html pages/*.html
var files embed.FS

// layout used by each page; pages not listed use the main (public site) layout
var pageLayouts = map[string]string{
	"auth_test":       "bare.html",
	"provider_home":   "dashboard.html",
	"profile":         "dashboard.html",
	"services":        "dashboard.html",
	"service_details": "dashboard.html",
	"time_slots":      "dashboard.html",
	"bookings":        "dashboard.html",
	"earnings":        "dashboard.html",
	"messages":        "dashboard.html",
	"analytics":       "dashboard.html",
	"reviews":         "dashboard.html",
	"settings":        "dashboard.html",
}

const defaultLayout = "main.html"

// PageData is passed to every page template
type PageData struct {
	Environment string
	Route       string          // name of the route being rendered, used to highlight navigation
	Provider    *types.Provider // nil for guests
	Notice      string
	Error       string
	Form        map[string]string // submitted form values, re-rendered after a failed POST
	Data        any               // page specific
}

var funcs = template.FuncMap{
	"url":      routes.URL,
	"money":    types.FormatMoney,
	"date":     types.FormatDate,
	"datetime": types.FormatDateTime,
	"label":    types.FormatLabel,
	"stars":    types.FormatStars,
	"percent":  func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"rating":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"dict":     dict,
}

// dict builds a map from key/value pairs so partials can receive more than one value
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[key] = kv[i+1]
	}
	return m, nil
}

type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page together with its layout and the shared partials
func New() (*Renderer, error) {
	pageFiles, err := fs.Glob(files, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list page templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageFiles))}
	for _, file := range pageFiles {
		name := strings.TrimSuffix(path.Base(file), ".html")

		layout, ok := pageLayouts[name]
		if !ok {
			layout = defaultLayout
		}

		t, err := template.New(layout).Funcs(funcs).ParseFS(files, "layouts/"+layout, "partials/*.html", file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}

	return r, nil
}

// has reports whether a page template exists
func (r *Renderer) has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Page returns the component rendering the named page
func (r *Renderer) Page(name string, data PageData) templ.Component {
	t, ok := r.pages[name]
	if !ok {
		return templ.Raw(fmt.Sprintf("<p>unknown page %s</p>", template.HTMLEscapeString(name)))
	}
	return templ.FromGoHTML(t, data)
}
