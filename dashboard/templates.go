package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"net/http"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = []string{"source", "overview", "project"}

type templateSet struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"num": func(v float64) string {
		if math.IsNaN(v) {
			return "NaN"
		}
		return humanize.FormatFloat("#,###.####", v)
	},
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
	"when":  func(f interface{ Format(string) string }) string { return f.Format("2006-01-02 15:04") },
}

// parseTemplates pairs the shared layout with each page's content block.
func parseTemplates() (*templateSet, error) {
	set := &templateSet{pages: make(map[string]*template.Template, len(pageTemplates))}
	for _, name := range pageTemplates {
		t, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		set.pages[name] = t
	}
	return set, nil
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (ts *templateSet) render(w http.ResponseWriter, name string, data *pageData, status int) error {
	t, ok := ts.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
