package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/RezaEskandarii/jobconsole/internal/console"
	"github.com/RezaEskandarii/jobconsole/internal/state"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageTemplates = []string{"cron_jobs", "job_form", "job_tasks", "login"}

var funcMap = template.FuncMap{
	"StatusBadgeClass": StatusBadgeClass,
	"StatusLabel":      StatusLabel,
	"ColorClass":       ColorClass,
	"pageURL":          pageURL,
	"reloadURL":        reloadURL,
	"sortURL":          sortURL,
	"filterValue":      filterValue,
	"formatTimers":     formatTimers,
	"add":              func(a, b int) int { return a + b },
	"sub":              func(a, b int) int { return a - b },
}

// parseTemplates parses every page together with the shared layout.
func parseTemplates() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		tmpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFiles,
			"templates/layout.html",
			fmt.Sprintf("templates/%s.html", name),
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		out[name] = tmpl
	}
	return out, nil
}

func (handler *HttpRouteHandler) render(w http.ResponseWriter, status int, tmplName string, data any) {
	tmpl, ok := handler.templates[tmplName]
	if !ok {
		http.Error(w, "unknown template "+tmplName, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		handler.log.WithError(err).WithField("template", tmplName).Error("render failed")
	}
}

func StatusBadgeClass(status state.JobStatus) string {
	b, _ := console.StatusBadge(status)
	return "badge" + ColorClass(b.Color)
}

func StatusLabel(status state.JobStatus) string {
	b, _ := console.StatusBadge(status)
	return b.Label
}

// ColorClass maps badge colors onto Bootstrap background classes.
func ColorClass(color string) string {
	switch color {
	case "processing":
		return " bg-primary"
	case "success", "green":
		return " bg-success"
	case "error", "red":
		return " bg-danger"
	default:
		return " bg-secondary"
	}
}
