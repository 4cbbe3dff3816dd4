// Package view renders the dashboard's HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"perfdash/internal/domain/performance"
)

//go:embed templates/*.html
var templateFiles embed.FS

const (
	PageIndex   = "index"
	PageProfile = "profile"
	PageError   = "error"
)

var pages = []string{PageIndex, PageProfile, PageError}

type IndexPage struct {
	Directory performance.Directory
	RequestID string
}

type ProfilePage struct {
	Profile   performance.Profile
	RequestID string
}

type ErrorPage struct {
	Status    int
	Message   string
	RequestID string
}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, page := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render executes page into a buffer and only then writes status and body,
// so a template error never leaves a half-written page behind.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

var funcs = template.FuncMap{
	"title":             titleCase,
	"date":              formatDate,
	"percent":           formatPercent,
	"number":            formatNumber,
	"rating":            formatRating,
	"relationshipCount": relationshipCount,
	"relationships":     relationships,
}

// Casers are stateful, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return "n/a"
		}
		return t.Format("02 Jan 2006")
	case *time.Time:
		if t == nil || t.IsZero() {
			return "n/a"
		}
		return t.Format("02 Jan 2006")
	default:
		return "n/a"
	}
}

func formatPercent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 0, 64) + "%"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func relationshipCount(counts map[string]int, key string) int {
	return counts[key]
}

// relationships lists the keys of counts: the standard 360° groups in display
// order, then any other relationship recorded in the data, sorted.
func relationships(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	known := make(map[string]bool, len(performance.FeedbackRelationships))
	for _, rel := range performance.FeedbackRelationships {
		known[rel] = true
		if counts[rel] > 0 {
			keys = append(keys, rel)
		}
	}
	var others []string
	for rel, n := range counts {
		if !known[rel] && n > 0 {
			others = append(others, rel)
		}
	}
	sort.Strings(others)
	return append(keys, others...)
}
