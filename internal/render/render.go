// Package render draws a heat map chart as SVG or as an HTML page with hover tooltips.
package render

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/i474232898/temperature-heatmap/internal/heatmap"
	"github.com/i474232898/temperature-heatmap/internal/temperature"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var baseTmpl = template.Must(template.New("render").Funcs(funcMap(message.NewPrinter(language.English))).ParseFS(templatesFS, "templates/*.tmpl"))

var errNoChart = errors.New("render: nil chart")

// Renderer executes the chart templates with locale-aware number formatting.
type Renderer struct {
	tmpl *template.Template
	lang language.Tag
}

// New returns a Renderer that formats temperatures for the given locale.
func New(lang language.Tag) (*Renderer, error) {
	t, err := baseTmpl.Clone()
	if err != nil {
		return nil, err
	}
	return &Renderer{
		tmpl: t.Funcs(funcMap(message.NewPrinter(lang))),
		lang: lang,
	}, nil
}

// SVG writes a standalone SVG document for chart.
func (r *Renderer) SVG(w io.Writer, chart *heatmap.Chart) error {
	if chart == nil {
		return errNoChart
	}
	return r.tmpl.ExecuteTemplate(w, "heatmap.svg", chart)
}

// PageData is the view model of the HTML page.
type PageData struct {
	Lang       string
	Chart      *heatmap.Chart
	SnapshotID string
	Source     string
	FetchedAt  string
}

// Page writes an HTML document embedding the chart and a hover tooltip.
func (r *Renderer) Page(w io.Writer, chart *heatmap.Chart, info temperature.SnapshotInfo) error {
	if chart == nil {
		return errNoChart
	}
	data := PageData{
		Lang:       r.lang.String(),
		Chart:      chart,
		SnapshotID: info.ID,
		Source:     info.Source,
		FetchedAt:  info.FetchedAt.UTC().Format(time.RFC3339),
	}
	return r.tmpl.ExecuteTemplate(w, "page.html", data)
}

func funcMap(p *message.Printer) template.FuncMap {
	return template.FuncMap{
		"px": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 2, 64)
		},
		"num": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
		"temp": func(v float64) string {
			return p.Sprintf("%.2f℃", v)
		},
		"deg": func(v float64) string {
			return p.Sprintf("%.1f", v)
		},
		"month": heatmap.MonthName,
		"half": func(v float64) float64 {
			return v / 2
		},
		"center": func(x, width float64) float64 {
			return x + width/2
		},
		"add": func(a, b float64) float64 {
			return a + b
		},
	}
}
