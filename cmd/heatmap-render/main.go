// Command heatmap-render fetches the temperature dataset once and writes the
// heat map as SVG, HTML or JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/text/language"

	"github.com/i474232898/temperature-heatmap/internal/heatmap"
	"github.com/i474232898/temperature-heatmap/internal/logging"
	"github.com/i474232898/temperature-heatmap/internal/render"
	"github.com/i474232898/temperature-heatmap/internal/temperature"
	"github.com/i474232898/temperature-heatmap/internal/temperature/sources"
)

type options struct {
	url     string
	file    string
	out     string
	format  string
	width   float64
	height  float64
	locale  string
	timeout time.Duration
	verbose bool
}

func main() {
	var opts options
	flag.StringVar(&opts.url, "url", sources.DefaultDatasetURL, "URL of the temperature dataset")
	flag.StringVar(&opts.file, "file", "", "Read the dataset from a local JSON file instead of -url")
	flag.StringVar(&opts.out, "out", "-", "Output path (- for stdout)")
	flag.StringVar(&opts.format, "format", "svg", "Output format (svg|html|json)")
	flag.Float64Var(&opts.width, "width", 1200, "Chart width in pixels")
	flag.Float64Var(&opts.height, "height", 600, "Chart height in pixels, excluding the legend")
	flag.StringVar(&opts.locale, "locale", "en", "Locale for number formatting")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Timeout for loading the dataset")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.Parse()

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := logging.New(os.Stderr, "development", level, "heatmap-render")

	if err := run(context.Background(), opts, log); err != nil {
		log.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, log *slog.Logger) error {
	lang, err := language.Parse(opts.locale)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", opts.locale, err)
	}

	var src temperature.Source
	if opts.file != "" {
		src = sources.NewFileSource(opts.file)
	} else {
		src = sources.NewHTTPSource(&http.Client{Timeout: opts.timeout}, opts.url, sources.DefaultBackoff, log)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	ds, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("load dataset from %s: %w", src.Name(), err)
	}
	log.Debug("dataset loaded", "source", src.Name(), "records", len(ds.Records))

	chart, err := heatmap.Map(ds, heatmap.DefaultLayout().WithSize(opts.width, opts.height))
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(opts.out)
	if err != nil {
		return err
	}

	if err := write(w, opts.format, chart, lang, src.Name()); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func write(w io.Writer, format string, chart *heatmap.Chart, lang language.Tag, source string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(chart)
	case "svg", "html":
		r, err := render.New(lang)
		if err != nil {
			return err
		}
		if format == "svg" {
			return r.SVG(w, chart)
		}
		return r.Page(w, chart, temperature.SnapshotInfo{
			ID:        "local",
			Source:    source,
			FetchedAt: time.Now().UTC(),
		})
	default:
		return fmt.Errorf("unknown format %q (want svg, html or json)", format)
	}
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
