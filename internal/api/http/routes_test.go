package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/i474232898/temperature-heatmap/internal/heatmap"
	"github.com/i474232898/temperature-heatmap/internal/render"
	"github.com/i474232898/temperature-heatmap/internal/store"
	"github.com/i474232898/temperature-heatmap/internal/temperature"
)

type fixedSource struct {
	ds  temperature.Dataset
	err error
}

func (f *fixedSource) Name() string { return "fixed" }

func (f *fixedSource) Fetch(ctx context.Context) (temperature.Dataset, error) {
	return f.ds, f.err
}

func testDataset() temperature.Dataset {
	ds := temperature.Dataset{BaseTemperature: 8.66}
	for year := 1900; year <= 1911; year++ {
		for month := 1; month <= 12; month++ {
			ds.Records = append(ds.Records, temperature.Record{Year: year, Month: month, Variance: float64(month-6) / 4})
		}
	}
	return ds
}

func newTestApp(t *testing.T, src *fixedSource, preload bool) *fiber.App {
	t.Helper()

	svc := temperature.NewService(store.NewMemoryStore(store.Retention{}), []temperature.Source{src}, nil)
	if preload {
		_, err := svc.Refresh(context.Background())
		require.NoError(t, err)
	}

	renderer, err := render.New(language.English)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, Deps{
		Service:  svc,
		Renderer: renderer,
		Layout:   heatmap.DefaultLayout(),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, target string) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHeatmapSVG(t *testing.T) {
	app := newTestApp(t, &fixedSource{ds: testDataset()}, true)

	resp, body := do(t, app, http.MethodGet, "/api/v1/heatmap.svg")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, 144, strings.Count(body, `class="cell"`))
	assert.Contains(t, body, `width="1200.00"`)
}

func TestHeatmapSVGCustomSize(t *testing.T) {
	app := newTestApp(t, &fixedSource{ds: testDataset()}, true)

	resp, body := do(t, app, http.MethodGet, "/api/v1/heatmap.svg?width=800&height=400")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `width="800.00" height="460.00"`)
}

func TestHeatmapSizeValidation(t *testing.T) {
	app := newTestApp(t, &fixedSource{ds: testDataset()}, true)

	for _, target := range []string{
		"/api/v1/heatmap?width=10",
		"/api/v1/heatmap?height=99999",
		"/api/v1/heatmap?width=wide",
	} {
		resp, body := do(t, app, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
		assert.Contains(t, body, `"error":true`)
	}
}

func TestHeatmapJSON(t *testing.T) {
	ds := testDataset()
	app := newTestApp(t, &fixedSource{ds: ds}, true)

	resp, body := do(t, app, http.MethodGet, "/api/v1/heatmap")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var chart heatmap.Chart
	require.NoError(t, json.Unmarshal([]byte(body), &chart))
	assert.Len(t, chart.Cells, len(ds.Records))
	assert.Len(t, chart.Legend.Swatches, heatmap.LegendSwatches)
	lo, hi := ds.TemperatureRange()
	assert.Equal(t, [2]float64{hi, lo}, chart.ColorDomain)
	assert.Equal(t, 1900, chart.XTicks[0].Value)
	assert.Equal(t, 1910, chart.XTicks[1].Value)
}

func TestPage(t *testing.T) {
	app := newTestApp(t, &fixedSource{ds: testDataset()}, true)

	resp, body := do(t, app, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, body, `<div id="tooltip"></div>`)
	assert.Contains(t, body, "from fixed")
}

func TestChartWithoutDataset(t *testing.T) {
	app := newTestApp(t, &fixedSource{err: errors.New("offline")}, false)

	for _, target := range []string{"/", "/api/v1/heatmap", "/api/v1/heatmap.svg", "/api/v1/dataset"} {
		resp, body := do(t, app, http.MethodGet, target)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, target)
		assert.Contains(t, body, "not loaded yet")
	}
}

func TestDataset(t *testing.T) {
	ds := testDataset()
	app := newTestApp(t, &fixedSource{ds: ds}, true)

	resp, body := do(t, app, http.MethodGet, "/api/v1/dataset")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap temperature.Snapshot
	require.NoError(t, json.Unmarshal([]byte(body), &snap))
	assert.Equal(t, "fixed", snap.Source)
	assert.Equal(t, ds, snap.Dataset)
}

func TestRefresh(t *testing.T) {
	src := &fixedSource{ds: testDataset()}
	app := newTestApp(t, src, false)

	resp, body := do(t, app, http.MethodPost, "/api/v1/refresh")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var info temperature.SnapshotInfo
	require.NoError(t, json.Unmarshal([]byte(body), &info))
	assert.Equal(t, 144, info.Records)
	assert.Equal(t, 1900, info.FirstYear)

	src.err = errors.New("upstream down")
	resp, body = do(t, app, http.MethodPost, "/api/v1/refresh")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "upstream down")
}

func TestSnapshots(t *testing.T) {
	app := newTestApp(t, &fixedSource{ds: testDataset()}, true)

	now := time.Now().UTC()
	from := strconv.FormatInt(now.Add(-time.Hour).Unix(), 10)
	to := now.Add(time.Hour).Format(time.RFC3339)

	resp, body := do(t, app, http.MethodGet, "/api/v1/snapshots?from="+from+"&to="+to)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Snapshots []temperature.SnapshotInfo `json:"snapshots"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	require.Len(t, payload.Snapshots, 1)
	assert.Equal(t, "fixed", payload.Snapshots[0].Source)
}

func TestSnapshotsValidation(t *testing.T) {
	app := newTestApp(t, &fixedSource{ds: testDataset()}, true)

	cases := []string{
		"/api/v1/snapshots",
		"/api/v1/snapshots?from=yesterday&to=today",
		"/api/v1/snapshots?from=2000&to=1000",
	}
	for _, target := range cases {
		resp, _ := do(t, app, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
	}

	resp, _ := do(t, app, http.MethodGet, "/api/v1/snapshots?from=0&to=1000")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, &fixedSource{ds: testDataset()}, false)
	RegisterHealth(app)

	resp, body := do(t, app, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","service":"temperature-heatmap"}`, body)
}
