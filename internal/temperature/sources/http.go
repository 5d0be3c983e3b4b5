package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/i474232898/temperature-heatmap/internal/temperature"
)

// DefaultDatasetURL is the published global land-surface temperature dataset.
const DefaultDatasetURL = "https://raw.githubusercontent.com/freeCodeCamp/ProjectReferenceData/master/global-temperature.json"

// HTTPSource implements temperature.Source for a JSON document served over HTTP.
type HTTPSource struct {
	name    string
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

func NewHTTPSource(client *http.Client, url string, backoff BackoffConfig, logger *slog.Logger) *HTTPSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPSource{
		name: "http",
		url:  url,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
		},
		circuit: newCircuitBreaker("dataset-http"),
		logger:  logger,
	}
}

func (s *HTTPSource) Name() string {
	return s.name
}

func (s *HTTPSource) Fetch(ctx context.Context) (temperature.Dataset, error) {
	if s.url == "" {
		return temperature.Dataset{}, fmt.Errorf("dataset url is not configured")
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	s.logger.Debug("fetching temperature dataset", "url", s.url)

	resp, err := doRequestWithResilience(ctx, s.httpCfg, s.circuit, buildRequest)
	if err != nil {
		return temperature.Dataset{}, err
	}
	defer resp.Body.Close()

	return temperature.DecodeDataset(resp.Body)
}
