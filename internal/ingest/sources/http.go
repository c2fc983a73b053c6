package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"hyperroute/internal/domain"
	"hyperroute/internal/ingest"
)

// ── HTTP Source ─────────────────────────────────────────────
// Fetches a planet catalog from a REST endpoint returning a JSON array of
// {id?, name, x, y} objects.

type httpSource struct{}

func init() { ingest.RegisterSource(&httpSource{}) }

func (s *httpSource) Spec() ingest.SourceSpec {
	return ingest.SourceSpec{
		Type:  "http",
		Label: "HTTP API",
		ConfigFields: []ingest.ConfigField{
			{Key: "url", Label: "URL", Type: "string", Required: true, Help: "Full URL returning a JSON array of planets"},
			{Key: "method", Label: "Method", Type: "select", Required: false, Default: "GET"},
		},
	}
}

func (s *httpSource) Read(ctx context.Context, cfg ingest.SourceConfig) (<-chan domain.Planet, <-chan error) {
	out := make(chan domain.Planet, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		planets, err := fetchHTTP(ctx, cfg)
		if err != nil {
			errCh <- err
			return
		}
		for _, p := range planets {
			select {
			case out <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errCh
}

func fetchHTTP(ctx context.Context, cfg ingest.SourceConfig) ([]domain.Planet, error) {
	url, _ := cfg["url"].(string)
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}
	method, _ := cfg["method"].(string)
	if method == "" {
		method = "GET"
	}

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var rows []jsonPlanetRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	planets := make([]domain.Planet, len(rows))
	for i, r := range rows {
		id := r.ID
		if id == "" {
			id = uuid.New().String()
		}
		planets[i] = domain.Planet{ID: id, Name: r.Name, X: r.X, Y: r.Y}
	}
	return planets, nil
}
