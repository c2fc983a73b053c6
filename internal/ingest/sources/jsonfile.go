package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"hyperroute/internal/domain"
	"hyperroute/internal/ingest"
)

// ── JSON File Source ────────────────────────────────────────
// Reads an array of {id?, name, x, y} objects from a local JSON file.

type jsonFileSource struct{}

func init() { ingest.RegisterSource(&jsonFileSource{}) }

func (s *jsonFileSource) Spec() ingest.SourceSpec {
	return ingest.SourceSpec{
		Type:  "json_file",
		Label: "JSON File",
		ConfigFields: []ingest.ConfigField{
			{Key: "filePath", Label: "File Path", Type: "file", Required: true, Help: "Absolute path to the JSON file"},
		},
	}
}

func (s *jsonFileSource) Read(ctx context.Context, cfg ingest.SourceConfig) (<-chan domain.Planet, <-chan error) {
	out := make(chan domain.Planet, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		planets, err := readJSONFile(cfg)
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

type jsonPlanetRow struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func readJSONFile(cfg ingest.SourceConfig) ([]domain.Planet, error) {
	filePath, _ := cfg["filePath"].(string)
	if filePath == "" {
		return nil, fmt.Errorf("filePath is required")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
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
