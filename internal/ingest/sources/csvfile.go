package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"hyperroute/internal/domain"
	"hyperroute/internal/ingest"
)

// ── CSV File Source ─────────────────────────────────────────
// Reads planet rows from a local CSV file with "id,name,x,y" columns
// (id is optional; a uuid is generated when absent).

type csvFileSource struct{}

func init() { ingest.RegisterSource(&csvFileSource{}) }

func (s *csvFileSource) Spec() ingest.SourceSpec {
	return ingest.SourceSpec{
		Type:  "csv_file",
		Label: "CSV File",
		ConfigFields: []ingest.ConfigField{
			{Key: "filePath", Label: "File Path", Type: "file", Required: true, Help: "Absolute path to the CSV file"},
			{Key: "delimiter", Label: "Delimiter", Type: "string", Required: false, Default: ",", Help: "Column delimiter (default: comma)"},
		},
	}
}

func (s *csvFileSource) Read(ctx context.Context, cfg ingest.SourceConfig) (<-chan domain.Planet, <-chan error) {
	out := make(chan domain.Planet, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		headers, rows, err := readCSVFile(cfg)
		if err != nil {
			errCh <- err
			return
		}
		idx := func(name string) int {
			for i, h := range headers {
				if strings.EqualFold(h, name) {
					return i
				}
			}
			return -1
		}
		idCol, nameCol, xCol, yCol := idx("id"), idx("name"), idx("x"), idx("y")
		if nameCol == -1 || xCol == -1 || yCol == -1 {
			errCh <- fmt.Errorf("csv must have name, x and y columns")
			return
		}

		for _, row := range rows {
			p, err := rowToPlanet(row, idCol, nameCol, xCol, yCol)
			if err != nil {
				errCh <- err
				return
			}
			select {
			case out <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errCh
}

func rowToPlanet(row []string, idCol, nameCol, xCol, yCol int) (domain.Planet, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(row[xCol]), 64)
	if err != nil {
		return domain.Planet{}, fmt.Errorf("parse x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(row[yCol]), 64)
	if err != nil {
		return domain.Planet{}, fmt.Errorf("parse y: %w", err)
	}
	id := ""
	if idCol >= 0 && idCol < len(row) {
		id = strings.TrimSpace(row[idCol])
	}
	if id == "" {
		id = uuid.New().String()
	}
	return domain.Planet{ID: id, Name: strings.TrimSpace(row[nameCol]), X: x, Y: y}, nil
}

func readCSVFile(cfg ingest.SourceConfig) ([]string, [][]string, error) {
	filePath, _ := cfg["filePath"].(string)
	if filePath == "" {
		return nil, nil, fmt.Errorf("filePath is required")
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if delim, ok := cfg["delimiter"].(string); ok && len(delim) > 0 {
		reader.Comma = rune(delim[0])
	}
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty csv file")
	}
	return records[0], records[1:], nil
}
