// Package ingest populates the planet catalog from an external geographic
// feed (spec.md §1 scopes data ingestion out of the core; this package is
// the concrete collaborator the core only ever sees through
// domain.PlanetCatalogReader/domain.PlanetResolver). The source-registry
// pattern is adapted from the teacher's internal/etl package: one file per
// source type, self-registering via init().
package ingest

import (
	"context"
	"fmt"
	"sync"

	"hyperroute/internal/domain"
)

// SourceConfig is an opaque configuration map parsed per source type.
type SourceConfig map[string]any

// ConfigField describes a single configuration input for a source.
type ConfigField struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Type     string `json:"type"` // "string" | "select" | "file"
	Required bool   `json:"required"`
	Default  string `json:"default,omitempty"`
	Help     string `json:"help,omitempty"`
}

// SourceSpec describes a source type: its label and required config fields.
type SourceSpec struct {
	Type         string        `json:"type"`
	Label        string        `json:"label"`
	ConfigFields []ConfigField `json:"configFields"`
}

// Source extracts planets from an external system into the catalog.
type Source interface {
	Spec() SourceSpec
	// Read streams planets from the source. The channel is closed when all
	// planets have been read or ctx is cancelled; errors are sent on the
	// error channel (buffered size 1).
	Read(ctx context.Context, cfg SourceConfig) (<-chan domain.Planet, <-chan error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Source{}
)

// RegisterSource registers a source by its spec type. Called from init()
// in each source implementation file.
func RegisterSource(s Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.Spec().Type] = s
}

// GetSource returns a registered source by type, or an error if not found.
func GetSource(typ string) (Source, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[typ]
	if !ok {
		return nil, fmt.Errorf("unknown ingest source type: %q", typ)
	}
	return s, nil
}

// ListSources returns the specs of all registered sources.
func ListSources() []SourceSpec {
	registryMu.RLock()
	defer registryMu.RUnlock()
	specs := make([]SourceSpec, 0, len(registry))
	for _, s := range registry {
		specs = append(specs, s.Spec())
	}
	return specs
}
