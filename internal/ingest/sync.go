package ingest

import (
	"context"
	"fmt"

	"hyperroute/internal/domain"
)

// CatalogWriter is the write side of the planet catalog; storage.PlanetStore
// satisfies it. Kept separate from domain.PlanetCatalogReader so ingestion
// is the only package with write access.
type CatalogWriter interface {
	Upsert(ctx context.Context, p domain.Planet) error
}

// Sync drains a configured source and upserts every planet it yields into
// dst, stopping at the first error (spec.md §1: ingestion itself is out of
// scope for the core; this is the concrete collaborator implementation).
func Sync(ctx context.Context, sourceType string, cfg SourceConfig, dst CatalogWriter) (int, error) {
	src, err := GetSource(sourceType)
	if err != nil {
		return 0, err
	}

	planets, errCh := src.Read(ctx, cfg)
	count := 0
	for {
		select {
		case p, ok := <-planets:
			if !ok {
				if err := <-errCh; err != nil {
					return count, fmt.Errorf("ingest %s: %w", sourceType, err)
				}
				return count, nil
			}
			if err := dst.Upsert(ctx, p); err != nil {
				return count, fmt.Errorf("upsert planet %s: %w", p.ID, err)
			}
			count++
		case err := <-errCh:
			if err != nil {
				return count, fmt.Errorf("ingest %s: %w", sourceType, err)
			}
		case <-ctx.Done():
			return count, ctx.Err()
		}
	}
}
