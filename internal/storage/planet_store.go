package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"hyperroute/internal/domain"
)

// PlanetStore is the concrete catalog backing domain.PlanetCatalogReader and
// domain.PlanetResolver (spec.md §6 calls the catalog an external
// collaborator; this is the SQL-backed implementation internal/ingest
// populates and internal/service consumes through those interfaces only).
type PlanetStore struct {
	db *DB
}

func NewPlanetStore(db *DB) *PlanetStore { return &PlanetStore{db: db} }

// Upsert inserts or updates a planet row by id, used by ingestion sources.
func (s *PlanetStore) Upsert(ctx context.Context, p domain.Planet) error {
	_, err := s.db.ExecContext(ctx, s.db.UpsertPlanetSQL(), p.ID, p.Name, p.X, p.Y)
	if err != nil {
		return fmt.Errorf("upsert planet: %w", err)
	}
	return nil
}

func (s *PlanetStore) ListPlanets(ctx context.Context) ([]domain.Planet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, x, y FROM planets ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list planets: %w", err)
	}
	defer rows.Close()

	var out []domain.Planet
	for rows.Next() {
		var p domain.Planet
		if err := rows.Scan(&p.ID, &p.Name, &p.X, &p.Y); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PlanetStore) GetPlanet(ctx context.Context, id string) (domain.Planet, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, x, y FROM planets WHERE id = ?`, id)
	return s.scanPlanet(row)
}

// ResolvePlanet matches token against a planet id first, then a
// case-insensitive exact name match (spec.md §4.1 "unknown endpoint").
func (s *PlanetStore) ResolvePlanet(ctx context.Context, token string) (domain.Planet, error) {
	if p, err := s.GetPlanet(ctx, token); err == nil {
		return p, nil
	} else if err != domain.ErrNotFound {
		return domain.Planet{}, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, x, y FROM planets WHERE lower(name) = lower(?)`, strings.TrimSpace(token),
	)
	return s.scanPlanet(row)
}

func (s *PlanetStore) scanPlanet(row *sql.Row) (domain.Planet, error) {
	var p domain.Planet
	err := row.Scan(&p.ID, &p.Name, &p.X, &p.Y)
	if err == sql.ErrNoRows {
		return domain.Planet{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Planet{}, fmt.Errorf("scan planet: %w", err)
	}
	return p, nil
}
