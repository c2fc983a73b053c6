package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hyperroute/internal/domain"
)

// WaypointStore implements domain.WaypointStore: the fingerprint-keyed
// catalog of computed waypoints plus the anchor links that tie a waypoint
// to the planets it was routed near (spec.md §3, §4.8). Adapted from the
// teacher's NotebookStore get-or-create pattern in storage/notebook.go.
type WaypointStore struct {
	db *DB
}

func NewWaypointStore(db *DB) *WaypointStore { return &WaypointStore{db: db} }

// UpsertComputed inserts a computed waypoint keyed by Fingerprint, or
// returns the id of the existing row if one already carries that
// fingerprint (spec.md §4.8 "fingerprint-keyed upsert"). The lookup runs
// through tx rather than s.db: SQLite's pool is capped at one connection
// (storage.Open), so a read against the plain *sql.DB handle while this
// transaction holds that connection would block forever. On the
// multi-connection MySQL and Postgres backends a plain SELECT-then-INSERT
// can also lose a genuine race to a concurrent writer; where the
// fingerprint index is unique (SQLite, Postgres: schema.go) the insert's
// own unique-constraint violation is the fallback signal that the race was
// lost, and the id to return is whatever that winner ended up inserting,
// re-read the same way.
func (s *WaypointStore) UpsertComputed(tx domain.Tx, w *domain.Waypoint) (string, error) {
	if existing, err := s.getByFingerprintTx(tx, w.Fingerprint); err == nil {
		return existing.ID, nil
	} else if err != domain.ErrNotFound {
		return "", fmt.Errorf("lookup waypoint by fingerprint: %w", err)
	}

	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now
	_, err := tx.Exec(
		`INSERT INTO waypoints (id, name, normalized_name, x, y, kind, fingerprint, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.NormalizedName, w.X, w.Y, string(w.Kind), w.Fingerprint, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if s.db.IsUniqueViolation(err) {
			winner, lookupErr := s.getByFingerprintTx(tx, w.Fingerprint)
			if lookupErr != nil {
				return "", fmt.Errorf("re-lookup waypoint after lost insert race: %w", lookupErr)
			}
			return winner.ID, nil
		}
		return "", fmt.Errorf("insert waypoint: %w", err)
	}
	return w.ID, nil
}

// EnsureAnchorLink creates the (waypointID, planetID, role) row if it does
// not already exist. The existence check runs through tx, not s.db, for
// the same single-connection-pool reason UpsertComputed's lookup does.
func (s *WaypointStore) EnsureAnchorLink(tx domain.Tx, link domain.AnchorLink) error {
	var existingCount int
	row := tx.QueryRow(
		`SELECT COUNT(*) FROM waypoint_planets WHERE waypoint_id = ? AND planet_id = ? AND role = ?`,
		link.WaypointID, link.PlanetID, string(link.Role),
	)
	if err := row.Scan(&existingCount); err != nil {
		return fmt.Errorf("check anchor link: %w", err)
	}
	if existingCount > 0 {
		return nil
	}

	var distance any
	if link.Distance != nil {
		distance = *link.Distance
	}
	_, err := tx.Exec(
		`INSERT INTO waypoint_planets (waypoint_id, planet_id, role, distance) VALUES (?, ?, ?, ?)`,
		link.WaypointID, link.PlanetID, string(link.Role), distance,
	)
	return err
}

func (s *WaypointStore) GetByID(id string) (*domain.Waypoint, error) {
	return s.scanWaypoint(s.db.QueryRow(
		`SELECT id, name, normalized_name, x, y, kind, fingerprint, created_at, updated_at FROM waypoints WHERE id = ?`, id,
	))
}

func (s *WaypointStore) GetByFingerprint(fingerprint string) (*domain.Waypoint, error) {
	if fingerprint == "" {
		return nil, domain.ErrNotFound
	}
	return s.scanWaypoint(s.db.QueryRow(
		`SELECT id, name, normalized_name, x, y, kind, fingerprint, created_at, updated_at FROM waypoints WHERE fingerprint = ?`, fingerprint,
	))
}

// getByFingerprintTx is GetByFingerprint's tx-scoped twin, used by
// UpsertComputed so the lookup (and its post-race-loss retry) runs on the
// transaction's own connection instead of contending with it through the pool.
func (s *WaypointStore) getByFingerprintTx(tx domain.Tx, fingerprint string) (*domain.Waypoint, error) {
	if fingerprint == "" {
		return nil, domain.ErrNotFound
	}
	return s.scanWaypoint(tx.QueryRow(
		`SELECT id, name, normalized_name, x, y, kind, fingerprint, created_at, updated_at FROM waypoints WHERE fingerprint = ?`, fingerprint,
	))
}

func (s *WaypointStore) GetByNormalizedName(name string) (*domain.Waypoint, error) {
	return s.scanWaypoint(s.db.QueryRow(
		`SELECT id, name, normalized_name, x, y, kind, fingerprint, created_at, updated_at FROM waypoints WHERE normalized_name = ?`, name,
	))
}

func (s *WaypointStore) scanWaypoint(row *sql.Row) (*domain.Waypoint, error) {
	w := &domain.Waypoint{}
	var kind string
	err := row.Scan(&w.ID, &w.Name, &w.NormalizedName, &w.X, &w.Y, &kind, &w.Fingerprint, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan waypoint: %w", err)
	}
	w.Kind = domain.WaypointKind(kind)
	return w, nil
}
