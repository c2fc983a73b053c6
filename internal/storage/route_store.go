package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hyperroute/internal/domain"
)

// RouteStore implements domain.RouteStore (spec.md §4.8) against the
// shared SQL backend, adapted from the teacher's BlockStore replace-all
// transaction pattern (storage/block.go ReplacePageBlocks in the teacher repo).
type RouteStore struct {
	db *DB
}

func NewRouteStore(db *DB) *RouteStore { return &RouteStore{db: db} }

func (s *RouteStore) WithTx(fn func(tx domain.Tx) error) error {
	return s.db.WithTx(fn)
}

// UpsertRoute inserts or updates the Route row keyed by (FromID, ToID)
// inside tx (spec.md §4.8). The existence lookup runs through tx, not
// s.db: SQLite's pool is capped at one connection (storage.Open), so a
// lookup against the plain *sql.DB handle here would block forever
// waiting for the connection this very transaction is holding.
func (s *RouteStore) UpsertRoute(tx domain.Tx, r *domain.Route) error {
	now := time.Now()
	existing, err := s.getRouteByPairTx(tx, r.FromID, r.ToID)
	if err != nil && err != domain.ErrNotFound {
		return fmt.Errorf("lookup route: %w", err)
	}
	if existing != nil {
		r.ID = existing.ID
		r.CreatedAt = existing.CreatedAt
		r.UpdatedAt = now
		_, err := tx.Exec(
			`UPDATE routes SET algo_version = ?, options_json = ?, length = ?, iterations = ?, status = ?, error = ?, updated_at = ? WHERE id = ?`,
			r.AlgoVersion, r.OptionsJSON, r.Length, r.Iterations, string(r.Status), r.Error, r.UpdatedAt, r.ID,
		)
		return err
	}

	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = now
	r.UpdatedAt = now
	_, err = tx.Exec(
		`INSERT INTO routes (id, from_planet_fid, to_planet_fid, algo_version, options_json, length, iterations, status, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.FromID, r.ToID, r.AlgoVersion, r.OptionsJSON, r.Length, r.Iterations, string(r.Status), r.Error, r.CreatedAt, r.UpdatedAt,
	)
	return err
}

func (s *RouteStore) GetRouteByPair(fromID, toID string) (*domain.Route, error) {
	return s.scanRoute(s.db.QueryRow(
		`SELECT id, from_planet_fid, to_planet_fid, algo_version, options_json, length, iterations, status, error, created_at, updated_at
		 FROM routes WHERE from_planet_fid = ? AND to_planet_fid = ?`, fromID, toID,
	))
}

// getRouteByPairTx is GetRouteByPair's tx-scoped twin, used by UpsertRoute
// so the lookup runs on the transaction's own connection instead of
// contending with it through the pool.
func (s *RouteStore) getRouteByPairTx(tx domain.Tx, fromID, toID string) (*domain.Route, error) {
	return s.scanRoute(tx.QueryRow(
		`SELECT id, from_planet_fid, to_planet_fid, algo_version, options_json, length, iterations, status, error, created_at, updated_at
		 FROM routes WHERE from_planet_fid = ? AND to_planet_fid = ?`, fromID, toID,
	))
}

func (s *RouteStore) GetRouteByID(id string) (*domain.Route, error) {
	return s.scanRoute(s.db.QueryRow(
		`SELECT id, from_planet_fid, to_planet_fid, algo_version, options_json, length, iterations, status, error, created_at, updated_at
		 FROM routes WHERE id = ?`, id,
	))
}

func (s *RouteStore) scanRoute(row *sql.Row) (*domain.Route, error) {
	r := &domain.Route{}
	var status string
	err := row.Scan(&r.ID, &r.FromID, &r.ToID, &r.AlgoVersion, &r.OptionsJSON, &r.Length, &r.Iterations, &status, &r.Error, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan route: %w", err)
	}
	r.Status = domain.RouteStatus(status)
	return r, nil
}

// ReplacePolyline deletes and reinserts all polyline rows for routeID,
// seq 0..N-1 (spec.md §4.8).
func (s *RouteStore) ReplacePolyline(tx domain.Tx, routeID string, points []domain.PolylinePoint) error {
	if _, err := tx.Exec(`DELETE FROM route_waypoints WHERE route_id = ?`, routeID); err != nil {
		return fmt.Errorf("delete polyline: %w", err)
	}
	for i, p := range points {
		var waypointID any
		if p.WaypointID != "" {
			waypointID = p.WaypointID
		}
		if _, err := tx.Exec(
			`INSERT INTO route_waypoints (route_id, seq, kind, x, y, waypoint_id) VALUES (?, ?, ?, ?, ?, ?)`,
			routeID, i, string(p.Kind), p.X, p.Y, waypointID,
		); err != nil {
			return fmt.Errorf("insert polyline point %d: %w", i, err)
		}
	}
	return nil
}

// ReplaceDetours deletes and reinserts all detour rows for routeID,
// idx 0..M-1 (spec.md §4.8).
func (s *RouteStore) ReplaceDetours(tx domain.Tx, routeID string, detours []domain.DetourRecord) error {
	if _, err := tx.Exec(`DELETE FROM route_detours WHERE route_id = ?`, routeID); err != nil {
		return fmt.Errorf("delete detours: %w", err)
	}
	for i, d := range detours {
		var triesUsed, triesExhausted any
		if d.TriesUsed != nil {
			triesUsed = *d.TriesUsed
		}
		if d.TriesExhausted != nil {
			triesExhausted = *d.TriesExhausted
		}
		var waypointID any
		if d.WaypointID != "" {
			waypointID = d.WaypointID
		}
		if _, err := tx.Exec(
			`INSERT INTO route_detours (
				route_id, idx, iteration, segment_index, obstacle_id,
				obstacle_x, obstacle_y, obstacle_radius, closest_t, qx, qy, distance,
				offset_used, chosen_x, chosen_y, direction_tag,
				score_base, score_turn, score_back, score_proximity, score_total,
				tries_used, tries_exhausted, waypoint_id
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			routeID, i, d.Iteration, d.SegmentIndex, d.ObstacleID,
			d.ObstacleX, d.ObstacleY, d.ObstacleRadius, d.ClosestT, d.QX, d.QY, d.Distance,
			d.OffsetUsed, d.ChosenX, d.ChosenY, d.DirectionTag,
			d.ScoreBase, d.ScoreTurn, d.ScoreBack, d.ScoreProximity, d.ScoreTotal,
			triesUsed, triesExhausted, waypointID,
		); err != nil {
			return fmt.Errorf("insert detour %d: %w", i, err)
		}
	}
	return nil
}

func (s *RouteStore) ListPolyline(routeID string) ([]domain.PolylinePoint, error) {
	rows, err := s.db.Query(
		`SELECT route_id, seq, kind, x, y, COALESCE(waypoint_id, '') FROM route_waypoints WHERE route_id = ? ORDER BY seq ASC`,
		routeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PolylinePoint
	for rows.Next() {
		var p domain.PolylinePoint
		var kind string
		if err := rows.Scan(&p.RouteID, &p.Seq, &kind, &p.X, &p.Y, &p.WaypointID); err != nil {
			return nil, err
		}
		p.Kind = domain.PolylinePointKind(kind)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *RouteStore) ListDetours(routeID string) ([]domain.DetourRecord, error) {
	rows, err := s.db.Query(
		`SELECT route_id, idx, iteration, segment_index, obstacle_id,
			obstacle_x, obstacle_y, obstacle_radius, closest_t, qx, qy, distance,
			offset_used, chosen_x, chosen_y, direction_tag,
			score_base, score_turn, score_back, score_proximity, score_total,
			tries_used, tries_exhausted, COALESCE(waypoint_id, '')
		 FROM route_detours WHERE route_id = ? ORDER BY idx ASC`,
		routeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DetourRecord
	for rows.Next() {
		var d domain.DetourRecord
		var triesUsed sql.NullInt64
		var triesExhausted sql.NullBool
		if err := rows.Scan(
			&d.RouteID, &d.Idx, &d.Iteration, &d.SegmentIndex, &d.ObstacleID,
			&d.ObstacleX, &d.ObstacleY, &d.ObstacleRadius, &d.ClosestT, &d.QX, &d.QY, &d.Distance,
			&d.OffsetUsed, &d.ChosenX, &d.ChosenY, &d.DirectionTag,
			&d.ScoreBase, &d.ScoreTurn, &d.ScoreBack, &d.ScoreProximity, &d.ScoreTotal,
			&triesUsed, &triesExhausted, &d.WaypointID,
		); err != nil {
			return nil, err
		}
		// Legacy rows predating tries_used/tries_exhausted surface as nil,
		// not zero values, so the explain path can render "unknown" (spec.md §9).
		if triesUsed.Valid {
			v := int(triesUsed.Int64)
			d.TriesUsed = &v
		}
		if triesExhausted.Valid {
			v := triesExhausted.Bool
			d.TriesExhausted = &v
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
