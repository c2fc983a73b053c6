package storage

// ansiSchemaStatements returns the migration statements for the six
// tables of spec.md §6 in the ANSI-ish dialect SQLite and Postgres both
// accept as-is: every primary key is a client-generated TEXT uuid, so no
// SERIAL/AUTOINCREMENT divergence is needed across those two backends, and
// both support CREATE INDEX IF NOT EXISTS and partial (WHERE-qualified)
// unique indexes.
func ansiSchemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS planets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS waypoints (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			normalized_name TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			kind TEXT NOT NULL,
			fingerprint TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_waypoints_fingerprint ON waypoints(fingerprint) WHERE fingerprint <> ''`,
		`CREATE INDEX IF NOT EXISTS idx_waypoints_normalized_name ON waypoints(normalized_name)`,
		`CREATE TABLE IF NOT EXISTS waypoint_planets (
			waypoint_id TEXT NOT NULL REFERENCES waypoints(id),
			planet_id TEXT NOT NULL REFERENCES planets(id),
			role TEXT NOT NULL,
			distance REAL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_waypoint_planets_unique ON waypoint_planets(waypoint_id, planet_id, role)`,
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			from_planet_fid TEXT NOT NULL,
			to_planet_fid TEXT NOT NULL,
			algo_version TEXT NOT NULL,
			options_json TEXT NOT NULL,
			length REAL NOT NULL,
			iterations INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_routes_from_to ON routes(from_planet_fid, to_planet_fid)`,
		`CREATE TABLE IF NOT EXISTS route_waypoints (
			route_id TEXT NOT NULL REFERENCES routes(id),
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			waypoint_id TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_route_waypoints_route ON route_waypoints(route_id)`,
		`CREATE TABLE IF NOT EXISTS route_detours (
			route_id TEXT NOT NULL REFERENCES routes(id),
			idx INTEGER NOT NULL,
			iteration INTEGER NOT NULL,
			segment_index INTEGER NOT NULL,
			obstacle_id TEXT NOT NULL,
			obstacle_x REAL NOT NULL,
			obstacle_y REAL NOT NULL,
			obstacle_radius REAL NOT NULL,
			closest_t REAL NOT NULL,
			qx REAL NOT NULL,
			qy REAL NOT NULL,
			distance REAL NOT NULL,
			offset_used REAL NOT NULL,
			chosen_x REAL NOT NULL,
			chosen_y REAL NOT NULL,
			direction_tag TEXT NOT NULL DEFAULT '',
			score_base REAL NOT NULL,
			score_turn REAL NOT NULL,
			score_back REAL NOT NULL,
			score_proximity REAL NOT NULL,
			score_total REAL NOT NULL,
			tries_used INTEGER,
			tries_exhausted INTEGER,
			waypoint_id TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_route_detours_route ON route_detours(route_id)`,
	}
}

// mysqlSchemaStatements mirrors ansiSchemaStatements for MySQL: TEXT
// primary/foreign key columns become VARCHAR(64) (MySQL requires a key
// length on indexed TEXT columns), TIMESTAMP becomes DATETIME, CREATE
// INDEX drops its IF NOT EXISTS (unsupported — MySQLDialect.
// IgnorableMigrationError tolerates the resulting "already exists" error on
// a re-run instead), and the fingerprint index is a plain, non-unique
// index, since MySQL does not support the partial WHERE clause that lets
// the ANSI schema exempt empty fingerprints: the schema tolerates
// duplicate fingerprints of any value, and computed-waypoint dedup on
// MySQL rests only on WaypointStore's fingerprint lookup before insert.
func mysqlSchemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS planets (
			id VARCHAR(64) PRIMARY KEY,
			name TEXT NOT NULL,
			x DOUBLE NOT NULL,
			y DOUBLE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS waypoints (
			id VARCHAR(64) PRIMARY KEY,
			name TEXT NOT NULL,
			normalized_name VARCHAR(255) NOT NULL,
			x DOUBLE NOT NULL,
			y DOUBLE NOT NULL,
			kind VARCHAR(32) NOT NULL,
			fingerprint VARCHAR(64) NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX idx_waypoints_fingerprint ON waypoints(fingerprint)`,
		`CREATE INDEX idx_waypoints_normalized_name ON waypoints(normalized_name)`,
		`CREATE TABLE IF NOT EXISTS waypoint_planets (
			waypoint_id VARCHAR(64) NOT NULL REFERENCES waypoints(id),
			planet_id VARCHAR(64) NOT NULL REFERENCES planets(id),
			role VARCHAR(32) NOT NULL,
			distance DOUBLE
		)`,
		`CREATE UNIQUE INDEX idx_waypoint_planets_unique ON waypoint_planets(waypoint_id, planet_id, role)`,
		`CREATE TABLE IF NOT EXISTS routes (
			id VARCHAR(64) PRIMARY KEY,
			from_planet_fid VARCHAR(64) NOT NULL,
			to_planet_fid VARCHAR(64) NOT NULL,
			algo_version VARCHAR(64) NOT NULL,
			options_json TEXT NOT NULL,
			length DOUBLE NOT NULL,
			iterations INTEGER NOT NULL,
			status VARCHAR(32) NOT NULL,
			error TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_routes_from_to ON routes(from_planet_fid, to_planet_fid)`,
		`CREATE TABLE IF NOT EXISTS route_waypoints (
			route_id VARCHAR(64) NOT NULL REFERENCES routes(id),
			seq INTEGER NOT NULL,
			kind VARCHAR(32) NOT NULL,
			x DOUBLE NOT NULL,
			y DOUBLE NOT NULL,
			waypoint_id VARCHAR(64)
		)`,
		`CREATE INDEX idx_route_waypoints_route ON route_waypoints(route_id)`,
		`CREATE TABLE IF NOT EXISTS route_detours (
			route_id VARCHAR(64) NOT NULL REFERENCES routes(id),
			idx INTEGER NOT NULL,
			iteration INTEGER NOT NULL,
			segment_index INTEGER NOT NULL,
			obstacle_id VARCHAR(64) NOT NULL,
			obstacle_x DOUBLE NOT NULL,
			obstacle_y DOUBLE NOT NULL,
			obstacle_radius DOUBLE NOT NULL,
			closest_t DOUBLE NOT NULL,
			qx DOUBLE NOT NULL,
			qy DOUBLE NOT NULL,
			distance DOUBLE NOT NULL,
			offset_used DOUBLE NOT NULL,
			chosen_x DOUBLE NOT NULL,
			chosen_y DOUBLE NOT NULL,
			direction_tag VARCHAR(32) NOT NULL DEFAULT '',
			score_base DOUBLE NOT NULL,
			score_turn DOUBLE NOT NULL,
			score_back DOUBLE NOT NULL,
			score_proximity DOUBLE NOT NULL,
			score_total DOUBLE NOT NULL,
			tries_used INTEGER,
			tries_exhausted INTEGER,
			waypoint_id VARCHAR(64)
		)`,
		`CREATE INDEX idx_route_detours_route ON route_detours(route_id)`,
	}
}
