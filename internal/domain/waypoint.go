package domain

import "time"

// WaypointKind distinguishes a hand-placed waypoint from an engine-computed one.
type WaypointKind string

const (
	WaypointKindManual   WaypointKind = "manual"
	WaypointKindJunction WaypointKind = "junction"
	WaypointKindComputed WaypointKind = "computed"
)

// Waypoint is a named point in the shared catalog (spec.md §3). Computed
// waypoints are deduplicated by Fingerprint; manual/junction waypoints have
// an empty Fingerprint and are looked up by NormalizedName instead.
type Waypoint struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	NormalizedName string       `json:"normalizedName"`
	X              float64      `json:"x"`
	Y              float64      `json:"y"`
	Kind           WaypointKind `json:"kind"`
	Fingerprint    string       `json:"fingerprint,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// AnchorRole classifies the relationship an anchor link records between a
// waypoint and a planet (spec.md §3).
type AnchorRole string

const (
	AnchorRoleAnchor  AnchorRole = "anchor"
	AnchorRoleNear    AnchorRole = "near"
	AnchorRoleObstacle AnchorRole = "obstacle"
	AnchorRoleAvoid   AnchorRole = "avoid"
)

// AnchorLink is a many-to-many row between a waypoint and a planet.
type AnchorLink struct {
	WaypointID string     `json:"waypointId"`
	PlanetID   string     `json:"planetId"`
	Role       AnchorRole `json:"role"`
	Distance   *float64   `json:"distance,omitempty"`
}

// WaypointStore is the fingerprint-keyed catalog persistence contract.
type WaypointStore interface {
	// UpsertComputed inserts a computed waypoint if no row with the same
	// Fingerprint exists yet, returning the (possibly pre-existing) id.
	UpsertComputed(tx Tx, w *Waypoint) (id string, err error)

	// EnsureAnchorLink creates the (waypointID, planetID, role) link if it
	// does not already exist.
	EnsureAnchorLink(tx Tx, link AnchorLink) error

	// GetByID returns a waypoint by its surrogate id.
	GetByID(id string) (*Waypoint, error)

	// GetByFingerprint returns a computed waypoint by fingerprint, or ErrNotFound.
	GetByFingerprint(fingerprint string) (*Waypoint, error)

	// GetByNormalizedName looks up a manual/junction waypoint by its
	// normalized name lookup key.
	GetByNormalizedName(name string) (*Waypoint, error)
}
