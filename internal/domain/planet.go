package domain

import "context"

// Planet is a point obstacle/endpoint on the galactic plane. The catalog
// that owns planets is an external collaborator (§6); the core treats
// Planet values as immutable input.
type Planet struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// PlanetResolver resolves a user-facing token (name or alias) to a planet id.
// Implemented by an external collaborator; the core only consumes the contract.
type PlanetResolver interface {
	ResolvePlanet(ctx context.Context, token string) (Planet, error)
}

// PlanetCatalogReader enumerates the full planet catalog for obstacle
// construction. Implemented by an external collaborator.
type PlanetCatalogReader interface {
	ListPlanets(ctx context.Context) ([]Planet, error)
	GetPlanet(ctx context.Context, id string) (Planet, error)
}
