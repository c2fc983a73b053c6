package storage_test

import (
	"context"
	"testing"

	"hyperroute/internal/domain"
	"hyperroute/internal/storage"
)

func newTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPlanetStore_UpsertAndResolve(t *testing.T) {
	db := newTestDB(t)
	store := storage.NewPlanetStore(db)
	ctx := context.Background()

	p := domain.Planet{ID: "p1", Name: "Tatooine", X: 1, Y: 2}
	if err := store.Upsert(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.ResolvePlanet(ctx, "tatooine")
	if err != nil {
		t.Fatalf("resolve by name (case-insensitive): %v", err)
	}
	if got.ID != "p1" {
		t.Fatalf("expected id p1, got %s", got.ID)
	}

	// Upsert again with a new name: same id, updated fields, no duplicate row.
	if err := store.Upsert(ctx, domain.Planet{ID: "p1", Name: "Tatooine II", X: 3, Y: 4}); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	all, err := store.ListPlanets(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly 1 planet after re-upsert, got %d", len(all))
	}
	if all[0].Name != "Tatooine II" || all[0].X != 3 {
		t.Fatalf("expected upsert to update fields in place, got %+v", all[0])
	}
}

func TestPlanetStore_ResolveUnknown(t *testing.T) {
	db := newTestDB(t)
	store := storage.NewPlanetStore(db)
	if _, err := store.ResolvePlanet(context.Background(), "nowhere"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRouteStore_UpsertIsIdempotentByPair(t *testing.T) {
	db := newTestDB(t)
	store := storage.NewRouteStore(db)

	r := &domain.Route{FromID: "a", ToID: "b", AlgoVersion: "v1", OptionsJSON: "{}", Length: 10, Iterations: 0, Status: domain.RouteStatusOK}
	if err := store.WithTx(func(tx domain.Tx) error { return store.UpsertRoute(tx, r) }); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	firstID := r.ID

	r2 := &domain.Route{FromID: "a", ToID: "b", AlgoVersion: "v1", OptionsJSON: `{"x":1}`, Length: 12, Iterations: 1, Status: domain.RouteStatusOK}
	if err := store.WithTx(func(tx domain.Tx) error { return store.UpsertRoute(tx, r2) }); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if r2.ID != firstID {
		t.Fatalf("expected recompute to reuse id %s, got %s", firstID, r2.ID)
	}

	got, err := store.GetRouteByPair("a", "b")
	if err != nil {
		t.Fatalf("get by pair: %v", err)
	}
	if got.Length != 12 {
		t.Fatalf("expected updated length 12, got %v", got.Length)
	}
}

func TestRouteStore_ReplacePolylineAndDetours(t *testing.T) {
	db := newTestDB(t)
	store := storage.NewRouteStore(db)

	r := &domain.Route{FromID: "a", ToID: "b", AlgoVersion: "v1", OptionsJSON: "{}", Status: domain.RouteStatusOK}
	if err := store.WithTx(func(tx domain.Tx) error { return store.UpsertRoute(tx, r) }); err != nil {
		t.Fatalf("upsert route: %v", err)
	}

	points := []domain.PolylinePoint{
		{RouteID: r.ID, Seq: 0, Kind: domain.PolylineKindStart, X: 0, Y: 0},
		{RouteID: r.ID, Seq: 1, Kind: domain.PolylineKindEnd, X: 10, Y: 0},
	}
	if err := store.WithTx(func(tx domain.Tx) error { return store.ReplacePolyline(tx, r.ID, points) }); err != nil {
		t.Fatalf("replace polyline: %v", err)
	}
	got, err := store.ListPolyline(r.ID)
	if err != nil {
		t.Fatalf("list polyline: %v", err)
	}
	if len(got) != 2 || got[0].Seq != 0 || got[1].Seq != 1 {
		t.Fatalf("unexpected polyline rows: %+v", got)
	}

	// Replacing again with fewer points must delete the stale rows, not just append.
	if err := store.WithTx(func(tx domain.Tx) error {
		return store.ReplacePolyline(tx, r.ID, points[:1])
	}); err != nil {
		t.Fatalf("replace polyline again: %v", err)
	}
	got, err = store.ListPolyline(r.ID)
	if err != nil {
		t.Fatalf("list polyline after replace: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected replace-all semantics to leave exactly 1 row, got %d", len(got))
	}
}

func TestWaypointStore_UpsertComputedDedupsByFingerprint(t *testing.T) {
	db := newTestDB(t)
	store := storage.NewWaypointStore(db)

	w1 := &domain.Waypoint{Name: "detour-1", NormalizedName: "detour-1", X: 5, Y: 1.5, Kind: domain.WaypointKindComputed, Fingerprint: "abc123"}
	var id1 string
	if err := db.WithTx(func(tx domain.Tx) error {
		var err error
		id1, err = store.UpsertComputed(tx, w1)
		return err
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	w2 := &domain.Waypoint{Name: "detour-1-again", NormalizedName: "detour-1-again", X: 5, Y: 1.5, Kind: domain.WaypointKindComputed, Fingerprint: "abc123"}
	var id2 string
	if err := db.WithTx(func(tx domain.Tx) error {
		var err error
		id2, err = store.UpsertComputed(tx, w2)
		return err
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if id1 != id2 {
		t.Fatalf("expected identical fingerprints to dedup to the same row, got %s vs %s", id1, id2)
	}
}

func TestWaypointStore_EnsureAnchorLinkIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	store := storage.NewWaypointStore(db)

	w := &domain.Waypoint{Name: "w1", NormalizedName: "w1", X: 1, Y: 1, Kind: domain.WaypointKindComputed, Fingerprint: "fp1"}
	var id string
	if err := db.WithTx(func(tx domain.Tx) error {
		var err error
		id, err = store.UpsertComputed(tx, w)
		return err
	}); err != nil {
		t.Fatalf("upsert waypoint: %v", err)
	}

	link := domain.AnchorLink{WaypointID: id, PlanetID: "p1", Role: domain.AnchorRoleAvoid}
	for i := 0; i < 2; i++ {
		if err := db.WithTx(func(tx domain.Tx) error { return store.EnsureAnchorLink(tx, link) }); err != nil {
			t.Fatalf("ensure anchor link (pass %d): %v", i, err)
		}
	}
}

func TestRoutingOptions_CanonicalJSONRoundTrips(t *testing.T) {
	opts := domain.DefaultRoutingOptions()
	opts.Clearance = 0.333333
	data := opts.CanonicalJSON()
	back, err := domain.ParseRoutingOptionsJSON(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if back.Clearance != 0.333333 || back.Safety != opts.Safety || back.AlgoVersion != opts.AlgoVersion {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", back, opts)
	}
}
