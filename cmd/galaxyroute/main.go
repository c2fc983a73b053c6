// Command galaxyroute is a one-shot compute-and-persist CLI: resolve two
// planet tokens, run the routing engine, persist the result, and print the
// RouteResult as JSON. It does not do the colorized terminal
// pretty-printing spec.md §1 calls out of scope for the core — that is an
// external collaborator's job.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"hyperroute/internal/domain"
	"hyperroute/internal/service"
	"hyperroute/internal/storage"
)

func main() {
	var (
		dbPath    = flag.String("db", "galaxyroute.db", "database path (sqlite) or DSN (mysql/postgres)")
		backend   = flag.String("backend", "sqlite", "persistence backend: sqlite, mysql, or postgres")
		from      = flag.String("from", "", "origin planet id or name")
		to        = flag.String("to", "", "destination planet id or name")
		safety    = flag.Float64("safety", domain.DefaultRoutingOptions().Safety, "obstacle safety radius (parsecs)")
		clearance = flag.Float64("clearance", domain.DefaultRoutingOptions().Clearance, "extra detour clearance margin (parsecs)")
		proximity = flag.Float64("proximity-margin", domain.DefaultRoutingOptions().ProximityMargin, "proximity warning band width (parsecs)")
		turnW     = flag.Float64("turn-weight", domain.DefaultRoutingOptions().TurnWeight, "turn penalty weight")
		backW     = flag.Float64("back-weight", domain.DefaultRoutingOptions().BackWeight, "backtrack penalty weight")
		proxW     = flag.Float64("proximity-weight", domain.DefaultRoutingOptions().ProximityWeight, "proximity penalty weight")
		growth    = flag.Float64("offset-growth", domain.DefaultRoutingOptions().OffsetGrowth, "offset growth factor per retry")
		maxTries  = flag.Int("max-offset-tries", domain.DefaultRoutingOptions().MaxOffsetTries, "max offset growth attempts")
		maxIters  = flag.Int("max-iters", domain.DefaultRoutingOptions().MaxIters, "max engine iterations")
		algoVer   = flag.String("algo-version", domain.DefaultRoutingOptions().AlgoVersion, "algorithm version tag persisted with the route")
		explain   = flag.Bool("explain", false, "print the detour decision log instead of the route result")
	)
	flag.Parse()

	if *from == "" || *to == "" {
		fmt.Fprintln(os.Stderr, "usage: galaxyroute -from <planet> -to <planet> [options]")
		os.Exit(2)
	}

	db, err := openBackend(*backend, *dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	planets := storage.NewPlanetStore(db)
	routes := storage.NewRouteStore(db)
	waypoints := storage.NewWaypointStore(db)

	svc := service.NewRouteService(planets, planets, routes, waypoints, service.NoopEmitter{})

	opts := domain.RoutingOptions{
		Safety:          *safety,
		Clearance:       *clearance,
		ProximityMargin: *proximity,
		TurnWeight:      *turnW,
		BackWeight:      *backW,
		ProximityWeight: *proxW,
		OffsetGrowth:    *growth,
		MaxOffsetTries:  *maxTries,
		MaxIters:        *maxIters,
		AlgoVersion:     *algoVer,
	}

	ctx := context.Background()
	route, err := svc.ComputeRoute(ctx, *from, *to, opts)
	if err != nil && route == nil {
		log.Fatalf("compute route: %v", err)
	}

	if *explain {
		decisions, err := svc.ExplainRoute(ctx, route.ID)
		if err != nil {
			log.Fatalf("explain route: %v", err)
		}
		printJSON(decisions)
		return
	}

	polyline, err := svc.GetPolyline(route.ID)
	if err != nil {
		log.Fatalf("get polyline: %v", err)
	}
	printJSON(struct {
		Route    *domain.Route          `json:"route"`
		Polyline []domain.PolylinePoint `json:"polyline"`
	}{Route: route, Polyline: polyline})

	if route.Status != domain.RouteStatusOK {
		os.Exit(1)
	}
}

// openBackend dispatches -db/-backend to the matching storage constructor
// (spec.md §6 treats the backend choice as a deployment concern orthogonal
// to the routing core; storage.Open defaults to SQLite).
func openBackend(backend, dbPath string) (*storage.DB, error) {
	switch backend {
	case "", "sqlite":
		return storage.Open(dbPath)
	case "mysql":
		return storage.OpenMySQL(dbPath)
	case "postgres":
		return storage.OpenPostgres(dbPath)
	default:
		return nil, fmt.Errorf("unknown -backend %q (want sqlite, mysql, or postgres)", backend)
	}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("marshal result: %v", err)
	}
	fmt.Println(string(data))
}
