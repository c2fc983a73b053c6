// Command routerd is the long-running daemon: it serves the routing core
// over MCP on stdio for agent-driven routing, and optionally watches a
// planet-catalog file source for changes, recomputing every persisted
// route on a cron schedule so a catalog edit doesn't leave stale routes
// around (spec.md §1's ingestion feed and §6's collaborators, wired up by
// internal/ingest and internal/mcp).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"hyperroute/internal/domain"
	"hyperroute/internal/ingest"
	mcpserver "hyperroute/internal/mcp"
	"hyperroute/internal/service"
	"hyperroute/internal/storage"

	_ "hyperroute/internal/ingest/sources" // self-registers csv_file/json_file/http/mongo sources
)

// ingestWatch watches catalogFile on disk and re-syncs it into dst on every
// change, via the csv_file/json_file source registered under catalogKind.
func ingestWatch(ctx context.Context, catalogFile, catalogKind string, dst ingest.CatalogWriter) error {
	cfg := ingest.SourceConfig{"filePath": catalogFile}
	return ingest.WatchFile(ctx, catalogFile, catalogKind, cfg, dst)
}

func main() {
	var (
		dbPath        = flag.String("db", "galaxyroute.db", "database path (sqlite) or DSN (mysql/postgres)")
		backend       = flag.String("backend", "sqlite", "persistence backend: sqlite, mysql, or postgres")
		catalogFile   = flag.String("catalog-file", "", "optional planet catalog file to watch (csv_file or json_file)")
		catalogKind   = flag.String("catalog-kind", "csv_file", "source type for -catalog-file (csv_file or json_file)")
		recomputeCron = flag.String("recompute-cron", "@every 1h", "cron schedule for recomputing all persisted routes")
	)
	flag.Parse()

	db, err := openBackend(*backend, *dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	planets := storage.NewPlanetStore(db)
	routes := storage.NewRouteStore(db)
	waypoints := storage.NewWaypointStore(db)
	emitter := service.NoopEmitter{}
	routeSvc := service.NewRouteService(planets, planets, routes, waypoints, emitter)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *catalogFile != "" {
		go func() {
			if err := ingestWatch(ctx, *catalogFile, *catalogKind, planets); err != nil && ctx.Err() == nil {
				log.Printf("[routerd] catalog watch stopped: %v", err)
			}
		}()
	}

	sched := cron.New()
	if _, err := sched.AddFunc(*recomputeCron, func() { recomputeAll(ctx, routeSvc) }); err != nil {
		log.Fatalf("schedule recompute: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	srv := mcpserver.New(mcpserver.Deps{
		Emitter: emitter,
		Routes:  routeSvc,
		Catalog: planets,
	})

	log.Println("[routerd] serving MCP on stdio")
	serveErr := srv.ServeStdio()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), shutdownDrainTimeout)
	defer drainCancel()
	routeSvc.WaitForIdle(drainCtx)

	if serveErr != nil {
		log.Fatalf("mcp server: %v", serveErr)
	}
}

// shutdownDrainTimeout bounds how long routerd waits for an in-flight
// ComputeRoute to finish before exiting once the MCP server stops.
const shutdownDrainTimeout = 10 * time.Second

// openBackend dispatches -db/-backend to the matching storage constructor.
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

// recomputeAll recomputes every persisted route with its previously stored
// options (spec.md §8 "Recomputing an existing route with identical
// options is a no-op observationally"), so a catalog change that introduces
// a new obstacle is reflected without a manual trigger.
func recomputeAll(ctx context.Context, routeSvc *service.RouteService) {
	planets, err := routeSvc.ListPlanets(ctx)
	if err != nil {
		log.Printf("[routerd] recompute: list planets: %v", err)
		return
	}
	for i := 0; i < len(planets); i++ {
		for j := 0; j < len(planets); j++ {
			if i == j {
				continue
			}
			existing, err := routeSvc.GetRouteByPair(planets[i].ID, planets[j].ID)
			if err != nil || existing == nil {
				continue
			}
			opts, err := domain.ParseRoutingOptionsJSON(existing.OptionsJSON)
			if err != nil {
				log.Printf("[routerd] recompute %s -> %s: parse options: %v", planets[i].ID, planets[j].ID, err)
				continue
			}
			if _, err := routeSvc.ComputeRoute(ctx, planets[i].ID, planets[j].ID, opts); err != nil {
				log.Printf("[routerd] recompute %s -> %s: %v", planets[i].ID, planets[j].ID, err)
			}
		}
	}
}
