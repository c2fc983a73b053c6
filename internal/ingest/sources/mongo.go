package sources

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"hyperroute/internal/domain"
	"hyperroute/internal/ingest"
)

// ── MongoDB Source ──────────────────────────────────────────
// Reads planet documents {id, name, x, y} from a collection (the
// document's _id is not read; a document without an id field yields an
// empty planet id),
// adapted from the teacher's mongoConnector in internal/dbclient/mongo.go.

type mongoSource struct{}

func init() { ingest.RegisterSource(&mongoSource{}) }

func (s *mongoSource) Spec() ingest.SourceSpec {
	return ingest.SourceSpec{
		Type:  "mongo",
		Label: "MongoDB",
		ConfigFields: []ingest.ConfigField{
			{Key: "uri", Label: "Connection URI", Type: "string", Required: true, Help: "mongodb:// or mongodb+srv:// connection string"},
			{Key: "database", Label: "Database", Type: "string", Required: true},
			{Key: "collection", Label: "Collection", Type: "string", Required: true},
		},
	}
}

type mongoPlanetDoc struct {
	ID   string  `bson:"id"`
	Name string  `bson:"name"`
	X    float64 `bson:"x"`
	Y    float64 `bson:"y"`
}

func (s *mongoSource) Read(ctx context.Context, cfg ingest.SourceConfig) (<-chan domain.Planet, <-chan error) {
	out := make(chan domain.Planet, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		uri, _ := cfg["uri"].(string)
		dbName, _ := cfg["database"].(string)
		collName, _ := cfg["collection"].(string)
		if uri == "" || dbName == "" || collName == "" {
			errCh <- fmt.Errorf("mongo source requires uri, database and collection")
			return
		}

		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(options.Client().ApplyURI(uri))
		if err != nil {
			errCh <- fmt.Errorf("connect mongo: %w", err)
			return
		}
		defer client.Disconnect(context.Background())
		if err := client.Ping(connectCtx, nil); err != nil {
			errCh <- fmt.Errorf("ping mongo: %w", err)
			return
		}

		coll := client.Database(dbName).Collection(collName)
		cursor, err := coll.Find(ctx, bson.M{})
		if err != nil {
			errCh <- fmt.Errorf("find: %w", err)
			return
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var doc mongoPlanetDoc
			if err := cursor.Decode(&doc); err != nil {
				errCh <- fmt.Errorf("decode planet document: %w", err)
				return
			}
			select {
			case out <- domain.Planet{ID: doc.ID, Name: doc.Name, X: doc.X, Y: doc.Y}:
			case <-ctx.Done():
				return
			}
		}
		if err := cursor.Err(); err != nil {
			errCh <- fmt.Errorf("cursor error: %w", err)
		}
	}()

	return out, errCh
}
