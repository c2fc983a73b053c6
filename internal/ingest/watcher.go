package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/fsnotify/fsnotify"
)

// WatchFile re-syncs sourceType/cfg into dst every time filePath changes on
// disk, until ctx is cancelled. It is the file-backed half of spec.md §1's
// "external geographic feed" collaborator: routerd wires this up for
// csv_file/json_file sources so a catalog edit is picked up without a
// restart.
func WatchFile(ctx context.Context, filePath, sourceType string, cfg SourceConfig, dst CatalogWriter) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filePath); err != nil {
		return fmt.Errorf("watch %s: %w", filePath, err)
	}

	if n, err := Sync(ctx, sourceType, cfg, dst); err != nil {
		log.Printf("[ingest] initial sync of %s failed: %v", filePath, err)
	} else {
		log.Printf("[ingest] initial sync of %s: %d planets", filePath, n)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			n, err := Sync(ctx, sourceType, cfg, dst)
			if err != nil {
				log.Printf("[ingest] resync of %s failed: %v", filePath, err)
				continue
			}
			log.Printf("[ingest] resynced %s: %d planets", filePath, n)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[ingest] watcher error: %v", err)
		}
	}
}
