// embedding-wipe removes all indexed points from the vector collection, so
// a backfill can start clean. Use -dry-run to only count what would go.
package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/andrew/listing-rag/pkg/config"
	"github.com/andrew/listing-rag/pkg/vector"
)

var dryRun = flag.Bool("dry-run", false, "Only report how many points would be removed")

func main() {
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx := context.Background()

	cfg, err := config.New()
	if err != nil {
		logger.Fatal("configuration error", zap.Error(err))
	}

	store, err := vector.NewQdrantStore(cfg.Qdrant.Addr, cfg.Qdrant.Collection, logger)
	if err != nil {
		logger.Fatal("failed to connect to Qdrant", zap.Error(err))
	}
	defer store.Close()

	if *dryRun {
		count, err := store.Count(ctx)
		if err != nil {
			logger.Fatal("failed to count points", zap.Error(err))
		}
		fmt.Printf("[DRY RUN] Would remove %d points from %s\n", count, cfg.Qdrant.Collection)
		return
	}

	removed, err := store.DeleteAll(ctx)
	if err != nil {
		logger.Fatal("failed to delete points", zap.Error(err))
	}

	if removed == 0 {
		fmt.Println("No indexed points found.")
		return
	}
	fmt.Printf("✅ Removed %d points from %s\n", removed, cfg.Qdrant.Collection)
}
