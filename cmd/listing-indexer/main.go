// listing-indexer is the ingestion backfill: it reads listing records from
// a JSON file, embeds a semantically rich text per listing and upserts the
// vectors with their payload into Qdrant.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/andrew/listing-rag/pkg/config"
	"github.com/andrew/listing-rag/pkg/embedding"
	"github.com/andrew/listing-rag/pkg/models"
	"github.com/andrew/listing-rag/pkg/vector"
)

var (
	inputFile = flag.String("file", "listings.json", "JSON file with an array of listing records")
	batchSize = flag.Int("batch", 32, "Upsert batch size")
	limit     = flag.Int("limit", 1000, "Maximum number of listings to process")
	recreate  = flag.Bool("recreate", false, "Recreate the collection if it exists")
	debug     = flag.Bool("debug", false, "Enable debug logging")

	// batchPause is a courtesy pause between batches to be polite to the
	// embedding API. Not a correctness mechanism.
	batchPause = 250 * time.Millisecond
)

func main() {
	flag.Parse()

	logger := newLogger(*debug)
	defer logger.Sync()

	ctx := context.Background()

	cfg, err := config.New()
	if err != nil {
		logger.Fatal("configuration error", zap.Error(err))
	}

	embedder, err := embedding.NewOllamaEmbedder(cfg.Ollama.URL, cfg.Ollama.EmbedModel, logger)
	if err != nil {
		logger.Fatal("failed to create embedder", zap.Error(err))
	}

	store, err := vector.NewQdrantStore(cfg.Qdrant.Addr, cfg.Qdrant.Collection, logger)
	if err != nil {
		logger.Fatal("failed to connect to Qdrant", zap.Error(err))
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx, cfg.Qdrant.VectorSize, *recreate); err != nil {
		logger.Fatal("failed to set up collection", zap.Error(err))
	}

	listings, err := loadListings(*inputFile, *limit)
	if err != nil {
		logger.Fatal("failed to load listings", zap.Error(err))
	}
	fmt.Printf("📚 Processing %d listings from %s\n", len(listings), *inputFile)

	processed, err := indexListings(ctx, embedder, store, listings, *batchSize, logger)
	if err != nil {
		logger.Fatal("indexing failed", zap.Error(err))
	}

	fmt.Printf("✅ Embedded %d listings into %s\n", processed, cfg.Qdrant.Collection)
}

// loadListings reads at most limit listings from the JSON file.
func loadListings(path string, limit int) ([]models.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var listings []models.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}
	return listings, nil
}

// indexListings embeds and upserts listings in batches, pausing briefly
// between batches.
func indexListings(ctx context.Context, embedder embedding.Embedder, store *vector.QdrantStore,
	listings []models.Listing, batchSize int, logger *zap.Logger) (int, error) {

	var (
		batch     []models.Listing
		vectors   [][]float32
		processed int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := store.UpsertListings(ctx, batch, vectors); err != nil {
			return err
		}
		processed += len(batch)
		logger.Debug("batch upserted", zap.Int("size", len(batch)), zap.Int("total", processed))
		batch, vectors = nil, nil

		time.Sleep(batchPause)
		return nil
	}

	for _, listing := range listings {
		text := listing.EmbeddingText()
		if text == "" {
			continue
		}

		vec, err := embedder.Embed(ctx, text)
		if err != nil {
			logger.Warn("skipping listing, embedding failed",
				zap.String("id", listing.ID),
				zap.Error(err))
			continue
		}

		batch = append(batch, listing)
		vectors = append(vectors, vec)

		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return processed, err
			}
		}
	}

	if err := flush(); err != nil {
		return processed, err
	}
	return processed, nil
}

func newLogger(debug bool) *zap.Logger {
	if debug {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
