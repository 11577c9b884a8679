package vector

import (
	"context"

	"github.com/andrew/listing-rag/pkg/models"
)

// Store defines the vector-search capability the retrieval pipeline
// depends on: filtered similarity search plus direct lookup by identifier.
type Store interface {
	// Search finds records similar to the query vector. A single filter is
	// applied as a direct equality match, multiple filters are AND-combined.
	// Candidates scoring below opts.MinScore are discarded.
	Search(ctx context.Context, queryVector []float32, filters []models.Filter, opts SearchOptions) ([]models.SearchResult, error)

	// FindByID fetches a single record by exact identifier, bypassing
	// similarity search. A miss is a normal outcome, reported via found.
	FindByID(ctx context.Context, id string) (snippet string, found bool, err error)

	// Close releases resources used by the vector store
	Close() error
}

// SearchOptions bounds a similarity search.
type SearchOptions struct {
	Limit      int     // maximum results returned
	Candidates int     // candidate pool size for the ANN search
	MinScore   float32 // minimum similarity score
}

// DefaultSearchOptions returns the retrieval defaults.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Limit:      5,
		Candidates: 400,
		MinScore:   0.50,
	}
}
