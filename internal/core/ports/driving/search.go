package driving

import (
	"context"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
)

// SearchService finds the regulations semantically closest to a query.
type SearchService interface {
	// Search encodes the query once and ranks the filtered candidate
	// set by cosine similarity. TopK and MinScore are advisory filters:
	// a query with no candidates above MinScore returns an empty list,
	// not an error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
