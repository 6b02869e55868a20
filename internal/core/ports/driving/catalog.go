package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
)

// CatalogService provides direct access to the stored corpus.
type CatalogService interface {
	// Get retrieves a regulation by exact reference.
	Get(ctx context.Context, reference string) (*domain.Topic, error)

	// Categories returns per-category topic counts.
	Categories(ctx context.Context) (map[string]int, error)

	// Stats returns store statistics.
	Stats(ctx context.Context) (*driven.StoreStats, error)

	// Export writes the stored topics as JSON, without vectors.
	// An empty category exports everything.
	Export(ctx context.Context, w io.Writer, category string) error
}
