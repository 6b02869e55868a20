package driving

import (
	"context"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
)

// IndexService builds the topic store from a source corpus.
type IndexService interface {
	// Build parses the corpus, batch-encodes every topic and rebuilds
	// the store from scratch. Existing contents are replaced.
	Build(ctx context.Context, corpusPath string) (*domain.BuildReport, error)
}
