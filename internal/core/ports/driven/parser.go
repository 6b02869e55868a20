package driven

import (
	"context"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
)

// CorpusParser turns one source document into a flat, deduplicated topic
// list in document order. Repeated runs on the same source yield
// identical output.
//
// A malformed single node is skipped and counted in the summary, never
// fatal; a document missing the content tree entirely is rejected with
// domain.ErrUnsupportedFormat.
type CorpusParser interface {
	// Parse reads the document at path and returns its topics.
	Parse(ctx context.Context, path string) ([]domain.Topic, *domain.ParseSummary, error)
}
