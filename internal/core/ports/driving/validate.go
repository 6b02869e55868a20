package driving

import (
	"context"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
)

// ValidationService assesses whether an operational text plausibly
// complies with the regulation set.
type ValidationService interface {
	// Validate searches with the text as query and post-processes the
	// result list into a coverage score, gap list and recommendations.
	// Empty text is rejected with domain.ErrEmptyInput.
	Validate(ctx context.Context, text string, opts domain.SearchOptions) (*domain.ComplianceReport, error)
}
