package driving

import (
	"context"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
)

// ChainService assembles regulatory chains.
type ChainService interface {
	// Chain groups the Implementing Rule at the given reference with
	// every AMC and GM attached to it. A missing IR is a lookup
	// failure (domain.ErrNotFound), not an empty chain.
	Chain(ctx context.Context, reference string) (*domain.RegulatoryChain, error)
}
