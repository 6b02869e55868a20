package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driving"
	"github.com/custodia-labs/erules-cli/internal/logger"
)

// ChainService assembles regulatory chains by reference grammar, not by
// vector similarity: the AMC/GM attachment is encoded in the citation
// itself and a semantic lookup could only be less precise.
type ChainService struct {
	store driven.TopicStore
}

var _ driving.ChainService = (*ChainService)(nil)

// NewChainService creates a chain service over the given store.
func NewChainService(store driven.TopicStore) *ChainService {
	return &ChainService{store: store}
}

// Chain returns the Implementing Rule at the given reference together
// with every AMC and GM attached to it. Any AMC/GM numbering on the
// input is stripped first, so "AMC1 ORO.FTL.110" roots the same chain
// as "ORO.FTL.110".
func (s *ChainService) Chain(ctx context.Context, reference string) (*domain.RegulatoryChain, error) {
	root := domain.StripMeansPrefix(strings.TrimSpace(reference))
	if root == "" {
		return nil, fmt.Errorf("chain reference: %w", domain.ErrInvalidInput)
	}

	ir, err := s.store.Get(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("chain root %q: %w", root, err)
	}

	pattern, err := domain.ChainPattern(ir.Reference)
	if err != nil {
		return nil, err
	}

	// Scoping to the root's category keeps the scan proportional to
	// one Part instead of the whole corpus.
	refs, err := s.store.ListReferences(ctx, driven.TopicFilter{
		Category: domain.CategoryOf(ir.Reference),
	})
	if err != nil {
		return nil, fmt.Errorf("listing %q references: %w", domain.CategoryOf(ir.Reference), err)
	}

	chain := &domain.RegulatoryChain{IR: *ir}
	for _, ref := range refs {
		if !pattern.MatchString(ref) {
			continue
		}
		topic, err := s.store.Get(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("chain member %q: %w", ref, err)
		}
		prefix, _, ok := domain.MeansIndex(ref)
		if !ok {
			continue
		}
		switch prefix {
		case "AMC":
			chain.AMCs = append(chain.AMCs, *topic)
		case "GM":
			chain.GMs = append(chain.GMs, *topic)
		}
	}

	sortByMeansIndex(chain.AMCs)
	sortByMeansIndex(chain.GMs)

	logger.Debug("chain for %s: %d AMCs, %d GMs", ir.Reference, len(chain.AMCs), len(chain.GMs))
	return chain, nil
}

// sortByMeansIndex orders a partition by numeric AMC/GM index, so AMC2
// sorts before AMC10. Ties break by full reference.
func sortByMeansIndex(topics []domain.Topic) {
	sort.Slice(topics, func(i, j int) bool {
		_, ni, _ := domain.MeansIndex(topics[i].Reference)
		_, nj, _ := domain.MeansIndex(topics[j].Reference)
		if ni != nj {
			return ni < nj
		}
		return topics[i].Reference < topics[j].Reference
	})
}
