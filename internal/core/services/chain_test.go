package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
)

func chainStore(topics map[string]domain.Topic) *mockTopicStore {
	return &mockTopicStore{
		getFn: func(ctx context.Context, reference string) (*domain.Topic, error) {
			if t, ok := topics[reference]; ok {
				return &t, nil
			}
			return nil, domain.ErrNotFound
		},
		listReferencesFn: func(ctx context.Context, filter driven.TopicFilter) ([]string, error) {
			var refs []string
			for ref, t := range topics {
				if filter.Category == "" || t.Category() == filter.Category {
					refs = append(refs, ref)
				}
			}
			return refs, nil
		},
	}
}

func ftlCorpus() map[string]domain.Topic {
	topics := map[string]domain.Topic{}
	for _, ref := range []string{
		"ORO.FTL.110",
		"AMC1 ORO.FTL.110",
		"AMC2 ORO.FTL.110(b)",
		"AMC10 ORO.FTL.110",
		"GM1 ORO.FTL.110",
		"ORO.FTL.115",
		"AMC1 ORO.FTL.115",
		"ORO.FTL.1100",
	} {
		topics[ref] = domain.Topic{Reference: ref, Kind: domain.KindIR}
	}
	return topics
}

func TestChainCollectsAttachedMeansAndGuidance(t *testing.T) {
	svc := NewChainService(chainStore(ftlCorpus()))

	chain, err := svc.Chain(context.Background(), "ORO.FTL.110")

	require.NoError(t, err)
	assert.Equal(t, "ORO.FTL.110", chain.IR.Reference)

	var amcs []string
	for _, a := range chain.AMCs {
		amcs = append(amcs, a.Reference)
	}
	assert.Equal(t, []string{"AMC1 ORO.FTL.110", "AMC2 ORO.FTL.110(b)", "AMC10 ORO.FTL.110"}, amcs)

	require.Len(t, chain.GMs, 1)
	assert.Equal(t, "GM1 ORO.FTL.110", chain.GMs[0].Reference)
	assert.Equal(t, 5, chain.Size())
}

func TestChainExcludesPrefixCollisions(t *testing.T) {
	svc := NewChainService(chainStore(ftlCorpus()))

	chain, err := svc.Chain(context.Background(), "ORO.FTL.110")

	require.NoError(t, err)
	for _, member := range append(chain.AMCs, chain.GMs...) {
		assert.NotContains(t, member.Reference, "ORO.FTL.115")
		assert.NotContains(t, member.Reference, "ORO.FTL.1100")
	}
}

func TestChainStripsMeansPrefixFromInput(t *testing.T) {
	svc := NewChainService(chainStore(ftlCorpus()))

	chain, err := svc.Chain(context.Background(), "AMC2 ORO.FTL.110")

	require.NoError(t, err)
	assert.Equal(t, "ORO.FTL.110", chain.IR.Reference)
}

func TestChainMissingRootIsNotFound(t *testing.T) {
	svc := NewChainService(chainStore(ftlCorpus()))

	_, err := svc.Chain(context.Background(), "ORO.FTL.999")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChainEmptyReferenceIsInvalid(t *testing.T) {
	svc := NewChainService(chainStore(nil))

	_, err := svc.Chain(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChainWithNoAttachmentsIsJustTheRule(t *testing.T) {
	topics := map[string]domain.Topic{
		"ORO.GEN.105": {Reference: "ORO.GEN.105", Kind: domain.KindIR},
	}
	svc := NewChainService(chainStore(topics))

	chain, err := svc.Chain(context.Background(), "ORO.GEN.105")

	require.NoError(t, err)
	assert.Empty(t, chain.AMCs)
	assert.Empty(t, chain.GMs)
	assert.Equal(t, 1, chain.Size())
}
