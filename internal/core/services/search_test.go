package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
)

func candidate(ref string, kind domain.TopicKind, vector []float32) driven.Candidate {
	return driven.Candidate{
		Topic: domain.Topic{
			Reference: ref,
			Title:     "Title of " + ref,
			Content:   "Content of " + ref,
			Kind:      kind,
		},
		Vector: vector,
	}
}

func TestSearchEmptyQueryReturnsNoResults(t *testing.T) {
	embedCalls := 0
	embedder := &mockEmbedder{
		embedFn: func(ctx context.Context, text string) ([]float32, error) {
			embedCalls++
			return []float32{1, 0, 0, 0}, nil
		},
	}
	svc := NewSearchService(&mockTopicStore{}, embedder)

	results, err := svc.Search(context.Background(), "   ", domain.SearchOptions{TopK: 10})

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, embedCalls, "empty query must not reach the encoder")
}

func TestSearchTopKZeroReturnsNoResults(t *testing.T) {
	svc := NewSearchService(&mockTopicStore{}, &mockEmbedder{})

	results, err := svc.Search(context.Background(), "flight time limits", domain.SearchOptions{TopK: 0})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	store := &mockTopicStore{
		candidatesFn: func(ctx context.Context, filter driven.TopicFilter) ([]driven.Candidate, error) {
			return []driven.Candidate{
				candidate("ORO.FTL.105", domain.KindIR, []float32{0, 1, 0, 0}),
				candidate("ORO.FTL.110", domain.KindIR, []float32{1, 0, 0, 0}),
				candidate("ORO.FTL.120", domain.KindIR, []float32{0.9, 0.1, 0, 0}),
			}, nil
		},
	}
	svc := NewSearchService(store, &mockEmbedder{})

	results, err := svc.Search(context.Background(), "fatigue management", domain.SearchOptions{TopK: 10})

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "ORO.FTL.110", results[0].Reference)
	assert.Equal(t, "ORO.FTL.120", results[1].Reference)
	assert.Equal(t, "ORO.FTL.105", results[2].Reference)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestSearchAppliesMinScoreAndTopK(t *testing.T) {
	store := &mockTopicStore{
		candidatesFn: func(ctx context.Context, filter driven.TopicFilter) ([]driven.Candidate, error) {
			return []driven.Candidate{
				candidate("ORO.FTL.105", domain.KindIR, []float32{1, 0, 0, 0}),
				candidate("ORO.FTL.110", domain.KindIR, []float32{0.8, 0.6, 0, 0}),
				candidate("ORO.FTL.120", domain.KindIR, []float32{0, 1, 0, 0}),
			}, nil
		},
	}
	svc := NewSearchService(store, &mockEmbedder{})

	results, err := svc.Search(context.Background(), "rest requirements", domain.SearchOptions{
		TopK:     1,
		MinScore: 0.5,
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ORO.FTL.105", results[0].Reference)
}

func TestSearchPassesFilterToStore(t *testing.T) {
	var gotFilter driven.TopicFilter
	store := &mockTopicStore{
		candidatesFn: func(ctx context.Context, filter driven.TopicFilter) ([]driven.Candidate, error) {
			gotFilter = filter
			return nil, nil
		},
	}
	svc := NewSearchService(store, &mockEmbedder{})

	_, err := svc.Search(context.Background(), "duty periods", domain.SearchOptions{
		TopK:     5,
		Category: "ORO.FTL",
		Kind:     domain.KindAMCToIR,
	})

	require.NoError(t, err)
	assert.Equal(t, "ORO.FTL", gotFilter.Category)
	assert.Equal(t, domain.KindAMCToIR, gotFilter.Kind)
}

func TestSearchModelMismatchIsFatal(t *testing.T) {
	store := &mockTopicStore{
		modelIdentifierFn: func(ctx context.Context) (string, int, error) {
			return "nomic-embed-text", 768, nil
		},
	}
	svc := NewSearchService(store, &mockEmbedder{model: "all-minilm"})

	_, err := svc.Search(context.Background(), "cabin crew", domain.SearchOptions{TopK: 10})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelMismatch)
}

func TestSearchEmptyStoreSurfacesError(t *testing.T) {
	store := &mockTopicStore{
		modelIdentifierFn: func(ctx context.Context) (string, int, error) {
			return "", 0, domain.ErrStoreEmpty
		},
	}
	svc := NewSearchService(store, &mockEmbedder{})

	_, err := svc.Search(context.Background(), "cabin crew", domain.SearchOptions{TopK: 10})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreEmpty)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
		{"dimension mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"empty", nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineSimilarity(tt.a, tt.b), 1e-6)
		})
	}
}
