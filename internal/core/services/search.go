package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driving"
	"github.com/custodia-labs/erules-cli/internal/logger"
)

// SearchService ranks stored topics by cosine similarity against a query.
type SearchService struct {
	store    driven.TopicStore
	embedder driven.EmbeddingService

	// The store's model identity cannot change while the process runs
	// (only a full rebuild changes it), so it is checked once.
	modelOnce sync.Once
	modelErr  error
}

var _ driving.SearchService = (*SearchService)(nil)

// NewSearchService creates a search service backed by the given store
// and encoder.
func NewSearchService(store driven.TopicStore, embedder driven.EmbeddingService) *SearchService {
	return &SearchService{
		store:    store,
		embedder: embedder,
	}
}

// Search encodes the query and ranks the filtered candidate set.
// An empty query returns an empty result list without touching the
// encoder; so does TopK <= 0.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" || opts.TopK <= 0 {
		return []domain.SearchResult{}, nil
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	if err := s.checkModel(ctx); err != nil {
		return nil, err
	}

	logger.Debug("search: encoding query (%d chars)", len(query))
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	candidates, err := s.store.Candidates(ctx, driven.TopicFilter{
		Category: opts.Category,
		Kind:     opts.Kind,
	})
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}
	logger.Debug("search: scoring %d candidates", len(candidates))

	results := make([]domain.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		score := cosineSimilarity(queryVec, c.Vector)
		if score < opts.MinScore {
			continue
		}
		results = append(results, domain.SearchResult{
			Reference: c.Topic.Reference,
			Title:     c.Topic.Title,
			Content:   c.Topic.Content,
			Kind:      c.Topic.Kind,
			Score:     score,
		})
	}

	domain.SortResults(results)
	if len(results) > opts.TopK {
		results = results[:opts.TopK]
	}
	return results, nil
}

// checkModel verifies the store was built with the configured encoder.
// Scoring vectors from two different models produces numbers that look
// like similarities but mean nothing, so a mismatch is fatal.
func (s *SearchService) checkModel(ctx context.Context) error {
	s.modelOnce.Do(func() {
		stored, _, err := s.store.ModelIdentifier(ctx)
		if err != nil {
			s.modelErr = fmt.Errorf("reading store model: %w", err)
			return
		}
		if stored != s.embedder.ModelName() {
			s.modelErr = fmt.Errorf("store built with %q, encoder is %q: %w",
				stored, s.embedder.ModelName(), domain.ErrModelMismatch)
		}
	})
	return s.modelErr
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched dimensions or a zero vector score 0 rather than erroring:
// the model check already guards against systematic mismatch, and a
// single bad vector should not kill the whole query.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
