package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driving"
)

// CatalogService provides direct, non-semantic access to the stored
// corpus: exact lookups, category listings, statistics and export.
type CatalogService struct {
	store driven.TopicStore
}

var _ driving.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a catalog service over the given store.
func NewCatalogService(store driven.TopicStore) *CatalogService {
	return &CatalogService{store: store}
}

// Get retrieves a regulation by exact reference.
func (s *CatalogService) Get(ctx context.Context, reference string) (*domain.Topic, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("get reference: %w", domain.ErrInvalidInput)
	}
	topic, err := s.store.Get(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("regulation %q: %w", reference, err)
	}
	return topic, nil
}

// Categories returns per-category topic counts.
func (s *CatalogService) Categories(ctx context.Context) (map[string]int, error) {
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// Stats returns the store statistics.
func (s *CatalogService) Stats(ctx context.Context) (*driven.StoreStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading store stats: %w", err)
	}
	return stats, nil
}

// exportedTopic is the JSON shape of one exported regulation. Vectors
// are deliberately excluded: they are model-specific build artifacts,
// not corpus data.
type exportedTopic struct {
	Reference         string            `json:"reference"`
	Title             string            `json:"title,omitempty"`
	Content           string            `json:"content,omitempty"`
	Kind              domain.TopicKind  `json:"kind"`
	Category          string            `json:"category,omitempty"`
	RegulatorySubject string            `json:"regulatory_subject,omitempty"`
	Domain            string            `json:"domain,omitempty"`
	RegulatorySource  string            `json:"regulatory_source,omitempty"`
	ApplicabilityDate string            `json:"applicability_date,omitempty"`
	EntryIntoForce    string            `json:"entry_into_force,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// Export writes the stored topics as a JSON array, ordered by reference.
// An empty category exports the whole corpus.
func (s *CatalogService) Export(ctx context.Context, w io.Writer, category string) error {
	topics, err := s.store.ListTopics(ctx, driven.TopicFilter{Category: category})
	if err != nil {
		return fmt.Errorf("listing topics: %w", err)
	}

	out := make([]exportedTopic, len(topics))
	for i, t := range topics {
		out[i] = exportedTopic{
			Reference:         t.Reference,
			Title:             t.Title,
			Content:           t.Content,
			Kind:              t.Kind,
			Category:          t.Category(),
			RegulatorySubject: t.RegulatorySubject,
			Domain:            t.Domain,
			RegulatorySource:  t.RegulatorySource,
			ApplicabilityDate: t.ApplicabilityDate,
			EntryIntoForce:    t.EntryIntoForce,
			Metadata:          t.Metadata,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}
