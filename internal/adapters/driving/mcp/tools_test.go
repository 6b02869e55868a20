package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestHandleSearch(t *testing.T) {
	var gotOpts domain.SearchOptions
	ports := fullPorts()
	ports.Search = &mockSearch{
		searchFn: func(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
			gotOpts = opts
			return []domain.SearchResult{
				{Reference: "ORO.FTL.110", Title: "Operator responsibilities", Kind: domain.KindIR, Score: 0.91},
			}, nil
		},
	}
	server := newTestServer(t, ports)

	_, output, err := server.handleSearch(context.Background(), nil, SearchInput{
		Query:    "flight time limitations",
		Category: "ORO.FTL",
		Kind:     "IR",
	})

	require.NoError(t, err)
	assert.Equal(t, 10, gotOpts.TopK, "TopK defaults to 10")
	assert.Equal(t, "ORO.FTL", gotOpts.Category)
	assert.Equal(t, domain.KindIR, gotOpts.Kind)
	require.Equal(t, 1, output.Count)
	assert.Equal(t, "ORO.FTL.110", output.Results[0].Reference)
	assert.Equal(t, "IR", output.Results[0].Kind)
	assert.False(t, output.IndexStale)
}

func TestHandleSearchReportsStaleIndex(t *testing.T) {
	ports := fullPorts()
	ports.Stale = func() bool { return true }
	server := newTestServer(t, ports)

	_, output, err := server.handleSearch(context.Background(), nil, SearchInput{Query: "q"})

	require.NoError(t, err)
	assert.True(t, output.IndexStale)
}

func TestHandleGetRegulation(t *testing.T) {
	ports := fullPorts()
	ports.Catalog = &mockCatalog{
		getFn: func(ctx context.Context, reference string) (*domain.Topic, error) {
			return &domain.Topic{
				Reference: "AMC1 ORO.FTL.110",
				Title:     "Scheduling",
				Kind:      domain.KindAMCToIR,
			}, nil
		},
	}
	server := newTestServer(t, ports)

	_, output, err := server.handleGetRegulation(context.Background(), nil, RegulationInput{Reference: "AMC1 ORO.FTL.110"})

	require.NoError(t, err)
	assert.Equal(t, "AMC1 ORO.FTL.110", output.Reference)
	assert.Equal(t, "AMC_TO_IR", output.Kind)
	assert.Equal(t, "ORO.FTL", output.Category)
}

func TestHandleGetRegulationNotFound(t *testing.T) {
	server := newTestServer(t, fullPorts())

	_, _, err := server.handleGetRegulation(context.Background(), nil, RegulationInput{Reference: "ORO.FTL.999"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHandleGetChain(t *testing.T) {
	ports := fullPorts()
	ports.Chain = &mockChain{
		chainFn: func(ctx context.Context, reference string) (*domain.RegulatoryChain, error) {
			return &domain.RegulatoryChain{
				IR:   domain.Topic{Reference: "ORO.FTL.110", Kind: domain.KindIR},
				AMCs: []domain.Topic{{Reference: "AMC1 ORO.FTL.110", Kind: domain.KindAMCToIR}},
				GMs:  []domain.Topic{{Reference: "GM1 ORO.FTL.110", Kind: domain.KindGMToIR}},
			}, nil
		},
	}
	server := newTestServer(t, ports)

	_, output, err := server.handleGetChain(context.Background(), nil, ChainInput{Reference: "ORO.FTL.110"})

	require.NoError(t, err)
	assert.Equal(t, "ORO.FTL.110", output.Rule.Reference)
	require.Len(t, output.AMCs, 1)
	require.Len(t, output.GMs, 1)
	assert.Equal(t, 3, output.Size)
}

func TestHandleValidate(t *testing.T) {
	var gotOpts domain.SearchOptions
	ports := fullPorts()
	ports.Validation = &mockValidation{
		validateFn: func(ctx context.Context, text string, opts domain.SearchOptions) (*domain.ComplianceReport, error) {
			gotOpts = opts
			return &domain.ComplianceReport{
				Score:   0.75,
				Level:   domain.LevelHigh,
				Summary: "HIGH compliance signal",
			}, nil
		},
	}
	server := newTestServer(t, ports)

	_, output, err := server.handleValidate(context.Background(), nil, ValidateInput{Text: "our procedures"})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings().Validate.TopK, gotOpts.TopK)
	assert.Equal(t, "HIGH", output.Level)
	assert.InDelta(t, 0.75, output.Score, 1e-9)
}

func TestHandleListCategories(t *testing.T) {
	ports := fullPorts()
	ports.Catalog = &mockCatalog{
		categoriesFn: func(ctx context.Context) (map[string]int, error) {
			return map[string]int{"ORO.FTL": 42, "CS FTL": 12}, nil
		},
	}
	server := newTestServer(t, ports)

	_, output, err := server.handleListCategories(context.Background(), nil, CategoriesInput{})

	require.NoError(t, err)
	assert.Equal(t, 2, output.Count)
	assert.Equal(t, 42, output.Categories["ORO.FTL"])
}

func TestHandleGetStatistics(t *testing.T) {
	ports := fullPorts()
	ports.Catalog = &mockCatalog{
		statsFn: func(ctx context.Context) (*driven.StoreStats, error) {
			return &driven.StoreStats{
				Topics:     100,
				Vectors:    100,
				ByKind:     map[domain.TopicKind]int{domain.KindIR: 40},
				ByCategory: map[string]int{"ORO.FTL": 60, "CS FTL": 40},
				Model:      "nomic-embed-text",
				Dimensions: 768,
				BuildID:    "build-7",
			}, nil
		},
	}
	server := newTestServer(t, ports)

	_, output, err := server.handleGetStatistics(context.Background(), nil, StatisticsInput{})

	require.NoError(t, err)
	assert.Equal(t, 100, output.Topics)
	assert.Equal(t, 40, output.ByKind["IR"])
	assert.Equal(t, 2, output.Categories)
	assert.Equal(t, "nomic-embed-text", output.Model)
	assert.Empty(t, output.BuiltAt)
}

func TestNewServerRequiresPorts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Ports)
		want   error
	}{
		{"missing search", func(p *Ports) { p.Search = nil }, ErrMissingSearchService},
		{"missing catalog", func(p *Ports) { p.Catalog = nil }, ErrMissingCatalogService},
		{"missing chain", func(p *Ports) { p.Chain = nil }, ErrMissingChainService},
		{"missing validation", func(p *Ports) { p.Validation = nil }, ErrMissingValidationService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ports := fullPorts()
			tt.mutate(ports)
			_, err := NewServer(ports)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
