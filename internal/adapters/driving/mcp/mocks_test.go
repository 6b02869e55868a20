package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driving"
)

// mockSearch implements driving.SearchService.
type mockSearch struct {
	searchFn func(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}

var _ driving.SearchService = (*mockSearch)(nil)

func (m *mockSearch) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, opts)
	}
	return nil, nil
}

// mockCatalog implements driving.CatalogService.
type mockCatalog struct {
	getFn        func(ctx context.Context, reference string) (*domain.Topic, error)
	categoriesFn func(ctx context.Context) (map[string]int, error)
	statsFn      func(ctx context.Context) (*driven.StoreStats, error)
}

var _ driving.CatalogService = (*mockCatalog)(nil)

func (m *mockCatalog) Get(ctx context.Context, reference string) (*domain.Topic, error) {
	if m.getFn != nil {
		return m.getFn(ctx, reference)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCatalog) Categories(ctx context.Context) (map[string]int, error) {
	if m.categoriesFn != nil {
		return m.categoriesFn(ctx)
	}
	return map[string]int{}, nil
}

func (m *mockCatalog) Stats(ctx context.Context) (*driven.StoreStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &driven.StoreStats{}, nil
}

func (m *mockCatalog) Export(ctx context.Context, w io.Writer, category string) error {
	return nil
}

// mockChain implements driving.ChainService.
type mockChain struct {
	chainFn func(ctx context.Context, reference string) (*domain.RegulatoryChain, error)
}

var _ driving.ChainService = (*mockChain)(nil)

func (m *mockChain) Chain(ctx context.Context, reference string) (*domain.RegulatoryChain, error) {
	if m.chainFn != nil {
		return m.chainFn(ctx, reference)
	}
	return nil, domain.ErrNotFound
}

// mockValidation implements driving.ValidationService.
type mockValidation struct {
	validateFn func(ctx context.Context, text string, opts domain.SearchOptions) (*domain.ComplianceReport, error)
}

var _ driving.ValidationService = (*mockValidation)(nil)

func (m *mockValidation) Validate(ctx context.Context, text string, opts domain.SearchOptions) (*domain.ComplianceReport, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, text, opts)
	}
	return &domain.ComplianceReport{Level: domain.LevelNone}, nil
}

// fullPorts returns a Ports with every required service mocked.
func fullPorts() *Ports {
	return &Ports{
		Search:     &mockSearch{},
		Catalog:    &mockCatalog{},
		Chain:      &mockChain{},
		Validation: &mockValidation{},
	}
}
