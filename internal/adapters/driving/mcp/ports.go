package mcp

import (
	"github.com/custodia-labs/erules-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides semantic search over the regulation corpus.
	Search driving.SearchService

	// Catalog provides exact lookups, categories and statistics.
	Catalog driving.CatalogService

	// Chain assembles regulatory chains.
	Chain driving.ChainService

	// Validation assesses compliance texts.
	Validation driving.ValidationService

	// Stale reports whether the source corpus changed since the index
	// was built. Optional; nil means staleness is never reported.
	Stale func() bool
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	if p.Chain == nil {
		return ErrMissingChainService
	}
	if p.Validation == nil {
		return ErrMissingValidationService
	}
	return nil
}

// indexStale reports staleness, false when no checker is wired.
func (p *Ports) indexStale() bool {
	return p.Stale != nil && p.Stale()
}
