// Package mcp provides an MCP (Model Context Protocol) server adapter
// for the eRules engine. It lets AI assistants search the regulation
// corpus, walk regulatory chains and validate compliance texts.
package mcp

import "errors"

// Required port errors.
var (
	// ErrMissingSearchService is returned when the search service is not provided.
	ErrMissingSearchService = errors.New("mcp: search service is required")

	// ErrMissingCatalogService is returned when the catalog service is not provided.
	ErrMissingCatalogService = errors.New("mcp: catalog service is required")

	// ErrMissingChainService is returned when the chain service is not provided.
	ErrMissingChainService = errors.New("mcp: chain service is required")

	// ErrMissingValidationService is returned when the validation service is not provided.
	ErrMissingValidationService = errors.New("mcp: validation service is required")
)
