package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for eRules resources.
const uriScheme = "erules://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the category listing.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "Citation categories in the corpus with topic counts",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)

	// Template for regulation text.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "regulations/{reference}",
		Name:        "regulation-text",
		Description: "Full text of a specific regulation",
		MIMEType:    "text/plain",
	}, s.handleRegulationResource)
}

// handleCategoriesResource returns the category listing as JSON.
func (s *Server) handleCategoriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	categories, err := s.ports.Catalog.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	data, err := json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("encoding categories: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleRegulationResource returns one regulation's text.
func (s *Server) handleRegulationResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	reference := strings.TrimPrefix(req.Params.URI, uriScheme+"regulations/")
	topic, err := s.ports.Catalog.Get(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("reading regulation %q: %w", reference, err)
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(topic.Reference + " " + topic.Title))
	if topic.Content != "" {
		sb.WriteString("\n\n")
		sb.WriteString(topic.Content)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     sb.String(),
		}},
	}, nil
}
