package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query    string  `json:"query" jsonschema:"natural language query to search the regulations with"`
	TopK     int     `json:"top_k,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	MinScore float64 `json:"min_score,omitempty" jsonschema:"drop results below this similarity score"`
	Category string  `json:"category,omitempty" jsonschema:"restrict to one citation category, e.g. ORO.FTL"`
	Kind     string  `json:"kind,omitempty" jsonschema:"restrict to one topic kind: IR, AMC_TO_IR, GM_TO_IR, CS, GM_TO_CS"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results    []SearchResultOutput `json:"results"`
	Count      int                  `json:"count"`
	IndexStale bool                 `json:"index_stale,omitempty"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Reference string  `json:"reference"`
	Title     string  `json:"title"`
	Kind      string  `json:"kind"`
	Score     float64 `json:"score"`
	Content   string  `json:"content,omitempty"`
}

// RegulationInput is the input schema for the get_regulation tool.
type RegulationInput struct {
	Reference string `json:"reference" jsonschema:"exact regulation reference, e.g. ORO.FTL.110 or AMC1 ORO.FTL.110"`
}

// RegulationOutput is the output schema for the get_regulation tool.
type RegulationOutput struct {
	Reference         string            `json:"reference"`
	Title             string            `json:"title,omitempty"`
	Content           string            `json:"content,omitempty"`
	Kind              string            `json:"kind"`
	Category          string            `json:"category,omitempty"`
	RegulatorySubject string            `json:"regulatory_subject,omitempty"`
	Domain            string            `json:"domain,omitempty"`
	RegulatorySource  string            `json:"regulatory_source,omitempty"`
	ApplicabilityDate string            `json:"applicability_date,omitempty"`
	EntryIntoForce    string            `json:"entry_into_force,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// ChainInput is the input schema for the get_regulatory_chain tool.
type ChainInput struct {
	Reference string `json:"reference" jsonschema:"Implementing Rule reference to root the chain at, e.g. ORO.FTL.110"`
}

// ChainOutput is the output schema for the get_regulatory_chain tool.
type ChainOutput struct {
	Rule RegulationOutput   `json:"rule"`
	AMCs []RegulationOutput `json:"amcs"`
	GMs  []RegulationOutput `json:"gms"`
	Size int                `json:"size"`
}

// ValidateInput is the input schema for the validate_compliance tool.
type ValidateInput struct {
	Text string `json:"text" jsonschema:"operational or procedural text to validate against the regulations"`
	TopK int    `json:"top_k,omitempty" jsonschema:"number of relevant regulations to analyse (default 10)"`
}

// ValidateOutput is the output schema for the validate_compliance tool.
type ValidateOutput struct {
	Score           float64              `json:"score"`
	Level           string               `json:"level"`
	Results         []SearchResultOutput `json:"results"`
	Gaps            []string             `json:"gaps,omitempty"`
	Recommendations []string             `json:"recommendations,omitempty"`
	Summary         string               `json:"summary"`
}

// CategoriesInput is the input schema for the list_categories tool.
type CategoriesInput struct{}

// CategoriesOutput is the output schema for the list_categories tool.
type CategoriesOutput struct {
	Categories map[string]int `json:"categories"`
	Count      int            `json:"count"`
}

// StatisticsInput is the input schema for the get_statistics tool.
type StatisticsInput struct{}

// StatisticsOutput is the output schema for the get_statistics tool.
type StatisticsOutput struct {
	Topics     int            `json:"topics"`
	Vectors    int            `json:"vectors"`
	ByKind     map[string]int `json:"by_kind"`
	Categories int            `json:"categories"`
	Model      string         `json:"model"`
	Dimensions int            `json:"dimensions"`
	BuildID    string         `json:"build_id,omitempty"`
	BuiltAt    string         `json:"built_at,omitempty"`
	SizeBytes  int64          `json:"size_bytes,omitempty"`
	IndexStale bool           `json:"index_stale,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Semantic search across the aviation regulation corpus",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_regulation",
		Description: "Retrieve one regulation by exact reference",
	}, s.handleGetRegulation)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_regulatory_chain",
		Description: "Retrieve an Implementing Rule with all attached AMC and GM",
	}, s.handleGetChain)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_compliance",
		Description: "Assess whether a text plausibly complies with the regulations",
	}, s.handleValidate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_categories",
		Description: "List the citation categories in the corpus with topic counts",
	}, s.handleListCategories)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_statistics",
		Description: "Report corpus statistics: topic counts, kinds, model, build",
	}, s.handleGetStatistics)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = 10
	}

	opts := domain.SearchOptions{
		TopK:     topK,
		MinScore: input.MinScore,
		Category: input.Category,
		Kind:     domain.TopicKind(input.Kind),
	}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{
		Results:    toResultOutputs(results),
		Count:      len(results),
		IndexStale: s.ports.indexStale(),
	}, nil
}

// handleGetRegulation handles the get_regulation tool invocation.
func (s *Server) handleGetRegulation(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RegulationInput,
) (*mcp.CallToolResult, RegulationOutput, error) {
	topic, err := s.ports.Catalog.Get(ctx, input.Reference)
	if err != nil {
		return nil, RegulationOutput{}, err
	}
	return nil, toRegulationOutput(*topic), nil
}

// handleGetChain handles the get_regulatory_chain tool invocation.
func (s *Server) handleGetChain(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChainInput,
) (*mcp.CallToolResult, ChainOutput, error) {
	chain, err := s.ports.Chain.Chain(ctx, input.Reference)
	if err != nil {
		return nil, ChainOutput{}, err
	}

	output := ChainOutput{
		Rule: toRegulationOutput(chain.IR),
		AMCs: make([]RegulationOutput, len(chain.AMCs)),
		GMs:  make([]RegulationOutput, len(chain.GMs)),
		Size: chain.Size(),
	}
	for i, amc := range chain.AMCs {
		output.AMCs[i] = toRegulationOutput(amc)
	}
	for i, gm := range chain.GMs {
		output.GMs[i] = toRegulationOutput(gm)
	}
	return nil, output, nil
}

// handleValidate handles the validate_compliance tool invocation.
func (s *Server) handleValidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ValidateInput,
) (*mcp.CallToolResult, ValidateOutput, error) {
	defaults := domain.DefaultSettings().Validate
	topK := input.TopK
	if topK <= 0 {
		topK = defaults.TopK
	}

	report, err := s.ports.Validation.Validate(ctx, input.Text, domain.SearchOptions{
		TopK:     topK,
		MinScore: defaults.MinScore,
	})
	if err != nil {
		return nil, ValidateOutput{}, err
	}

	return nil, ValidateOutput{
		Score:           report.Score,
		Level:           report.Level.String(),
		Results:         toResultOutputs(report.Results),
		Gaps:            report.Gaps,
		Recommendations: report.Recommendations,
		Summary:         report.Summary,
	}, nil
}

// handleListCategories handles the list_categories tool invocation.
func (s *Server) handleListCategories(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CategoriesInput,
) (*mcp.CallToolResult, CategoriesOutput, error) {
	categories, err := s.ports.Catalog.Categories(ctx)
	if err != nil {
		return nil, CategoriesOutput{}, err
	}
	return nil, CategoriesOutput{
		Categories: categories,
		Count:      len(categories),
	}, nil
}

// handleGetStatistics handles the get_statistics tool invocation.
func (s *Server) handleGetStatistics(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatisticsInput,
) (*mcp.CallToolResult, StatisticsOutput, error) {
	stats, err := s.ports.Catalog.Stats(ctx)
	if err != nil {
		return nil, StatisticsOutput{}, err
	}

	byKind := make(map[string]int, len(stats.ByKind))
	for kind, count := range stats.ByKind {
		byKind[kind.String()] = count
	}

	output := StatisticsOutput{
		Topics:     stats.Topics,
		Vectors:    stats.Vectors,
		ByKind:     byKind,
		Categories: len(stats.ByCategory),
		Model:      stats.Model,
		Dimensions: stats.Dimensions,
		BuildID:    stats.BuildID,
		SizeBytes:  stats.SizeBytes,
		IndexStale: s.ports.indexStale(),
	}
	if !stats.BuiltAt.IsZero() {
		output.BuiltAt = stats.BuiltAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return nil, output, nil
}

func toResultOutputs(results []domain.SearchResult) []SearchResultOutput {
	outputs := make([]SearchResultOutput, len(results))
	for i, r := range results {
		outputs[i] = SearchResultOutput{
			Reference: r.Reference,
			Title:     r.Title,
			Kind:      r.Kind.String(),
			Score:     r.Score,
			Content:   r.Content,
		}
	}
	return outputs
}

func toRegulationOutput(t domain.Topic) RegulationOutput {
	return RegulationOutput{
		Reference:         t.Reference,
		Title:             t.Title,
		Content:           t.Content,
		Kind:              t.Kind.String(),
		Category:          t.Category(),
		RegulatorySubject: t.RegulatorySubject,
		Domain:            t.Domain,
		RegulatorySource:  t.RegulatorySource,
		ApplicabilityDate: t.ApplicabilityDate,
		EntryIntoForce:    t.EntryIntoForce,
		Metadata:          t.Metadata,
	}
}
