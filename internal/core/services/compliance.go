package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driving"
)

// topScoreWindow is how many of the best matches feed the aggregate
// score. Averaging a small window rewards a few strong matches without
// letting a long weak tail drag the score down.
const topScoreWindow = 5

// ValidationService assesses operational text against the regulation
// set. It is a pure post-processing layer over search: same inputs,
// same report.
type ValidationService struct {
	search driving.SearchService
}

var _ driving.ValidationService = (*ValidationService)(nil)

// NewValidationService creates a validation service on top of search.
func NewValidationService(search driving.SearchService) *ValidationService {
	return &ValidationService{search: search}
}

// Validate searches with the text as query and derives a compliance
// report from the result list.
func (s *ValidationService) Validate(ctx context.Context, text string, opts domain.SearchOptions) (*domain.ComplianceReport, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("validating text: %w", domain.ErrEmptyInput)
	}

	results, err := s.search.Search(ctx, text, opts)
	if err != nil {
		return nil, fmt.Errorf("searching regulations: %w", err)
	}

	report := BuildComplianceReport(text, results)
	return report, nil
}

// BuildComplianceReport derives a compliance report from ranked search
// results. Exported because it is the deterministic half of validation:
// given the same text and results it always produces the same report.
func BuildComplianceReport(text string, results []domain.SearchResult) *domain.ComplianceReport {
	if len(results) == 0 {
		return &domain.ComplianceReport{
			Score:   0,
			Level:   domain.LevelNone,
			Results: results,
			Gaps:    []string{"no relevant regulations matched the text"},
			Summary: "NONE compliance signal: no relevant regulations found",
		}
	}

	window := topScoreWindow
	if len(results) < window {
		window = len(results)
	}
	var sum float64
	for _, r := range results[:window] {
		sum += r.Score
	}
	score := sum / float64(window)
	level := domain.LevelForScore(score)

	report := &domain.ComplianceReport{
		Score:   score,
		Level:   level,
		Results: results,
	}

	hasIR, hasAMC, hasGM := false, false, false
	weak := 0
	for _, r := range results {
		switch r.Kind {
		case domain.KindIR:
			hasIR = true
		case domain.KindAMCToIR:
			hasAMC = true
		case domain.KindGMToIR, domain.KindGMToCS:
			hasGM = true
		}
		if r.Score < domain.MediumThreshold {
			weak++
		}
	}

	// Gaps are coverage observations, only worth surfacing when the
	// aggregate signal is below HIGH.
	if level != domain.LevelHigh {
		if len(results) < 3 {
			report.Gaps = append(report.Gaps, "only a small number of regulations matched; coverage may be incomplete")
		}
		if weak > len(results)/2 {
			report.Gaps = append(report.Gaps, "most matched regulations are only weakly related to the text")
		}
		if !hasIR {
			report.Gaps = append(report.Gaps, "no binding Implementing Rule matched; the text may not address a direct requirement")
		}
		if !hasAMC {
			report.Gaps = append(report.Gaps, "no Acceptable Means of Compliance matched the text")
		}
		if !hasGM {
			report.Gaps = append(report.Gaps, "no Guidance Material matched the text")
		}
	}

	for _, r := range results {
		if r.Score >= domain.HighThreshold && !strings.Contains(text, r.Reference) {
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("Review %s: %s", r.Reference, r.Title))
		}
	}
	if hasIR && !hasAMC {
		report.Recommendations = append(report.Recommendations,
			"Review the AMC and GM attached to the matched rules for accepted demonstration methods")
	}

	report.Summary = fmt.Sprintf("%s compliance signal (score %.2f) across %d relevant regulations",
		level, score, len(results))
	return report
}
