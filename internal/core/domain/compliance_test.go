package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  ComplianceLevel
	}{
		{0.95, LevelHigh},
		{0.7, LevelHigh},
		{0.69, LevelMedium},
		{0.5, LevelMedium},
		{0.49, LevelLow},
		{0.3, LevelLow},
		{0.29, LevelNone},
		{0.0, LevelNone},
		{-0.4, LevelNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %.2f", tt.score)
	}
}

func TestSortResults(t *testing.T) {
	results := []SearchResult{
		{Reference: "ORO.FTL.120", Score: 0.5},
		{Reference: "ORO.FTL.110", Score: 0.9},
		{Reference: "ORO.FTL.105", Score: 0.5},
	}

	SortResults(results)

	assert.Equal(t, "ORO.FTL.110", results[0].Reference)
	// Equal scores tie-break by reference ascending.
	assert.Equal(t, "ORO.FTL.105", results[1].Reference)
	assert.Equal(t, "ORO.FTL.120", results[2].Reference)
}
