package domain

// ComplianceLevel buckets an aggregate similarity score.
type ComplianceLevel string

// Compliance levels, highest first.
const (
	LevelHigh   ComplianceLevel = "HIGH"
	LevelMedium ComplianceLevel = "MEDIUM"
	LevelLow    ComplianceLevel = "LOW"
	LevelNone   ComplianceLevel = "NONE"
)

// Fixed score thresholds for the compliance levels.
const (
	HighThreshold   = 0.7
	MediumThreshold = 0.5
	LowThreshold    = 0.3
)

// LevelForScore maps an aggregate score to its compliance level.
func LevelForScore(score float64) ComplianceLevel {
	switch {
	case score >= HighThreshold:
		return LevelHigh
	case score >= MediumThreshold:
		return LevelMedium
	case score >= LowThreshold:
		return LevelLow
	default:
		return LevelNone
	}
}

// String returns the string representation.
func (l ComplianceLevel) String() string {
	return string(l)
}

// ComplianceReport is the outcome of validating an operational text
// against the regulation set. It is a deterministic post-processing of a
// search result list; the engine never caches it.
type ComplianceReport struct {
	// Score is the mean similarity of the top results (a weighted
	// aggregate, not a raw maximum).
	Score float64

	// Level buckets the score.
	Level ComplianceLevel

	// Results are the relevant regulations, ordered by score.
	Results []SearchResult

	// Gaps are free-text coverage observations, populated when the
	// level is below HIGH.
	Gaps []string

	// Recommendations reference specific regulations worth reviewing.
	Recommendations []string

	// Summary is a one-line human-readable digest.
	Summary string
}
