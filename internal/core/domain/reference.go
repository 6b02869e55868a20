package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The EASA citation grammars, tried in order, first match wins. Keeping
// them as an ordered list makes each grammar unit-testable on its own and
// keeps the priority explicit.
//
// A citation core is an uppercase 2-4 letter group, a separator (dot,
// dash or space), another 2-4 letter group and a dotted numeric clause id,
// optionally followed by a parenthesised qualifier:
// "ORO.FTL.110", "CS FTL.1.100", "ORO.FTL.110(a)".
const citationCore = `[A-Z]{2,4}[.\-\s][A-Z]{2,4}\.[0-9]+(?:\.[0-9]+)?`

// citationPattern is one (pattern, extractor) pair of the resolver cascade.
type citationPattern struct {
	name    string
	re      *regexp.Regexp
	extract func(m []string, heading string) (reference, title string)
}

var citationPatterns = []citationPattern{
	{
		// "AMC1 ORO.FTL.110(a) Title text". The AMC/GM numbering stays
		// part of the reference: AMC1 and AMC2 are distinct means of
		// compliance for the same rule.
		name: "amc-gm",
		re:   regexp.MustCompile(`^((?:AMC|GM)\d+)\s+(` + citationCore + `(?:\([a-z0-9;]+\))?)`),
		extract: func(m []string, heading string) (string, string) {
			ref := m[1] + " " + m[2]
			return ref, strings.TrimSpace(heading[len(m[0]):])
		},
	},
	{
		// "GM2 Article 6.4a(a);(b) Derogations".
		name: "amc-gm-article",
		re:   regexp.MustCompile(`^((?:AMC|GM)\d+\s+Article\s+[0-9A-Za-z().;]+)`),
		extract: func(m []string, heading string) (string, string) {
			return m[1], strings.TrimSpace(heading[len(m[0]):])
		},
	},
	{
		// Bare rule citation: "ORO.FTL.110 Operator responsibilities".
		// Covers Implementing Rules and Certification Specifications.
		name: "plain-rule",
		re:   regexp.MustCompile(`^(` + citationCore + `)`),
		extract: func(m []string, heading string) (string, string) {
			return m[1], strings.TrimSpace(heading[len(m[0]):])
		},
	},
	{
		// "Article 2 - Definitions". The dash separator belongs to the
		// heading, not the title.
		name: "article",
		re:   regexp.MustCompile(`^(Article\s+[0-9A-Za-z.]+)`),
		extract: func(m []string, heading string) (string, string) {
			title := strings.TrimSpace(heading[len(m[0]):])
			return m[1], strings.TrimLeft(title, "- ")
		},
	},
}

// ResolveReference extracts a canonical reference and title from a raw
// topic heading. Returns ErrNoReference when no citation grammar matches;
// the caller then falls back to a synthesised identifier. The resolver
// never guesses - a misclassified citation is worse than no citation.
func ResolveReference(heading string) (reference, title string, err error) {
	heading = strings.TrimSpace(heading)
	if heading == "" {
		return "", "", ErrNoReference
	}

	for _, p := range citationPatterns {
		if m := p.re.FindStringSubmatch(heading); m != nil {
			ref, title := p.extract(m, heading)
			return ref, title, nil
		}
	}

	return "", heading, ErrNoReference
}

// meansPrefixRe matches the AMC/GM numbering prefix of a reference.
var meansPrefixRe = regexp.MustCompile(`^(AMC|GM)(\d+)\s+`)

// StripMeansPrefix removes any AMC/GM numbering from a reference,
// yielding the bare clause an AMC or GM attaches to.
// "AMC1 ORO.FTL.110" becomes "ORO.FTL.110".
func StripMeansPrefix(reference string) string {
	return meansPrefixRe.ReplaceAllString(reference, "")
}

// MeansIndex extracts the AMC/GM kind and numeric index from a reference.
// Returns ok=false for references without an AMC/GM prefix.
func MeansIndex(reference string) (prefix string, index int, ok bool) {
	m := meansPrefixRe.FindStringSubmatch(reference)
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], n, true
}

// ChainPattern compiles the grammar matching every AMC/GM attached to the
// given bare rule reference: "AMC<digits> <reference>" or
// "GM<digits> <reference>", with nothing but an optional parenthesised
// qualifier after the clause id.
func ChainPattern(bareReference string) (*regexp.Regexp, error) {
	if strings.TrimSpace(bareReference) == "" {
		return nil, fmt.Errorf("chain pattern: %w", ErrInvalidInput)
	}
	return regexp.Compile(`^(AMC|GM)(\d+)\s+` + regexp.QuoteMeta(bareReference) + `(?:\(|$)`)
}

// CategoryOf derives the filtering category from a reference: any AMC/GM
// prefix is stripped, then the reference is cut before its first numeric
// clause segment. "AMC1 ORO.FTL.110(a)" yields "ORO.FTL",
// "CS FTL.1.100" yields "CS FTL", "Article 6" yields "Article".
//
// The split is a heuristic inferred from the corpus, not a documented
// grammar; corpora with unusual citation shapes only need this function
// changed.
func CategoryOf(reference string) string {
	ref := StripMeansPrefix(strings.TrimSpace(reference))
	if ref == "" {
		return ""
	}

	if strings.HasPrefix(ref, "Article") {
		return "Article"
	}

	segments := strings.Split(ref, ".")
	for i := 1; i < len(segments); i++ {
		if segments[i] != "" && segments[i][0] >= '0' && segments[i][0] <= '9' {
			return strings.Join(segments[:i], ".")
		}
	}
	return ref
}
