package domain

import "strings"

// TopicKind classifies a regulatory topic by its role in the rule set.
// The set is closed: unrecognised source values map to KindOther.
type TopicKind string

// Topic kinds, in binding order (IR binds, AMC demonstrates, GM explains).
const (
	// KindIR is an Implementing Rule - a binding requirement.
	KindIR TopicKind = "IR"

	// KindAMCToIR is an Acceptable Means of Compliance to an IR.
	KindAMCToIR TopicKind = "AMC_TO_IR"

	// KindGMToIR is Guidance Material to an IR.
	KindGMToIR TopicKind = "GM_TO_IR"

	// KindCS is a Certification Specification.
	KindCS TopicKind = "CS"

	// KindGMToCS is Guidance Material to a CS.
	KindGMToCS TopicKind = "GM_TO_CS"

	// KindEasyAccess is an Easy Access Rules consolidation node.
	KindEasyAccess TopicKind = "EASY_ACCESS"

	// KindOther covers every TypeOfContent value not listed above.
	KindOther TopicKind = "OTHER"
)

// typeOfContentValues maps the literal TypeOfContent strings of the eRules
// XML export to topic kinds. The trailing semicolons are part of the
// source vocabulary.
var typeOfContentValues = map[string]TopicKind{
	"IR (Implementing rule);": KindIR,
	"AMC to IR (Acceptable means of compliance to implementing rule);": KindAMCToIR,
	"GM to IR (Guidance material to implementing rule);":               KindGMToIR,
	"CS (Certification specification);":                                KindCS,
	"GM to CS (Guidance material to certification specification);":     KindGMToCS,
	"Easy access rules;": KindEasyAccess,
}

// ParseTopicKind maps a raw TypeOfContent value to a TopicKind.
// Unrecognised values map to KindOther, never to an error.
func ParseTopicKind(raw string) TopicKind {
	if kind, ok := typeOfContentValues[raw]; ok {
		return kind
	}
	return KindOther
}

// IsValid returns true if the kind is one of the closed set.
func (k TopicKind) IsValid() bool {
	switch k {
	case KindIR, KindAMCToIR, KindGMToIR, KindCS, KindGMToCS, KindEasyAccess, KindOther:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k TopicKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the kind.
func (k TopicKind) Description() string {
	switch k {
	case KindIR:
		return "Implementing Rule"
	case KindAMCToIR:
		return "AMC to Implementing Rule"
	case KindGMToIR:
		return "GM to Implementing Rule"
	case KindCS:
		return "Certification Specification"
	case KindGMToCS:
		return "GM to Certification Specification"
	case KindEasyAccess:
		return "Easy Access Rules"
	default:
		return "Other"
	}
}

// Topic is one regulatory clause or guidance fragment, parsed from the
// dual-tree eRules export. It is the canonical record persisted by the
// topic store and denormalised into search results.
type Topic struct {
	// Reference is the canonical citation, unique after deduplication.
	// Synthesised from the title or the content handle when no citation
	// grammar matches; never empty for a stored topic.
	Reference string

	// Title is the human-readable heading.
	Title string

	// Content is the full text body. Empty for purely structural nodes.
	Content string

	// Kind classifies the topic (IR, AMC, GM, ...).
	Kind TopicKind

	// RegulatorySubject is the coarse grouping, e.g. "Part-ORO".
	RegulatorySubject string

	// Domain is the regulatory domain, e.g. "Air operations".
	Domain string

	// RegulatorySource is the originating regulation,
	// e.g. "Regulation (EU) No 83/2014".
	RegulatorySource string

	// ApplicabilityDate is the date the rule applies from.
	ApplicabilityDate string

	// EntryIntoForce is the date the rule entered into force.
	EntryIntoForce string

	// Metadata holds secondary source fields (amended-by, ICAO reference,
	// keywords, eRules id). Display only, never required for search.
	Metadata map[string]string

	// ContentHandle is the opaque id that joined this topic to its body
	// in the content tree. Meaningless outside parsing.
	ContentHandle string
}

// Category returns the citation prefix used for filtering and chain
// assembly, e.g. "ORO.FTL" for "AMC1 ORO.FTL.110(a)".
func (t Topic) Category() string {
	return CategoryOf(t.Reference)
}

// EmbeddingText composes the text that gets encoded for this topic:
// reference and title, the content body, then a regulatory context line.
// The context line measurably improves retrieval on subject-level queries.
func (t Topic) EmbeddingText() string {
	var parts []string

	if t.Reference != "" {
		parts = append(parts, strings.TrimSpace(t.Reference+" "+t.Title))
	} else if t.Title != "" {
		parts = append(parts, t.Title)
	}

	if t.Content != "" {
		parts = append(parts, t.Content)
	}

	var context []string
	if t.RegulatorySubject != "" {
		context = append(context, "Subject: "+t.RegulatorySubject)
	}
	if t.Domain != "" {
		context = append(context, "Domain: "+t.Domain)
	}
	if len(context) > 0 {
		parts = append(parts, strings.Join(context, " | "))
	}

	return strings.Join(parts, "\n\n")
}

// IsScaffolding returns true if the topic carries no information at all:
// no resolvable reference, no title and no content. Such nodes are
// discarded during parsing.
func (t Topic) IsScaffolding() bool {
	return t.Reference == "" && t.Title == "" && t.Content == ""
}

// StoredVector is one persisted embedding, 1:1 with a topic reference.
// Vectors are created once per build pass and are immutable until the
// next full rebuild.
type StoredVector struct {
	// Reference is the owning topic's citation.
	Reference string

	// Vector is the embedding, dimension fixed by the model.
	Vector []float32

	// Model identifies the encoder that produced the vector. Vectors
	// from different models are never compared.
	Model string
}
