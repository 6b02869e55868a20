// Package erules parses EASA eRules XML exports into topics.
//
// An export is a Flat OPC package holding two trees: a customXml item
// with the topic hierarchy and metadata, and a WordprocessingML document
// with the text bodies. The trees are joined by an opaque sdt id; the
// join key has no meaning outside the parse.
package erules

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
	"github.com/custodia-labs/erules-cli/internal/logger"
)

// maxFallbackTitleLen bounds references synthesised from a heading.
const maxFallbackTitleLen = 60

// Parser reads eRules XML exports.
type Parser struct{}

var _ driven.CorpusParser = (*Parser)(nil)

// NewParser creates an eRules corpus parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the export at path and returns its topics in document
// order, deduplicated by reference. Individual malformed nodes are
// counted, never fatal; a package missing either tree is rejected with
// domain.ErrUnsupportedFormat.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Topic, *domain.ParseSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close()

	root, err := decodeTree(f)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding corpus XML: %w", err)
	}

	tocTree, contentTree := findPackageParts(root)
	if tocTree == nil || contentTree == nil {
		return nil, nil, fmt.Errorf("package parts missing (toc=%v, content=%v): %w",
			tocTree != nil, contentTree != nil, domain.ErrUnsupportedFormat)
	}

	// One pass over the content tree; topic resolution is then O(1)
	// per node instead of a tree scan per topic.
	contentByID := buildContentIndex(contentTree)
	logger.Debug("parser: indexed %d content blocks", len(contentByID))

	summary := &domain.ParseSummary{}
	seen := make(map[string]bool)
	var topics []domain.Topic

	err = walk(ctx, tocTree, func(n *node) {
		if n.name != "topic" {
			return
		}
		topic, unresolved := p.buildTopic(n, contentByID)
		if topic.IsScaffolding() {
			summary.Discarded++
			return
		}
		if unresolved {
			// Heading matched no citation grammar but the node carries
			// information, so it stays under a synthesised identifier.
			summary.Unreferenced++
			topic.Reference = fallbackReference(topic.Title, topic.ContentHandle, topic.Metadata["erules_id"])
		}
		if seen[topic.Reference] {
			summary.Duplicates++
			logger.Warn("parser: duplicate reference %q, keeping first occurrence", topic.Reference)
			return
		}
		seen[topic.Reference] = true
		topics = append(topics, topic)
	})
	if err != nil {
		return nil, nil, err
	}

	summary.Topics = len(topics)
	return topics, summary, nil
}

// buildTopic assembles one topic from a toc node and the content index.
// Returns unresolved=true when the heading matched no citation grammar;
// the reference is then left empty for the caller to decide between
// discarding the node and synthesising a fallback identifier.
func (p *Parser) buildTopic(n *node, contentByID map[string]string) (domain.Topic, bool) {
	heading := strings.TrimSpace(n.attrs["source-title"])
	sdtID := n.attrs["sdt-id"]

	unresolved := false
	reference, title, err := domain.ResolveReference(heading)
	if err != nil {
		unresolved = true
	}

	metadata := make(map[string]string)
	for attr, key := range map[string]string{
		"ERulesId":      "erules_id",
		"AmendedBy":     "amended_by",
		"ICAOReference": "icao_reference",
		"Keywords":      "keywords",
	} {
		if v := strings.TrimSpace(n.attrs[attr]); v != "" {
			metadata[key] = v
		}
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	return domain.Topic{
		Reference:         reference,
		Title:             title,
		Content:           contentByID[sdtID],
		Kind:              domain.ParseTopicKind(n.attrs["TypeOfContent"]),
		RegulatorySubject: n.attrs["RegulatorySubject"],
		Domain:            n.attrs["Domain"],
		RegulatorySource:  n.attrs["RegulatorySource"],
		ApplicabilityDate: n.attrs["ApplicabilityDate"],
		EntryIntoForce:    n.attrs["EntryIntoForceDate"],
		Metadata:          metadata,
		ContentHandle:     sdtID,
	}, unresolved
}

// fallbackReference synthesises an identifier for a topic whose heading
// matched no citation grammar: the truncated heading, then the content
// handle, then the eRules id, then a last-resort constant. Synthesised
// identifiers keep the topic searchable even though it cannot be cited.
func fallbackReference(heading, sdtID, eRulesID string) string {
	if heading != "" {
		runes := []rune(heading)
		if len(runes) > maxFallbackTitleLen {
			return string(runes[:maxFallbackTitleLen])
		}
		return heading
	}
	if sdtID != "" {
		return "SDT-" + sdtID
	}
	if eRulesID != "" {
		return "ERULES-" + eRulesID
	}
	return "UNKNOWN"
}

// node is one XML element with namespace prefixes stripped. The eRules
// exports mix several namespaces for the same vocabulary; matching on
// local names keeps the parser independent of the export's prefix
// choices.
type node struct {
	name     string
	attrs    map[string]string
	children []*node
	text     string
}

// decodeTree reads an entire XML document into a node tree.
func decodeTree(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	root := &node{name: ""}
	stack := []*node{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.attrs[a.Name.Local] = a.Value
				}
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			cur := stack[len(stack)-1]
			cur.text += string(t)
		}
	}

	if len(root.children) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	return root, nil
}

// findPackageParts locates the two required trees in a Flat OPC package:
// the customXml item holding topic elements and the word document
// holding the text bodies.
func findPackageParts(root *node) (toc, content *node) {
	var parts []*node
	collectNamed(root, "part", &parts)

	for _, part := range parts {
		name := part.attrs["name"]
		switch {
		case strings.Contains(name, "/customXml/item"):
			// Packages carry several customXml items; only the one
			// with topic elements is the toc tree.
			if containsNamed(part, "topic") {
				toc = part
			}
		case strings.Contains(name, "/word/document.xml"):
			content = part
		}
	}
	return toc, content
}

// buildContentIndex maps sdt ids to their text bodies in one pass.
// Paragraphs join with newlines; text runs within a paragraph
// concatenate directly, matching how WordprocessingML splits runs.
// The first occurrence of an id wins.
func buildContentIndex(content *node) map[string]string {
	index := make(map[string]string)

	var visit func(n *node)
	visit = func(n *node) {
		if n.name == "sdt" {
			if id, text := extractSdtBlock(n); id != "" {
				if _, exists := index[id]; !exists {
					index[id] = text
				}
			}
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(content)
	return index
}

// extractSdtBlock pulls the id and paragraph text out of one sdt element.
func extractSdtBlock(sdt *node) (id, text string) {
	for _, c := range sdt.children {
		switch c.name {
		case "sdtPr":
			for _, pr := range c.children {
				if pr.name == "id" {
					id = pr.attrs["val"]
				}
			}
		case "sdtContent":
			var paragraphs []string
			var collectParagraphs func(n *node)
			collectParagraphs = func(n *node) {
				if n.name == "p" {
					if t := strings.TrimSpace(collectText(n)); t != "" {
						paragraphs = append(paragraphs, t)
					}
					return
				}
				for _, cc := range n.children {
					collectParagraphs(cc)
				}
			}
			collectParagraphs(c)
			text = strings.Join(paragraphs, "\n")
		}
	}
	return id, text
}

// collectText concatenates every text run below n.
func collectText(n *node) string {
	var sb strings.Builder
	var visit func(n *node)
	visit = func(n *node) {
		if n.name == "t" {
			sb.WriteString(n.text)
			return
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}

// collectNamed gathers every descendant with the given local name.
func collectNamed(n *node, name string, out *[]*node) {
	for _, c := range n.children {
		if c.name == name {
			*out = append(*out, c)
		}
		collectNamed(c, name, out)
	}
}

// containsNamed reports whether any descendant has the given local name.
func containsNamed(n *node, name string) bool {
	for _, c := range n.children {
		if c.name == name || containsNamed(c, name) {
			return true
		}
	}
	return false
}

// walk visits every node in document order, honouring cancellation.
func walk(ctx context.Context, root *node, fn func(*node)) error {
	var visit func(n *node) error
	visit = func(n *node) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(n)
		for _, c := range n.children {
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(root)
}
