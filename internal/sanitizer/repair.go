package sanitizer

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unsafe"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// UnrepairabilityReason identifies the specific structural violation that
// makes a document unrepairable.
type UnrepairabilityReason string

const (
	ReasonCompetingRoots      UnrepairabilityReason = "competing_roots"
	ReasonNoStructuralAnchor  UnrepairabilityReason = "no_structural_anchor"
	ReasonMultipleH1NoRoot    UnrepairabilityReason = "multiple_h1_no_root"
	ReasonImpliedMultipleDocs UnrepairabilityReason = "implied_multiple_docs"
	ReasonAmbiguousDOM        UnrepairabilityReason = "ambiguous_dom"
)

// RepairableResult is the outcome of isRepairable: either the document can
// proceed through the rest of the sanitization pipeline, or Reason names
// which structural check rejected it.
type RepairableResult struct {
	Repairable bool
	Reason     UnrepairabilityReason
}

// headingInfo pairs a heading's DOM node with its level and text, so the
// repairability checks can reason about heading order without re-walking
// the DOM for each check.
type headingInfo struct {
	level int
	node  *html.Node
	text  string
}

// isEmptyNode reports whether node has no children, or only whitespace text
// children.
func isEmptyNode(node *html.Node) bool {
	if node == nil || node.Type != html.ElementNode {
		return false
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.ElementNode:
			return false
		case html.TextNode:
			if strings.TrimSpace(child.Data) != "" {
				return false
			}
		}
	}
	return true
}

// nodeSignature builds a string identifying node's tag, attributes, and
// content shape, used to detect structural duplicates among siblings.
func nodeSignature(node *html.Node) string {
	if node == nil {
		return ""
	}

	var sig strings.Builder
	fmt.Fprintf(&sig, "type:%d|tag:%s|", node.Type, node.Data)
	for i, attr := range node.Attr {
		if i > 0 {
			sig.WriteString(",")
		}
		fmt.Fprintf(&sig, "%s=%s", attr.Key, attr.Val)
	}
	fmt.Fprintf(&sig, "|content:%d", nodeContentHash(node))
	return sig.String()
}

// nodeContentHash recursively hashes a node's tag, attributes, text, and
// children so two structurally identical subtrees hash the same.
func nodeContentHash(node *html.Node) uint64 {
	h := fnv.New64a()

	switch node.Type {
	case html.ElementNode:
		h.Write([]byte(node.Data))
		for _, attr := range node.Attr {
			h.Write([]byte(attr.Key))
			h.Write([]byte(attr.Val))
		}
	case html.TextNode:
		h.Write([]byte(strings.TrimSpace(node.Data)))
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		fmt.Fprintf(h, "%d", nodeContentHash(child))
	}

	return h.Sum64()
}

// nodesAreEqual reports whether a and b have the same type, tag, attributes,
// and (recursively) the same children.
func nodesAreEqual(a, b *html.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type {
		return false
	}

	switch a.Type {
	case html.ElementNode:
		if a.Data != b.Data || len(a.Attr) != len(b.Attr) {
			return false
		}
		attrsA := make(map[string]string, len(a.Attr))
		for _, attr := range a.Attr {
			attrsA[attr.Key] = attr.Val
		}
		for _, attr := range b.Attr {
			if attrsA[attr.Key] != attr.Val {
				return false
			}
		}
	case html.TextNode:
		return strings.TrimSpace(a.Data) == strings.TrimSpace(b.Data)
	}

	childA, childB := a.FirstChild, b.FirstChild
	for childA != nil && childB != nil {
		if !nodesAreEqual(childA, childB) {
			return false
		}
		childA, childB = childA.NextSibling, childB.NextSibling
	}
	return childA == nil && childB == nil
}

// structuralAnchorTags are never collapsed as duplicates: a repeated
// <nav> or <header> is a layout fact, not a content accident.
var structuralAnchorTags = map[string]bool{
	"main": true, "article": true, "header": true, "footer": true,
	"nav": true, "aside": true,
}

// isMeaningfulElement reports whether tag should be considered for
// deduplication. Headings and structural anchors are excluded.
func isMeaningfulElement(tag string) bool {
	if isHeadingTag(tag) {
		return false
	}
	return !structuralAnchorTags[tag]
}

func isHeadingTag(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

// hasCompetingDocumentRoots reports whether the document has more than one
// <main>, or sibling <article> elements, either of which could independently
// serve as the document's root.
func hasCompetingDocumentRoots(doc *goquery.Document) bool {
	if doc.Find("main").Length() > 1 {
		return true
	}

	articles := doc.Find("article")
	if articles.Length() <= 1 {
		return false
	}

	siblingCounts := make(map[uintptr]int)
	articles.Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		if node == nil || node.Parent == nil {
			return
		}
		siblingCounts[uintptr(unsafe.Pointer(node.Parent))]++
	})
	for _, count := range siblingCounts {
		if count > 1 {
			return true
		}
	}
	return false
}

// extractHeadings returns every h1-h6 in doc, in DOM order.
func extractHeadings(doc *goquery.Document) []headingInfo {
	var headings []headingInfo
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		if node == nil || !isHeadingTag(node.Data) {
			return
		}
		level := int(node.Data[1] - '0')
		headings = append(headings, headingInfo{level: level, node: node, text: s.Text()})
	})
	return headings
}

// hasStructuralAnchors reports whether doc has article/main elements, or
// section elements with children, any of which can anchor document
// structure even without headings.
func hasStructuralAnchors(doc *goquery.Document) bool {
	if doc.Find("article").Length() > 0 || doc.Find("main").Length() > 0 {
		return true
	}
	structured := false
	doc.Find("section").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() > 0 {
			structured = true
		}
	})
	return structured
}

// hasMultipleH1WithoutPrimaryRoot reports whether the document has more
// than one h1 with no single one of them provably the primary root: either
// two h1s share a parent, or two or more h1s each head a substantial
// subsection of their own.
func hasMultipleH1WithoutPrimaryRoot(headings []headingInfo) bool {
	h1s := filterHeadingsByLevel(headings, 1)
	if len(h1s) <= 1 {
		return false
	}

	seenParents := make(map[uintptr]bool)
	for _, h1 := range h1s {
		if h1.node.Parent == nil {
			continue
		}
		parentPtr := uintptr(unsafe.Pointer(h1.node.Parent))
		if seenParents[parentPtr] {
			return true
		}
		seenParents[parentPtr] = true
	}

	return countSubstantialH1Sections(headings, h1s) >= 2
}

func filterHeadingsByLevel(headings []headingInfo, level int) []headingInfo {
	var filtered []headingInfo
	for _, h := range headings {
		if h.level == level {
			filtered = append(filtered, h)
		}
	}
	return filtered
}

// countSubstantialH1Sections counts how many h1s in h1s are followed, before
// the next h1, by at least two sub-headings of their own.
func countSubstantialH1Sections(headings, h1s []headingInfo) int {
	indexOf := func(node *html.Node) int {
		for i, h := range headings {
			if h.node == node {
				return i
			}
		}
		return len(headings)
	}

	substantial := 0
	for i, h1 := range h1s {
		h1Index := indexOf(h1.node)
		nextH1Index := len(headings)
		if i+1 < len(h1s) {
			nextH1Index = indexOf(h1s[i+1].node)
		}

		sectionHeadings := 0
		for j := h1Index + 1; j < nextH1Index; j++ {
			if headings[j].level > 1 {
				sectionHeadings++
			}
		}
		if sectionHeadings >= 2 {
			substantial++
		}
	}
	return substantial
}

// hasImpliedMultipleDocuments reports whether the heading structure groups
// into two or more h1-rooted sections that each look like a complete
// document in their own right.
func hasImpliedMultipleDocuments(headings []headingInfo) bool {
	sections := groupHeadingsByH1(headings)
	if len(sections) < 2 {
		return false
	}

	complete := 0
	for _, section := range sections {
		if looksLikeCompleteDocument(section) {
			complete++
		}
	}
	return complete >= 2
}

func groupHeadingsByH1(headings []headingInfo) [][]headingInfo {
	var sections [][]headingInfo
	var current []headingInfo
	for _, h := range headings {
		if h.level == 1 {
			if current != nil {
				sections = append(sections, current)
			}
			current = []headingInfo{h}
			continue
		}
		if current != nil {
			current = append(current, h)
		}
	}
	if current != nil {
		sections = append(sections, current)
	}
	return sections
}

// looksLikeCompleteDocument reports whether an h1 section (h1 plus the
// sub-headings grouped under it) has at least two sub-headings and either a
// sub-heading at the same or a deeper level than the one before it, or three
// or more sub-headings outright.
func looksLikeCompleteDocument(section []headingInfo) bool {
	subHeadings := section[1:]
	if len(subHeadings) < 2 {
		return false
	}

	prevLevel := 0
	hasHierarchy := false
	for _, h := range subHeadings {
		if prevLevel > 0 && h.level >= prevLevel {
			hasHierarchy = true
			break
		}
		prevLevel = h.level
	}
	return hasHierarchy || len(subHeadings) >= 3
}

const maxSemanticNestingDepth = 3
const maxConflictingStructures = 2

// hasStructurallyAmbiguousDOM reports whether the document shows either of
// two signs of overlapping contexts: a heading level that jumps back to a
// level seen two headings earlier (oscillation), or more than
// maxConflictingStructures article/section elements that are each nested
// more than maxSemanticNestingDepth deep.
func hasStructurallyAmbiguousDOM(headings []headingInfo, doc *goquery.Document) bool {
	if headingsOscillate(headings) {
		return true
	}
	return countDeeplyNestedSemanticContainers(doc) > maxConflictingStructures
}

func headingsOscillate(headings []headingInfo) bool {
	if len(headings) == 0 {
		return false
	}

	minLevel := 7
	for _, h := range headings {
		if h.level < minLevel {
			minLevel = h.level
		}
	}
	if minLevel <= 1 {
		return false
	}

	prevLevel := minLevel
	for i, h := range headings {
		if i == 0 {
			continue
		}
		if h.level < prevLevel-1 && i >= 2 && headings[i-2].level == h.level {
			return true
		}
		prevLevel = h.level
	}
	return false
}

func countDeeplyNestedSemanticContainers(doc *goquery.Document) int {
	deep := 0
	doc.Find("article, section").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		if node == nil {
			return
		}
		depth := 0
		for parent := node.Parent; parent != nil; parent = parent.Parent {
			if parent.Data == "article" || parent.Data == "section" {
				depth++
			}
		}
		if depth > maxSemanticNestingDepth {
			deep++
		}
	})
	return deep
}

// repairabilityChecks run in order; the first one that reports a violation
// determines isRepairable's Reason.
var repairabilityChecks = []struct {
	reason UnrepairabilityReason
	check  func(doc *goquery.Document, headings []headingInfo) bool
}{
	{ReasonCompetingRoots, func(doc *goquery.Document, _ []headingInfo) bool {
		return hasCompetingDocumentRoots(doc)
	}},
	{ReasonNoStructuralAnchor, func(doc *goquery.Document, headings []headingInfo) bool {
		return len(headings) == 0 && !hasStructuralAnchors(doc)
	}},
	{ReasonMultipleH1NoRoot, func(_ *goquery.Document, headings []headingInfo) bool {
		return hasMultipleH1WithoutPrimaryRoot(headings)
	}},
	{ReasonImpliedMultipleDocs, func(_ *goquery.Document, headings []headingInfo) bool {
		return hasImpliedMultipleDocuments(headings)
	}},
	{ReasonAmbiguousDOM, func(doc *goquery.Document, headings []headingInfo) bool {
		return hasStructurallyAmbiguousDOM(headings, doc)
	}},
}

// isRepairable runs the structural checks (competing roots, missing
// anchors, ambiguous h1s, implied multi-document structure, ambiguous
// nesting) against doc in order and returns the first violation found, if
// any. It treats html.Node as the canonical data source and uses goquery
// only as a traversal convenience; no CSS inspection or semantic inference
// is performed.
func isRepairable(doc *html.Node) RepairableResult {
	docQuery := goquery.NewDocumentFromNode(doc)
	headings := extractHeadings(docQuery)

	for _, rc := range repairabilityChecks {
		if rc.check(docQuery, headings) {
			return RepairableResult{Repairable: false, Reason: rc.reason}
		}
	}
	return RepairableResult{Repairable: true}
}
