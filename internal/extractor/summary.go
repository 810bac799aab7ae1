package extractor

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Title derives the page title from an ExtractionResult following a fixed
// priority: the document's <title> tag (site/section separators trimmed
// off), then the first heading inside the extracted content, then a
// fallback literal when neither is present.
func Title(result ExtractionResult) string {
	if title := titleFromTag(result.DocumentRoot); title != "" {
		return title
	}
	if title := firstHeadingText(result.ContentNode); title != "" {
		return title
	}
	return "Untitled"
}

func titleFromTag(doc *html.Node) string {
	if doc == nil {
		return ""
	}

	titleNode := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "title"
	})
	if titleNode == nil {
		return ""
	}

	raw := strings.TrimSpace(nodeText(titleNode))
	if raw == "" {
		return ""
	}

	for _, sep := range []string{" | ", " - "} {
		if idx := strings.Index(raw, sep); idx > 0 {
			raw = raw[:idx]
			break
		}
	}
	return strings.TrimSpace(raw)
}

func firstHeadingText(root *html.Node) string {
	node := findFirst(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && isHeadingTag(n.Data)
	})
	if node == nil {
		return ""
	}
	return strings.TrimSpace(nodeText(node))
}

// Headings returns the text of every heading (h1-h6) under the extracted
// content subtree, in document order.
func Headings(result ExtractionResult) []string {
	var headings []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.ElementNode && isHeadingTag(n.Data) {
			if text := strings.TrimSpace(nodeText(n)); text != "" {
				headings = append(headings, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(result.ContentNode)
	return headings
}

// WordCount counts whitespace-separated tokens in the visible text of the
// extracted content subtree.
func WordCount(result ExtractionResult) int {
	text := nodeText(result.ContentNode)
	return len(strings.Fields(text))
}

func isHeadingTag(tag string) bool {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	default:
		return false
	}
}

// nodeText concatenates all text-node descendants of n, separated by
// spaces so adjoining inline elements don't fuse into one token.
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node == nil {
			return
		}
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteByte(' ')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapseSpace(b.String())
}

func collapseSpace(s string) string {
	var b strings.Builder
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteByte(' ')
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// findFirst returns the first node in document order (pre-order) under root
// for which match returns true, or nil if none matches.
func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	if match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}
