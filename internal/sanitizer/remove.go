package sanitizer

import "golang.org/x/net/html"

// childSnapshot captures a node's current children before any mutation, so
// callers can safely remove nodes from the live tree while iterating.
func childSnapshot(node *html.Node) []*html.Node {
	var children []*html.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		children = append(children, child)
	}
	return children
}

// removeEmptyNodesBottomUp performs a post-order traversal to remove empty nodes.
// This ensures nested empty containers are fully cleaned (innermost first).
func removeEmptyNodesBottomUp(node *html.Node) {
	if node == nil {
		return
	}

	for _, child := range childSnapshot(node) {
		removeEmptyNodesBottomUp(child)
	}

	if node.Type == html.ElementNode && isEmptyNode(node) && shouldRemoveEmptyElement(node.Data) && node.Parent != nil {
		node.Parent.RemoveChild(node)
	}
}

// voidElements are self-closing and valid even with no children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// structuralSkeletonElements are never pruned even when empty; higher-level
// logic, not this pass, decides what to do about a document missing them.
var structuralSkeletonElements = map[string]bool{
	"html": true, "head": true, "body": true, "main": true,
}

// shouldRemoveEmptyElement reports whether an empty element of this tag
// should be pruned by removeEmptyNodesBottomUp.
func shouldRemoveEmptyElement(tag string) bool {
	return !voidElements[tag] && !structuralSkeletonElements[tag]
}

// removeDuplicateNodes removes duplicate structural nodes, keeping the first occurrence.
// It uses a signature-based approach to detect structural duplicates.
func removeDuplicateNodes(root *html.Node) {
	if root == nil {
		return
	}

	// Track seen signatures at each sibling level
	// We use a map of parent pointer -> set of seen signatures
	seenSignatures := make(map[*html.Node]map[string]bool)

	// Traverse all element nodes and remove duplicates
	var traverse func(node *html.Node)
	traverse = func(node *html.Node) {
		if node == nil {
			return
		}

		if node.Type == html.ElementNode && isMeaningfulElement(node.Data) && node.Parent != nil {
			parent := node.Parent
			if seenSignatures[parent] == nil {
				seenSignatures[parent] = make(map[string]bool)
			}

			sig := nodeSignature(node)
			if seenSignatures[parent][sig] {
				parent.RemoveChild(node)
				return
			}
			seenSignatures[parent][sig] = true
		}

		for _, child := range childSnapshot(node) {
			traverse(child)
		}
	}

	traverse(root)
}
