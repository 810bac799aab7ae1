package normalize

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rohmanhakim/docs-crawler/internal/assets"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/hashutil"
	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"
)

/*
Responsibilities
- Inject frontmatter
- Enforce structural rules
- Prepare documents for RAG chunking

Frontmatter Fields
- Title
- Source URL
- Crawl depth
- Section or category
- etc

RAG-Oriented Constraints
- Logical section boundaries preserved
- Code blocks and tables are atomic
- Chunk sizes predictable
*/

type Constraint interface {
	Normalize(
		fetchUrl url.URL,
		assetfulMarkdownDoc assets.AssetfulMarkdownDoc,
		normalizeParam NormalizeParam,
		summary ContentSummary,
	) (NormalizedMarkdownDoc, failure.ClassifiedError)
}

type MarkdownConstraint struct {
	metadataSink metadata.MetadataSink
}

func NewMarkdownConstraint(
	metadataSink metadata.MetadataSink,
) MarkdownConstraint {
	return MarkdownConstraint{
		metadataSink: metadataSink,
	}
}

func (m *MarkdownConstraint) Normalize(
	fetchUrl url.URL,
	assetfulMarkdownDoc assets.AssetfulMarkdownDoc,
	normalizeParam NormalizeParam,
	summary ContentSummary,
) (NormalizedMarkdownDoc, failure.ClassifiedError) {
	normalizedMarkdown, err := normalize(fetchUrl, assetfulMarkdownDoc, normalizeParam, summary)
	if err != nil {
		var normalizationError *NormalizationError
		errors.As(err, &normalizationError)
		m.metadataSink.RecordError(
			time.Now(),
			"normalize",
			"MarkdownConstraint.Normalize",
			mapNormalizationErrorToMetadataCause(*normalizationError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, fetchUrl.String()),
			},
		)
		return NormalizedMarkdownDoc{}, normalizationError
	}
	return normalizedMarkdown, nil
}

func normalize(
	fetchUrl url.URL,
	inputDoc assets.AssetfulMarkdownDoc,
	normalizeParam NormalizeParam,
	summary ContentSummary,
) (NormalizedMarkdownDoc, failure.ClassifiedError) {
	content := inputDoc.Content()

	// Step 1: Validate structure before generating frontmatter
	if err := validateStructure(content); err != nil {
		return NormalizedMarkdownDoc{}, err
	}

	// Step 2: Generate frontmatter (assumes valid structure)
	frontmatter, err := generateFrontmatter(fetchUrl, inputDoc, normalizeParam, summary)
	if err != nil {
		return NormalizedMarkdownDoc{}, err
	}

	// Return normalized document with both frontmatter and content
	return NewNormalizedMarkdownDoc(frontmatter, content), nil
}

// structuralError builds a non-retryable NormalizationError; every
// validateStructure failure is a structural defect the caller can't usefully
// retry.
func structuralError(cause NormalizationErrorCause, message string) *NormalizationError {
	return &NormalizationError{Message: message, Retryable: false, Cause: cause}
}

// headingWalkResult is what a single AST walk over the document collects:
// every heading in order, whether a code block swallowed a heading marker,
// and whether non-heading content appeared before the first heading.
type headingWalkResult struct {
	headings           []*ast.Heading
	headingInCodeBlock bool
	contentBeforeH1    bool
}

func walkHeadingsAndContent(doc ast.Node) headingWalkResult {
	var result headingWalkResult
	var insideCodeBlock bool

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Heading:
			if !entering {
				break
			}
			// A heading marker inside a code block (Invariant N6) is not a
			// real heading; stop rather than let it corrupt the outline.
			if insideCodeBlock {
				result.headingInCodeBlock = true
				return ast.Terminate
			}
			result.headings = append(result.headings, n)

		case *ast.CodeBlock:
			insideCodeBlock = entering

		case *ast.Text, *ast.Paragraph, *ast.List, *ast.Table:
			if entering && len(result.headings) == 0 {
				result.contentBeforeH1 = true
			}
		}

		return ast.GoToNext
	})

	return result
}

// validateStructure validates the Markdown document structure according to
// normalization invariants N1, N3, N4, N5, and N6, using AST parsing rather
// than text heuristics.
func validateStructure(content []byte) failure.ClassifiedError {
	if len(bytes.TrimSpace(content)) == 0 {
		return structuralError(ErrCauseEmptyContent, "markdown content is empty")
	}

	doc := markdown.Parse(content, parser.New())
	walk := walkHeadingsAndContent(doc)

	if walk.headingInCodeBlock {
		return structuralError(ErrCauseBrokenAtomicBlock, "heading detected inside code block")
	}

	h1Count := 0
	for _, h := range walk.headings {
		if h.Level == 1 {
			h1Count++
		}
	}
	// N1: exactly one H1.
	if h1Count == 0 {
		return structuralError(ErrCauseBrokenH1Invariant, "document has no H1 heading")
	}
	if h1Count > 1 {
		return structuralError(ErrCauseBrokenH1Invariant, fmt.Sprintf("document has %d H1 headings, expected exactly one", h1Count))
	}

	// N4: no orphan content before the first H1.
	if walk.contentBeforeH1 {
		return structuralError(ErrCauseOrphanContent, "content exists before first H1 heading")
	}

	// N3: no skipped heading levels.
	prevLevel := 0
	for _, h := range walk.headings {
		if h.Level > prevLevel+1 && prevLevel != 0 {
			return structuralError(ErrCauseSkippedHeadingLevels, fmt.Sprintf("heading level skipped: H%d follows H%d", h.Level, prevLevel))
		}
		prevLevel = h.Level
	}

	return nil
}

// prefixedHash hashes data with algo and prefixes the result with the
// algorithm name (e.g. "sha256:abcd..."), matching the docID/contentHash
// format consumers expect. label identifies which field failed, for the
// error message only.
func prefixedHash(data string, algo hashutil.HashAlgo, label string) (string, failure.ClassifiedError) {
	sum, err := hashutil.HashBytes([]byte(data), algo)
	if err != nil {
		return "", structuralError(ErrCauseHashComputationFailed, fmt.Sprintf("failed to compute %s: %v", label, err))
	}
	return string(algo) + ":" + sum, nil
}

func generateFrontmatter(
	fetchUrl url.URL,
	inputDoc assets.AssetfulMarkdownDoc,
	normalizeParam NormalizeParam,
	summary ContentSummary,
) (Frontmatter, failure.ClassifiedError) {
	content := inputDoc.Content()

	// Title comes from the extractor's <title>/<h1>/fallback resolution over
	// the raw page, not from the converted markdown body.
	title := summary.Title()

	// Get source URL
	sourceURL := fetchUrl.String()

	// Compute canonical URL
	canonicalURL := urlutil.Canonicalize(fetchUrl)

	// Derive section from canonical URL path (stripping allowedPathPrefixes first)
	section, err := deriveSection(canonicalURL, normalizeParam.allowedPathPrefixes)
	if err != nil {
		return Frontmatter{}, err
	}

	// docID and contentHash are both algo-prefixed hashes, just over different
	// inputs (the canonical URL vs. the rendered body).
	canonicalURLStr := canonicalURL.String()
	docID, err := prefixedHash(canonicalURLStr, normalizeParam.hashAlgo, "doc_id")
	if err != nil {
		return Frontmatter{}, err
	}
	contentHash, err := prefixedHash(string(content), normalizeParam.hashAlgo, "content_hash")
	if err != nil {
		return Frontmatter{}, err
	}

	// Gather remaining fields from normalizeParam
	fetchedAt := normalizeParam.fetchedAt
	crawlerVersion := normalizeParam.appVersion
	crawlDepth := normalizeParam.crawlDepth

	// Construct immutable Frontmatter
	return NewFrontmatter(
		title,
		sourceURL,
		canonicalURLStr,
		crawlDepth,
		section,
		docID,
		contentHash,
		fetchedAt,
		crawlerVersion,
		summary.WordCount(),
		summary.Headings(),
	), nil
}

func sectionDerivationError(reason string) *NormalizationError {
	return structuralError(ErrCauseSectionDerivationFailed, reason)
}

// deriveSection extracts the first meaningful path segment from the URL.
// Per frontmatter.md Section 4, section is derived from the first path segment
// after stripping any matching allowedPathPrefix.
//
// Algorithm:
// 1. Check if path starts with any allowedPathPrefix (case-sensitive, exact match)
// 2. If yes, strip that prefix from path
// 3. Take the first remaining path segment as the section
// 4. If no prefix matches, use the first segment of the full path
func deriveSection(canonicalURL url.URL, allowedPathPrefixes []string) (string, failure.ClassifiedError) {
	path := canonicalURL.Path
	if path == "" || path == "/" {
		return "", sectionDerivationError("URL path is empty, cannot derive section")
	}

	// Try to strip matching allowedPathPrefix
	for _, prefix := range allowedPathPrefixes {
		if prefix == "" {
			continue
		}
		// Ensure prefix starts with /
		if !strings.HasPrefix(prefix, "/") {
			prefix = "/" + prefix
		}
		// Check if path starts with this prefix
		if strings.HasPrefix(path, prefix) {
			// Strip the prefix
			path = strings.TrimPrefix(path, prefix)
			break
		}
	}

	// Remove leading slash and split by /
	path = strings.TrimPrefix(path, "/")

	// If nothing remains after stripping prefix, error
	if path == "" {
		return "", sectionDerivationError("URL path has no segments after stripping allowedPathPrefix")
	}

	segments := strings.Split(path, "/")

	// Return first non-empty segment
	for _, segment := range segments {
		if segment != "" {
			return segment, nil
		}
	}

	return "", sectionDerivationError("URL path has no valid segments")
}

