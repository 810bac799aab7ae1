package extractor

import (
	"net/url"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"golang.org/x/net/html"
)

// ExtractionResult is the DOM subtree DomExtractor decided holds the page's
// main documentation content, alongside the full parsed document it came
// from (needed by callers that still want document-wide context, such as
// <title> lookups).
type ExtractionResult struct {
	DocumentRoot *html.Node
	ContentNode  *html.Node
}

// ContentScoreMultiplier weights the signals calculateContentScore combines
// into a single content-likelihood score.
type ContentScoreMultiplier struct {
	NonWhitespaceDivisor float64
	Paragraphs           float64
	Headings             float64
	CodeBlocks           float64
	ListItems            float64
}

// MeaningfulThreshold gates whether a candidate node is accepted as
// meaningful content by isMeaningful.
type MeaningfulThreshold struct {
	MinNonWhitespace    int
	MinHeadings         int
	MinParagraphsOrCode int
	MaxLinkDensity      float64
}

// ExtractParam configures the heuristics DomExtractor uses to locate and
// score candidate content containers. Zero value is not meaningful; use
// DefaultExtractParam as a starting point.
type ExtractParam struct {
	// BodySpecificityBias is how close a child container's score must be
	// to <body>'s score (as a fraction of bodyScore) before the child is
	// preferred over <body> in findBestContentContainer.
	BodySpecificityBias float64
	// LinkDensityThreshold is the link-text-to-total-text ratio above
	// which calculateContentScore starts penalizing a candidate.
	LinkDensityThreshold float64
	ScoreMultiplier      ContentScoreMultiplier
	Threshold            MeaningfulThreshold
}

// DefaultExtractParam mirrors the heuristic constants the extractor was
// originally tuned with.
func DefaultExtractParam() ExtractParam {
	return ExtractParam{
		BodySpecificityBias:  0.7,
		LinkDensityThreshold: 0.5,
		ScoreMultiplier: ContentScoreMultiplier{
			NonWhitespaceDivisor: 50.0,
			Paragraphs:           5.0,
			Headings:             10.0,
			CodeBlocks:           15.0,
			ListItems:            2.0,
		},
		Threshold: MeaningfulThreshold{
			MinNonWhitespace:    50,
			MinHeadings:         0,
			MinParagraphsOrCode: 1,
			MaxLinkDensity:      0.8,
		},
	}
}

// Extractor isolates the main documentation content from a fetched HTML
// page, stripping navigation, chrome, and other non-content noise.
type Extractor interface {
	Extract(sourceUrl url.URL, htmlByte []byte) (ExtractionResult, failure.ClassifiedError)
	SetExtractParam(params ExtractParam)
}
