package mdconvert

import (
	"errors"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/sanitizer"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"golang.org/x/net/html"
)

/*
Design Principles
- Semantic fidelity over visual fidelity
- No inferred structure
- No code reformatting
- GitHub-Flavored Markdown compatibility

Conversion Rules
- Headings map directly (h1-h6 to # - ######)
- Code blocks preserved verbatim
- Tables converted structurally (GFM)
- Links and images preserved as-is (no resolution)
- DOM order preserved

Inline styles and raw HTML are avoided.
*/

// ConvertRule defines the interface for converting sanitized HTML to Markdown.
// Implementations must ensure semantic fidelity and deterministic output.
type ConvertRule interface {
	Convert(sanitizedHTMLDoc sanitizer.SanitizedHTMLDoc) (ConversionResult, failure.ClassifiedError)
}

// Compile-time interface check
var _ ConvertRule = (*StrictConversionRule)(nil)

type StrictConversionRule struct {
	metadataSink metadata.MetadataSink
}

func NewRule(metadataSink metadata.MetadataSink) *StrictConversionRule {
	return &StrictConversionRule{
		metadataSink: metadataSink,
	}
}

func (s *StrictConversionRule) Convert(
	sanitizedHTMLDoc sanitizer.SanitizedHTMLDoc,
) (ConversionResult, failure.ClassifiedError) {
	consversionResult, err := convert(sanitizedHTMLDoc.GetContentNode())
	if err != nil {
		var conversionError *ConversionError
		errors.As(err, &conversionError)

		s.metadataSink.RecordError(
			time.Now(),
			"mdconvert",
			"StrictConversionRule.Convert",
			mapConversionErrorToMetadataCause(*conversionError),
			err.Error(),
			[]metadata.Attribute{},
		)
		return ConversionResult{}, conversionError
	}
	return consversionResult, nil
}

// linkAttrByTag names the attribute that carries a reference URL for each
// tag extractLinkRefs looks at.
var linkAttrByTag = map[string]string{
	"a":   "href",
	"img": "src",
}

// convert turns a sanitized content node into markdown via html-to-markdown,
// then separately walks the same node with goquery to recover the asset/
// navigation links the markdown text itself no longer carries structured
// metadata for.
func convert(htmlDoc *html.Node) (ConversionResult, *ConversionError) {
	if htmlDoc == nil {
		return ConversionResult{}, &ConversionError{
			Message:   "cannot convert nil HTML node",
			Retryable: false,
			Cause:     ErrCauseConversionFailure,
		}
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	markdown, err := conv.ConvertNode(htmlDoc)
	if err != nil {
		return ConversionResult{}, &ConversionError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseConversionFailure,
		}
	}

	return NewConversionResult(markdown, extractLinkRefs(htmlDoc)), nil
}

// extractLinkRefs returns every <a href> and <img src> reference under
// htmlDoc, in document order.
func extractLinkRefs(htmlDoc *html.Node) []LinkRef {
	var refs []LinkRef

	doc := goquery.NewDocumentFromNode(htmlDoc)
	doc.Find("a[href], img[src]").Each(func(_ int, sel *goquery.Selection) {
		tag := goquery.NodeName(sel)
		attr, ok := linkAttrByTag[tag]
		if !ok {
			return
		}
		value, exists := sel.Attr(attr)
		if !exists {
			return
		}
		refs = append(refs, toLinkRef(tag, value))
	})

	return refs
}

// toLinkRef classifies raw by tag type and, for anchors, whether it points
// at an in-page fragment.
func toLinkRef(tag, raw string) LinkRef {
	switch strings.ToLower(tag) {
	case "img":
		return NewLinkRef(raw, KindImage)
	case "a":
		if strings.HasPrefix(raw, "#") {
			return NewLinkRef(raw, KindAnchor)
		}
		return NewLinkRef(raw, KindNavigation)
	default:
		return NewLinkRef(raw, KindNavigation)
	}
}
