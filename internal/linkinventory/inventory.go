package linkinventory

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"
)

const inventoryFilename = "links.json"

/*
Responsibilities
- Categorize every outlink and image reference on a crawled page
- Upsert the page's entry into a single durable inventory file
- Deduplicate within a category (insertion order preserved) and on demand

This package never decides crawl policy; it only classifies and records.
*/

// Inventory is the Port the scheduler depends on.
type Inventory interface {
	Upsert(pageURL url.URL, html string)
	Flush() failure.ClassifiedError
	Deduplicate() failure.ClassifiedError
	Stats() Stats
}

type PageLinkInventory struct {
	outputPath string

	mu      sync.Mutex
	entries map[string]PageLinks
	order   []string
}

func NewPageLinkInventory(outputDir string) PageLinkInventory {
	return PageLinkInventory{
		outputPath: filepath.Join(outputDir, inventoryFilename),
		entries:    make(map[string]PageLinks),
	}
}

// Upsert classifies every <a href> and <img src> on the page and replaces
// any prior entry for the same source URL.
func (inv *PageLinkInventory) Upsert(pageURL url.URL, html string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}

	links := newPageLinks(pageURL.String())

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists {
			return
		}
		classifyAnchor(&links, pageURL, href)
	})

	doc.Find("iframe[src]").Each(func(_ int, sel *goquery.Selection) {
		src, exists := sel.Attr("src")
		if !exists {
			return
		}
		resolved := resolveAgainst(pageURL, src)
		if resolved == nil {
			return
		}
		if isVideoHost(*resolved) {
			appendUnique(&links.VideoLinks, resolved.String())
		}
	})

	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, exists := sel.Attr("src")
		if !exists || strings.HasPrefix(src, "data:") {
			return
		}
		resolved := resolveAgainst(pageURL, src)
		if resolved == nil {
			return
		}
		appendUnique(&links.ImageLinks, resolved.String())
	})

	inv.mu.Lock()
	defer inv.mu.Unlock()
	if _, exists := inv.entries[links.SourceURL]; !exists {
		inv.order = append(inv.order, links.SourceURL)
	}
	inv.entries[links.SourceURL] = links
}

func classifyAnchor(links *PageLinks, pageURL url.URL, href string) {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" || strings.HasPrefix(href, "javascript:") {
		return
	}

	if strings.HasPrefix(href, "mailto:") {
		appendUnique(&links.EmailLinks, strings.TrimPrefix(href, "mailto:"))
		return
	}
	if strings.HasPrefix(href, "tel:") {
		appendUnique(&links.PhoneLinks, strings.TrimPrefix(href, "tel:"))
		return
	}

	resolved := resolveAgainst(pageURL, href)
	if resolved == nil {
		return
	}
	resolvedStr := resolved.String()

	ext := urlutil.Extension(*resolved)
	if ext == ".pdf" {
		appendUnique(&links.PDFLinks, resolvedStr)
	} else if _, isDoc := documentSuffixes[ext]; isDoc {
		appendUnique(&links.DocumentLinks, resolvedStr)
	}

	if isVideoHost(*resolved) {
		appendUnique(&links.VideoLinks, resolvedStr)
	}

	if platform, ok := socialPlatform(*resolved); ok {
		links.SocialLinks[platform] = resolvedStr
	}

	if containsEventMarker(resolved.Path) {
		appendUnique(&links.EventLinks, resolvedStr)
	}

	if urlutil.SameHost(pageURL, *resolved) {
		appendUnique(&links.InternalLinks, resolvedStr)
	} else {
		appendUnique(&links.ExternalLinks, resolvedStr)
	}
}

func resolveAgainst(pageURL url.URL, ref string) *url.URL {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil
	}
	resolved := pageURL.ResolveReference(parsed)
	if !urlutil.Valid(*resolved) {
		return nil
	}
	return resolved
}

func isVideoHost(u url.URL) bool {
	host := strings.ToLower(u.Host)
	pathed := host + u.Path
	for marker := range videoHosts {
		if strings.Contains(marker, "/") {
			if strings.HasPrefix(pathed, marker) {
				return true
			}
			continue
		}
		if host == marker || strings.HasSuffix(host, "."+marker) {
			return true
		}
	}
	return false
}

func socialPlatform(u url.URL) (string, bool) {
	host := strings.ToLower(u.Host)
	for marker, platform := range socialHosts {
		if host == marker || strings.HasSuffix(host, "."+marker) {
			return platform, true
		}
	}
	return "", false
}

func containsEventMarker(path string) bool {
	lowered := strings.ToLower(path)
	for _, marker := range eventPathMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func appendUnique(list *[]string, value string) {
	for _, existing := range *list {
		if existing == value {
			return
		}
	}
	*list = append(*list, value)
}

// Flush writes the full inventory to disk atomically, preserving insertion
// order of pages.
func (inv *PageLinkInventory) Flush() failure.ClassifiedError {
	inv.mu.Lock()
	ordered := make([]PageLinks, 0, len(inv.order))
	for _, key := range inv.order {
		ordered = append(ordered, inv.entries[key])
	}
	inv.mu.Unlock()

	payload, err := json.MarshalIndent(ordered, "", "  ")
	if err != nil {
		return &InventoryError{Message: err.Error(), Cause: ErrCauseWriteFailure}
	}

	tmpPath := inv.outputPath + ".tmp"
	if err := os.WriteFile(tmpPath, payload, 0644); err != nil {
		return &InventoryError{Message: err.Error(), Cause: ErrCauseWriteFailure}
	}
	if err := os.Rename(tmpPath, inv.outputPath); err != nil {
		os.Remove(tmpPath)
		return &InventoryError{Message: err.Error(), Cause: ErrCauseWriteFailure}
	}
	return nil
}

// Deduplicate reloads the persisted inventory, drops non-object junk and
// duplicate categories entries, and rewrites the file. It is a maintenance
// pass independent of the in-memory upsert path.
func (inv *PageLinkInventory) Deduplicate() failure.ClassifiedError {
	raw, err := os.ReadFile(inv.outputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &InventoryError{Message: err.Error(), Cause: ErrCauseReadFailure}
	}

	var rawEntries []json.RawMessage
	if err := json.Unmarshal(raw, &rawEntries); err != nil {
		return &InventoryError{Message: err.Error(), Cause: ErrCauseDecodeFailure}
	}

	cleaned := make([]PageLinks, 0, len(rawEntries))
	seenSource := make(map[string]struct{})
	for _, entry := range rawEntries {
		var page PageLinks
		if err := json.Unmarshal(entry, &page); err != nil {
			continue
		}
		if page.SourceURL == "" {
			continue
		}
		if _, dup := seenSource[page.SourceURL]; dup {
			continue
		}
		seenSource[page.SourceURL] = struct{}{}
		dedupeFields(&page)
		cleaned = append(cleaned, page)
	}

	payload, err := json.MarshalIndent(cleaned, "", "  ")
	if err != nil {
		return &InventoryError{Message: err.Error(), Cause: ErrCauseWriteFailure}
	}
	tmpPath := inv.outputPath + ".tmp"
	if err := os.WriteFile(tmpPath, payload, 0644); err != nil {
		return &InventoryError{Message: err.Error(), Cause: ErrCauseWriteFailure}
	}
	if err := os.Rename(tmpPath, inv.outputPath); err != nil {
		os.Remove(tmpPath)
		return &InventoryError{Message: err.Error(), Cause: ErrCauseWriteFailure}
	}
	return nil
}

func dedupeFields(page *PageLinks) {
	page.InternalLinks = dedupeSlice(page.InternalLinks)
	page.ExternalLinks = dedupeSlice(page.ExternalLinks)
	page.PDFLinks = dedupeSlice(page.PDFLinks)
	page.DocumentLinks = dedupeSlice(page.DocumentLinks)
	page.VideoLinks = dedupeSlice(page.VideoLinks)
	page.EventLinks = dedupeSlice(page.EventLinks)
	page.EmailLinks = dedupeSlice(page.EmailLinks)
	page.PhoneLinks = dedupeSlice(page.PhoneLinks)
	page.ImageLinks = dedupeSlice(page.ImageLinks)
	if page.SocialLinks == nil {
		page.SocialLinks = make(map[string]string)
	}
}

func dedupeSlice(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Stats aggregates the current in-memory inventory. The scheduler does not
// call it, so these counts are not part of the crawl-exit summary.
func (inv *PageLinkInventory) Stats() Stats {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	stats := Stats{
		PagesProcessed:  len(inv.entries),
		LinksByCategory: make(map[string]int),
	}
	distinctSocial := make(map[string]struct{})

	for _, page := range inv.entries {
		counts := map[string]int{
			"internal_links": len(page.InternalLinks),
			"external_links": len(page.ExternalLinks),
			"pdf_links":      len(page.PDFLinks),
			"document_links": len(page.DocumentLinks),
			"video_links":    len(page.VideoLinks),
			"event_links":    len(page.EventLinks),
			"email_links":    len(page.EmailLinks),
			"phone_links":    len(page.PhoneLinks),
			"image_links":    len(page.ImageLinks),
		}
		for category, count := range counts {
			stats.LinksByCategory[category] += count
			stats.TotalLinks += count
		}
		stats.TotalEvents += len(page.EventLinks)
		stats.TotalEmails += len(page.EmailLinks)
		for platform := range page.SocialLinks {
			distinctSocial[platform] = struct{}{}
		}
	}
	stats.DistinctSocial = len(distinctSocial)
	return stats
}

var _ Inventory = (*PageLinkInventory)(nil)
