package frontier

// Package frontier owns crawl ordering: which URL gets dequeued next and
// at what depth, independent of whether that URL is allowed to be fetched.

import (
	"net/url"
	"time"
)

// CrawlToken is a frontier-issued, per-URL ticket meaning "this URL, at
// this depth, in this deterministic order, is next". It carries no policy
// decisions of its own, only ordering and depth.
type CrawlToken struct {
	url   url.URL
	depth int
}

func NewCrawlToken(u url.URL, depth int) CrawlToken {
	return CrawlToken{url: u, depth: depth}
}

func (c *CrawlToken) URL() url.URL {
	return c.url
}

func (c *CrawlToken) Depth() int {
	return c.depth
}

// CrawlAdmissionCandidate is a URL the scheduler has already cleared for
// entry into the frontier: robots.txt allowed it and scope/depth limits
// did not reject it. The frontier trusts this and never re-evaluates
// admission policy itself.
type CrawlAdmissionCandidate struct {
	targetURL         url.URL
	sourceContext     SourceContext
	discoveryMetadata DiscoveryMetadata
}

func NewCrawlAdmissionCandidate(
	targetUrl url.URL,
	sourceContext SourceContext,
	discoveryMetadata DiscoveryMetadata,
) CrawlAdmissionCandidate {
	return CrawlAdmissionCandidate{
		targetURL:         targetUrl,
		sourceContext:     sourceContext,
		discoveryMetadata: discoveryMetadata,
	}
}

func (c *CrawlAdmissionCandidate) TargetURL() url.URL {
	return c.targetURL
}

func (c *CrawlAdmissionCandidate) SourceContext() SourceContext {
	return c.sourceContext
}

func (c *CrawlAdmissionCandidate) DiscoveryMetadata() DiscoveryMetadata {
	return c.discoveryMetadata
}

type SourceContext string

const (
	SourceSeed  = "Seed"
	SourceCrawl = "Crawl"
)

type DiscoveryMetadata struct {
	// the depth of the path relative to hostname where the url is found
	// hostname/root -> depth = 0
	// TODO: implement delay overriding in both scheduler and frontier
	depth         int
	delayOverride *time.Duration
}

func NewDiscoveryMetadata(
	depth int,
	delayOverride *time.Duration,
) DiscoveryMetadata {
	return DiscoveryMetadata{
		depth:         depth,
		delayOverride: delayOverride,
	}
}

func (d DiscoveryMetadata) Depth() int {
	return d.depth
}

func (d DiscoveryMetadata) DelayOverride() *time.Duration {
	return d.delayOverride
}
