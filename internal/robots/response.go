package robots

import (
	"strings"
	"time"
)

// RobotsResponse represents the parsed content of a robots.txt file.
// This struct is used for parsing the fetch response and should not be
// used directly for decision making - instead, map it to ruleSet.
type RobotsResponse struct {
	// The host this robots.txt applies to
	Host string

	// List of sitemap URLs found in the robots.txt
	Sitemaps []string

	// User agent groups, each containing rules for specific user agents
	UserAgents []UserAgentGroup
}

// UserAgentGroup represents a set of rules for one or more user agents.
type UserAgentGroup struct {
	// List of user agent strings this group applies to
	UserAgents []string

	// Allow rules (paths that may be crawled)
	Allows []PathRule

	// Disallow rules (paths that may not be crawled)
	Disallows []PathRule

	// Optional crawl delay
	CrawlDelay *time.Duration
}

// PathRule represents a single allow or disallow rule.
type PathRule struct {
	// The path pattern (may include wildcards * and $)
	Path string
}

// IsEmpty returns true if the response contains no rules or sitemaps.
func (r RobotsResponse) IsEmpty() bool {
	if len(r.Sitemaps) > 0 {
		return false
	}
	for _, group := range r.UserAgents {
		if len(group.Allows) > 0 || len(group.Disallows) > 0 {
			return false
		}
	}
	return true
}

// GetGroupForUserAgent returns the most specific group applying to userAgent,
// per the robots.txt spec: an exact (case-insensitive) token match wins over
// a prefix match, and the longest prefix match wins over a bare wildcard "*"
// group. Returns nil if the document declares no matching group at all.
func (r RobotsResponse) GetGroupForUserAgent(userAgent string) *UserAgentGroup {
	want := strings.ToLower(userAgent)

	for i, group := range r.UserAgents {
		if group.declaresExact(want) {
			return &r.UserAgents[i]
		}
	}

	var wildcard *UserAgentGroup
	var best *UserAgentGroup
	bestLen := 0
	for i, group := range r.UserAgents {
		if group.declaresWildcard() && wildcard == nil {
			wildcard = &r.UserAgents[i]
		}
		if n := group.bestPrefixLen(want); n > bestLen {
			best = &r.UserAgents[i]
			bestLen = n
		}
	}
	if best != nil {
		return best
	}
	return wildcard
}

func (g UserAgentGroup) declaresExact(wantLower string) bool {
	for _, ua := range g.UserAgents {
		if strings.ToLower(ua) == wantLower {
			return true
		}
	}
	return false
}

func (g UserAgentGroup) declaresWildcard() bool {
	for _, ua := range g.UserAgents {
		if ua == "*" {
			return true
		}
	}
	return false
}

// bestPrefixLen returns the length of the longest declared (non-wildcard)
// user agent token that is a prefix of wantLower, or 0 if none matches.
func (g UserAgentGroup) bestPrefixLen(wantLower string) int {
	best := 0
	for _, ua := range g.UserAgents {
		if ua == "*" {
			continue
		}
		uaLower := strings.ToLower(ua)
		if strings.HasPrefix(wantLower, uaLower) && len(uaLower) > best {
			best = len(uaLower)
		}
	}
	return best
}
