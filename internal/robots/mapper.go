package robots

import (
	"strings"
	"time"
)

// MapResponseToRuleSet converts a parsed RobotsResponse into an immutable
// ruleSet scoped to targetUserAgent, picking the most specific matching
// group via RobotsResponse.GetGroupForUserAgent and flattening its allow/
// disallow/crawl-delay rules.
func MapResponseToRuleSet(response RobotsResponse, targetUserAgent string, fetchedAt time.Time) ruleSet {
	rs := ruleSet{
		host:      response.Host,
		userAgent: targetUserAgent,
		fetchedAt: fetchedAt,
		sourceURL: "https://" + response.Host + "/robots.txt",
		hasGroups: len(response.UserAgents) > 0,
	}

	group := response.GetGroupForUserAgent(targetUserAgent)
	if group == nil {
		return rs
	}
	rs.matchedGroup = true
	rs.allowRules = mapPathRules(group.Allows)
	rs.disallowRules = mapPathRules(group.Disallows)
	if group.CrawlDelay != nil {
		delay := *group.CrawlDelay
		rs.crawlDelay = &delay
	}
	return rs
}

func mapPathRules(rules []PathRule) []pathRule {
	mapped := make([]pathRule, 0, len(rules))
	for _, r := range rules {
		if r.Path == "" {
			continue
		}
		mapped = append(mapped, pathRule{prefix: normalizePath(r.Path)})
	}
	return mapped
}

// normalizePath ensures the path starts with "/" and handles special cases.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// ruleSet getters for immutability

// Host returns the host this ruleSet applies to.
func (r ruleSet) Host() string {
	return r.host
}

// UserAgent returns the user agent string these rules apply to.
func (r ruleSet) UserAgent() string {
	return r.userAgent
}

// FetchedAt returns when this ruleSet was fetched.
func (r ruleSet) FetchedAt() time.Time {
	return r.fetchedAt
}

// SourceURL returns the URL of the robots.txt file.
func (r ruleSet) SourceURL() string {
	return r.sourceURL
}

// CrawlDelay returns the crawl delay if specified, or nil.
func (r ruleSet) CrawlDelay() *time.Duration {
	if r.crawlDelay == nil {
		return nil
	}
	delay := *r.crawlDelay
	return &delay
}

// AllowRules returns a copy of the allow rules.
func (r ruleSet) AllowRules() []pathRule {
	result := make([]pathRule, len(r.allowRules))
	copy(result, r.allowRules)
	return result
}

// DisallowRules returns a copy of the disallow rules.
func (r ruleSet) DisallowRules() []pathRule {
	result := make([]pathRule, len(r.disallowRules))
	copy(result, r.disallowRules)
	return result
}

// Prefix returns the path prefix for this rule.
func (p pathRule) Prefix() string {
	return p.prefix
}
