package robots

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/robots/cache"
)

/*
Responsibilities

- Fetch robots.txt per host
- Cache rules for crawl duration
- Enforce allow/disallow rules before enqueue

Robots checks occur before a URL enters the frontier.
*/

// Robot is the scheduler-facing contract for robots.txt admission checks.
type Robot interface {
	Init(userAgent string)
	InitWithCache(userAgent string, cache cache.Cache)
	Decide(target url.URL) (Decision, *RobotsError)
}

// CachedRobot fetches and caches robots.txt rules per host for the
// duration of a crawl and decides admission for individual URLs.
type CachedRobot struct {
	metadataSink metadata.MetadataSink
	fetcher      *RobotsFetcher
	userAgent    string
}

// NewCachedRobot creates a CachedRobot. Call Init or InitWithCache before
// the first Decide.
func NewCachedRobot(metadataSink metadata.MetadataSink) CachedRobot {
	return CachedRobot{
		metadataSink: metadataSink,
	}
}

// Init prepares the robot with an in-memory cache shared across the crawl.
func (r *CachedRobot) Init(userAgent string) {
	r.InitWithCache(userAgent, cache.NewMemoryCache())
}

// InitWithCache prepares the robot with a caller-supplied cache implementation.
func (r *CachedRobot) InitWithCache(userAgent string, c cache.Cache) {
	r.userAgent = userAgent
	r.fetcher = NewRobotsFetcher(r.metadataSink, userAgent, c)
}

// Decide fetches (or reuses the cached) robots.txt for target's host and
// determines whether target may be crawled by the configured user agent.
func (r *CachedRobot) Decide(target url.URL) (Decision, *RobotsError) {
	result, err := r.fetcher.Fetch(context.Background(), target.Scheme, target.Host)
	if err != nil {
		r.metadataSink.RecordError(
			time.Now(),
			"robots",
			"CachedRobot.Decide",
			mapRobotsErrorToMetadataCause(err),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, target.String()),
				metadata.NewAttr(metadata.AttrHost, target.Host),
			},
		)
		return Decision{}, err
	}

	rs := MapResponseToRuleSet(result.Response, r.userAgent, result.FetchedAt)
	allowed, reason := decideFromRuleSet(rs, target.Path)

	decision := Decision{
		Url:     target,
		Allowed: allowed,
		Reason:  reason,
	}
	if delay := rs.CrawlDelay(); delay != nil {
		decision.CrawlDelay = *delay
	}
	return decision, nil
}

// decideFromRuleSet applies the longest-match-wins algorithm (ties favor
// Allow) to determine whether path is permitted under rs.
func decideFromRuleSet(rs ruleSet, path string) (bool, DecisionReason) {
	if !rs.hasGroups {
		return true, EmptyRuleSet
	}
	if !rs.matchedGroup {
		return true, NoMatchingRules
	}

	matched := false
	bestLen := -1
	bestAllow := true

	for _, rule := range rs.allowRules {
		if !matchesPattern(rule.prefix, path) {
			continue
		}
		matched = true
		if len(rule.prefix) > bestLen {
			bestLen = len(rule.prefix)
			bestAllow = true
		}
	}

	for _, rule := range rs.disallowRules {
		if !matchesPattern(rule.prefix, path) {
			continue
		}
		matched = true
		if len(rule.prefix) > bestLen {
			bestLen = len(rule.prefix)
			bestAllow = false
		}
	}

	if !matched {
		return true, NoMatchingRules
	}
	if bestAllow {
		return true, AllowedByRobots
	}
	return false, DisallowedByRobots
}

// matchesPattern reports whether path matches a robots.txt rule pattern.
// Patterns may contain "*" (matches any run of characters) and a
// trailing "$" to anchor the match to the end of the path.
func matchesPattern(pattern, path string) bool {
	anchored := strings.HasSuffix(pattern, "$")
	body := pattern
	if anchored {
		body = strings.TrimSuffix(body, "$")
	}

	var sb strings.Builder
	sb.WriteString("^")
	for _, r := range body {
		if r == '*' {
			sb.WriteString(".*")
		} else {
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if anchored {
		sb.WriteString("$")
	}

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return false
	}
	return re.MatchString(path)
}
