package urlutil

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Canonicalize applies a deterministic normalization to a URL, producing a canonical form.
// It maps equivalent URL spellings to a single canonical representation.
//
// The normalization follows these rules:
//   - Scheme and host are lowercased
//   - Path is cleaned (trailing slashes removed, except for root "/")
//   - Fragments are removed
//   - Query parameters are sorted lexicographically by key, preserving repeated values
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Idempotent: Canonicalize(Canonicalize(url)) == Canonicalize(url)
//   - Context-free: does not depend on crawl history
func Canonicalize(sourceUrl url.URL) url.URL {
	// Create a copy to avoid mutating the original
	canonical := sourceUrl

	// Lowercase scheme and host
	canonical.Scheme = lowerASCII(canonical.Scheme)
	canonical.Host = lowerASCII(canonical.Host)

	// Remove default port if present
	if host, port := canonical.Hostname(), canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	// Clean the path: remove trailing slashes (except root)
	if len(canonical.Path) > 1 {
		canonical.Path = stripTrailingSlash(canonical.Path)
	}

	// Remove fragment (anchor)
	canonical.Fragment = ""
	canonical.RawFragment = ""

	// Sort query parameters lexicographically, preserving repeated keys' order
	canonical.RawQuery = sortedQuery(canonical.Query())
	canonical.ForceQuery = false

	return canonical
}

// sortedQuery renders a url.Values as a query string with keys sorted
// lexicographically; within a key, repeated values keep their original order.
func sortedQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		for j, v := range values[k] {
			if i > 0 || j > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// Valid reports whether a URL is acceptable for crawling: http/https scheme,
// non-empty host, and no raw IPv6-literal brackets (defensive against
// ambiguous host-parsing across the pipeline).
func Valid(u url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}
	if strings.ContainsAny(u.String(), "[]") {
		return false
	}
	return true
}

// SameHost reports whether two URLs share the same lowercased host.
// No subdomain rollup: "docs.example.com" and "example.com" are different hosts.
func SameHost(a, b url.URL) bool {
	return lowerASCII(a.Host) == lowerASCII(b.Host)
}

// Extension returns the lowercased dotted suffix of the last path segment, or "".
func Extension(u url.URL) string {
	path := u.Path
	slash := strings.LastIndexByte(path, '/')
	segment := path[slash+1:]
	dot := strings.LastIndexByte(segment, '.')
	if dot == -1 {
		return ""
	}
	return lowerASCII(segment[dot:])
}

var nonWordRegex = regexp.MustCompile(`[^\w-]+`)
var repeatedUnderscoreRegex = regexp.MustCompile(`_{2,}`)

// ToFilename derives a deterministic, filesystem-safe basename from a URL:
// host and path segments joined by "_", non-word characters replaced by "_",
// repeated underscores collapsed. If the result would exceed max characters,
// it is truncated and suffixed with "_" plus the first 8 hex characters of
// MD5(url) to preserve uniqueness across truncation collisions.
func ToFilename(u url.URL, max int) string {
	raw := u.Host + "_" + strings.Trim(u.Path, "/")
	raw = strings.ReplaceAll(raw, "/", "_")
	sanitized := nonWordRegex.ReplaceAllString(raw, "_")
	sanitized = repeatedUnderscoreRegex.ReplaceAllString(sanitized, "_")
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		sanitized = "index"
	}

	if len(sanitized) <= max {
		return sanitized
	}

	sum := md5.Sum([]byte(u.String()))
	suffix := "_" + hex.EncodeToString(sum[:])[:8]
	truncateTo := max - len(suffix)
	if truncateTo < 0 {
		truncateTo = 0
	}
	return sanitized[:truncateTo] + suffix
}

// Resolve turns a possibly relative URL into an absolute one, using scheme
// and host as the base when the reference itself carries none.
func Resolve(ref url.URL, scheme string, host string) url.URL {
	base := url.URL{Scheme: scheme, Host: host, Path: "/"}
	resolved := base.ResolveReference(&ref)
	return *resolved
}

// FilterByHost keeps only the URLs whose host matches the given host exactly.
func FilterByHost(host string, urls []url.URL) []url.URL {
	filtered := make([]url.URL, 0, len(urls))
	for _, u := range urls {
		if lowerASCII(u.Host) == lowerASCII(host) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// lowerASCII converts ASCII characters to lowercase without allocating.
// This is faster than strings.ToLower for ASCII-only strings.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// stripTrailingSlash removes trailing slashes from a path.
func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
