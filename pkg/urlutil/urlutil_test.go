package urlutil

import (
	"net/url"
	"strings"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trailing slash removed",
			input:    "https://docs.example.com/guide/",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "no trailing slash stays same",
			input:    "https://docs.example.com/guide",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "fragment removed",
			input:    "https://docs.example.com/guide#index",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "query parameters sorted and preserved",
			input:    "https://docs.example.com/guide?utm_source=twitter",
			expected: "https://docs.example.com/guide?utm_source=twitter",
		},
		{
			name:     "fragment removed, query preserved",
			input:    "https://docs.example.com/guide?utm_source=twitter#index",
			expected: "https://docs.example.com/guide?utm_source=twitter",
		},
		{
			name:     "query parameters sorted lexicographically",
			input:    "https://docs.example.com/guide?b=2&a=1",
			expected: "https://docs.example.com/guide?a=1&b=2",
		},
		{
			name:     "scheme lowercased",
			input:    "HTTPS://docs.example.com/guide",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "host lowercased",
			input:    "https://DOCS.EXAMPLE.COM/guide",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "scheme and host lowercased",
			input:    "HTTPS://DOCS.EXAMPLE.COM/GUIDE",
			expected: "https://docs.example.com/GUIDE",
		},
		{
			name:     "default http port removed",
			input:    "http://docs.example.com:80/guide",
			expected: "http://docs.example.com/guide",
		},
		{
			name:     "default https port removed",
			input:    "https://docs.example.com:443/guide",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "non-default port preserved",
			input:    "https://docs.example.com:8080/guide",
			expected: "https://docs.example.com:8080/guide",
		},
		{
			name:     "multiple trailing slashes removed",
			input:    "https://docs.example.com/guide///",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "root path preserved",
			input:    "https://docs.example.com/",
			expected: "https://docs.example.com/",
		},
		{
			name:     "root path without slash",
			input:    "https://docs.example.com",
			expected: "https://docs.example.com",
		},
		{
			name:     "complex path with fragment and query",
			input:    "https://docs.example.com/api/v1/users?id=123#section",
			expected: "https://docs.example.com/api/v1/users?id=123",
		},
		{
			name:     "path with uppercase preserved",
			input:    "https://docs.example.com/API/v1/Users",
			expected: "https://docs.example.com/API/v1/Users",
		},
		{
			name:     "http with non-standard port",
			input:    "http://docs.example.com:8080/path",
			expected: "http://docs.example.com:8080/path",
		},
		{
			name:     "empty query removed",
			input:    "https://docs.example.com/guide?",
			expected: "https://docs.example.com/guide",
		},
		{
			name:     "empty fragment removed",
			input:    "https://docs.example.com/guide#",
			expected: "https://docs.example.com/guide",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputURL, err := url.Parse(tt.input)
			if err != nil {
				t.Fatalf("failed to parse input URL %q: %v", tt.input, err)
			}

			result := Canonicalize(*inputURL)
			resultStr := result.String()

			if resultStr != tt.expected {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, resultStr, tt.expected)
			}
		})
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	// Test that Canonicalize is idempotent: Canonicalize(Canonicalize(url)) == Canonicalize(url)
	testURLs := []string{
		"https://docs.example.com/guide/",
		"https://docs.example.com/guide?utm_source=twitter",
		"https://docs.example.com/guide#index",
		"HTTPS://DOCS.EXAMPLE.COM:443/GUIDE/?#",
		"http://example.com:80/path///",
	}

	for _, urlStr := range testURLs {
		t.Run(urlStr, func(t *testing.T) {
			inputURL, err := url.Parse(urlStr)
			if err != nil {
				t.Fatalf("failed to parse URL %q: %v", urlStr, err)
			}

			first := Canonicalize(*inputURL)
			second := Canonicalize(first)

			firstStr := first.String()
			secondStr := second.String()

			if firstStr != secondStr {
				t.Errorf("Canonicalize is not idempotent: first=%q, second=%q", firstStr, secondStr)
			}
		})
	}
}

func TestCanonicalizeDoesNotMutateInput(t *testing.T) {
	// Ensure the original URL is not modified
	input, _ := url.Parse("https://example.com/path/?query=1#frag")
	original := *input

	_ = Canonicalize(*input)

	if input.String() != original.String() {
		t.Error("Canonicalize mutated the input URL")
	}
}

func TestLowerASCII(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello", "hello"},
		{"HELLO", "hello"},
		{"hello", "hello"},
		{"HTTPS", "https"},
		{"MixedCASE", "mixedcase"},
		{"already-lower", "already-lower"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := lowerASCII(tt.input)
			if result != tt.expected {
				t.Errorf("lowerASCII(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestStripTrailingSlash(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/path/", "/path"},
		{"/path//", "/path"},
		{"/path///", "/path"},
		{"/path", "/path"},
		{"/", "/"},
		{"///", "/"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := stripTrailingSlash(tt.input)
			if result != tt.expected {
				t.Errorf("stripTrailingSlash(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"https://docs.example.com/guide", true},
		{"http://docs.example.com", true},
		{"ftp://docs.example.com", false},
		{"https://", false},
		{"https://[::1]/path", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			u, _ := url.Parse(tt.input)
			if got := Valid(*u); got != tt.valid {
				t.Errorf("Valid(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestSameHost(t *testing.T) {
	a, _ := url.Parse("https://docs.example.com/a")
	b, _ := url.Parse("https://DOCS.example.com/b")
	c, _ := url.Parse("https://other.example.com/c")

	if !SameHost(*a, *b) {
		t.Error("expected same host regardless of case")
	}
	if SameHost(*a, *c) {
		t.Error("expected different hosts to not match")
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com/file.PDF", ".pdf"},
		{"https://example.com/path/to/doc.docx", ".docx"},
		{"https://example.com/no-extension", ""},
		{"https://example.com/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			u, _ := url.Parse(tt.input)
			if got := Extension(*u); got != tt.expected {
				t.Errorf("Extension(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestToFilename(t *testing.T) {
	u, _ := url.Parse("https://docs.example.com/guide/intro")
	got := ToFilename(*u, 100)
	if got != "docs.example.com_guide_intro" {
		t.Errorf("ToFilename = %q", got)
	}
}

func TestToFilenameTruncatesWithHashSuffix(t *testing.T) {
	longPath := "https://docs.example.com/" + strings.Repeat("a", 200)
	u, _ := url.Parse(longPath)

	got := ToFilename(*u, 50)
	if len(got) > 50 {
		t.Errorf("ToFilename exceeded max length: got %d chars", len(got))
	}

	// Truncation collision mitigation: two different long URLs sharing a
	// truncated prefix must still diverge because of the hash suffix.
	otherPath := "https://docs.example.com/" + strings.Repeat("a", 199) + "b"
	other, _ := url.Parse(otherPath)
	gotOther := ToFilename(*other, 50)
	if got == gotOther {
		t.Error("expected distinct filenames for distinct long URLs")
	}
}

func TestResolve(t *testing.T) {
	ref, _ := url.Parse("/guide/intro")
	resolved := Resolve(*ref, "https", "docs.example.com")
	if resolved.String() != "https://docs.example.com/guide/intro" {
		t.Errorf("Resolve = %q", resolved.String())
	}
}

func TestFilterByHost(t *testing.T) {
	a, _ := url.Parse("https://docs.example.com/a")
	b, _ := url.Parse("https://other.example.com/b")

	filtered := FilterByHost("docs.example.com", []url.URL{*a, *b})
	if len(filtered) != 1 || filtered[0].String() != a.String() {
		t.Errorf("FilterByHost = %v", filtered)
	}
}
