package extractor

// docFrameworkSelectors pairs a documentation framework/platform name with
// its known content-container CSS selectors, ordered by specificity. This
// is Layer 2 of the extraction heuristic: it only runs when semantic
// containers (<main>, <article>, role="main") don't yield usable content.
type docFrameworkSelectors struct {
	framework string
	selectors []string
}

//nolint:gochecknoglobals // static lookup table, checked in priority order
var knownDocFrameworks = []docFrameworkSelectors{
	{"generic", []string{
		".content",
		".doc-content",
		".markdown-body",
		"#docs-content",
		".rst-content",
		".theme-doc-markdown",
		".md-content",
	}},
	{"docusaurus", []string{".theme-doc-markdown", ".docMainContainer"}},
	{"sphinx", []string{".rst-content", ".document"}},
	{"mkdocs", []string{".md-content", ".md-main__inner"}},
	{"gitbook", []string{".book-body", ".markdown-section"}},
	{"vuepress", []string{".theme-default-content", ".content__default"}},
	{"docsify", []string{"#main", ".content"}},
	{"hexo", []string{".post-content", ".article-content"}},
	{"jekyll", []string{".post-content", ".entry-content"}},
}

// getAllSelectors flattens knownDocFrameworks into a single deduplicated,
// priority-ordered selector list: generic selectors first, then each
// framework in turn.
func getAllSelectors() []string {
	var flat []string
	for _, fw := range knownDocFrameworks {
		flat = append(flat, fw.selectors...)
	}
	return dedupeSelectors(flat)
}

// mergeSelectors appends customSelectors after defaultSelectors, dropping
// anything already present so each selector is tried only once.
func mergeSelectors(defaultSelectors, customSelectors []string) []string {
	return dedupeSelectors(append(append([]string{}, defaultSelectors...), customSelectors...))
}

func dedupeSelectors(selectors []string) []string {
	seen := make(map[string]bool, len(selectors))
	out := make([]string, 0, len(selectors))
	for _, s := range selectors {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
