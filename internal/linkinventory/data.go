package linkinventory

// PageLinks is the set of categorized outlinks harvested from one page.
// Field order mirrors the category table this package classifies against.
type PageLinks struct {
	SourceURL      string            `json:"source_url"`
	InternalLinks  []string          `json:"internal_links"`
	ExternalLinks  []string          `json:"external_links"`
	PDFLinks       []string          `json:"pdf_links"`
	DocumentLinks  []string          `json:"document_links"`
	VideoLinks     []string          `json:"video_links"`
	SocialLinks    map[string]string `json:"social_links"`
	EventLinks     []string          `json:"event_links"`
	EmailLinks     []string          `json:"email_links"`
	PhoneLinks     []string          `json:"phone_links"`
	ImageLinks     []string          `json:"image_links"`
}

func newPageLinks(sourceURL string) PageLinks {
	return PageLinks{
		SourceURL:   sourceURL,
		SocialLinks: make(map[string]string),
	}
}

// Stats is the aggregate summary of the link inventory's contents.
type Stats struct {
	PagesProcessed   int
	TotalLinks       int
	DistinctSocial   int
	TotalEvents      int
	TotalEmails      int
	LinksByCategory  map[string]int
}

var documentSuffixes = map[string]struct{}{
	".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {},
	".ppt": {}, ".pptx": {}, ".csv": {}, ".rtf": {}, ".txt": {},
}

var videoHosts = map[string]struct{}{
	"youtube.com":      {},
	"youtu.be":         {},
	"vimeo.com":        {},
	"dailymotion.com":  {},
	"facebook.com/watch":     {},
	"twitter.com/i/status":   {},
	"tiktok.com":       {},
}

var socialHosts = map[string]string{
	"facebook.com":  "facebook",
	"twitter.com":   "twitter",
	"x.com":         "twitter",
	"linkedin.com":  "linkedin",
	"instagram.com": "instagram",
	"tiktok.com":    "tiktok",
	"youtube.com":   "youtube",
	"github.com":    "github",
	"pinterest.com": "pinterest",
}

var eventPathMarkers = []string{
	"event", "calendar", "schedule", "workshop", "conference", "seminar", "webinar", "training",
}
