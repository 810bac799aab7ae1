package downloader

import "time"

// DownloadResult records the outcome of fetching a single linked document.
type DownloadResult struct {
	sourceURL  string
	path       string
	sizeBytes  int64
	downloadAt time.Time
}

func NewDownloadResult(sourceURL, path string, sizeBytes int64, downloadAt time.Time) DownloadResult {
	return DownloadResult{
		sourceURL:  sourceURL,
		path:       path,
		sizeBytes:  sizeBytes,
		downloadAt: downloadAt,
	}
}

func (d DownloadResult) SourceURL() string {
	return d.sourceURL
}

func (d DownloadResult) Path() string {
	return d.path
}

func (d DownloadResult) SizeBytes() int64 {
	return d.sizeBytes
}

// DefaultAllowedExtensions is the document-suffix whitelist eligible for
// download when a richer list is not supplied by configuration.
var DefaultAllowedExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".csv", ".txt", ".rtf",
}

const (
	downloadChunkSize = 8 * 1024
	downloadTimeout   = 60 * time.Second
)
