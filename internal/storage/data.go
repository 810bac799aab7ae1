package storage

// Persistence

type WriteResult struct {
	urlHash     string // identity (filename without extension)
	path        string
	contentHash string
	wasSaved    bool
}

func NewWriteResult(
	urlHash string,
	path string,
	contentHash string,
	wasSaved bool,
) WriteResult {
	return WriteResult{
		urlHash:     urlHash,
		path:        path,
		contentHash: contentHash,
		wasSaved:    wasSaved,
	}
}
func (w *WriteResult) URLHash() string {
	return w.urlHash
}

func (w *WriteResult) Path() string {
	return w.path
}

func (w *WriteResult) ContentHash() string {
	return w.contentHash
}

// WasSaved reports whether this write actually touched disk. It is false
// when the Change Detector found the stored page already matched the new
// body and skipped the rewrite.
func (w *WriteResult) WasSaved() bool {
	return w.wasSaved
}
