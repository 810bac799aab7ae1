package metadata

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Content hashes
- Crawl depth

Logging Goals
- Debuggable crawl behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Hashes
- Status codes
- Durations
- Identifiers (page ID, crawl ID)
*/

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"
)

var errorCauseLabels = map[ErrorCause]string{
	CauseUnknown:            "unknown",
	CauseNetworkFailure:     "network_failure",
	CausePolicyDisallow:     "policy_disallow",
	CauseContentInvalid:     "content_invalid",
	CauseStorageFailure:     "storage_failure",
	CauseInvariantViolation: "invariant_violation",
	CauseRetryFailure:       "retry_failure",
}

func (c ErrorCause) String() string {
	if label, ok := errorCauseLabels[c]; ok {
		return label
	}
	return "unknown"
}

var artifactKindLabels = map[ArtifactKind]string{
	ArtifactUnknown:       "unknown",
	ArtifactMarkdown:      "page",
	ArtifactAsset:         "asset",
	ArtifactFile:          "file",
	ArtifactLinkInventory: "link_inventory",
}

func (k ArtifactKind) String() string {
	if label, ok := artifactKindLabels[k]; ok {
		return label
	}
	return "unknown"
}

// Recorder is the default MetadataSink and CrawlFinalizer implementation.
// It emits one logfmt line per event to an underlying writer (stdout by
// default). It never blocks the caller on anything but its own mutex and
// never returns an error: a logging failure must not abort a crawl.
type Recorder struct {
	mu sync.Mutex
	w  io.Writer
}

// NewRecorder builds a Recorder writing logfmt lines to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// NewStdoutRecorder builds a Recorder writing to os.Stdout.
func NewStdoutRecorder() *Recorder {
	return NewRecorder(os.Stdout)
}

func (r *Recorder) encode(keyvals ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	enc := logfmt.NewEncoder(r.w)
	if err := enc.EncodeKeyvals(keyvals...); err != nil {
		return
	}
	_ = enc.EndRecord()
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	retryCount int,
	crawlDepth int,
) {
	r.encode(
		"event", "fetch",
		"url", fetchUrl,
		"status", httpStatus,
		"duration_ms", duration.Milliseconds(),
		"content_type", contentType,
		"retries", retryCount,
		"depth", crawlDepth,
	)
}

func (r *Recorder) RecordAssetFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	retryCount int,
) {
	r.encode(
		"event", "asset_fetch",
		"url", fetchUrl,
		"status", httpStatus,
		"duration_ms", duration.Milliseconds(),
		"retries", retryCount,
	)
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	keyvals := []interface{}{
		"event", "error",
		"time", observedAt.Format(time.RFC3339),
		"package", packageName,
		"action", action,
		"cause", cause.String(),
		"details", details,
	}
	for _, attr := range attrs {
		keyvals = append(keyvals, string(attr.Key), attr.Value)
	}
	r.encode(keyvals...)
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	keyvals := []interface{}{
		"event", "artifact",
		"kind", kind.String(),
		"path", path,
	}
	for _, attr := range attrs {
		keyvals = append(keyvals, string(attr.Key), attr.Value)
	}
	r.encode(keyvals...)
}

// RecordFinalCrawlStats emits the terminal, one-shot crawl summary.
func (r *Recorder) RecordFinalCrawlStats(totalPages, totalErrors, totalAssets int, duration time.Duration) {
	stats := newCrawlStats(totalPages, totalErrors, totalAssets, duration)
	r.encode(
		"event", "crawl_complete",
		"pages", stats.totalPages,
		"errors", stats.totalErrors,
		"assets", stats.totalAssets,
		"duration_ms", stats.durationMs,
	)
}

var (
	_ MetadataSink   = (*Recorder)(nil)
	_ CrawlFinalizer = (*Recorder)(nil)
)
