package metadata

import "time"

// NoopSink discards everything recorded through it. It exists for tests
// and tools that need a MetadataSink/CrawlFinalizer but have no interest
// in observability output.
type NoopSink struct{}

func (NoopSink) RecordFetch(fetchUrl string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int) {
}

func (NoopSink) RecordAssetFetch(fetchUrl string, httpStatus int, duration time.Duration, retryCount int) {
}

func (NoopSink) RecordError(observedAt time.Time, packageName string, action string, cause ErrorCause, details string, attrs []Attribute) {
}

func (NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}

func (NoopSink) RecordFinalCrawlStats(totalPages, totalErrors, totalAssets int, duration time.Duration) {
}

var _ MetadataSink = NoopSink{}
var _ CrawlFinalizer = NoopSink{}
