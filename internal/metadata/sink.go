package metadata

import "time"

// MetadataSink is the write side of observability for the crawl pipeline.
// Every pipeline stage (fetcher, extractor, sanitizer, mdconvert, assets,
// normalize, storage) holds one and reports through it. A sink must never
// be queried to make scheduling, retry, or abort decisions; it only
// records what happened.
type MetadataSink interface {
	// RecordFetch reports a completed page fetch attempt.
	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		retryCount int,
		crawlDepth int,
	)

	// RecordAssetFetch reports a completed asset (image) fetch attempt.
	RecordAssetFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		retryCount int,
	)

	// RecordError reports a classified failure from any pipeline stage.
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	// RecordArtifact reports a durable output written to disk.
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

// CrawlFinalizer records the terminal summary of a crawl, exactly once,
// after the scheduler's main loop has stopped dequeuing work.
type CrawlFinalizer interface {
	RecordFinalCrawlStats(totalPages, totalErrors, totalAssets int, duration time.Duration)
}
