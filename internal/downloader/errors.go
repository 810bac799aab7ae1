package downloader

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type DownloadErrorCause string

const (
	ErrCauseNetworkFailure DownloadErrorCause = "network issues"
	ErrCauseWriteFailure   DownloadErrorCause = "write failure"
	ErrCauseTimeout        DownloadErrorCause = "timeout"
)

// DownloadError reports a single failed document download. It is always
// recoverable: a failed download is recorded and the crawl continues.
type DownloadError struct {
	Message string
	Cause   DownloadErrorCause
	URL     string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("downloader error: %s: %s (%s)", e.Cause, e.Message, e.URL)
}

func (e *DownloadError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
