package assets

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type AssetsErrorCause string

const (
	ErrCauseImageDownloadFailure  AssetsErrorCause = "failed to download image"
	ErrCausePathError             AssetsErrorCause = "asset directory could not be created"
	ErrCauseNetworkFailure        AssetsErrorCause = "network failure fetching asset"
	ErrCauseHashError             AssetsErrorCause = "content hashing failed"
	ErrCauseWriteFailure          AssetsErrorCause = "asset write failed"
	ErrCauseDiskFull              AssetsErrorCause = "disk full while writing asset"
	ErrCauseAssetTooLarge         AssetsErrorCause = "asset exceeds max size"
	ErrCauseRequest5xx            AssetsErrorCause = "asset server error"
	ErrCauseRequestTooMany        AssetsErrorCause = "asset request rate limited"
	ErrCauseRequestPageForbidden  AssetsErrorCause = "asset request forbidden"
	ErrCauseRedirectLimitExceeded AssetsErrorCause = "asset redirect not followed"
	ErrCauseReadResponseBodyError AssetsErrorCause = "failed to read asset response body"
)

type AssetsError struct {
	Message   string
	Retryable bool
	Cause     AssetsErrorCause
}

func (e *AssetsError) Error() string {
	return fmt.Sprintf("assets error: %s", e.Cause)
}

func (e *AssetsError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapAssetsErrorToMetadataCause maps assets-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapAssetsErrorToMetadataCause(err AssetsError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseImageDownloadFailure, ErrCauseNetworkFailure, ErrCauseRequest5xx, ErrCauseRequestTooMany:
		return metadata.CauseNetworkFailure
	case ErrCauseRequestPageForbidden, ErrCauseRedirectLimitExceeded:
		return metadata.CausePolicyDisallow
	case ErrCauseAssetTooLarge, ErrCauseReadResponseBodyError:
		return metadata.CauseContentInvalid
	case ErrCausePathError, ErrCauseWriteFailure, ErrCauseDiskFull, ErrCauseHashError:
		return metadata.CauseStorageFailure
	default:
		return metadata.CauseUnknown
	}
}
