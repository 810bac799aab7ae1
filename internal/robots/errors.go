package robots

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type RobotsErrorCause string

const (
	// ErrCauseRepeatedFetchFailure = "repeated fetch failure"
	ErrCauseDisallowRoot         = "root disallowed to be crawled"
	ErrCauseInvalidRobotsUrl     = "invalid robots.txt URL"
	ErrCausePreFetchFailure      = "failed before making fetch"
	ErrCauseHttpFetchFailure     = "failed to fetch"
	ErrCauseHttpTooManyRequests  = "too many requests"
	ErrCauseHttpTooManyRedirects = "too many redirects"
	ErrCauseHttpServerError      = "http server error"
	ErrCauseHttpUnexpectedStatus = "unexpected http status"
	ErrCauseParseError           = "failed to parse robots.txt"
)

type RobotsError struct {
	Message   string
	Retryable bool
	Cause     RobotsErrorCause
}

func (e *RobotsError) Error() string {
	return fmt.Sprintf("robots error: %s", e.Cause)
}

func (e *RobotsError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// robotsCauseToMetadataCause maps robots-local error semantics to the
// canonical metadata.ErrorCause table. Observational only, MUST NOT be used
// to derive control-flow decisions.
var robotsCauseToMetadataCause = map[RobotsErrorCause]metadata.ErrorCause{
	ErrCauseDisallowRoot:         metadata.CausePolicyDisallow,
	ErrCauseInvalidRobotsUrl:     metadata.CauseInvariantViolation,
	ErrCausePreFetchFailure:      metadata.CauseUnknown,
	ErrCauseHttpFetchFailure:     metadata.CauseNetworkFailure,
	ErrCauseHttpTooManyRequests:  metadata.CauseNetworkFailure,
	ErrCauseHttpTooManyRedirects: metadata.CauseNetworkFailure,
	ErrCauseHttpServerError:      metadata.CauseNetworkFailure,
	ErrCauseHttpUnexpectedStatus: metadata.CauseNetworkFailure,
	ErrCauseParseError:           metadata.CauseContentInvalid,
}

func mapRobotsErrorToMetadataCause(err *RobotsError) metadata.ErrorCause {
	if cause, known := robotsCauseToMetadataCause[err.Cause]; known {
		return cause
	}
	return metadata.CauseUnknown
}
