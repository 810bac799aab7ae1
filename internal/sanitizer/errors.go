package sanitizer

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type SanitizationErrorCause string

const (
	ErrCauseBrokenDOM           SanitizationErrorCause = "broken dom"
	ErrCauseUnparseableHTML     SanitizationErrorCause = "unparseable html"
	ErrCauseCompetingRoots      SanitizationErrorCause = "competing document roots"
	ErrCauseNoStructuralAnchor  SanitizationErrorCause = "no structural anchor"
	ErrCauseMultipleH1NoRoot    SanitizationErrorCause = "multiple h1 without primary root"
	ErrCauseImpliedMultipleDocs SanitizationErrorCause = "implied multiple documents"
	ErrCauseAmbiguousDOM        SanitizationErrorCause = "ambiguous dom"
)

type SanitizationError struct {
	Message   string
	Retryable bool
	Cause     SanitizationErrorCause
}

func (e *SanitizationError) Error() string {
	return fmt.Sprintf("sanitization error: %s", e.Cause)
}

func (e *SanitizationError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapSanitizationErrorToMetadataCause maps sanitizer-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
var sanitizationCauseToMetadataCause = map[SanitizationErrorCause]metadata.ErrorCause{
	ErrCauseBrokenDOM:           metadata.CauseContentInvalid,
	ErrCauseUnparseableHTML:     metadata.CauseContentInvalid,
	ErrCauseCompetingRoots:      metadata.CauseContentInvalid,
	ErrCauseNoStructuralAnchor:  metadata.CauseContentInvalid,
	ErrCauseMultipleH1NoRoot:    metadata.CauseContentInvalid,
	ErrCauseImpliedMultipleDocs: metadata.CauseContentInvalid,
	ErrCauseAmbiguousDOM:        metadata.CauseContentInvalid,
}

func mapSanitizationErrorToMetadataCause(err SanitizationError) metadata.ErrorCause {
	if cause, known := sanitizationCauseToMetadataCause[err.Cause]; known {
		return cause
	}
	return metadata.CauseUnknown
}
