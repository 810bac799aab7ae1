package storage

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type StorageErrorCause string

const (
	ErrCauseDiskFull              StorageErrorCause = "disk is full"
	ErrCauseWriteFailure          StorageErrorCause = "write failed"
	ErrCauseHashComputationFailed StorageErrorCause = "hash computation failed"
	ErrCausePathError             StorageErrorCause = "path error"
)

type StorageError struct {
	Message   string
	Retryable bool
	Cause     StorageErrorCause
	Path      string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s", e.Cause)
}

func (e *StorageError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// storageCauseToMetadataCause maps storage-local error semantics to the
// canonical metadata.ErrorCause table. Observational only, MUST NOT be used
// to derive control-flow decisions.
var storageCauseToMetadataCause = map[StorageErrorCause]metadata.ErrorCause{
	ErrCauseDiskFull:              metadata.CauseStorageFailure,
	ErrCauseWriteFailure:          metadata.CauseStorageFailure,
	ErrCausePathError:             metadata.CauseStorageFailure,
	ErrCauseHashComputationFailed: metadata.CauseInvariantViolation,
}

func mapStorageErrorToMetadataCause(err *StorageError) metadata.ErrorCause {
	if cause, known := storageCauseToMetadataCause[err.Cause]; known {
		return cause
	}
	return metadata.CauseUnknown
}
