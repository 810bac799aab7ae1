package checkpoint

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type CheckpointErrorCause string

const (
	ErrCauseReadFailure   CheckpointErrorCause = "read failure"
	ErrCauseParseFailure  CheckpointErrorCause = "parse failure"
	ErrCauseWriteFailure  CheckpointErrorCause = "write failure"
	ErrCauseEncodeFailure CheckpointErrorCause = "encode failure"
)

// CheckpointError reports a failure to load or persist checkpoint state.
// Per the orchestrator's failure semantics, checkpoint errors are always
// recoverable: the caller logs and continues, the next tick tries again.
type CheckpointError struct {
	Message string
	Cause   CheckpointErrorCause
	Path    string
}

func (e *CheckpointError) Error() string {
	return fmt.Sprintf("checkpoint error: %s: %s (%s)", e.Cause, e.Message, e.Path)
}

func (e *CheckpointError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
