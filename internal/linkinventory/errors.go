package linkinventory

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type InventoryErrorCause string

const (
	ErrCauseWriteFailure InventoryErrorCause = "write failure"
	ErrCauseReadFailure  InventoryErrorCause = "read failure"
	ErrCauseDecodeFailure InventoryErrorCause = "decode failure"
)

// InventoryError reports a failure persisting or loading the link inventory
// file. Always recoverable: the crawl continues without a durable inventory.
type InventoryError struct {
	Message string
	Cause   InventoryErrorCause
}

func (e *InventoryError) Error() string {
	return fmt.Sprintf("link inventory error: %s: %s", e.Cause, e.Message)
}

func (e *InventoryError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
