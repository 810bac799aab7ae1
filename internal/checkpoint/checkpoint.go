package checkpoint

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

/*
Responsibilities
- Persist a crawl's frontier state so an interrupted run can resume
- Read-at-start, replace-on-tempfile-rename on write

A missing checkpoint file is not an error: it means "start fresh".
*/

// Load reads state from path. A missing file returns a zero State and
// ok=false with no error, per the orchestrator's "no checkpoint means start
// fresh" rule.
func Load(path string) (State, bool, failure.ClassifiedError) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, false, nil
		}
		return State{}, false, &CheckpointError{
			Message: err.Error(),
			Cause:   ErrCauseReadFailure,
			Path:    path,
		}
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return State{}, false, &CheckpointError{
			Message: err.Error(),
			Cause:   ErrCauseParseFailure,
			Path:    path,
		}
	}
	return state, true, nil
}

// Save writes state to path atomically: encode, write to path+".tmp", then
// rename over the target. On any failure the temp file is removed.
func Save(path string, state State) failure.ClassifiedError {
	encoded, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return &CheckpointError{
			Message: err.Error(),
			Cause:   ErrCauseEncodeFailure,
			Path:    path,
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, encoded, 0644); err != nil {
		os.Remove(tmpPath)
		return &CheckpointError{
			Message: err.Error(),
			Cause:   ErrCauseWriteFailure,
			Path:    path,
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &CheckpointError{
			Message: err.Error(),
			Cause:   ErrCauseWriteFailure,
			Path:    path,
		}
	}
	return nil
}
