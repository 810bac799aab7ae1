package scheduler

import (
	"github.com/rohmanhakim/docs-crawler/internal/storage"
)

type CrawlingExecution struct {
	writeResults []storage.WriteResult
}

func (e CrawlingExecution) WriteResults() []storage.WriteResult {
	return e.writeResults
}

type PipelineOutcome struct {
	Continue bool
	Retry    bool
	Abort    bool
}
