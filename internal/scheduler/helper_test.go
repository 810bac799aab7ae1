package scheduler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rohmanhakim/docs-crawler/internal/assets"
	"github.com/rohmanhakim/docs-crawler/internal/extractor"
	"github.com/rohmanhakim/docs-crawler/internal/fetcher"
	"github.com/rohmanhakim/docs-crawler/internal/frontier"
	"github.com/rohmanhakim/docs-crawler/internal/mdconvert"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/normalize"
	"github.com/rohmanhakim/docs-crawler/internal/robots"
	"github.com/rohmanhakim/docs-crawler/internal/sanitizer"
	"github.com/rohmanhakim/docs-crawler/internal/scheduler"
	"github.com/rohmanhakim/docs-crawler/internal/storage"
	"github.com/rohmanhakim/docs-crawler/pkg/limiter"
	"github.com/rohmanhakim/docs-crawler/pkg/timeutil"
	"github.com/stretchr/testify/mock"
)

// createSchedulerForTest builds a Scheduler wired with whichever mock
// dependencies a test supplies. Any dependency not present in deps falls
// back to a working default, so individual test files only need to pass
// the mocks relevant to what they are exercising. Order does not matter;
// each dependency is matched by the interface it implements.
func createSchedulerForTest(
	t *testing.T,
	ctx context.Context,
	deps ...interface{},
) *scheduler.Scheduler {
	t.Helper()

	var (
		finalizer     metadata.CrawlFinalizer
		sink          metadata.MetadataSink
		rateLimiter   limiter.RateLimiter
		crawlFrontier frontier.Frontier
		robot         robots.Robot
		htmlFetcher   fetcher.Fetcher
		domExtractor  extractor.Extractor
		htmlSanitizer sanitizer.Sanitizer
		convertRule   mdconvert.ConvertRule
		resolver      assets.Resolver
		constraint    normalize.Constraint
		storageSink   storage.Sink
		sleeper       timeutil.Sleeper
	)

	for _, d := range deps {
		if d == nil {
			continue
		}
		// MetadataSink is checked ahead of CrawlFinalizer: NoopSink
		// satisfies both, and in every test it is supplied to play the
		// sink role.
		if v, ok := d.(metadata.MetadataSink); ok && sink == nil {
			sink = v
			continue
		}
		if v, ok := d.(metadata.CrawlFinalizer); ok && finalizer == nil {
			finalizer = v
			continue
		}
		if v, ok := d.(limiter.RateLimiter); ok && rateLimiter == nil {
			rateLimiter = v
			continue
		}
		if v, ok := d.(frontier.Frontier); ok && crawlFrontier == nil {
			crawlFrontier = v
			continue
		}
		if v, ok := d.(robots.Robot); ok && robot == nil {
			robot = v
			continue
		}
		if v, ok := d.(fetcher.Fetcher); ok && htmlFetcher == nil {
			htmlFetcher = v
			continue
		}
		if v, ok := d.(extractor.Extractor); ok && domExtractor == nil {
			domExtractor = v
			continue
		}
		if v, ok := d.(sanitizer.Sanitizer); ok && htmlSanitizer == nil {
			htmlSanitizer = v
			continue
		}
		if v, ok := d.(mdconvert.ConvertRule); ok && convertRule == nil {
			convertRule = v
			continue
		}
		if v, ok := d.(assets.Resolver); ok && resolver == nil {
			resolver = v
			continue
		}
		if v, ok := d.(normalize.Constraint); ok && constraint == nil {
			constraint = v
			continue
		}
		if v, ok := d.(storage.Sink); ok && storageSink == nil {
			storageSink = v
			continue
		}
		if v, ok := d.(timeutil.Sleeper); ok && sleeper == nil {
			sleeper = v
			continue
		}
	}

	if finalizer == nil {
		finalizer = newMockFinalizer(t)
	}
	if sink == nil {
		sink = &metadata.NoopSink{}
	}
	if rateLimiter == nil {
		rateLimiter = newRateLimiterMockForTest(t)
	}
	if robot == nil {
		r := NewRobotsMockForTest(t)
		r.OnDecide(mock.Anything, robots.Decision{Allowed: true}, nil)
		robot = r
	}
	if htmlFetcher == nil {
		htmlFetcher = newFetcherMockForTest(t)
	}
	if domExtractor == nil {
		domExtractor = newExtractorMockForTest(t)
	}
	if htmlSanitizer == nil {
		htmlSanitizer = newSanitizerMockForTest(t)
	}
	if convertRule == nil {
		convertRule = newConvertMockForTest(t)
	}
	if resolver == nil {
		resolver = newResolverMockForTest(t)
	}
	if sleeper == nil {
		sleeper = newSleeperMock(t)
	}
	// constraint, storageSink and crawlFrontier are left nil when not
	// supplied: NewSchedulerWithDeps constructs production defaults for them.

	s := scheduler.NewSchedulerWithDeps(
		ctx,
		finalizer,
		sink,
		rateLimiter,
		crawlFrontier,
		htmlFetcher,
		robot,
		domExtractor,
		htmlSanitizer,
		convertRule,
		resolver,
		constraint,
		storageSink,
		sleeper,
	)
	return &s
}

// setupTestServer creates a test HTTP server that serves robots.txt content
func setupTestServer(t *testing.T, robotsContent string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(robotsContent))
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// setupTestServerWithStatus creates a test HTTP server that returns a specific status code
func setupTestServerWithStatus(t *testing.T, statusCode int, robotsContent string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(statusCode)
			if robotsContent != "" {
				w.Write([]byte(robotsContent))
			}
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}
