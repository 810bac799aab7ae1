package frontier

import (
	"sort"
	"sync"

	"github.com/rohmanhakim/docs-crawler/internal/config"
	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"
)

/*
Frontier Responsibilities
- Maintain BFS ordering
- Deduplicate URLs
- Track crawl depth
- Prevent infinite traversal
- Knows nothing about:
	- fetching
	- extraction
	- markdown
	- storage

It is a data structure + policy module, not a pipeline executor.
*/

// Frontier is the Port the scheduler depends on. It is satisfied by
// CrawlFrontier in production and by a mock in tests, so the scheduler
// never has to know which one it is holding.
type Frontier interface {
	Init(cfg config.Config)
	Submit(admission CrawlAdmissionCandidate)
	Enqueue(token CrawlToken)
	Dequeue() (CrawlToken, bool)
	IsDepthExhausted(depth int) bool
	CurrentMinDepth() int
	VisitedCount() int
	MarkSeen(key string)
	PendingSnapshot() []string
}

// CrawlFrontier is a depth-bucketed FIFO frontier. Each depth owns its own
// queue; Dequeue always drains the lowest depth that still has pending
// tokens, which is what gives BFS its guarantee: no URL at depth N+1 can be
// dequeued while a URL at depth N is still pending, even if depth N+1 was
// discovered and submitted first.
type CrawlFrontier struct {
	mu            sync.Mutex
	cfg           config.Config
	queuesByDepth map[int]*DepthQueue[CrawlToken]
	visited       VisitedSet[string]
}

// NewCrawlFrontier constructs an empty frontier. Init must be called before
// Submit/Dequeue are used against a real config.
func NewCrawlFrontier() CrawlFrontier {
	return CrawlFrontier{
		queuesByDepth: make(map[int]*DepthQueue[CrawlToken]),
		visited:       NewVisitedSet[string](),
	}
}

// Init resets the frontier to a fresh state bound to cfg. Safe to call
// again to start a new crawl with the same frontier instance.
func (f *CrawlFrontier) Init(cfg config.Config) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cfg = cfg
	f.queuesByDepth = make(map[int]*DepthQueue[CrawlToken])
	f.visited = NewVisitedSet[string]()
}

// Submit admits candidate into the frontier, provided it has not already
// been visited and the crawl's depth/page limits allow it. The scheduler
// guarantees candidate already passed robots and scope checks; Submit's
// only job is ordering and dedup.
func (f *CrawlFrontier) Submit(candidate CrawlAdmissionCandidate) {
	depth := candidate.DiscoveryMetadata().Depth()

	f.mu.Lock()
	defer f.mu.Unlock()

	if maxDepth := f.cfg.MaxDepth(); maxDepth > 0 && depth > maxDepth {
		return
	}
	if maxPages := f.cfg.MaxPages(); maxPages > 0 && f.visited.Size() >= maxPages {
		return
	}

	key := urlutil.Canonicalize(candidate.TargetURL()).String()
	if f.visited.Contains(key) {
		return
	}
	f.visited.Add(key)

	token := NewCrawlToken(candidate.TargetURL(), depth)
	f.enqueueLocked(token)
}

// Enqueue places an already-admitted token directly onto its depth queue,
// bypassing the dedup/limit checks Submit performs. Used to restore a
// frontier's pending queue from a checkpoint, where every token was
// already admitted in a prior run.
func (f *CrawlFrontier) Enqueue(token CrawlToken) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := urlutil.Canonicalize(token.URL()).String()
	f.visited.Add(key)
	f.enqueueLocked(token)
}

func (f *CrawlFrontier) enqueueLocked(token CrawlToken) {
	depth := token.Depth()
	q, exists := f.queuesByDepth[depth]
	if !exists {
		q = NewDepthQueue[CrawlToken]()
		f.queuesByDepth[depth] = q
	}
	q.Enqueue(token)
}

// Dequeue returns the next token in strict BFS order: the lowest depth
// that currently has a pending token. Depths that were never submitted,
// or that were submitted and fully drained, are skipped without error -
// there is no assumption that depth N-1 exists just because depth N does.
func (f *CrawlFrontier) Dequeue() (CrawlToken, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	depth := f.minPendingDepthLocked()
	if depth == -1 {
		return CrawlToken{}, false
	}
	return f.queuesByDepth[depth].Dequeue()
}

// IsDepthExhausted reports whether depth currently has no pending tokens.
// A depth that was never created is considered exhausted, as is any
// negative depth.
func (f *CrawlFrontier) IsDepthExhausted(depth int) bool {
	if depth < 0 {
		return true
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	q, exists := f.queuesByDepth[depth]
	return !exists || q.Size() == 0
}

// CurrentMinDepth returns the shallowest depth with a pending token, or -1
// if the frontier holds nothing. Gaps (depths submitted then drained, or
// never submitted) are skipped.
func (f *CrawlFrontier) CurrentMinDepth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.minPendingDepthLocked()
}

func (f *CrawlFrontier) minPendingDepthLocked() int {
	min := -1
	for depth, q := range f.queuesByDepth {
		if q.Size() == 0 {
			continue
		}
		if min == -1 || depth < min {
			min = depth
		}
	}
	return min
}

// VisitedCount returns the number of unique URLs admitted so far. It is
// append-only: dequeuing never decreases it, and once a URL has been
// admitted, submitting it again is a no-op.
func (f *CrawlFrontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited.Size()
}

// MarkSeen records key as already admitted without enqueueing a token for
// it. Used when restoring a checkpoint's "visited" list: those URLs were
// already crawled in a prior run and must never be re-submitted, but there
// is nothing left to dequeue for them.
func (f *CrawlFrontier) MarkSeen(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited.Add(key)
}

// PendingSnapshot returns the canonical URL of every token still sitting in
// a depth queue, ordered by depth then FIFO position, without removing
// anything. Used to persist the frontier's pending work to a checkpoint.
func (f *CrawlFrontier) PendingSnapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	depths := make([]int, 0, len(f.queuesByDepth))
	for depth := range f.queuesByDepth {
		depths = append(depths, depth)
	}
	sort.Ints(depths)

	var urls []string
	for _, depth := range depths {
		for _, token := range *f.queuesByDepth[depth] {
			urls = append(urls, urlutil.Canonicalize(token.URL()).String())
		}
	}
	return urls
}
