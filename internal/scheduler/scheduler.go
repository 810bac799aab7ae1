package scheduler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/assets"
	"github.com/rohmanhakim/docs-crawler/internal/checkpoint"
	"github.com/rohmanhakim/docs-crawler/internal/config"
	"github.com/rohmanhakim/docs-crawler/internal/downloader"
	"github.com/rohmanhakim/docs-crawler/internal/extractor"
	"github.com/rohmanhakim/docs-crawler/internal/fetcher"
	"github.com/rohmanhakim/docs-crawler/internal/frontier"
	"github.com/rohmanhakim/docs-crawler/internal/linkinventory"
	"github.com/rohmanhakim/docs-crawler/internal/mdconvert"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/normalize"
	"github.com/rohmanhakim/docs-crawler/internal/robots"
	"github.com/rohmanhakim/docs-crawler/internal/sanitizer"
	"github.com/rohmanhakim/docs-crawler/internal/storage"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/limiter"
	"github.com/rohmanhakim/docs-crawler/pkg/retry"
	"github.com/rohmanhakim/docs-crawler/pkg/timeutil"
	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"
)

/*
 Scheduler is the sole control-plane authority of the crawl.

 Determinism and admission guarantees:
 - Scheduler is the ONLY component allowed to decide whether a URL
   may enter the crawl frontier.
 - All semantic admission checks (robots.txt, scope, depth, limits)
   MUST be completed before submitting a URL to the frontier.
 - No other component may enqueue, reject, or reorder URLs.
 - The frontier should only accept already-admitted URLs.
 - Pipeline stages may detect and classify failure, but must never decide retry, continuation, or abortion.

 The scheduler coordinates pipeline execution but does not delegate
 control-flow decisions to downstream stages.

 Metadata emission is observational only and MUST NOT influence
 scheduling, retries, or crawl termination.

 Scheduler Responsibilities:
 - Coordinate crawl lifecycle
 - Enforce global limits (pages, depth)
 - Manage graceful shutdown
 - Aggregate crawl statistics
 - Decide whether a robots outcome proceeds to the frontier.
 - The sole authority on:
	- retry
	- continue
	- abort
 TODO:
	- Introduce worker-scoped recorders when concurrency exists
*/

type Scheduler struct {
	ctx                    context.Context
	metadataSink           metadata.MetadataSink
	crawlFinalizer         metadata.CrawlFinalizer
	robot                  robots.Robot
	frontier               frontier.Frontier
	htmlFetcher            fetcher.Fetcher
	domExtractor           extractor.Extractor
	htmlSanitizer          sanitizer.Sanitizer
	markdownConversionRule mdconvert.ConvertRule
	assetResolver          assets.Resolver
	markdownConstraint     normalize.Constraint
	storageSink            storage.Sink
	fileDownloader         downloader.Downloader
	linkInventory          linkinventory.Inventory
	writeResults           []storage.WriteResult
	visitedURLs            []string
	checkpointPath         string
	currentHost            string
	rateLimiter            limiter.RateLimiter
	sleeper                timeutil.Sleeper
}

// CrawlInitialization captures everything ExecuteCrawlingWithState needs
// to run a crawl that was already admitted via InitializeCrawling: the
// resolved config, the seed host/scheme the pipeline resolves relative
// links against, and the deadline derived from cfg.Timeout().
type CrawlInitialization struct {
	cfg                 config.Config
	cancel              context.CancelFunc
	currentHost         string
	seedScheme          string
	initialDelayApplied bool
}

func (i *CrawlInitialization) CurrentHost() string {
	return i.currentHost
}

func (i *CrawlInitialization) SeedScheme() string {
	return i.seedScheme
}

func (i *CrawlInitialization) InitialDelayApplied() bool {
	return i.initialDelayApplied
}

func NewScheduler() Scheduler {
	recorder := metadata.NewStdoutRecorder()
	cachedRobot := robots.NewCachedRobot(recorder)
	crawlFrontier := frontier.NewCrawlFrontier()
	fetcher := fetcher.NewHtmlFetcher(recorder)
	ext := extractor.NewDomExtractor(recorder, extractor.DefaultExtractParam())
	sanitizer := sanitizer.NewHTMLSanitizer(recorder)
	conversionRule := mdconvert.NewRule(recorder)
	resolver := assets.NewLocalResolver(recorder, &http.Client{}, "docs-crawler/1.0")
	markdownConstraint := normalize.NewMarkdownConstraint(recorder)
	storageSink := storage.NewLocalSink(recorder)
	fileDownloader := downloader.NewFileDownloader(recorder)
	rateLimiter := limiter.NewConcurrentRateLimiter()
	sleeper := timeutil.NewRealSleeper()
	return Scheduler{
		metadataSink:           recorder,
		crawlFinalizer:         recorder,
		robot:                  &cachedRobot,
		frontier:               &crawlFrontier,
		htmlFetcher:            &fetcher,
		domExtractor:           &ext,
		htmlSanitizer:          &sanitizer,
		markdownConversionRule: conversionRule,
		assetResolver:          &resolver,
		markdownConstraint:     markdownConstraint,
		storageSink:            &storageSink,
		fileDownloader:         &fileDownloader,
		rateLimiter:            rateLimiter,
		sleeper:                &sleeper,
	}
}

// NewSchedulerWithDeps creates a Scheduler with injected dependencies for testing.
// This constructor allows tests to provide mock implementations of metadata interfaces
// to verify behavior without relying on real infrastructure.
func NewSchedulerWithDeps(
	ctx context.Context,
	crawlFinalizer metadata.CrawlFinalizer,
	metadataSink metadata.MetadataSink,
	rateLimiter limiter.RateLimiter,
	crawlFrontier frontier.Frontier,
	fetcher fetcher.Fetcher,
	robot robots.Robot,
	domExtractor extractor.Extractor,
	sanitizer sanitizer.Sanitizer,
	rule mdconvert.ConvertRule,
	resolver assets.Resolver,
	markdownConstraint normalize.Constraint,
	storageSink storage.Sink,
	sleeper timeutil.Sleeper,
) Scheduler {
	if markdownConstraint == nil {
		markdownConstraint = normalize.NewMarkdownConstraint(metadataSink)
	}
	if storageSink == nil {
		localSink := storage.NewLocalSink(metadataSink)
		storageSink = &localSink
	}
	if crawlFrontier == nil {
		realFrontier := frontier.NewCrawlFrontier()
		crawlFrontier = &realFrontier
	}
	fileDownloader := downloader.NewFileDownloader(metadataSink)
	return Scheduler{
		ctx:                    ctx,
		metadataSink:           metadataSink,
		crawlFinalizer:         crawlFinalizer,
		robot:                  robot,
		frontier:               crawlFrontier,
		htmlFetcher:            fetcher,
		domExtractor:           domExtractor,
		htmlSanitizer:          sanitizer,
		markdownConversionRule: rule,
		assetResolver:          resolver,
		markdownConstraint:     markdownConstraint,
		storageSink:            storageSink,
		fileDownloader:         &fileDownloader,
		rateLimiter:            rateLimiter,
		sleeper:                sleeper,
	}
}

// SubmitUrlForAdmission performs all semantic checks required for a URL
// to enter the crawl frontier.
//
// This function is the single admission choke point for the system.
// If this function returns nil, the URL is guaranteed to be admissible
// and safe to submit to the frontier.
//
// No other code path may call Frontier.Submit.
// - Only the scheduler imports frontier
// - Only the scheduler constructs CrawlAdmissionCandidate
// - Pipeline stages never see frontier types
func (s *Scheduler) SubmitUrlForAdmission(
	url url.URL,
	sourceContext frontier.SourceContext,
	depth int,
) failure.ClassifiedError {
	// Fetch robots.txt
	robotsDecision, robotsError := s.robot.Decide(url)
	// Robots infrastructure failure → scheduler-level error
	if robotsError != nil {
		return robotsError
	}

	// Reset backoff after successful robots request
	if s.rateLimiter != nil {
		s.rateLimiter.ResetBackoff(url.Host)
	}

	if robotsDecision.CrawlDelay > 0 && s.rateLimiter != nil {
		s.rateLimiter.SetCrawlDelay(s.currentHost, robotsDecision.CrawlDelay)
	}

	// Robots explicitly disallowed → normal, terminal outcome
	if !robotsDecision.Allowed {
		// Important:
		// - metadata already emitted by robots
		// - NO retry
		// - NO abort
		// - NO frontier submission
		// TODO: record to metadataSink that robots explcitly disallowed the URL
		return nil
	}

	// Only submit to frontier if robots allowed
	candidate := frontier.NewCrawlAdmissionCandidate(
		robotsDecision.Url,
		sourceContext,
		frontier.NewDiscoveryMetadata(depth, nil),
	)

	// Submit Allowed URL for Admission by Frontier
	s.frontier.Submit(candidate)
	return nil
}

// InitializeCrawling loads configPath, wires the politeness and frontier
// state for this run, and submits the seed URL for admission. It returns
// everything ExecuteCrawlingWithState needs to drain the frontier.
//
// Unlike ExecuteCrawlingWithState, a successful InitializeCrawling does
// NOT record final stats - there is nothing final about it yet. A failed
// one does, since it is otherwise the only chance to observe that the
// crawl never got off the ground.
func (s *Scheduler) InitializeCrawling(configPath string) (*CrawlInitialization, error) {
	startTime := time.Now()
	recordEmptyStats := func() {
		s.crawlFinalizer.RecordFinalCrawlStats(0, 0, 0, time.Since(startTime))
	}

	cfg, err := config.WithConfigFile(configPath)
	if err != nil {
		s.metadataSink.RecordError(
			time.Now(),
			"config",
			"config.WithConfigFile",
			metadata.CauseContentInvalid,
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrField, fmt.Sprintf("field: %v", "theFieldError")),
			},
		)
		recordEmptyStats()
		return nil, err
	}

	return s.initializeCrawlingWithConfig(cfg, startTime, recordEmptyStats)
}

// InitializeCrawlingWithConfig mirrors InitializeCrawling for callers (the
// CLI) that already hold a resolved config.Config instead of a path to one,
// e.g. when the config was built entirely from flags.
func (s *Scheduler) InitializeCrawlingWithConfig(cfg config.Config) (*CrawlInitialization, error) {
	startTime := time.Now()
	recordEmptyStats := func() {
		s.crawlFinalizer.RecordFinalCrawlStats(0, 0, 0, time.Since(startTime))
	}
	return s.initializeCrawlingWithConfig(cfg, startTime, recordEmptyStats)
}

func (s *Scheduler) initializeCrawlingWithConfig(cfg config.Config, startTime time.Time, recordEmptyStats func()) (*CrawlInitialization, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	if s.ctx == nil {
		s.ctx = ctx
	}

	// Validate that at least one seed URL exists
	if len(cfg.SeedURLs()) == 0 {
		err := fmt.Errorf("no seed URLs configured")
		s.metadataSink.RecordError(
			time.Now(),
			"config",
			"config validation",
			metadata.CauseContentInvalid,
			err.Error(),
			[]metadata.Attribute{},
		)
		recordEmptyStats()
		cancel()
		return nil, err
	}

	// 1.1 Initialize rate limiter
	s.rateLimiter.SetBaseDelay(cfg.BaseDelay())
	s.rateLimiter.SetJitter(cfg.Jitter())
	s.rateLimiter.SetRandomSeed(cfg.RandomSeed())

	// 1.2 Initialize Robots and Frontier
	s.robot.Init(cfg.UserAgent())
	s.frontier.Init(cfg)

	// 1.2.0 Swap in the headless-browser fetcher when configured. Only the
	// scheduler's own default HtmlFetcher is ever replaced here; a fetcher
	// injected through NewSchedulerWithDeps (a test double) is left alone.
	if cfg.FetcherBackend() == config.FetcherBackendBrowser {
		if _, isDefault := s.htmlFetcher.(*fetcher.HtmlFetcher); isDefault {
			browserFetcher := fetcher.NewBrowserFetcher(s.metadataSink, cfg.BrowserHeadless())
			browserFetcher.Init(nil)
			s.htmlFetcher = &browserFetcher
		}
	} else {
		s.htmlFetcher.Init(&http.Client{})
	}

	// 1.2.1 Resume from checkpoint, if one exists. A missing checkpoint
	// means start fresh; a corrupt or unreadable one is logged and treated
	// the same way, since checkpoint errors are never fatal to the crawl.
	s.checkpointPath = filepath.Join(cfg.OutputDir(), "crawler_state.json")
	if state, found, loadErr := checkpoint.Load(s.checkpointPath); loadErr != nil {
		s.metadataSink.RecordError(
			time.Now(),
			"checkpoint",
			"checkpoint.Load",
			metadata.CauseStorageFailure,
			loadErr.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrWritePath, s.checkpointPath),
			},
		)
	} else if found {
		for _, seenURL := range state.Visited {
			s.frontier.MarkSeen(seenURL)
		}
		s.visitedURLs = append(s.visitedURLs, state.Visited...)
		for _, queuedURL := range state.Queue {
			parsed, parseErr := url.Parse(queuedURL)
			if parseErr != nil {
				continue
			}
			s.frontier.Enqueue(frontier.NewCrawlToken(*parsed, 0))
		}
	}

	// 1.2.2 Configure the file downloader and prune any stale duplicate
	// files left on disk from a prior run before downloading anything new.
	if s.fileDownloader == nil {
		fileDownloader := downloader.NewFileDownloader(s.metadataSink)
		s.fileDownloader = &fileDownloader
	}
	downloadDir := filepath.Join(cfg.OutputDir(), "downloads")
	allowedExtensions := cfg.AllowedExtensions()
	if len(allowedExtensions) == 0 {
		allowedExtensions = downloader.DefaultAllowedExtensions
	}
	s.fileDownloader.Init(downloadDir, allowedExtensions)
	if _, dedupErr := s.fileDownloader.DeduplicateByContent(); dedupErr != nil {
		s.metadataSink.RecordError(
			time.Now(),
			"downloader",
			"FileDownloader.DeduplicateByContent",
			metadata.CauseStorageFailure,
			dedupErr.Error(),
			[]metadata.Attribute{},
		)
	}

	// 1.2.3 Link inventory is keyed off the resolved output directory, so it
	// can only be constructed once cfg is available.
	linkInventory := linkinventory.NewPageLinkInventory(cfg.OutputDir())
	s.linkInventory = &linkInventory

	// 1.3 Configure DOM Extractor with extraction parameters from config
	extractParam := extractor.ExtractParam{
		BodySpecificityBias:  cfg.BodySpecificityBias(),
		LinkDensityThreshold: cfg.LinkDensityThreshold(),
		ScoreMultiplier: extractor.ContentScoreMultiplier{
			NonWhitespaceDivisor: cfg.ScoreMultiplierNonWhitespaceDivisor(),
			Paragraphs:           cfg.ScoreMultiplierParagraphs(),
			Headings:             cfg.ScoreMultiplierHeadings(),
			CodeBlocks:           cfg.ScoreMultiplierCodeBlocks(),
			ListItems:            cfg.ScoreMultiplierListItems(),
		},
		Threshold: extractor.MeaningfulThreshold{
			MinNonWhitespace:    cfg.ThresholdMinNonWhitespace(),
			MinHeadings:         cfg.ThresholdMinHeadings(),
			MinParagraphsOrCode: cfg.ThresholdMinParagraphsOrCode(),
			MaxLinkDensity:      cfg.ThresholdMaxLinkDensity(),
		},
	}
	s.domExtractor.SetExtractParam(extractParam)

	// 2. Fetch robots.txt & decide the crawling policy for this hostname based on that
	s.currentHost = cfg.SeedURLs()[0].Host
	seedScheme := cfg.SeedURLs()[0].Scheme
	err := s.SubmitUrlForAdmission(cfg.SeedURLs()[0], frontier.SourceSeed, 0)
	if err != nil {
		// Check if this is a robots error that requires backoff
		if robotsErr, ok := err.(*robots.RobotsError); ok {
			s.recordRobotsErrorAndBackoff(robotsErr, cfg.SeedURLs()[0])
		}
		recordEmptyStats()
		cancel()
		return nil, err
	}

	// Apply rate limiting delay after successful robots check
	delay := s.rateLimiter.ResolveDelay(s.currentHost)
	s.sleeper.Sleep(delay)

	return &CrawlInitialization{
		cfg:                 cfg,
		cancel:              cancel,
		currentHost:         s.currentHost,
		seedScheme:          seedScheme,
		initialDelayApplied: true,
	}, nil
}

// ExecuteCrawlingWithState drains the frontier built up by
// InitializeCrawling, running every page through the fetch → extract →
// sanitize → convert → resolve → normalize → write pipeline until the
// frontier is empty or a fatal error aborts the crawl. Final stats are
// always recorded exactly once, however the loop ends.
//
// Current implementation uses a single recorder and single execution path.
// This does not imply a global ordering guarantee.
// TODO: In the future consider implementing global ordering guarantee
func (s *Scheduler) ExecuteCrawlingWithState(init *CrawlInitialization) (CrawlingExecution, error) {
	if init == nil {
		return CrawlingExecution{}, fmt.Errorf("scheduler: ExecuteCrawlingWithState requires a non-nil CrawlInitialization")
	}
	defer init.cancel()
	defer s.writeCheckpoint()

	cfg := init.cfg
	seedScheme := init.seedScheme

	crawlStartTime := time.Now()
	var totalErrors int
	var totalAssets int
	var pagesSinceCheckpoint int

	// Ensure final stats are recorded even if errors occur
	defer func() {
		crawlDuration := time.Since(crawlStartTime)
		totalPages := s.frontier.VisitedCount()
		s.crawlFinalizer.RecordFinalCrawlStats(
			totalPages,
			totalErrors,
			totalAssets,
			crawlDuration,
		)
	}()

	// If frontier still has URL to be crawl...
	for {
		nextCrawlToken, ok := s.frontier.Dequeue()
		if !ok {
			break
		}
		s.visitedURLs = append(s.visitedURLs, nextCrawlToken.URL().String())

		// 3. Fetch Page URL
		fetchParam := fetcher.NewFetchParam(
			nextCrawlToken.URL(),
			cfg.UserAgent(),
		)
		fetchResult, err := s.htmlFetcher.Fetch(s.ctx, nextCrawlToken.Depth(), fetchParam, RetryParam(cfg))
		if err != nil {
			if err.Severity() == failure.SeverityFatal {
				return CrawlingExecution{}, err
			}
			// recoverable → log already done → count error
			totalErrors++
			continue
		}

		// 4. Extract HTML DOM
		extractionResult, err := s.domExtractor.Extract(fetchResult.URL(), fetchResult.Body())
		if err != nil {
			if err.Severity() == failure.SeverityFatal {
				return CrawlingExecution{}, err
			}
			totalErrors++
			continue
		}

		// 5. Sanitize extracted HTML
		sanitizedHtml, err := s.htmlSanitizer.Sanitize(extractionResult.ContentNode)
		if err != nil {
			if err.Severity() == failure.SeverityFatal {
				return CrawlingExecution{}, err
			}
			totalErrors++
			continue
		}

		// 5.2 Resolve relative URLs to absolute URLs and filter by host
		discoveredURLs := sanitizedHtml.GetDiscoveredURLs()

		// 5.3 Resolve all URLs to absolute form using the seed scheme and current host
		resolvedURLs := make([]url.URL, 0, len(discoveredURLs))
		for _, u := range discoveredURLs {
			resolved := urlutil.Resolve(u, seedScheme, s.currentHost)
			resolvedURLs = append(resolvedURLs, resolved)
		}

		// 5.4 Filter to only keep URLs from the current host
		filteredURLs := urlutil.FilterByHost(s.currentHost, resolvedURLs)

		// 5.5 submit all discovered links through robots checking to frontier
		for _, discoveredurl := range filteredURLs {
			submissionErr := s.SubmitUrlForAdmission(discoveredurl, frontier.SourceCrawl, nextCrawlToken.Depth()+1)
			if submissionErr != nil {
				// Check if this is a robots error that requires backoff
				if robotsErr, ok := submissionErr.(*robots.RobotsError); ok {
					s.recordRobotsErrorAndBackoff(robotsErr, discoveredurl)
				}
				// Submission errors are scheduler-level errors, count them
				totalErrors++
				// Continue processing other URLs, don't abort the crawl
			}
		}

		// 6. HTML → Markdown Conversion
		markdownDoc, err := s.markdownConversionRule.Convert(sanitizedHtml)
		if err != nil {
			if err.Severity() == failure.SeverityFatal {
				return CrawlingExecution{}, err
			}
			totalErrors++
			continue
		}

		// 7. Assets Resolution
		resolveParam := assets.NewResolveParam(cfg.OutputDir(), cfg.MaxAssetSize(), cfg.HashAlgo())
		assetfulMarkdown, err := s.assetResolver.Resolve(
			s.ctx,
			fetchResult.URL(),
			markdownDoc,
			resolveParam,
			RetryParam(cfg),
		)
		if err != nil {
			if err.Severity() == failure.SeverityFatal {
				return CrawlingExecution{}, err
			}
			totalErrors++
			// Continue to process the markdown even if asset resolution had errors
		}
		// Count assets processed - use the actual count of successfully resolved local assets
		totalAssets += len(assetfulMarkdown.LocalAssets())

		// 8. Markdown Normalization
		normalizeParam := normalize.NewNormalizeParam(
			cfg.CrawlerVersion(),
			fetchResult.FetchedAt(),
			cfg.HashAlgo(),
			nextCrawlToken.Depth(),
			cfg.AllowedPathPrefix(),
		)
		contentSummary := normalize.NewContentSummary(
			extractor.Title(extractionResult),
			extractor.WordCount(extractionResult),
			extractor.Headings(extractionResult),
		)
		normalizedMarkdown, err := s.markdownConstraint.Normalize(fetchResult.URL(), assetfulMarkdown, normalizeParam, contentSummary)
		if err != nil {
			if err.Severity() == failure.SeverityFatal {
				return CrawlingExecution{}, err
			}
			totalErrors++
			continue
		}

		// 9. Write Artifact
		writeResult, err := s.storageSink.Write(cfg.OutputDir(), normalizedMarkdown, cfg.HashAlgo())
		if err != nil {
			if err.Severity() == failure.SeverityFatal {
				return CrawlingExecution{}, err
			}
			// recoverable → log already done → count error
			totalErrors++
			continue
		}
		s.writeResults = append(s.writeResults, writeResult)

		// 9.1 Link inventory and file downloads operate on the raw fetched
		// HTML. They run only for pages that were extracted, converted,
		// normalized and written successfully.
		rawHTML := string(fetchResult.Body())
		if s.linkInventory != nil {
			s.linkInventory.Upsert(fetchResult.URL(), rawHTML)
		}
		if cfg.DownloadFiles() && s.fileDownloader != nil {
			s.fileDownloader.DownloadAll(s.ctx, fetchResult.URL(), rawHTML)
		}

		// Apply rate limiting delay at the end of the crawl loop
		delay := s.rateLimiter.ResolveDelay(s.currentHost)
		s.sleeper.Sleep(delay)

		pagesSinceCheckpoint++
		if checkpointEvery := cfg.CheckpointEvery(); checkpointEvery > 0 && pagesSinceCheckpoint >= checkpointEvery {
			s.writeCheckpoint()
			pagesSinceCheckpoint = 0
		}
	}

	return CrawlingExecution{
		writeResults: s.writeResults,
	}, nil
}

// writeCheckpoint persists the crawl's current progress so an interrupted
// run can resume. Checkpoint errors are logged and otherwise ignored: the
// next tick (or the next run, reading a stale checkpoint) tries again.
func (s *Scheduler) writeCheckpoint() {
	if s.checkpointPath == "" {
		return
	}
	contentHashes := make([]string, 0, len(s.writeResults))
	for _, result := range s.writeResults {
		contentHashes = append(contentHashes, result.ContentHash())
	}
	state := checkpoint.NewState(s.visitedURLs, s.frontier.PendingSnapshot(), contentHashes)
	if err := checkpoint.Save(s.checkpointPath, state); err != nil {
		s.metadataSink.RecordError(
			time.Now(),
			"checkpoint",
			"checkpoint.Save",
			metadata.CauseStorageFailure,
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrWritePath, s.checkpointPath),
			},
		)
	}

	if s.linkInventory != nil {
		if err := s.linkInventory.Flush(); err != nil {
			s.metadataSink.RecordError(
				time.Now(),
				"linkinventory",
				"Inventory.Flush",
				metadata.CauseStorageFailure,
				err.Error(),
				[]metadata.Attribute{},
			)
		}
	}
}

// ExecuteCrawling is the single-call convenience wrapper around
// InitializeCrawling + ExecuteCrawlingWithState, kept for callers (and
// tests) that don't need to observe the initialization step separately.
func (s *Scheduler) ExecuteCrawling(configPath string) (CrawlingExecution, error) {
	init, err := s.InitializeCrawling(configPath)
	if err != nil {
		return CrawlingExecution{}, err
	}
	return s.ExecuteCrawlingWithState(init)
}

// recordRobotsErrorAndBackoff records a robots error using metadataSink and
// triggers exponential backoff on the rate limiter if the error cause warrants it.
// This method handles ErrCauseHttpTooManyRequests (429) and ErrCauseHttpServerError (5xx)
// by recording the error and applying backoff to the current host.
func (s *Scheduler) recordRobotsErrorAndBackoff(robotsErr *robots.RobotsError, targetURL url.URL) {
	// Only record and backoff for specific HTTP error causes
	if robotsErr.Cause == robots.ErrCauseHttpTooManyRequests ||
		robotsErr.Cause == robots.ErrCauseHttpServerError {
		s.metadataSink.RecordError(
			time.Now(),
			"scheduler",
			"SubmitUrlForAdmission",
			metadata.CauseNetworkFailure,
			robotsErr.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, targetURL.String()),
				metadata.NewAttr(metadata.AttrHost, targetURL.Host),
				metadata.NewAttr(metadata.AttrPath, targetURL.Path),
			},
		)
		if s.rateLimiter != nil {
			s.rateLimiter.Backoff(targetURL.Host)
		}
	}
}

func RetryParam(cfg config.Config) retry.RetryParam {
	return retry.NewRetryParam(
		cfg.BaseDelay(),
		cfg.Jitter(),
		cfg.RandomSeed(),
		cfg.MaxAttempt(),
		timeutil.NewBackoffParam(
			cfg.BackoffInitialDuration(),
			cfg.BackoffMultiplier(),
			cfg.BackoffMaxDuration(),
		),
	)
}

// ---------------------------------------------------------------------------
// Test Helper Methods
// These methods are exported to enable testing of SubmitUrlForAdmission()
// and other scheduler internals. They are not part of the public API.
// ---------------------------------------------------------------------------

// InitWith initializes the dependencies with the given data.
// This is a test helper method.
func (s *Scheduler) InitWith(userAgent string, baseDelay time.Duration, jitter time.Duration, randomSeed int64) {
	s.robot.Init(userAgent)
	s.rateLimiter.SetBaseDelay(baseDelay)
	s.rateLimiter.SetJitter(jitter)
	s.rateLimiter.SetRandomSeed(randomSeed)
}

// SetCurrentHost sets the current host.
// This is a test helper method to simulate the host context.
func (s *Scheduler) SetCurrentHost(host string) {
	s.currentHost = host
	// s.rateLimiter.RegisterHost(host)
}

// InitRobot initializes the robots.txt admission checker with the given
// user agent. Must be called before the first SubmitUrlForAdmission.
func (s *Scheduler) InitRobot(userAgent string) {
	s.robot.Init(userAgent)
}

// HasHostTiming reports whether host has recorded crawl-delay timing,
// i.e. whether a robots.txt crawl-delay has been observed for it.
func (s *Scheduler) HasHostTiming(host string) bool {
	_, exists := s.rateLimiter.GetHostTimings()[host]
	return exists
}

// GetHostCrawlDelay returns the crawl-delay currently recorded for host,
// or zero if none has been observed.
func (s *Scheduler) GetHostCrawlDelay(host string) time.Duration {
	timing, exists := s.rateLimiter.GetHostTimings()[host]
	if !exists {
		return 0
	}
	return timing.CrawlDelay()
}

// FrontierVisitedCount returns the number of URLs in the frontier's visited set.
// This is a test helper method to verify frontier state.
func (s *Scheduler) FrontierVisitedCount() int {
	if s.frontier == nil {
		return 0
	}
	return s.frontier.VisitedCount()
}

// DequeueFromFrontier dequeues a token from the frontier.
// This is a test helper method to verify frontier contents.
func (s *Scheduler) DequeueFromFrontier() (frontier.CrawlToken, bool) {
	if s.frontier == nil {
		return frontier.CrawlToken{}, false
	}
	return s.frontier.Dequeue()
}

// SetConvertRule sets the markdown conversion rule for testing.
// This is a test helper method to inject mock conversion rules.
func (s *Scheduler) SetConvertRule(rule mdconvert.ConvertRule) {
	s.markdownConversionRule = rule
}
