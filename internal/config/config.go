package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/rohmanhakim/docs-crawler/pkg/hashutil"
	"gopkg.in/yaml.v3"
)

type FetcherBackend string

const (
	FetcherBackendHTTP    FetcherBackend = "http"
	FetcherBackendBrowser FetcherBackend = "browser"
)

type LogFormat string

const (
	LogFormatLogfmt LogFormat = "logfmt"
	LogFormatJSON   LogFormat = "json"
)

type Config struct {
	//===============
	//  Crawl scope
	//===============
	// Initial pages to give to the crawler to begin discovering and traversing other pages.
	seedURLs []url.URL
	// Whitelisted hostname. When left empty, Build fills it with the seed URLs' hosts
	allowedHosts map[string]struct{}
	// Which URL path segments are permitted to be fetched and traversed, even if the links are on the same domain
	allowedPathPrefix []string
	// Path patterns excluded from traversal even if allowed by prefix (e.g. "/search", "*.zip")
	excludedPatterns []string

	//===============
	// Limits
	//===============
	// Maximum number of hyperlink hops from a seed (root) URL
	maxDepth int
	// Maximum number of total documents are allowed to be fetched
	maxPages int

	//===============
	// Politeness
	//===============
	// Maximum number of crawl worker goroutines processing URLs concurrently;
	// it does not control OS threads or CPU parallelism.
	concurrency int
	// Minimum, fixed waiting time you enforce between two HTTP requests to the same host.
	baseDelay time.Duration
	// Randomized variation added on top of the base delay.
	// Intentional randomness applied to timing.
	jitter time.Duration
	// Controls the random number generator
	randomSeed int64
	// maximum attempt during retry
	maxAttempt int
	// initial delay for backoff
	backoffInitialDuration time.Duration
	// multiplier during exponential backoff
	backoffMultiplier float64
	// capped maximum delay for backoff to stop exponential multiplication
	backoffMaxDuration time.Duration
	// whether robots.txt directives are honored; disabling is for controlled
	// environments only (e.g. crawling a site the operator owns)
	respectRobots bool

	//===============
	// Fetch
	//===============
	// Maximum time of a single fetch request in millisecond
	timeout time.Duration
	// User agent that will be used in the request header. In raw string
	userAgent string
	// Which fetch backend retrieves page bytes: plain HTTP or a headless browser
	fetcherBackend FetcherBackend
	// Whether the headless browser backend runs without a visible window
	browserHeadless bool

	//===============
	// Output
	//===============
	// Root directory in which to store the resulting markdown files
	outputDir string
	// Whether the program will simulates what it would do without
	// actually performing any irreversible or side-effecting actions
	dryRun bool
	// Hash algorithm used for content-change detection and docIDs
	hashAlgo hashutil.HashAlgo
	// Maximum size in bytes an individual asset may be before it is rejected
	maxAssetSize int64
	// Whether linked non-HTML files (PDF, DOCX, ...) are downloaded to disk
	downloadFiles bool
	// File extensions eligible for download when downloadFiles is enabled
	allowedExtensions []string
	// Number of pages between checkpoint writes of crawl state to disk
	checkpointEvery int
	// Output encoding for structured logs: "logfmt" or "json"
	logFormat LogFormat
	// Version string stamped into written frontmatter
	crawlerVersion string

	//===============
	// Extraction
	//===============
	// BodySpecificityBias is the threshold for preferring a child container over <body>.
	// If a child node's score is >= BodySpecificityBias * bodyScore, the child is preferred.
	// Default: 0.75 (75%)
	bodySpecificityBias float64
	// LinkDensityThreshold is the maximum ratio of link text to total text before
	// applying a penalty. Higher values allow more link-heavy content.
	// Default: 0.80 (80%)
	linkDensityThreshold float64
	// ScoreMultiplierNonWhitespaceDivisor is the divisor for calculating text score.
	// Score gets +1 point per NonWhitespaceDivisor characters.
	// Default: 50.0
	scoreMultiplierNonWhitespaceDivisor float64
	// ScoreMultiplierParagraphs is the score multiplier for each paragraph element.
	// Default: 5.0
	scoreMultiplierParagraphs float64
	// ScoreMultiplierHeadings is the score multiplier for each heading element (h1-h3).
	// Default: 10.0
	scoreMultiplierHeadings float64
	// ScoreMultiplierCodeBlocks is the score multiplier for each code block.
	// Default: 15.0
	scoreMultiplierCodeBlocks float64
	// ScoreMultiplierListItems is the score multiplier for each list item.
	// Default: 2.0
	scoreMultiplierListItems float64
	// ThresholdMinNonWhitespace is the minimum number of non-whitespace characters
	// required for content to be considered meaningful.
	// Default: 50
	thresholdMinNonWhitespace int
	// ThresholdMinHeadings is the minimum number of headings required.
	// Headings are optional but valuable.
	// Default: 0
	thresholdMinHeadings int
	// ThresholdMinParagraphsOrCode is the minimum number of paragraphs OR code blocks
	// required for content to be considered meaningful.
	// Default: 1
	thresholdMinParagraphsOrCode int
	// ThresholdMaxLinkDensity is the maximum ratio of link text to total text before
	// content is considered navigation-only and rejected.
	// Default: 0.8 (80%)
	thresholdMaxLinkDensity float64
}

type configDTO struct {
	SeedURLs               []url.URL           `yaml:"seedUrls"`
	AllowedHosts           map[string]struct{} `yaml:"allowedHosts,omitempty"`
	AllowedPathPrefix      []string            `yaml:"allowedPathPrefix,omitempty"`
	ExcludedPatterns       []string            `yaml:"excludedPatterns,omitempty"`
	MaxDepth               int                 `yaml:"maxDepth,omitempty"`
	MaxPages               int                 `yaml:"maxPages,omitempty"`
	Concurrency            int                 `yaml:"concurrency,omitempty"`
	BaseDelay              time.Duration       `yaml:"baseDelay,omitempty"`
	Jitter                 time.Duration       `yaml:"jitter,omitempty"`
	RandomSeed             int64               `yaml:"randomSeed,omitempty"`
	MaxAttempt             int                 `yaml:"maxAttempt,omitempty"`
	BackoffInitialDuration time.Duration       `yaml:"backoffInitialDuration,omitempty"`
	BackoffMultiplier      float64             `yaml:"backoffMultiplier,omitempty"`
	BackoffMaxDuration     time.Duration       `yaml:"backoffMaxDuration,omitempty"`
	RespectRobots          *bool               `yaml:"respectRobots,omitempty"`
	Timeout                time.Duration       `yaml:"timeout,omitempty"`
	UserAgent              string              `yaml:"userAgent,omitempty"`
	FetcherBackend         FetcherBackend      `yaml:"fetcherBackend,omitempty"`
	BrowserHeadless        *bool               `yaml:"browserHeadless,omitempty"`
	OutputDir              string              `yaml:"outputDir,omitempty"`
	DryRun                 bool                `yaml:"dryRun,omitempty"`
	HashAlgo               hashutil.HashAlgo   `yaml:"hashAlgo,omitempty"`
	MaxAssetSize           int64               `yaml:"maxAssetSize,omitempty"`
	DownloadFiles          bool                `yaml:"downloadFiles,omitempty"`
	AllowedExtensions      []string            `yaml:"allowedExtensions,omitempty"`
	CheckpointEvery        int                 `yaml:"checkpointEvery,omitempty"`
	LogFormat              LogFormat           `yaml:"logFormat,omitempty"`
	CrawlerVersion         string              `yaml:"crawlerVersion,omitempty"`
	// Extraction parameters
	BodySpecificityBias                 float64 `yaml:"bodySpecificityBias,omitempty"`
	LinkDensityThreshold                float64 `yaml:"linkDensityThreshold,omitempty"`
	ScoreMultiplierNonWhitespaceDivisor  float64 `yaml:"scoreMultiplierNonWhitespaceDivisor,omitempty"`
	ScoreMultiplierParagraphs            float64 `yaml:"scoreMultiplierParagraphs,omitempty"`
	ScoreMultiplierHeadings              float64 `yaml:"scoreMultiplierHeadings,omitempty"`
	ScoreMultiplierCodeBlocks            float64 `yaml:"scoreMultiplierCodeBlocks,omitempty"`
	ScoreMultiplierListItems             float64 `yaml:"scoreMultiplierListItems,omitempty"`
	ThresholdMinNonWhitespace            int     `yaml:"thresholdMinNonWhitespace,omitempty"`
	ThresholdMinHeadings                 int     `yaml:"thresholdMinHeadings,omitempty"`
	ThresholdMinParagraphsOrCode         int     `yaml:"thresholdMinParagraphsOrCode,omitempty"`
	ThresholdMaxLinkDensity              float64 `yaml:"thresholdMaxLinkDensity,omitempty"`
}

// applyIfNonZero copies value into *dst unless value is its type's zero
// value, so a config file only overrides the fields it actually sets.
func applyIfNonZero[T comparable](dst *T, value T) {
	var zero T
	if value != zero {
		*dst = value
	}
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg, err := WithDefault(dto.SeedURLs).Build()
	if err != nil {
		return Config{}, err
	}

	// AllowedHosts can be empty - if so, default to seed URLs hostnames
	if len(dto.AllowedHosts) > 0 {
		cfg.allowedHosts = dto.AllowedHosts
	}

	// AllowedPathPrefix and ExcludedPatterns are always taken from the DTO,
	// even when empty, since an empty list is itself a meaningful override.
	cfg.allowedPathPrefix = dto.AllowedPathPrefix
	cfg.excludedPatterns = dto.ExcludedPatterns

	applyIfNonZero(&cfg.maxDepth, dto.MaxDepth)
	applyIfNonZero(&cfg.maxPages, dto.MaxPages)
	applyIfNonZero(&cfg.concurrency, dto.Concurrency)
	applyIfNonZero(&cfg.baseDelay, dto.BaseDelay)
	applyIfNonZero(&cfg.jitter, dto.Jitter)
	applyIfNonZero(&cfg.randomSeed, dto.RandomSeed)
	applyIfNonZero(&cfg.maxAttempt, dto.MaxAttempt)
	applyIfNonZero(&cfg.backoffInitialDuration, dto.BackoffInitialDuration)
	applyIfNonZero(&cfg.backoffMultiplier, dto.BackoffMultiplier)
	applyIfNonZero(&cfg.backoffMaxDuration, dto.BackoffMaxDuration)
	if dto.RespectRobots != nil {
		cfg.respectRobots = *dto.RespectRobots
	}

	applyIfNonZero(&cfg.timeout, dto.Timeout)
	applyIfNonZero(&cfg.userAgent, dto.UserAgent)
	applyIfNonZero(&cfg.fetcherBackend, dto.FetcherBackend)
	if dto.BrowserHeadless != nil {
		cfg.browserHeadless = *dto.BrowserHeadless
	}
	applyIfNonZero(&cfg.outputDir, dto.OutputDir)
	// DryRun is taken as-is: its bool zero value (false) is itself meaningful.
	cfg.dryRun = dto.DryRun
	applyIfNonZero(&cfg.hashAlgo, dto.HashAlgo)
	applyIfNonZero(&cfg.maxAssetSize, dto.MaxAssetSize)
	cfg.downloadFiles = dto.DownloadFiles
	if len(dto.AllowedExtensions) > 0 {
		cfg.allowedExtensions = dto.AllowedExtensions
	}
	applyIfNonZero(&cfg.checkpointEvery, dto.CheckpointEvery)
	applyIfNonZero(&cfg.logFormat, dto.LogFormat)
	applyIfNonZero(&cfg.crawlerVersion, dto.CrawlerVersion)

	applyIfNonZero(&cfg.bodySpecificityBias, dto.BodySpecificityBias)
	applyIfNonZero(&cfg.linkDensityThreshold, dto.LinkDensityThreshold)
	applyIfNonZero(&cfg.scoreMultiplierNonWhitespaceDivisor, dto.ScoreMultiplierNonWhitespaceDivisor)
	applyIfNonZero(&cfg.scoreMultiplierParagraphs, dto.ScoreMultiplierParagraphs)
	applyIfNonZero(&cfg.scoreMultiplierHeadings, dto.ScoreMultiplierHeadings)
	applyIfNonZero(&cfg.scoreMultiplierCodeBlocks, dto.ScoreMultiplierCodeBlocks)
	applyIfNonZero(&cfg.scoreMultiplierListItems, dto.ScoreMultiplierListItems)
	applyIfNonZero(&cfg.thresholdMinNonWhitespace, dto.ThresholdMinNonWhitespace)
	// ThresholdMinHeadings can validly be 0, so it's taken as-is rather than
	// gated on non-zero.
	cfg.thresholdMinHeadings = dto.ThresholdMinHeadings
	applyIfNonZero(&cfg.thresholdMinParagraphsOrCode, dto.ThresholdMinParagraphsOrCode)
	applyIfNonZero(&cfg.thresholdMaxLinkDensity, dto.ThresholdMaxLinkDensity)

	return cfg, nil
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = yaml.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	cfg, err := newConfigFromDTO(cfgDTO)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefault creates a new Config with the provided seed URLs and default values for all other fields.
// seedUrls is mandatory and must not be empty - an error will be returned if it is.
func WithDefault(seedUrls []url.URL) *Config {
	defaultConfig := Config{
		seedURLs:     seedUrls,
		allowedHosts: map[string]struct{}{},
		allowedPathPrefix: []string{
			"/",
		},
		excludedPatterns:       []string{},
		maxDepth:               3,
		maxPages:               100,
		concurrency:            10,
		baseDelay:              time.Second,
		jitter:                 time.Millisecond * 500,
		randomSeed:             time.Now().UnixNano(),
		maxAttempt:             10,
		backoffInitialDuration: 100 * time.Millisecond,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     10 * time.Second,
		respectRobots:          true,
		timeout:                time.Second * 10,
		userAgent:              "docs-crawler/1.0",
		fetcherBackend:         FetcherBackendHTTP,
		browserHeadless:        true,
		outputDir:              "output",
		dryRun:                 false,
		hashAlgo:               hashutil.HashAlgoSHA256,
		maxAssetSize:           10 * 1024 * 1024,
		downloadFiles:          false,
		allowedExtensions:      []string{".pdf", ".docx", ".doc", ".pptx", ".xlsx", ".csv", ".zip"},
		checkpointEvery:        20,
		logFormat:              LogFormatLogfmt,
		crawlerVersion:         "docs-crawler/1.0",
		// Extraction defaults
		bodySpecificityBias:                 0.75,
		linkDensityThreshold:                0.80,
		scoreMultiplierNonWhitespaceDivisor: 50.0,
		scoreMultiplierParagraphs:           5.0,
		scoreMultiplierHeadings:             10.0,
		scoreMultiplierCodeBlocks:           15.0,
		scoreMultiplierListItems:            2.0,
		thresholdMinNonWhitespace:           50,
		thresholdMinHeadings:                0,
		thresholdMinParagraphsOrCode:        1,
		thresholdMaxLinkDensity:             0.8,
	}
	return &defaultConfig
}

func (c *Config) WithSeedUrls(urls []url.URL) *Config {
	c.seedURLs = urls
	return c
}

func (c *Config) WithAllowedHosts(hosts map[string]struct{}) *Config {
	c.allowedHosts = hosts
	return c
}

func (c *Config) WithAllowedPathPrefix(prefixes []string) *Config {
	c.allowedPathPrefix = prefixes
	return c
}

func (c *Config) WithExcludedPatterns(patterns []string) *Config {
	c.excludedPatterns = patterns
	return c
}

func (c *Config) WithMaxDepth(depth int) *Config {
	c.maxDepth = depth
	return c
}

func (c *Config) WithMaxPages(pages int) *Config {
	c.maxPages = pages
	return c
}

func (c *Config) WithConcurrency(concurrency int) *Config {
	c.concurrency = concurrency
	return c
}

func (c *Config) WithBaseDelay(delay time.Duration) *Config {
	c.baseDelay = delay
	return c
}

func (c *Config) WithJitter(jitter time.Duration) *Config {
	c.jitter = jitter
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithMaxAttempt(attempts int) *Config {
	c.maxAttempt = attempts
	return c
}

func (c *Config) WithBackoffInitialDuration(duration time.Duration) *Config {
	c.backoffInitialDuration = duration
	return c
}

func (c *Config) WithBackoffMultiplier(multiplier float64) *Config {
	c.backoffMultiplier = multiplier
	return c
}

func (c *Config) WithBackoffMaxDuration(duration time.Duration) *Config {
	c.backoffMaxDuration = duration
	return c
}

func (c *Config) WithRespectRobots(respect bool) *Config {
	c.respectRobots = respect
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithFetcherBackend(backend FetcherBackend) *Config {
	c.fetcherBackend = backend
	return c
}

func (c *Config) WithBrowserHeadless(headless bool) *Config {
	c.browserHeadless = headless
	return c
}

func (c *Config) WithOutputDir(outputDir string) *Config {
	c.outputDir = outputDir
	return c
}

func (c *Config) WithDryRun(dryRun bool) *Config {
	c.dryRun = dryRun
	return c
}

func (c *Config) WithHashAlgo(algo hashutil.HashAlgo) *Config {
	c.hashAlgo = algo
	return c
}

func (c *Config) WithMaxAssetSize(maxBytes int64) *Config {
	c.maxAssetSize = maxBytes
	return c
}

func (c *Config) WithDownloadFiles(download bool) *Config {
	c.downloadFiles = download
	return c
}

func (c *Config) WithAllowedExtensions(extensions []string) *Config {
	c.allowedExtensions = extensions
	return c
}

func (c *Config) WithCheckpointEvery(pages int) *Config {
	c.checkpointEvery = pages
	return c
}

func (c *Config) WithLogFormat(format LogFormat) *Config {
	c.logFormat = format
	return c
}

func (c *Config) WithCrawlerVersion(version string) *Config {
	c.crawlerVersion = version
	return c
}

func (c *Config) WithBodySpecificityBias(bias float64) *Config {
	c.bodySpecificityBias = bias
	return c
}

func (c *Config) WithLinkDensityThreshold(threshold float64) *Config {
	c.linkDensityThreshold = threshold
	return c
}

func (c *Config) WithScoreMultiplierNonWhitespaceDivisor(divisor float64) *Config {
	c.scoreMultiplierNonWhitespaceDivisor = divisor
	return c
}

func (c *Config) WithScoreMultiplierParagraphs(multiplier float64) *Config {
	c.scoreMultiplierParagraphs = multiplier
	return c
}

func (c *Config) WithScoreMultiplierHeadings(multiplier float64) *Config {
	c.scoreMultiplierHeadings = multiplier
	return c
}

func (c *Config) WithScoreMultiplierCodeBlocks(multiplier float64) *Config {
	c.scoreMultiplierCodeBlocks = multiplier
	return c
}

func (c *Config) WithScoreMultiplierListItems(multiplier float64) *Config {
	c.scoreMultiplierListItems = multiplier
	return c
}

func (c *Config) WithThresholdMinNonWhitespace(min int) *Config {
	c.thresholdMinNonWhitespace = min
	return c
}

func (c *Config) WithThresholdMinHeadings(min int) *Config {
	c.thresholdMinHeadings = min
	return c
}

func (c *Config) WithThresholdMinParagraphsOrCode(min int) *Config {
	c.thresholdMinParagraphsOrCode = min
	return c
}

func (c *Config) WithThresholdMaxLinkDensity(max float64) *Config {
	c.thresholdMaxLinkDensity = max
	return c
}

func (c *Config) Build() (Config, error) {
	if len(c.seedURLs) == 0 {
		return Config{}, fmt.Errorf("%w: seedUrls cannot be empty", ErrInvalidConfig)
	}

	// If allowedHosts is empty, default to seed URLs hostnames
	if len(c.allowedHosts) == 0 {
		c.allowedHosts = make(map[string]struct{})
		for _, u := range c.seedURLs {
			if u.Host != "" {
				c.allowedHosts[u.Host] = struct{}{}
			}
		}
	}

	return *c, nil
}

func (c Config) SeedURLs() []url.URL {
	urls := make([]url.URL, len(c.seedURLs))
	copy(urls, c.seedURLs)
	return urls
}

func (c Config) AllowedHosts() map[string]struct{} {
	hosts := make(map[string]struct{})
	for k, v := range c.allowedHosts {
		hosts[k] = v
	}
	return hosts
}

func (c Config) AllowedPathPrefix() []string {
	prefixes := make([]string, len(c.allowedPathPrefix))
	copy(prefixes, c.allowedPathPrefix)
	return prefixes
}

func (c Config) ExcludedPatterns() []string {
	patterns := make([]string, len(c.excludedPatterns))
	copy(patterns, c.excludedPatterns)
	return patterns
}

func (c Config) MaxDepth() int {
	return c.maxDepth
}

func (c Config) MaxPages() int {
	return c.maxPages
}

func (c Config) Concurrency() int {
	return c.concurrency
}

func (c Config) BaseDelay() time.Duration {
	return c.baseDelay
}

func (c Config) Jitter() time.Duration {
	return c.jitter
}

func (c Config) RandomSeed() int64 {
	return c.randomSeed
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) FetcherBackend() FetcherBackend {
	return c.fetcherBackend
}

func (c Config) BrowserHeadless() bool {
	return c.browserHeadless
}

func (c Config) OutputDir() string {
	return c.outputDir
}

func (c Config) DryRun() bool {
	return c.dryRun
}

func (c Config) HashAlgo() hashutil.HashAlgo {
	return c.hashAlgo
}

func (c Config) MaxAssetSize() int64 {
	return c.maxAssetSize
}

func (c Config) DownloadFiles() bool {
	return c.downloadFiles
}

func (c Config) AllowedExtensions() []string {
	extensions := make([]string, len(c.allowedExtensions))
	copy(extensions, c.allowedExtensions)
	return extensions
}

func (c Config) CheckpointEvery() int {
	return c.checkpointEvery
}

func (c Config) LogFormat() LogFormat {
	return c.logFormat
}

func (c Config) CrawlerVersion() string {
	return c.crawlerVersion
}

func (c Config) RespectRobots() bool {
	return c.respectRobots
}

func (c Config) MaxAttempt() int {
	return c.maxAttempt
}

func (c Config) BackoffInitialDuration() time.Duration {
	return c.backoffInitialDuration
}

func (c Config) BackoffMultiplier() float64 {
	return c.backoffMultiplier
}

func (c Config) BackoffMaxDuration() time.Duration {
	return c.backoffMaxDuration
}

func (c Config) BodySpecificityBias() float64 {
	return c.bodySpecificityBias
}

func (c Config) LinkDensityThreshold() float64 {
	return c.linkDensityThreshold
}

func (c Config) ScoreMultiplierNonWhitespaceDivisor() float64 {
	return c.scoreMultiplierNonWhitespaceDivisor
}

func (c Config) ScoreMultiplierParagraphs() float64 {
	return c.scoreMultiplierParagraphs
}

func (c Config) ScoreMultiplierHeadings() float64 {
	return c.scoreMultiplierHeadings
}

func (c Config) ScoreMultiplierCodeBlocks() float64 {
	return c.scoreMultiplierCodeBlocks
}

func (c Config) ScoreMultiplierListItems() float64 {
	return c.scoreMultiplierListItems
}

func (c Config) ThresholdMinNonWhitespace() int {
	return c.thresholdMinNonWhitespace
}

func (c Config) ThresholdMinHeadings() int {
	return c.thresholdMinHeadings
}

func (c Config) ThresholdMinParagraphsOrCode() int {
	return c.thresholdMinParagraphsOrCode
}

func (c Config) ThresholdMaxLinkDensity() float64 {
	return c.thresholdMaxLinkDensity
}
