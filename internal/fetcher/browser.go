package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/retry"
)

/*
Responsibilities

- Render a page in a headless Chrome instance so JavaScript-driven content
  resolves before extraction sees it
- Wait for the DOM to settle, then hand back the rendered HTML
- Bound the number of concurrently running browser tabs; chromedp contexts
  are comparatively expensive next to a plain HTTP round trip

BrowserFetcher never parses content; like HtmlFetcher it only returns bytes
and metadata. Init(httpClient) is accepted to satisfy the Fetcher port but
unused: chromedp owns its own network stack.
*/

const (
	browserNavigationTimeout = 30 * time.Second
	browserScrollSettleWait  = 300 * time.Millisecond
	browserMaxScrollRounds   = 5
	defaultBrowserConcurrency = 3
)

type BrowserFetcher struct {
	metadataSink metadata.MetadataSink
	allocCtx     context.Context
	allocCancel  context.CancelFunc
	semaphore    chan struct{}

	initOnce sync.Once
	headless bool
}

func NewBrowserFetcher(metadataSink metadata.MetadataSink, headless bool) BrowserFetcher {
	return BrowserFetcher{
		metadataSink: metadataSink,
		headless:     headless,
		semaphore:    make(chan struct{}, defaultBrowserConcurrency),
	}
}

func (b *BrowserFetcher) Init(_ *http.Client) {
	b.initOnce.Do(func() {
		opts := append(
			chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", b.headless),
		)
		b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	})
}

func (b *BrowserFetcher) Close() {
	if b.allocCancel != nil {
		b.allocCancel()
	}
}

func (b *BrowserFetcher) Fetch(
	ctx context.Context,
	crawlDepth int,
	fetchParam FetchParam,
	retryParam retry.RetryParam,
) (FetchResult, failure.ClassifiedError) {
	callerMethod := "BrowserFetcher.Fetch"
	startTime := time.Now()

	fetchTask := func() (FetchResult, failure.ClassifiedError) {
		return b.render(ctx, fetchParam)
	}

	retried := retry.Retry(retryParam, fetchTask)
	result, err := retried.Value(), retried.Err()
	duration := time.Since(startTime)

	var statusCode int
	var contentType string
	if err == nil {
		statusCode = result.Code()
		contentType = "text/html"
	}

	b.metadataSink.RecordFetch(
		fetchParam.fetchUrl.String(),
		statusCode,
		duration,
		contentType,
		0,
		crawlDepth,
	)

	if err != nil {
		var fetchErr *FetchError
		if castErr, ok := err.(*FetchError); ok {
			fetchErr = castErr
		}
		if fetchErr != nil {
			b.metadataSink.RecordError(
				time.Now(),
				"fetcher",
				callerMethod,
				mapFetchErrorToMetadataCause(fetchErr),
				err.Error(),
				[]metadata.Attribute{
					metadata.NewAttr(metadata.AttrURL, fetchParam.fetchUrl.String()),
				},
			)
		}
		return FetchResult{}, err
	}

	return result, nil
}

// render drives a single headless tab through navigation, a bounded scroll
// loop to trigger lazy-loaded content, and an outer-HTML capture.
func (b *BrowserFetcher) render(ctx context.Context, fetchParam FetchParam) (FetchResult, failure.ClassifiedError) {
	if b.allocCtx == nil {
		b.Init(nil)
	}

	select {
	case b.semaphore <- struct{}{}:
		defer func() { <-b.semaphore }()
	case <-ctx.Done():
		return FetchResult{}, &FetchError{
			Message:   "context cancelled while waiting for browser slot",
			Retryable: true,
			Cause:     ErrCauseTimeout,
		}
	}

	tabCtx, tabCancel := chromedp.NewContext(b.allocCtx)
	defer tabCancel()

	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, browserNavigationTimeout)
	defer timeoutCancel()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(fetchParam.fetchUrl.String()),
		chromedp.WaitReady("body", chromedp.ByQuery),
		b.scrollUntilSettled(),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("chromedp render failed: %v", err),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	}

	// chromedp hands back rendered DOM, not a transport response; a
	// navigation that completes without error is treated as a 200.
	result := FetchResult{
		url:       fetchParam.fetchUrl,
		body:      []byte(html),
		fetchedAt: time.Now(),
		meta: ResponseMeta{
			statusCode:      http.StatusOK,
			responseHeaders: map[string]string{"Content-Type": "text/html"},
		},
	}
	return result, nil
}

// scrollUntilSettled scrolls to the bottom of the page in short bursts so
// infinite-scroll and lazy-image content has a chance to load, stopping
// early once the page height stops growing.
func (b *BrowserFetcher) scrollUntilSettled() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var previousHeight int64
		var scrollResult int64
		for round := 0; round < browserMaxScrollRounds; round++ {
			var height int64
			if err := chromedp.Evaluate(`document.body.scrollHeight`, &height).Do(ctx); err != nil {
				return err
			}
			if height == previousHeight {
				return nil
			}
			previousHeight = height

			if err := chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, &scrollResult).Do(ctx); err != nil {
				return err
			}
			select {
			case <-time.After(browserScrollSettleWait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
}

var _ Fetcher = (*BrowserFetcher)(nil)
