package downloader

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/fileutil"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"
)

/*
Responsibilities
- Find linked documents (PDF, DOCX, ...) on a crawled page
- Fetch and persist them under a single downloads/ directory
- Deduplicate across and within a run, and by content on demand

The downloader never parses document content; it only moves bytes.
*/

// Downloader is the Port the scheduler depends on.
type Downloader interface {
	Init(downloadDir string, allowedExtensions []string)
	DownloadAll(ctx context.Context, pageURL url.URL, html string) []DownloadResult
	DeduplicateByContent() ([]string, failure.ClassifiedError)
}

type FileDownloader struct {
	metadataSink      metadata.MetadataSink
	httpClient        *http.Client
	downloadDir       string
	allowedExtensions map[string]struct{}

	mu            sync.Mutex
	seenThisRun   map[string]struct{}
}

func NewFileDownloader(metadataSink metadata.MetadataSink) FileDownloader {
	return FileDownloader{
		metadataSink: metadataSink,
		httpClient:   &http.Client{Timeout: downloadTimeout},
		seenThisRun:  make(map[string]struct{}),
	}
}

func (d *FileDownloader) Init(downloadDir string, allowedExtensions []string) {
	d.downloadDir = downloadDir
	d.allowedExtensions = make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		d.allowedExtensions[strings.ToLower(ext)] = struct{}{}
	}
	d.seenThisRun = make(map[string]struct{})
}

// DownloadAll extracts every href from html whose extension is in the
// whitelist, resolves it against pageURL, and downloads anything not
// already present on disk or already fetched this run. Failures are
// recorded and skipped; a single bad link never aborts the page.
func (d *FileDownloader) DownloadAll(ctx context.Context, pageURL url.URL, html string) []DownloadResult {
	if d.downloadDir == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var results []DownloadResult
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}
		ref, parseErr := url.Parse(href)
		if parseErr != nil {
			return
		}
		resolved := pageURL.ResolveReference(ref)
		if !d.isEligible(*resolved) {
			return
		}

		result, downloadErr := d.downloadOne(ctx, *resolved)
		if downloadErr != nil {
			d.metadataSink.RecordError(
				time.Now(),
				"downloader",
				"FileDownloader.DownloadAll",
				metadata.CauseNetworkFailure,
				downloadErr.Error(),
				[]metadata.Attribute{
					metadata.NewAttr(metadata.AttrURL, resolved.String()),
				},
			)
			return
		}
		if result != nil {
			results = append(results, *result)
		}
	})
	return results
}

func (d *FileDownloader) isEligible(u url.URL) bool {
	ext := urlutil.Extension(u)
	if ext == "" {
		return false
	}
	_, ok := d.allowedExtensions[ext]
	return ok
}

// downloadOne returns (nil, nil) when the document was skipped because it
// was already downloaded, in this run or a previous one.
func (d *FileDownloader) downloadOne(ctx context.Context, docURL url.URL) (*DownloadResult, failure.ClassifiedError) {
	filename := urlutil.ToFilename(docURL, 100) + urlutil.Extension(docURL)
	destPath := filepath.Join(d.downloadDir, filename)

	d.mu.Lock()
	_, seen := d.seenThisRun[filename]
	d.mu.Unlock()
	if seen {
		return nil, nil
	}
	if _, statErr := os.Stat(destPath); statErr == nil {
		d.mu.Lock()
		d.seenThisRun[filename] = struct{}{}
		d.mu.Unlock()
		return nil, nil
	}

	if err := fileutil.EnsureDir(d.downloadDir); err != nil {
		return nil, &DownloadError{Message: err.Error(), Cause: ErrCauseWriteFailure, URL: docURL.String()}
	}

	reqCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, docURL.String(), nil)
	if err != nil {
		return nil, &DownloadError{Message: err.Error(), Cause: ErrCauseNetworkFailure, URL: docURL.String()}
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, &DownloadError{Message: err.Error(), Cause: ErrCauseTimeout, URL: docURL.String()}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, &DownloadError{
			Message: fmt.Sprintf("http status %d", resp.StatusCode),
			Cause:   ErrCauseNetworkFailure,
			URL:     docURL.String(),
		}
	}

	tmpPath := destPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return nil, &DownloadError{Message: err.Error(), Cause: ErrCauseWriteFailure, URL: docURL.String()}
	}

	written, copyErr := io.CopyBuffer(out, resp.Body, make([]byte, downloadChunkSize))
	out.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return nil, &DownloadError{Message: copyErr.Error(), Cause: ErrCauseWriteFailure, URL: docURL.String()}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return nil, &DownloadError{Message: err.Error(), Cause: ErrCauseWriteFailure, URL: docURL.String()}
	}

	d.mu.Lock()
	d.seenThisRun[filename] = struct{}{}
	d.mu.Unlock()

	downloadedAt := time.Now()
	d.metadataSink.RecordArtifact(
		metadata.ArtifactFile,
		destPath,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, docURL.String()),
			metadata.NewAttr(metadata.AttrWritePath, destPath),
		},
	)
	result := NewDownloadResult(docURL.String(), destPath, written, downloadedAt)
	return &result, nil
}

// DeduplicateByContent walks downloadDir, groups files by MD5 of their
// content, and removes every copy but the oldest (by modification time) in
// each group. Returns the paths removed. Called once at crawler start, per
// the teacher's cache-then-prune pattern used elsewhere in the pipeline.
func (d *FileDownloader) DeduplicateByContent() ([]string, failure.ClassifiedError) {
	if d.downloadDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(d.downloadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &DownloadError{Message: err.Error(), Cause: ErrCauseWriteFailure, URL: d.downloadDir}
	}

	type fileInfo struct {
		path    string
		modTime time.Time
	}
	byHash := make(map[string][]fileInfo)

	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".tmp") {
			continue
		}
		path := filepath.Join(d.downloadDir, entry.Name())
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		sum := md5.Sum(content)
		hash := hex.EncodeToString(sum[:])
		byHash[hash] = append(byHash[hash], fileInfo{path: path, modTime: info.ModTime()})
	}

	var removed []string
	for _, files := range byHash {
		if len(files) < 2 {
			continue
		}
		oldest := files[0]
		for _, f := range files[1:] {
			if f.modTime.Before(oldest.modTime) {
				oldest = f
			}
		}
		for _, f := range files {
			if f.path == oldest.path {
				continue
			}
			if rmErr := os.Remove(f.path); rmErr == nil {
				removed = append(removed, f.path)
			}
		}
	}
	return removed, nil
}
