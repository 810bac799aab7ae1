package storage

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/normalize"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/fileutil"
	"github.com/rohmanhakim/docs-crawler/pkg/hashutil"
	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"
	"gopkg.in/yaml.v3"
)

/*
Responsibilities
- Persist Markdown files with a front matter block
- Detect unchanged pages and skip rewriting them
- Ensure deterministic, URL-derived filenames

Output Characteristics
- Stable directory layout
- Idempotent writes: an unchanged page yields zero bytes written
- Overwrite-safe reruns via atomic rename
*/

// maxFilenameStemLen bounds the URL-derived filename stem, matching the
// downloader's asset-naming limit so page and asset names share one rule.
const maxFilenameStemLen = 100

type Sink interface {
	Write(
		outputDir string,
		normalizedDoc normalize.NormalizedMarkdownDoc,
		hashAlgo hashutil.HashAlgo,
	) (WriteResult, failure.ClassifiedError)
}

type LocalSink struct {
	metadataSink metadata.MetadataSink
}

func NewLocalSink(
	metadataSink metadata.MetadataSink,
) LocalSink {
	return LocalSink{
		metadataSink: metadataSink,
	}
}

func (s *LocalSink) Write(
	outputDir string,
	normalizedDoc normalize.NormalizedMarkdownDoc,
	hashAlgo hashutil.HashAlgo,
) (WriteResult, failure.ClassifiedError) {
	writeResult, err := write(outputDir, normalizedDoc, hashAlgo)
	if err != nil {
		var storageError *StorageError
		errors.As(err, &storageError)
		s.metadataSink.RecordError(
			time.Now(),
			"storage",
			"LocalSink.Write",
			mapStorageErrorToMetadataCause(storageError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, normalizedDoc.Frontmatter().SourceURL()),
				metadata.NewAttr(metadata.AttrWritePath, storageError.Path),
			},
		)
		return WriteResult{}, storageError
	}
	if !writeResult.WasSaved() {
		return writeResult, nil
	}
	s.metadataSink.RecordArtifact(
		metadata.ArtifactMarkdown,
		writeResult.Path(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, writeResult.Path()),
			metadata.NewAttr(metadata.AttrURL, normalizedDoc.Frontmatter().SourceURL()),
			metadata.NewAttr(metadata.AttrField, writeResult.URLHash()),
			metadata.NewAttr(metadata.AttrField, writeResult.ContentHash()),
		},
	)
	return writeResult, nil
}

// frontMatter is the on-disk shape of a page file's YAML block. Field order
// is significant: yaml.v3 marshals struct fields in declaration order, and
// that order is part of the page file format.
type frontMatter struct {
	SourceURL      string   `yaml:"source_url"`
	Title          string   `yaml:"title"`
	CrawlTimestamp string   `yaml:"crawl_timestamp"`
	ContentHash    string   `yaml:"content_hash"`
	WordCount      int      `yaml:"word_count"`
	Headings       []string `yaml:"headings,omitempty"`
}

func write(
	outputDir string,
	normalizedDoc normalize.NormalizedMarkdownDoc,
	hashAlgo hashutil.HashAlgo,
) (WriteResult, failure.ClassifiedError) {
	fm := normalizedDoc.Frontmatter()

	canonicalURL, urlErr := url.Parse(fm.CanonicalURL())
	if urlErr != nil {
		return WriteResult{}, &StorageError{
			Message:   urlErr.Error(),
			Retryable: false,
			Cause:     ErrCausePathError,
			Path:      fm.CanonicalURL(),
		}
	}

	stem := urlutil.ToFilename(*canonicalURL, maxFilenameStemLen)
	fullPath := filepath.Join(outputDir, stem+".md")

	body := normalizedDoc.Content()
	bodyHash, err := hashutil.HashBytes(body, hashAlgo)
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseHashComputationFailed,
			Path:      fullPath,
		}
	}

	// Change Detector: skip the write entirely when the stored page already
	// carries this exact body hash.
	if storedHash, found := readStoredContentHash(fullPath); found && storedHash == bodyHash {
		return NewWriteResult(stem, fullPath, bodyHash, false), nil
	}

	if err := fileutil.EnsureDir(outputDir); err != nil {
		var fileErr *fileutil.FileError
		if errors.As(err, &fileErr) {
			cause := ErrCauseWriteFailure
			retryable := false
			if fileErr.Cause == fileutil.ErrCausePathError {
				cause = ErrCausePathError
				retryable = true
			}
			return WriteResult{}, &StorageError{
				Message:   err.Error(),
				Retryable: retryable,
				Cause:     cause,
				Path:      outputDir,
			}
		}
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseWriteFailure,
			Path:      outputDir,
		}
	}

	page, err := composePage(fm, bodyHash, body)
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseWriteFailure,
			Path:      fullPath,
		}
	}

	if err := writeFileAtomic(outputDir, fullPath, page); err != nil {
		cause := ErrCauseWriteFailure
		retryable := false
		if errors.Is(err, syscall.ENOSPC) {
			cause = ErrCauseDiskFull
			retryable = true
		}
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: retryable,
			Cause:     cause,
			Path:      fullPath,
		}
	}

	return NewWriteResult(stem, fullPath, bodyHash, true), nil
}

// composePage serializes the front matter block and body into the final
// page file bytes: a YAML block delimited by "---" lines, a blank line,
// then the body verbatim.
func composePage(fm normalize.Frontmatter, bodyHash string, body []byte) ([]byte, error) {
	headings := fm.Headings()
	if len(headings) > 10 {
		headings = nil
	}

	yamlBytes, err := yaml.Marshal(frontMatter{
		SourceURL:      fm.SourceURL(),
		Title:          fm.Title(),
		CrawlTimestamp: fm.FetchedAt().UTC().Format(time.RFC3339),
		ContentHash:    bodyHash,
		WordCount:      fm.WordCount(),
		Headings:       headings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// readStoredContentHash reads the content_hash recorded in an existing page
// file's front matter. It returns found=false whenever the file is absent
// or its front matter can't be parsed, which is treated as "changed" by the
// caller and triggers a fresh write.
func readStoredContentHash(path string) (hash string, found bool) {
	existing, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	if !bytes.HasPrefix(existing, []byte("---\n")) {
		return "", false
	}
	rest := existing[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---\n"))
	if end < 0 {
		return "", false
	}

	var stored struct {
		ContentHash string `yaml:"content_hash"`
	}
	if err := yaml.Unmarshal(rest[:end], &stored); err != nil {
		return "", false
	}
	return stored.ContentHash, true
}

// writeFileAtomic stages content in a temp file alongside dest, then
// replaces dest in one rename so a crawl interrupted mid-write never
// leaves a partial page file behind.
func writeFileAtomic(dir string, dest string, content []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*.md")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	os.Remove(dest)
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
