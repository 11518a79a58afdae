package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"xid/pkg/logger"
)

// copyBufferSize bounds memory use while streaming image bytes to disk.
const copyBufferSize = 8 * 1024

// DownloadError describes a failed image download. It carries both the URL
// the caller asked for and the full-quality URL actually requested.
type DownloadError struct {
	OriginalURL string
	FetchURL    string
	Cause       error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed (original %s, fetched %s): %v", e.OriginalURL, e.FetchURL, e.Cause)
}

func (e *DownloadError) Unwrap() error {
	return e.Cause
}

// Fetcher downloads images to local files
type Fetcher struct {
	httpClient *http.Client
	logger     logger.Logger
}

// NewFetcher creates a new image fetcher
func NewFetcher(timeout time.Duration, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// Fetch downloads the full-quality version of imageURL to destPath,
// streaming the body in fixed-size chunks. The file at destPath is
// overwritten. No retries are attempted.
func (f *Fetcher) Fetch(ctx context.Context, imageURL, destPath string) error {
	fetchURL := FullQualityURL(imageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return &DownloadError{OriginalURL: imageURL, FetchURL: fetchURL, Cause: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logFailure(imageURL, fetchURL, err)
		return &DownloadError{OriginalURL: imageURL, FetchURL: fetchURL, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		f.logFailure(imageURL, fetchURL, err)
		return &DownloadError{OriginalURL: imageURL, FetchURL: fetchURL, Cause: err}
	}

	out, err := os.Create(destPath)
	if err != nil {
		return &DownloadError{OriginalURL: imageURL, FetchURL: fetchURL, Cause: err}
	}

	buf := make([]byte, copyBufferSize)
	_, copyErr := io.CopyBuffer(out, resp.Body, buf)
	closeErr := out.Close()

	if copyErr != nil {
		os.Remove(destPath)
		f.logFailure(imageURL, fetchURL, copyErr)
		return &DownloadError{OriginalURL: imageURL, FetchURL: fetchURL, Cause: copyErr}
	}
	if closeErr != nil {
		os.Remove(destPath)
		return &DownloadError{OriginalURL: imageURL, FetchURL: fetchURL, Cause: closeErr}
	}

	f.logger.DebugWithFields("image downloaded", map[string]interface{}{
		"url":  fetchURL,
		"path": destPath,
	})

	return nil
}

func (f *Fetcher) logFailure(originalURL, fetchURL string, err error) {
	f.logger.ErrorWithFields("error downloading image", map[string]interface{}{
		"original_url": originalURL,
		"fetch_url":    fetchURL,
		"error":        err.Error(),
	})
}
