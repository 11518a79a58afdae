package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xid/pkg/logger"
)

func TestFetcherFetch(t *testing.T) {
	imageData := []byte("fake jpeg bytes")

	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Write(imageData)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, logger.NewNopLogger())
	dest := filepath.Join(t.TempDir(), "photo.jpg")

	// The size suffix must be stripped before the request goes out.
	err := fetcher.Fetch(context.Background(), server.URL+"/media/photo.jpg:large", dest)
	require.NoError(t, err)
	assert.Equal(t, "/media/photo.jpg", requestedPath)

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, imageData, content)
}

func TestFetcherFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, logger.NewNopLogger())
	dest := filepath.Join(t.TempDir(), "photo.jpg")

	originalURL := server.URL + "/media/photo.jpg:small"
	err := fetcher.Fetch(context.Background(), originalURL, dest)
	require.Error(t, err)

	var dlErr *DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Equal(t, originalURL, dlErr.OriginalURL)
	assert.Equal(t, server.URL+"/media/photo.jpg", dlErr.FetchURL)
	assert.Error(t, dlErr.Cause)

	// No file left behind on failure
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetcherFetchTransportError(t *testing.T) {
	fetcher := NewFetcher(time.Second, logger.NewNopLogger())
	dest := filepath.Join(t.TempDir(), "photo.jpg")

	err := fetcher.Fetch(context.Background(), "http://127.0.0.1:1/photo.jpg", dest)
	require.Error(t, err)

	var dlErr *DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Equal(t, "http://127.0.0.1:1/photo.jpg", dlErr.FetchURL)
}

func TestFetcherOverwritesExistingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("new content"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(dest, []byte("old content"), 0644))

	fetcher := NewFetcher(5*time.Second, logger.NewNopLogger())
	require.NoError(t, fetcher.Fetch(context.Background(), server.URL+"/photo.jpg", dest))

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("new content"), content)
}
