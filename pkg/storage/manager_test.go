package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTweetFolderNaming(t *testing.T) {
	manager, err := NewManager(t.TempDir())
	require.NoError(t, err)

	createdAt := time.Date(2025, 1, 15, 9, 5, 3, 0, time.UTC)
	folder, err := manager.TweetFolder("1001", createdAt)
	require.NoError(t, err)

	assert.Equal(t, "20250115_090503", filepath.Base(folder))

	info, err := os.Stat(folder)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestTweetFolderIdempotent(t *testing.T) {
	manager, err := NewManager(t.TempDir())
	require.NoError(t, err)

	createdAt := time.Date(2025, 1, 15, 9, 5, 3, 0, time.UTC)
	folder, err := manager.TweetFolder("1001", createdAt)
	require.NoError(t, err)

	// Put a file in the folder, then ask for the folder again.
	marker := filepath.Join(folder, "existing.jpg")
	require.NoError(t, os.WriteFile(marker, []byte("data"), 0644))

	again, err := manager.TweetFolder("1001", createdAt)
	require.NoError(t, err)
	assert.Equal(t, folder, again)

	// Contents survive
	content, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), content)
}

func TestTweetFolderSameSecondCollision(t *testing.T) {
	manager, err := NewManager(t.TempDir())
	require.NoError(t, err)

	createdAt := time.Date(2025, 1, 15, 9, 5, 3, 0, time.UTC)

	first, err := manager.TweetFolder("1001", createdAt)
	require.NoError(t, err)
	second, err := manager.TweetFolder("1002", createdAt)
	require.NoError(t, err)

	assert.Equal(t, "20250115_090503", filepath.Base(first))
	assert.Equal(t, "20250115_090503_2", filepath.Base(second))
	assert.NotEqual(t, first, second)
}

func TestNewManagerCreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "downloads")

	manager, err := NewManager(base)
	require.NoError(t, err)
	assert.Equal(t, base, manager.BaseDir())

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
