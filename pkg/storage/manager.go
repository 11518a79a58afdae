package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// folderTimeFormat yields lexicographically sortable folder names. The
// timestamp is formatted as the API returned it, not re-zoned.
const folderTimeFormat = "20060102_150405"

// Manager handles the output directory tree. Each tweet gets its own folder
// named after its creation timestamp.
type Manager struct {
	baseDir string
	// byTweet remembers the folder assigned to each tweet this run, and
	// issued counts how many tweets share a timestamp-derived name, so two
	// tweets created in the same second get distinct folders.
	byTweet map[string]string
	issued  map[string]int
}

// NewManager creates a storage manager rooted at baseDir and ensures the
// base directory exists.
func NewManager(baseDir string) (*Manager, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{
		baseDir: baseDir,
		byTweet: make(map[string]string),
		issued:  make(map[string]int),
	}, nil
}

// BaseDir returns the output base directory
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// TweetFolder derives and creates the folder for a tweet created at the
// given time. Creation is idempotent: asking again for the same tweet
// returns the same folder without error, and existing contents are never
// cleared. A distinct tweet that maps to the same second gets a numeric
// suffix instead of sharing the folder.
func (m *Manager) TweetFolder(tweetID string, createdAt time.Time) (string, error) {
	name, ok := m.byTweet[tweetID]
	if !ok {
		name = createdAt.Format(folderTimeFormat)
		m.issued[name]++
		if n := m.issued[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		m.byTweet[tweetID] = name
	}

	folder := filepath.Join(m.baseDir, name)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", fmt.Errorf("failed to create tweet folder: %w", err)
	}

	return folder, nil
}
