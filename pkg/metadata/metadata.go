package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"xid/pkg/twitter"
)

// FileName is the metadata file written into each tweet folder.
const FileName = "tweet.txt"

// WriteTweetFile writes the tweet's text record into folder, overwriting
// any existing file. The creation timestamp is written exactly as the API
// returned it. Image URLs, when present, are listed 1-indexed in download
// order.
func WriteTweetFile(folder string, tweet twitter.Tweet, author string, imageURLs []string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Tweet ID: %s\n", tweet.ID)
	fmt.Fprintf(&b, "Created at: %s\n", tweet.CreatedAt)
	fmt.Fprintf(&b, "Author: @%s\n", author)
	fmt.Fprintf(&b, "Text:\n%s\n", tweet.Text)

	if len(imageURLs) > 0 {
		b.WriteString("\nImage URLs:\n")
		for i, url := range imageURLs {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, url)
		}
	}

	path := filepath.Join(folder, FileName)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write tweet metadata: %w", err)
	}

	return nil
}
