package archiver

import (
	"context"
	"fmt"
	"path/filepath"

	"xid/pkg/config"
	"xid/pkg/download"
	"xid/pkg/logger"
	"xid/pkg/metadata"
	"xid/pkg/storage"
	"xid/pkg/twitter"
)

// Outcome is the distinguishable result of a run
type Outcome string

const (
	// OutcomeCompleted means the timeline was walked to its end, the tweet
	// cap, or the last page.
	OutcomeCompleted Outcome = "completed"

	// OutcomeUserNotFound means the username did not resolve; nothing was
	// written.
	OutcomeUserNotFound Outcome = "user_not_found"

	// OutcomeAborted means the run stopped on an unrecoverable error.
	// Output already on disk is left intact.
	OutcomeAborted Outcome = "aborted"
)

// Result summarizes a run
type Result struct {
	Outcome          Outcome
	TweetsProcessed  int
	TweetsWithImages int
	OutputDir        string
}

// Archiver walks a user's timeline and exports photo-bearing tweets
type Archiver struct {
	client  TwitterClient
	fetcher ImageFetcher
	config  *config.Config
	logger  logger.Logger
}

// New creates an Archiver wired to the real Twitter API and image fetcher
func New(cfg *config.Config) *Archiver {
	log := logger.GetLogger()

	client := twitter.NewClient(
		cfg.Twitter.BearerToken,
		cfg.Fetch.RequestTimeout,
		cfg.Fetch.RequestsPerMinute,
		log,
	)
	fetcher := download.NewFetcher(cfg.Fetch.DownloadTimeout, log)

	return &Archiver{
		client:  client,
		fetcher: fetcher,
		config:  cfg,
		logger:  log,
	}
}

// NewWithDependencies creates an Archiver with explicit collaborators.
// Used by tests.
func NewWithDependencies(client TwitterClient, fetcher ImageFetcher, cfg *config.Config, log logger.Logger) *Archiver {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Archiver{
		client:  client,
		fetcher: fetcher,
		config:  cfg,
		logger:  log,
	}
}

// StartTimeFromDate converts a YYYY-MM-DD start date into the ISO-8601
// instant at midnight UTC expected by the API. An empty date yields an
// empty bound.
func StartTimeFromDate(startDate string) string {
	if startDate == "" {
		return ""
	}
	return startDate + "T00:00:00Z"
}

// Run walks username's timeline, downloading every photo-bearing tweet into
// its own folder under the configured output directory. startDate, when
// non-empty, is a YYYY-MM-DD lower bound on tweet creation time.
//
// An unknown user yields OutcomeUserNotFound with a nil error. Page-fetch
// and download failures abort the whole run: the partial Result is returned
// alongside the error, and files already written stay on disk.
func (a *Archiver) Run(ctx context.Context, username, startDate string) (*Result, error) {
	result := &Result{
		Outcome:   OutcomeCompleted,
		OutputDir: a.config.Output.BaseDirectory,
	}

	user, err := a.client.LookupUser(ctx, username)
	if err != nil {
		if twitter.IsNotFound(err) {
			a.logger.WarnWithFields("user not found", map[string]interface{}{
				"username": username,
			})
			result.Outcome = OutcomeUserNotFound
			return result, nil
		}
		result.Outcome = OutcomeAborted
		return result, fmt.Errorf("failed to look up user %q: %w", username, err)
	}

	a.logger.InfoWithFields("fetching tweets", map[string]interface{}{
		"username": username,
		"user_id":  user.ID,
	})

	store, err := storage.NewManager(a.config.Output.BaseDirectory)
	if err != nil {
		result.Outcome = OutcomeAborted
		return result, err
	}

	startTime := StartTimeFromDate(startDate)
	paginationToken := ""

	for result.TweetsProcessed < a.config.Fetch.MaxTweets {
		page, err := a.client.UserTweets(ctx, user.ID, twitter.TweetsParams{
			MaxResults:      a.config.Fetch.PageSize,
			PaginationToken: paginationToken,
			StartTime:       startTime,
		})
		if err != nil {
			result.Outcome = OutcomeAborted
			return result, fmt.Errorf("failed to fetch tweets: %w", err)
		}

		if len(page.Data) == 0 {
			break
		}

		// The media lookup is rebuilt for every page; attachment keys only
		// resolve within their own page.
		mediaLookup := twitter.BuildMediaLookup(page)

		for _, tweet := range page.Data {
			result.TweetsProcessed++

			photos := resolvePhotos(tweet, mediaLookup)
			if len(photos) == 0 {
				continue
			}

			result.TweetsWithImages++

			if err := a.exportTweet(ctx, store, tweet, username, photos); err != nil {
				result.Outcome = OutcomeAborted
				return result, err
			}
		}

		if page.Meta == nil || page.Meta.NextToken == "" {
			break
		}
		paginationToken = page.Meta.NextToken
	}

	a.logger.InfoWithFields("done", map[string]interface{}{
		"tweets_processed":   result.TweetsProcessed,
		"tweets_with_images": result.TweetsWithImages,
		"output_dir":         result.OutputDir,
	})

	return result, nil
}

// resolvePhotos joins a tweet's attachment keys against the page's media
// lookup, keeping photos only. Keys that don't resolve or resolve to other
// media types are dropped without error.
func resolvePhotos(tweet twitter.Tweet, lookup twitter.MediaLookup) []twitter.Media {
	var photos []twitter.Media
	for _, key := range tweet.MediaKeys() {
		media, ok := lookup[key]
		if !ok || media.Type != twitter.MediaTypePhoto {
			continue
		}
		photos = append(photos, media)
	}
	return photos
}

// exportTweet creates the tweet's folder, downloads its photos in order,
// and writes the metadata file. The first failed download aborts the run:
// remaining images are not attempted and no metadata file is written for
// the tweet.
func (a *Archiver) exportTweet(ctx context.Context, store *storage.Manager, tweet twitter.Tweet, username string, photos []twitter.Media) error {
	createdAt, err := tweet.CreatedTime()
	if err != nil {
		return fmt.Errorf("tweet %s has unparseable creation time %q: %w", tweet.ID, tweet.CreatedAt, err)
	}

	folder, err := store.TweetFolder(tweet.ID, createdAt)
	if err != nil {
		return err
	}

	a.logger.InfoWithFields("processing tweet", map[string]interface{}{
		"tweet_id":   tweet.ID,
		"created_at": tweet.CreatedAt,
		"photos":     len(photos),
	})

	var imageURLs []string
	for i, photo := range photos {
		if photo.URL == "" {
			a.logger.WarnWithFields("no URL found for image, skipping", map[string]interface{}{
				"tweet_id":  tweet.ID,
				"image_num": i + 1,
				"media_key": photo.MediaKey,
			})
			continue
		}

		destPath := filepath.Join(folder, download.FilenameFromURL(photo.URL))
		if err := a.fetcher.Fetch(ctx, photo.URL, destPath); err != nil {
			return fmt.Errorf("failed to download image for tweet %s: %w", tweet.ID, err)
		}

		imageURLs = append(imageURLs, photo.URL)

		a.logger.DebugWithFields("image saved", map[string]interface{}{
			"tweet_id": tweet.ID,
			"path":     destPath,
		})
	}

	return metadata.WriteTweetFile(folder, tweet, username, imageURLs)
}
