package archiver

import (
	"context"

	"xid/pkg/twitter"
)

// TwitterClient defines the API operations the archiver depends on
type TwitterClient interface {
	LookupUser(ctx context.Context, username string) (*twitter.User, error)
	UserTweets(ctx context.Context, userID string, params twitter.TweetsParams) (*twitter.TweetsResponse, error)
}

// ImageFetcher downloads a single image to a local file
type ImageFetcher interface {
	Fetch(ctx context.Context, imageURL, destPath string) error
}
