package twitter

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// BaseURL is the base URL for the Twitter API v2
	BaseURL = "https://api.twitter.com/2"

	// tweetFields selects the tweet fields needed for export
	tweetFields = "created_at,attachments"

	// mediaFields selects the media detail fields for expanded attachments
	mediaFields = "type,url,width,height"

	// expansions requests the media objects referenced by attachment keys
	expansions = "attachments.media_keys"

	// excludedTweetKinds filters reposts and replies out of the timeline
	excludedTweetKinds = "retweets,replies"
)

// TweetsParams holds the query parameters for a timeline page request
type TweetsParams struct {
	MaxResults int
	// PaginationToken is the next_token from the previous page, empty for
	// the first page.
	PaginationToken string
	// StartTime is an ISO-8601 lower bound on tweet creation time, empty
	// to walk the whole timeline.
	StartTime string
}

// UserByUsernameURL constructs the URL for resolving a username to a user
func UserByUsernameURL(base, username string) string {
	return fmt.Sprintf("%s/users/by/username/%s", base, url.PathEscape(username))
}

// UserTweetsURL constructs the URL for fetching a page of a user's tweets
func UserTweetsURL(base, userID string, params TweetsParams) string {
	q := url.Values{}
	q.Set("max_results", strconv.Itoa(params.MaxResults))
	q.Set("exclude", excludedTweetKinds)
	q.Set("tweet.fields", tweetFields)
	q.Set("media.fields", mediaFields)
	q.Set("expansions", expansions)
	if params.PaginationToken != "" {
		q.Set("pagination_token", params.PaginationToken)
	}
	if params.StartTime != "" {
		q.Set("start_time", params.StartTime)
	}

	return fmt.Sprintf("%s/users/%s/tweets?%s", base, url.PathEscape(userID), q.Encode())
}
