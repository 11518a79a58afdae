package twitter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserByUsernameURL(t *testing.T) {
	got := UserByUsernameURL(BaseURL, "alice")
	assert.Equal(t, "https://api.twitter.com/2/users/by/username/alice", got)
}

func TestUserTweetsURL(t *testing.T) {
	raw := UserTweetsURL(BaseURL, "123", TweetsParams{
		MaxResults:      100,
		PaginationToken: "tok",
		StartTime:       "2025-01-15T00:00:00Z",
	})

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/2/users/123/tweets", parsed.Path)

	q := parsed.Query()
	assert.Equal(t, "100", q.Get("max_results"))
	assert.Equal(t, "retweets,replies", q.Get("exclude"))
	assert.Equal(t, "created_at,attachments", q.Get("tweet.fields"))
	assert.Equal(t, "type,url,width,height", q.Get("media.fields"))
	assert.Equal(t, "attachments.media_keys", q.Get("expansions"))
	assert.Equal(t, "tok", q.Get("pagination_token"))
	assert.Equal(t, "2025-01-15T00:00:00Z", q.Get("start_time"))
}
