package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xid/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-token", 5*time.Second, 6000, logger.NewNopLogger())
	client.SetBaseURL(server.URL)
	return client, server
}

func TestLookupUser(t *testing.T) {
	var authHeader string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		assert.Equal(t, "/users/by/username/alice", r.URL.Path)

		json.NewEncoder(w).Encode(UserResponse{
			Data: &User{ID: "123", Name: "Alice", Username: "alice"},
		})
	}))

	user, err := client.LookupUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "123", user.ID)
	assert.Equal(t, "Bearer test-token", authHeader)
}

func TestLookupUserNotFound(t *testing.T) {
	t.Run("empty data", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(UserResponse{})
		}))

		_, err := client.LookupUser(context.Background(), "ghost")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("404 status", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := client.LookupUser(context.Background(), "ghost")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestUserTweetsRequestParameters(t *testing.T) {
	var query map[string][]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/123/tweets", r.URL.Path)
		query = r.URL.Query()
		json.NewEncoder(w).Encode(TweetsResponse{Meta: &Meta{ResultCount: 0}})
	}))

	_, err := client.UserTweets(context.Background(), "123", TweetsParams{
		MaxResults:      100,
		PaginationToken: "tok123",
		StartTime:       "2025-01-15T00:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"100"}, query["max_results"])
	assert.Equal(t, []string{"retweets,replies"}, query["exclude"])
	assert.Equal(t, []string{"created_at,attachments"}, query["tweet.fields"])
	assert.Equal(t, []string{"type,url,width,height"}, query["media.fields"])
	assert.Equal(t, []string{"attachments.media_keys"}, query["expansions"])
	assert.Equal(t, []string{"tok123"}, query["pagination_token"])
	assert.Equal(t, []string{"2025-01-15T00:00:00Z"}, query["start_time"])
}

func TestUserTweetsOmitsEmptyParams(t *testing.T) {
	var query map[string][]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		json.NewEncoder(w).Encode(TweetsResponse{})
	}))

	_, err := client.UserTweets(context.Background(), "123", TweetsParams{MaxResults: 100})
	require.NoError(t, err)

	assert.NotContains(t, query, "pagination_token")
	assert.NotContains(t, query, "start_time")
}

func TestClientWaitsOutRateLimit(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			// Reset already in the past keeps the test fast.
			w.Header().Set("x-rate-limit-reset", strconv.FormatInt(time.Now().Unix()-1, 10))
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(UserResponse{Data: &User{ID: "123"}})
	}))

	user, err := client.LookupUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "123", user.ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetJSONErrorTypes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantType ErrorType
	}{
		{"unauthorized", http.StatusUnauthorized, ErrorTypeAuth},
		{"forbidden", http.StatusForbidden, ErrorTypeAuth},
		{"not found", http.StatusNotFound, ErrorTypeNotFound},
		{"server error", http.StatusInternalServerError, ErrorTypeServerError},
		{"teapot", http.StatusTeapot, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			var out map[string]interface{}
			err := client.GetJSON(context.Background(), server.URL+"/whatever", &out)
			require.Error(t, err)

			apiErr, ok := err.(*Error)
			require.True(t, ok, "expected *twitter.Error, got %T", err)
			assert.Equal(t, tt.wantType, apiErr.Type)
			assert.Equal(t, tt.status, apiErr.Code)
		})
	}
}

func TestGetJSONParseError(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	}))

	var out map[string]interface{}
	err := client.GetJSON(context.Background(), server.URL+"/whatever", &out)
	require.Error(t, err)

	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeParsing, apiErr.Type)
}

func TestRateLimitWait(t *testing.T) {
	now := time.Unix(1_000_000, 0)

	t.Run("uses reset header", func(t *testing.T) {
		header := http.Header{}
		header.Set("x-rate-limit-reset", strconv.FormatInt(now.Unix()+30, 10))
		assert.Equal(t, 30*time.Second, rateLimitWait(header, now))
	})

	t.Run("reset in the past", func(t *testing.T) {
		header := http.Header{}
		header.Set("x-rate-limit-reset", strconv.FormatInt(now.Unix()-5, 10))
		assert.Equal(t, time.Second, rateLimitWait(header, now))
	})

	t.Run("missing header falls back", func(t *testing.T) {
		assert.Equal(t, rateLimitFallbackWait, rateLimitWait(http.Header{}, now))
	})

	t.Run("garbage header falls back", func(t *testing.T) {
		header := http.Header{}
		header.Set("x-rate-limit-reset", "soon")
		assert.Equal(t, rateLimitFallbackWait, rateLimitWait(header, now))
	})
}

func TestBuildMediaLookup(t *testing.T) {
	resp := &TweetsResponse{
		Includes: &Includes{
			Media: []Media{
				{MediaKey: "k1", Type: MediaTypePhoto, URL: "u1"},
				{MediaKey: "k2", Type: "video"},
			},
		},
	}

	lookup := BuildMediaLookup(resp)
	assert.Len(t, lookup, 2)
	assert.Equal(t, "u1", lookup["k1"].URL)

	// No includes yields an empty, usable lookup
	empty := BuildMediaLookup(&TweetsResponse{})
	assert.Empty(t, empty)
}
