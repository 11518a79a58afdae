package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"xid/pkg/logger"
)

// ErrorType classifies Twitter API errors
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a Twitter API error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("twitter %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// IsNotFound reports whether err is a not-found API error
func IsNotFound(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Type == ErrorTypeNotFound
}

// rateLimitFallbackWait is used when a 429 response carries no usable
// x-rate-limit-reset header.
const rateLimitFallbackWait = time.Minute

// Client is a Twitter API v2 client. It paces its own requests and waits
// out rate-limit windows instead of surfacing them as errors.
type Client struct {
	httpClient  *http.Client
	bearerToken string
	baseURL     string
	limiter     *rate.Limiter
	logger      logger.Logger
}

// NewClient creates a new Twitter API client. requestsPerMinute paces
// outgoing calls with a token bucket.
func NewClient(bearerToken string, timeout time.Duration, requestsPerMinute int, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		bearerToken: bearerToken,
		baseURL:     BaseURL,
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
		logger:      log,
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// doRequest performs an authorized GET, blocking on the pacing limiter and
// on rate-limit windows signalled by the API.
func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{
				Type:    ErrorTypeUnknown,
				Message: fmt.Sprintf("request cancelled: %v", err),
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, &Error{
				Type:    ErrorTypeUnknown,
				Message: fmt.Sprintf("failed to create request: %v", err),
			}
		}
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
		req.Header.Set("User-Agent", "xid/1.0")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
				"url":      url,
				"error":    err.Error(),
				"duration": time.Since(start),
			})
			return nil, &Error{
				Type:    ErrorTypeNetwork,
				Message: fmt.Sprintf("network error: %v", err),
			}
		}

		c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
			"url":      url,
			"status":   resp.StatusCode,
			"duration": time.Since(start),
		})

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited: wait until the window resets and re-issue.
		wait := rateLimitWait(resp.Header, time.Now())
		resp.Body.Close()

		c.logger.WarnWithFields("rate limit reached, waiting for window reset", map[string]interface{}{
			"url":  url,
			"wait": wait,
		})

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, &Error{
				Type:    ErrorTypeRateLimit,
				Message: fmt.Sprintf("cancelled while waiting for rate limit: %v", ctx.Err()),
				Code:    http.StatusTooManyRequests,
			}
		}
	}
}

// rateLimitWait derives the wait duration from the x-rate-limit-reset
// header (unix seconds), falling back to a fixed delay.
func rateLimitWait(header http.Header, now time.Time) time.Duration {
	reset := header.Get("x-rate-limit-reset")
	if reset == "" {
		return rateLimitFallbackWait
	}
	epoch, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return rateLimitFallbackWait
	}
	wait := time.Unix(epoch, 0).Sub(now)
	if wait <= 0 {
		return time.Second
	}
	return wait
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	resp, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// checkResponseStatus maps HTTP status codes to typed errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &Error{
			Type:    ErrorTypeAuth,
			Message: "authentication failed, check the bearer token",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode == http.StatusNotFound:
		return &Error{
			Type:    ErrorTypeNotFound,
			Message: "resource not found",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode >= 500:
		return &Error{
			Type:    ErrorTypeServerError,
			Message: "server error",
			Code:    resp.StatusCode,
		}
	default:
		return &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	}
}

// LookupUser resolves a username to a user. Returns a not-found error when
// the user does not exist.
func (c *Client) LookupUser(ctx context.Context, username string) (*User, error) {
	url := UserByUsernameURL(c.baseURL, username)

	c.logger.DebugWithFields("looking up user", map[string]interface{}{
		"username": username,
	})

	var response UserResponse
	if err := c.GetJSON(ctx, url, &response); err != nil {
		return nil, err
	}

	if response.Data == nil {
		return nil, &Error{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("user %q not found", username),
			Code:    http.StatusNotFound,
		}
	}

	return response.Data, nil
}

// UserTweets fetches one page of a user's tweets with media expansions
func (c *Client) UserTweets(ctx context.Context, userID string, params TweetsParams) (*TweetsResponse, error) {
	url := UserTweetsURL(c.baseURL, userID, params)

	c.logger.DebugWithFields("fetching tweets page", map[string]interface{}{
		"user_id":          userID,
		"pagination_token": params.PaginationToken,
	})

	var response TweetsResponse
	if err := c.GetJSON(ctx, url, &response); err != nil {
		return nil, err
	}

	return &response, nil
}
