// Package twitter provides a client for the Twitter API v2.
//
// This package includes:
//   - A bearer-token HTTP client with typed errors
//   - Models for the user lookup and user tweets endpoints
//   - Helper functions for constructing API endpoint URLs
//   - Built-in rate-limit handling: requests are paced with a token bucket
//     and 429 responses are waited out using the x-rate-limit-reset header
//
// Example usage:
//
//	client := twitter.NewClient(token, 30*time.Second, 60, log)
//
//	user, err := client.LookupUser(ctx, "username")
//	if err != nil {
//	    if twitter.IsNotFound(err) {
//	        // Handle unknown user
//	    }
//	}
//
//	page, err := client.UserTweets(ctx, user.ID, twitter.TweetsParams{
//	    MaxResults: 100,
//	})
package twitter
