package twitter

import "time"

// MediaTypePhoto is the media type tag for still images. Videos and
// animated GIFs carry other tags and are not downloaded.
const MediaTypePhoto = "photo"

// UserResponse is the envelope returned by the user lookup endpoint
type UserResponse struct {
	Data *User `json:"data"`
}

// User represents a Twitter user
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// TweetsResponse is the envelope returned by the user tweets timeline endpoint
type TweetsResponse struct {
	Data     []Tweet   `json:"data"`
	Includes *Includes `json:"includes"`
	Meta     *Meta     `json:"meta"`
}

// Tweet represents a single tweet. CreatedAt keeps the API's textual
// timestamp so metadata files record it verbatim.
type Tweet struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	CreatedAt   string       `json:"created_at"`
	Attachments *Attachments `json:"attachments"`
}

// CreatedTime parses the tweet's creation timestamp. The parsed time keeps
// the offset the API returned; it is not re-zoned.
func (t Tweet) CreatedTime() (time.Time, error) {
	return time.Parse(time.RFC3339, t.CreatedAt)
}

// MediaKeys returns the tweet's attachment keys, or nil when the tweet has
// no attachments.
func (t Tweet) MediaKeys() []string {
	if t.Attachments == nil {
		return nil
	}
	return t.Attachments.MediaKeys
}

// Attachments holds the media keys referenced by a tweet
type Attachments struct {
	MediaKeys []string `json:"media_keys"`
}

// Includes carries the expanded objects referenced by the page's tweets
type Includes struct {
	Media []Media `json:"media"`
}

// Media represents a single media object from the includes list
type Media struct {
	MediaKey string `json:"media_key"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Meta carries pagination information for a tweets page
type Meta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}

// MediaLookup maps media keys to media objects for one response page.
// It is rebuilt for every page and never carries state across pages.
type MediaLookup map[string]Media

// BuildMediaLookup builds a fresh lookup from a page's included media
func BuildMediaLookup(resp *TweetsResponse) MediaLookup {
	lookup := make(MediaLookup)
	if resp.Includes == nil {
		return lookup
	}
	for _, media := range resp.Includes.Media {
		lookup[media.MediaKey] = media
	}
	return lookup
}
