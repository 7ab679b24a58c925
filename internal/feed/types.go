package feed

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMalformedItem marks an activity item the pipeline cannot process.
	ErrMalformedItem = errors.New("malformed activity item")

	// ErrFetchFailed is returned by sources when a batch could not be retrieved.
	ErrFetchFailed = errors.New("feed fetch failed")
)

// Author identifies the account that published an activity item.
type Author struct {
	FID         int64  `json:"fid"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
}

// ActivityItem is a single short post with its engagement counters.
type ActivityItem struct {
	Hash      string    `json:"hash"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Replies   int       `json:"replies"`
	Likes     int       `json:"likes"`
	Recasts   int       `json:"recasts"`
}

// ConversationURL returns the public link to the item's conversation.
func (i ActivityItem) ConversationURL() string {
	return "https://warpcast.com/~/conversations/" + i.Hash
}

// Validate reports whether the item can be scored at the given instant.
// The returned error wraps ErrMalformedItem.
func (i ActivityItem) Validate(now time.Time) error {
	switch {
	case i.Hash == "":
		return fmt.Errorf("%w: missing hash", ErrMalformedItem)
	case i.Author.Username == "":
		return fmt.Errorf("%w: %s: missing author username", ErrMalformedItem, i.Hash)
	case i.Timestamp.IsZero():
		return fmt.Errorf("%w: %s: missing timestamp", ErrMalformedItem, i.Hash)
	case i.Timestamp.After(now):
		return fmt.Errorf("%w: %s: timestamp %s is in the future", ErrMalformedItem, i.Hash, i.Timestamp.Format(time.RFC3339))
	case i.Replies < 0 || i.Likes < 0 || i.Recasts < 0:
		return fmt.Errorf("%w: %s: negative engagement counter", ErrMalformedItem, i.Hash)
	}
	return nil
}

// Page is one batch returned by a Source.
type Page struct {
	Items      []ActivityItem `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// FetchOptions controls a single Source call.
type FetchOptions struct {
	Limit  int
	Cursor string
}
