package neynar

import (
	"time"

	"github.com/ziadkadry99/fc-companion/internal/feed"
)

type feedResponse struct {
	Casts []cast `json:"casts"`
	Next  *struct {
		Cursor string `json:"cursor"`
	} `json:"next"`
}

type cast struct {
	Hash   string `json:"hash"`
	Author struct {
		FID         int64  `json:"fid"`
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
	} `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Replies   struct {
		Count int `json:"count"`
	} `json:"replies"`
	Reactions struct {
		LikesCount   *int      `json:"likes_count"`
		RecastsCount *int      `json:"recasts_count"`
		Likes        []reactor `json:"likes"`
		Recasts      []reactor `json:"recasts"`
	} `json:"reactions"`
}

// reactor is an entry of the reaction lists; only its presence is counted.
type reactor struct {
	FID int64 `json:"fid"`
}

// toItem maps the API shape onto an ActivityItem. Explicit counts win over
// the embedded reaction lists, which the API truncates.
func (c cast) toItem() feed.ActivityItem {
	likes := len(c.Reactions.Likes)
	if c.Reactions.LikesCount != nil {
		likes = *c.Reactions.LikesCount
	}
	recasts := len(c.Reactions.Recasts)
	if c.Reactions.RecastsCount != nil {
		recasts = *c.Reactions.RecastsCount
	}
	return feed.ActivityItem{
		Hash: c.Hash,
		Author: feed.Author{
			FID:         c.Author.FID,
			Username:    c.Author.Username,
			DisplayName: c.Author.DisplayName,
		},
		Text:      c.Text,
		Timestamp: c.Timestamp,
		Replies:   c.Replies.Count,
		Likes:     likes,
		Recasts:   recasts,
	}
}
