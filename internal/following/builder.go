package following

import (
	"regexp"
	"slices"
	"strings"

	"github.com/ziadkadry99/fc-companion/internal/feed"
)

const (
	maxTopics = 10

	builderPowerPlayerFollowers = 1000
)

// topicKeywords are matched in order against the words of each post.
var topicKeywords = []string{"deploy", "launch", "build", "project", "token", "nft", "app", "frame"}

// buildingTopics mark an active building phase.
var buildingTopics = []string{"build", "deploy", "launch"}

var announcementPattern = regexp.MustCompile(`(?i)launch|deploy|announce`)

// BuilderActivity summarizes what an account has been shipping.
type BuilderActivity struct {
	FID            int64          `json:"fid"`
	Username       string         `json:"username"`
	DisplayName    string         `json:"display_name,omitempty"`
	Classification Classification `json:"classification"`
	Topics         []string       `json:"topics"`
	Announcements  []string       `json:"announcements"`
	Building       bool           `json:"building"`
}

// TrackBuilder extracts topics and project announcements from the items
// authored by p and classifies the account as a builder, a power player
// or unknown. Items by other authors are ignored.
func TrackBuilder(p Profile, items []feed.ActivityItem) BuilderActivity {
	act := BuilderActivity{
		FID:           p.FID,
		Username:      p.Username,
		DisplayName:   p.DisplayName,
		Topics:        []string{},
		Announcements: []string{},
	}

	for _, item := range items {
		if p.FID != 0 && item.Author.FID != p.FID {
			continue
		}
		words := strings.Fields(strings.ToLower(item.Text))
		for _, k := range topicKeywords {
			if slices.Contains(act.Topics, k) {
				continue
			}
			if slices.ContainsFunc(words, func(w string) bool { return strings.Contains(w, k) }) {
				act.Topics = append(act.Topics, k)
			}
		}
		if announcementPattern.MatchString(item.Text) {
			act.Announcements = append(act.Announcements, item.Hash)
		}
	}
	if len(act.Topics) > maxTopics {
		act.Topics = act.Topics[:maxTopics]
	}

	act.Building = len(act.Announcements) > 0 ||
		slices.ContainsFunc(act.Topics, func(t string) bool { return slices.Contains(buildingTopics, t) })

	switch {
	case act.Building:
		act.Classification = ClassBuilder
	case p.FollowerCount > builderPowerPlayerFollowers:
		act.Classification = ClassPowerPlayer
	default:
		act.Classification = ClassUnknown
	}
	return act
}
