package radar

import (
	"errors"
	"time"

	"github.com/ziadkadry99/fc-companion/internal/feed"
)

// ErrInvalidOption is returned when a caller-supplied option is outside its domain.
var ErrInvalidOption = errors.New("invalid radar option")

// Reason strings attached to opportunities.
const (
	ReasonActiveConversation = "active conversation"
	ReasonHighEngagement     = "high engagement thread"
	ReasonWellReceived       = "well-received"
	ReasonWidelyShared       = "widely shared"
	ReasonEarlyEngagement    = "early engagement opportunity"
)

// Defaults for FindOpportunities.
const (
	DefaultMinScore   = 5
	DefaultMaxResults = 5
)

// Weights are the calibration constants of the engagement score.
type Weights struct {
	Like        float64       `yaml:"like" koanf:"like" json:"like"`
	Reply       float64       `yaml:"reply" koanf:"reply" json:"reply"`
	Recast      float64       `yaml:"recast" koanf:"recast" json:"recast"`
	DecayWindow time.Duration `yaml:"decay_window" koanf:"decay_window" json:"decay_window"`
	ThreadBonus float64       `yaml:"thread_bonus" koanf:"thread_bonus" json:"thread_bonus"`
}

// DefaultWeights weights shares above replies above passive likes, decays
// linearly to zero over 48 hours and rewards any existing conversation.
func DefaultWeights() Weights {
	return Weights{
		Like:        1,
		Reply:       2,
		Recast:      3,
		DecayWindow: 48 * time.Hour,
		ThreadBonus: 10,
	}
}

// Opportunity is an activity item that cleared the minimum score.
type Opportunity struct {
	Item    feed.ActivityItem `json:"item"`
	Score   int               `json:"score"`
	Reasons []string          `json:"reasons"`
	URL     string            `json:"url"`
}

// Rejection records an item excluded because it could not be processed.
type Rejection struct {
	ItemHash string `json:"item_hash"`
	Reason   string `json:"reason"`
}

// Ranking is the outcome of FindOpportunities. Input items are either
// rejected as malformed, dropped below the minimum score, cut by the result
// limit, or kept.
type Ranking struct {
	Opportunities []Opportunity `json:"opportunities"`
	Rejected      []Rejection   `json:"rejected,omitempty"`
	BelowMinimum  int           `json:"below_minimum"`
	Truncated     int           `json:"truncated"`
}

// Options controls FindOpportunities. Zero values select the defaults;
// negative values are rejected.
type Options struct {
	MinScore   int
	MaxResults int
}
