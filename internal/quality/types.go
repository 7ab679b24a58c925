package quality

import (
	"errors"

	"github.com/ziadkadry99/fc-companion/internal/radar"
)

// ErrInvalidOption is returned for filter options outside their domain.
var ErrInvalidOption = errors.New("invalid quality option")

// Classification is the likely nature of the actor behind an item.
type Classification string

const (
	ClassBuilder Classification = "builder"
	ClassCreator Classification = "creator"
	ClassTrader  Classification = "trader"
	ClassBot     Classification = "bot"
	ClassScammer Classification = "scammer"
	ClassUnknown Classification = "unknown"
)

// Signals are independent boolean quality indicators.
type Signals struct {
	SustainedConversation bool `json:"sustained_conversation"`
	ThoughtfulReplies     bool `json:"thoughtful_replies"`
	RealProjects          bool `json:"real_projects"`
	OnchainActivity       bool `json:"onchain_activity"`
	ConsistentActivity    bool `json:"consistent_activity"`
	SpamPatterns          bool `json:"spam_patterns"`
}

// Assessment is the classifier's verdict on one opportunity.
type Assessment struct {
	Score          float64        `json:"score"`
	BotLikelihood  float64        `json:"bot_likelihood"`
	BotFlags       []string       `json:"bot_flags,omitempty"`
	ScammerFlags   []string       `json:"scammer_flags,omitempty"`
	Classification Classification `json:"classification"`
	Signals        Signals        `json:"signals"`
	Confidence     float64        `json:"confidence"`
}

// IsBot reports whether the bot likelihood crosses the threshold.
func (a Assessment) IsBot(w Weights) bool { return a.BotLikelihood > w.BotThreshold }

// Assessed pairs an opportunity with its assessment.
type Assessed struct {
	radar.Opportunity
	Quality Assessment `json:"quality"`
}

// Weights are the calibration constants of the classifier.
type Weights struct {
	BotHighLikes   float64 `yaml:"bot_high_likes" koanf:"bot_high_likes" json:"bot_high_likes"`
	BotRecastRatio float64 `yaml:"bot_recast_ratio" koanf:"bot_recast_ratio" json:"bot_recast_ratio"`
	BotThreshold   float64 `yaml:"bot_threshold" koanf:"bot_threshold" json:"bot_threshold"`

	BaseScore           float64 `yaml:"base_score" koanf:"base_score" json:"base_score"`
	SustainedBonus      float64 `yaml:"sustained_bonus" koanf:"sustained_bonus" json:"sustained_bonus"`
	ThoughtfulBonus     float64 `yaml:"thoughtful_bonus" koanf:"thoughtful_bonus" json:"thoughtful_bonus"`
	ProjectBonus        float64 `yaml:"project_bonus" koanf:"project_bonus" json:"project_bonus"`
	NoSpamBonus         float64 `yaml:"no_spam_bonus" koanf:"no_spam_bonus" json:"no_spam_bonus"`
	BotPenalty          float64 `yaml:"bot_penalty" koanf:"bot_penalty" json:"bot_penalty"`
	ScammerPenalty      float64 `yaml:"scammer_penalty" koanf:"scammer_penalty" json:"scammer_penalty"`
	BaseConfidence      float64 `yaml:"base_confidence" koanf:"base_confidence" json:"base_confidence"`
	HistoryConfidence   float64 `yaml:"history_confidence" koanf:"history_confidence" json:"history_confidence"`
	OnchainConfidence   float64 `yaml:"onchain_confidence" koanf:"onchain_confidence" json:"onchain_confidence"`
	SustainedConfidence float64 `yaml:"sustained_confidence" koanf:"sustained_confidence" json:"sustained_confidence"`
}

// DefaultWeights returns the stock calibration.
func DefaultWeights() Weights {
	return Weights{
		BotHighLikes:        0.3,
		BotRecastRatio:      0.2,
		BotThreshold:        0.5,
		BaseScore:           0.5,
		SustainedBonus:      0.2,
		ThoughtfulBonus:     0.2,
		ProjectBonus:        0.1,
		NoSpamBonus:         0.1,
		BotPenalty:          0.5,
		ScammerPenalty:      0.5,
		BaseConfidence:      0.5,
		HistoryConfidence:   0.2,
		OnchainConfidence:   0.2,
		SustainedConfidence: 0.1,
	}
}

// Options enables the optional deeper checks.
type Options struct {
	CheckHistory bool `yaml:"check_history" koanf:"check_history"`
	CheckOnchain bool `yaml:"check_onchain" koanf:"check_onchain"`
}

// Filter gates opportunities by assessment.
type Filter struct {
	MinQuality      float64
	ExcludeBots     bool
	ExcludeScammers bool
}

// DefaultFilter keeps items scoring at least 0.5 and drops bots and scammers.
func DefaultFilter() Filter {
	return Filter{MinQuality: 0.5, ExcludeBots: true, ExcludeScammers: true}
}
