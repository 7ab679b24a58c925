// Package quality estimates whether the actor behind an engagement
// opportunity is a genuine participant, an automated account or a scammer.
package quality

import (
	"fmt"
	"math"
	"regexp"

	"github.com/ziadkadry99/fc-companion/internal/radar"
)

// Flag strings.
const (
	FlagHighLikesNoConversation = "high likes, no conversation"
	FlagHighRecastRatio         = "high recast-to-reply ratio"
	FlagSuspiciousText          = "suspicious text pattern detected"
)

// ScamPatterns are matched against item text; the first hit flags the item.
var ScamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)free.*money`),
	regexp.MustCompile(`(?i)guaranteed.*profit`),
	regexp.MustCompile(`(?i)click.*here.*now`),
	regexp.MustCompile(`(?i)limited.*time`),
}

// ProjectPatterns mark text that evidences work on a real project.
var ProjectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(shipped|deployed|launched|released|open[- ]sourced)\b`),
	regexp.MustCompile(`(?i)\bgithub\.com/`),
	regexp.MustCompile(`(?i)\bv\d+\.\d+(\.\d+)?\b`),
}

// OnchainPatterns mark text carrying on-chain evidence. They are only
// consulted when on-chain checks are enabled.
var OnchainPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b0x[0-9a-fA-F]{40}\b`),
	regexp.MustCompile(`(?i)\b[a-z0-9-]+\.eth\b`),
	regexp.MustCompile(`\$[A-Z]{2,10}\b`),
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Classifier assesses opportunities. It holds no state between calls.
type Classifier struct {
	weights Weights
	opts    Options
}

// NewClassifier creates a classifier.
func NewClassifier(w Weights, opts Options) *Classifier {
	return &Classifier{weights: w, opts: opts}
}

// Weights returns the calibration in use.
func (c *Classifier) Weights() Weights { return c.weights }

// Assess is a pure function of the opportunity's counters, score and text.
func (c *Classifier) Assess(opp radar.Opportunity) Assessment {
	w := c.weights
	it := opp.Item

	var a Assessment
	a.Signals = Signals{
		SustainedConversation: it.Replies > 3,
		ThoughtfulReplies:     it.Replies > 0 && opp.Score > 20,
		RealProjects:          matchesAny(ProjectPatterns, it.Text),
		OnchainActivity:       c.opts.CheckOnchain && matchesAny(OnchainPatterns, it.Text),
	}

	if it.Likes > 50 && it.Replies == 0 {
		a.BotLikelihood += w.BotHighLikes
		a.BotFlags = append(a.BotFlags, FlagHighLikesNoConversation)
	}
	if it.Recasts > it.Replies*5 && it.Recasts > 10 {
		a.BotLikelihood += w.BotRecastRatio
		a.BotFlags = append(a.BotFlags, FlagHighRecastRatio)
	}

	if matchesAny(ScamPatterns, it.Text) {
		a.ScammerFlags = append(a.ScammerFlags, FlagSuspiciousText)
	}
	a.Signals.SpamPatterns = len(a.ScammerFlags) > 0

	isBot := a.BotLikelihood > w.BotThreshold
	switch {
	case isBot:
		a.Classification = ClassBot
	case len(a.ScammerFlags) > 0:
		a.Classification = ClassScammer
	case a.Signals.SustainedConversation && a.Signals.ThoughtfulReplies:
		a.Classification = ClassCreator
	case a.Signals.RealProjects:
		a.Classification = ClassBuilder
	case it.Recasts > it.Replies*2:
		a.Classification = ClassTrader
	default:
		a.Classification = ClassUnknown
	}

	score := w.BaseScore
	if a.Signals.SustainedConversation {
		score += w.SustainedBonus
	}
	if a.Signals.ThoughtfulReplies {
		score += w.ThoughtfulBonus
	}
	if a.Signals.RealProjects {
		score += w.ProjectBonus
	}
	if !a.Signals.SpamPatterns {
		score += w.NoSpamBonus
	}
	if isBot {
		score -= w.BotPenalty
	}
	if len(a.ScammerFlags) > 0 {
		score -= w.ScammerPenalty
	}
	a.Score = clamp01(score)

	confidence := w.BaseConfidence
	if c.opts.CheckHistory {
		confidence += w.HistoryConfidence
	}
	if c.opts.CheckOnchain {
		confidence += w.OnchainConfidence
	}
	if a.Signals.SustainedConversation {
		confidence += w.SustainedConfidence
	}
	a.Confidence = math.Min(1, confidence)

	return a
}

// Filter assesses each opportunity and keeps those passing every gate,
// in input order.
func (c *Classifier) Filter(opps []radar.Opportunity, f Filter) ([]Assessed, error) {
	if f.MinQuality < 0 || f.MinQuality > 1 || math.IsNaN(f.MinQuality) {
		return nil, fmt.Errorf("%w: min quality %v outside [0,1]", ErrInvalidOption, f.MinQuality)
	}

	kept := make([]Assessed, 0, len(opps))
	for _, opp := range opps {
		a := c.Assess(opp)
		if a.Score < f.MinQuality {
			continue
		}
		if f.ExcludeBots && a.IsBot(c.weights) {
			continue
		}
		if f.ExcludeScammers && len(a.ScammerFlags) > 0 {
			continue
		}
		kept = append(kept, Assessed{Opportunity: opp, Quality: a})
	}
	return kept, nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
