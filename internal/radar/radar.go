// Package radar scores activity items for engagement potential and ranks
// the ones worth replying to.
package radar

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/fc-companion/internal/feed"
	"github.com/ziadkadry99/fc-companion/internal/logging"
)

// Scorer computes engagement scores against a clock.
type Scorer struct {
	weights Weights
	now     func() time.Time
	log     logrus.FieldLogger
}

// NewScorer creates a scorer. A nil clock uses time.Now and a nil logger
// discards.
func NewScorer(w Weights, now func() time.Time, log logrus.FieldLogger) *Scorer {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logging.Discard()
	}
	if w.DecayWindow <= 0 {
		w.DecayWindow = DefaultWeights().DecayWindow
	}
	return &Scorer{weights: w, now: now, log: log}
}

// Score returns round(base × decay + threadBonus), where base is the
// weighted sum of counters and decay falls linearly from 1 at posting time
// to 0 at the end of the decay window.
func (s *Scorer) Score(item feed.ActivityItem) int {
	return s.scoreAt(item, s.now())
}

func (s *Scorer) scoreAt(item feed.ActivityItem, now time.Time) int {
	w := s.weights
	base := w.Like*float64(item.Likes) + w.Reply*float64(item.Replies) + w.Recast*float64(item.Recasts)

	elapsed := now.Sub(item.Timestamp)
	decay := math.Max(0, 1-float64(elapsed)/float64(w.DecayWindow))
	if decay > 1 {
		decay = 1
	}

	bonus := 0.0
	if item.Replies > 0 {
		bonus = w.ThreadBonus
	}
	return int(math.Round(base*decay + bonus))
}

// Reasons explains why an item is worth engaging with. The list is built
// from fixed counter thresholds, independent of the score, and is never empty.
func Reasons(item feed.ActivityItem) []string {
	var reasons []string
	if item.Replies > 0 {
		reasons = append(reasons, ReasonActiveConversation)
	}
	if item.Replies > 5 {
		reasons = append(reasons, ReasonHighEngagement)
	}
	if item.Likes > 10 {
		reasons = append(reasons, ReasonWellReceived)
	}
	if item.Recasts > 5 {
		reasons = append(reasons, ReasonWidelyShared)
	}
	if len(reasons) == 0 {
		reasons = append(reasons, ReasonEarlyEngagement)
	}
	return reasons
}

func (o Options) resolve() (Options, error) {
	if o.MinScore < 0 {
		return o, fmt.Errorf("%w: min score %d is negative", ErrInvalidOption, o.MinScore)
	}
	if o.MaxResults < 0 {
		return o, fmt.Errorf("%w: max results %d is negative", ErrInvalidOption, o.MaxResults)
	}
	if o.MinScore == 0 {
		o.MinScore = DefaultMinScore
	}
	if o.MaxResults == 0 {
		o.MaxResults = DefaultMaxResults
	}
	return o, nil
}

// FindOpportunities scores every item, drops malformed ones and those
// under the minimum score, and returns the rest sorted by score descending.
// Equal scores keep feed order. All items are judged against one clock
// reading.
func (s *Scorer) FindOpportunities(items []feed.ActivityItem, opts Options) (Ranking, error) {
	opts, err := opts.resolve()
	if err != nil {
		return Ranking{}, err
	}

	now := s.now()
	var ranking Ranking
	for _, item := range items {
		if err := item.Validate(now); err != nil {
			s.log.WithFields(logrus.Fields{"item_id": item.Hash, "reason": err.Error()}).Warn("radar: skipping item")
			ranking.Rejected = append(ranking.Rejected, Rejection{ItemHash: item.Hash, Reason: err.Error()})
			continue
		}

		score := s.scoreAt(item, now)
		if score < opts.MinScore {
			ranking.BelowMinimum++
			continue
		}
		ranking.Opportunities = append(ranking.Opportunities, Opportunity{
			Item:    item,
			Score:   score,
			Reasons: Reasons(item),
			URL:     item.ConversationURL(),
		})
	}

	sort.SliceStable(ranking.Opportunities, func(i, j int) bool {
		return ranking.Opportunities[i].Score > ranking.Opportunities[j].Score
	})
	if len(ranking.Opportunities) > opts.MaxResults {
		ranking.Truncated = len(ranking.Opportunities) - opts.MaxResults
		ranking.Opportunities = ranking.Opportunities[:opts.MaxResults]
	}

	s.log.WithFields(logrus.Fields{
		"items":         len(items),
		"opportunities": len(ranking.Opportunities),
		"rejected":      len(ranking.Rejected),
	}).Info("radar: ranked feed")
	return ranking, nil
}
