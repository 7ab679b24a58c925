package knowledge

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/fc-companion/internal/feed"
	"github.com/ziadkadry99/fc-companion/internal/logging"
	"github.com/ziadkadry99/fc-companion/internal/patterns"
)

// DefaultMinMentions is the number of distinct items a term needs before it
// becomes an entry.
const DefaultMinMentions = 2

// Placeholder text for entries created by the learner.
const PlaceholderExplanation = "Context needed - not yet explained"

// LearnOptions controls a learning pass. A zero MinMentions selects the
// default; a negative one is rejected.
type LearnOptions struct {
	MinMentions  int
	SkipExisting bool
}

// LearnResult reports what a learning pass did to the store.
type LearnResult struct {
	Created      []Entry `json:"created"`
	Updated      []Entry `json:"updated"`
	BelowMinimum int     `json:"below_minimum"`
	Skipped      int     `json:"skipped"`
	Rejected     int     `json:"rejected"`
}

// Learner grows a store from batches of activity.
type Learner struct {
	store *Store
	now   func() time.Time
	log   logrus.FieldLogger
}

// NewLearner creates a learner writing to store. A nil clock uses time.Now
// and a nil logger discards.
func NewLearner(store *Store, now func() time.Time, log logrus.FieldLogger) *Learner {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Learner{store: store, now: now, log: log}
}

type candidate struct {
	id      string
	kind    patterns.Kind
	title   string
	sources []string
}

var learnTables = [][]*patterns.Rule{patterns.Culture, patterns.Tools, patterns.Features, patterns.Channels}

// extract groups every term sighting in items by knowledge id. Candidates
// come back in order of first sighting.
func extract(items []feed.ActivityItem) []*candidate {
	byID := make(map[string]*candidate)
	var order []*candidate
	for _, item := range items {
		for _, table := range learnTables {
			for _, m := range patterns.FindAll(table, item.Text) {
				id := m.ID()
				c, ok := byID[id]
				if !ok {
					title := id
					if m.Rule.Kind == patterns.KindChannel {
						title = strings.TrimPrefix(strings.ToLower(m.Text), "/")
					}
					c = &candidate{id: id, kind: m.Rule.Kind, title: title}
					byID[id] = c
					order = append(order, c)
				}
				c.sources = unionSources(c.sources, []string{item.Hash})
			}
		}
	}
	return order
}

// Learn scans items for known term families and folds them into the store.
// A term needs MinMentions distinct source items, counting sources already
// stored for it. Existing entries have their sources merged; new ones are
// created with placeholder text and a confidence derived from source count.
func (l *Learner) Learn(items []feed.ActivityItem, opts LearnOptions) (LearnResult, error) {
	if opts.MinMentions < 0 {
		return LearnResult{}, fmt.Errorf("%w: min mentions %d is negative", ErrInvalidOption, opts.MinMentions)
	}
	if opts.MinMentions == 0 {
		opts.MinMentions = DefaultMinMentions
	}

	now := l.now()
	var res LearnResult
	valid := make([]feed.ActivityItem, 0, len(items))
	for _, item := range items {
		if err := item.Validate(now); err != nil {
			l.log.WithFields(logrus.Fields{"item_id": item.Hash, "reason": err.Error()}).Warn("knowledge: skipping item")
			res.Rejected++
			continue
		}
		valid = append(valid, item)
	}

	for _, c := range extract(valid) {
		existing, exists := l.store.Get(c.id)
		count := len(c.sources)
		if exists {
			count = len(unionSources(existing.Sources, c.sources))
		}
		if count < opts.MinMentions {
			res.BelowMinimum++
			continue
		}

		if exists {
			if opts.SkipExisting {
				res.Skipped++
				continue
			}
			updated, _ := l.store.Merge(c.id, c.sources, now)
			res.Updated = append(res.Updated, updated)
			continue
		}

		e := Entry{
			ID:          c.id,
			Type:        c.kind,
			Title:       c.title,
			Description: fmt.Sprintf("Mentioned in %d casts", len(c.sources)),
			Explanation: PlaceholderExplanation,
			Examples:    []string{},
			Sources:     c.sources,
			FirstSeen:   now,
			LastUpdated: now,
			Confidence:  SourceConfidence(len(c.sources)),
			Related:     []string{},
		}
		if err := l.store.Add(e); err != nil {
			return res, fmt.Errorf("adding %s: %w", c.id, err)
		}
		res.Created = append(res.Created, e.clone())
	}

	l.log.WithFields(logrus.Fields{
		"items":   len(items),
		"created": len(res.Created),
		"updated": len(res.Updated),
	}).Info("knowledge: learned from feed")
	return res, nil
}
