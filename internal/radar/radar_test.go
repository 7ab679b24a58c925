package radar

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/fc-companion/internal/feed"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestScorer() *Scorer {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewScorer(DefaultWeights(), func() time.Time { return now }, l)
}

func item(hash string, replies, likes, recasts int, age time.Duration) feed.ActivityItem {
	return feed.ActivityItem{
		Hash:      hash,
		Author:    feed.Author{FID: 1, Username: "alice"},
		Text:      "hello",
		Timestamp: now.Add(-age),
		Replies:   replies,
		Likes:     likes,
		Recasts:   recasts,
	}
}

func TestScore(t *testing.T) {
	s := newTestScorer()
	tests := []struct {
		name string
		item feed.ActivityItem
		want int
	}{
		{"no engagement", item("a", 0, 0, 0, 0), 0},
		{"no engagement old", item("a", 0, 0, 0, 100*time.Hour), 0},
		{"fresh weighted sum", item("a", 0, 4, 2, 0), 10},
		{"thread bonus", item("a", 1, 0, 0, 0), 12},
		{"half decayed", item("a", 0, 10, 0, 24*time.Hour), 5},
		{"fully decayed keeps bonus", item("a", 3, 50, 9, 48*time.Hour), 10},
		{"beyond window", item("a", 0, 50, 9, 72*time.Hour), 0},
		{"scenario A", item("a", 6, 12, 2, 0), 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Score(tt.item); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreMonotonicDecay(t *testing.T) {
	s := newTestScorer()
	counters := [][3]int{{0, 1, 0}, {2, 5, 1}, {10, 40, 12}, {0, 0, 3}}
	for _, c := range counters {
		fresh := s.Score(item("a", c[0], c[1], c[2], 0))
		late := s.Score(item("a", c[0], c[1], c[2], 47*time.Hour))
		hourOld := s.Score(item("a", c[0], c[1], c[2], time.Hour))
		expired := s.Score(item("a", c[0], c[1], c[2], 48*time.Hour))
		if fresh < late {
			t.Errorf("%v: fresh %d < 47h %d", c, fresh, late)
		}
		if expired >= hourOld {
			t.Errorf("%v: 48h %d not below 1h %d", c, expired, hourOld)
		}
	}
}

func TestReasons(t *testing.T) {
	tests := []struct {
		name string
		item feed.ActivityItem
		want []string
	}{
		{"fallback", item("a", 0, 3, 0, 0), []string{ReasonEarlyEngagement}},
		{"replies", item("a", 2, 0, 0, 0), []string{ReasonActiveConversation}},
		{"all", item("a", 6, 11, 6, 0), []string{ReasonActiveConversation, ReasonHighEngagement, ReasonWellReceived, ReasonWidelyShared}},
		{"thresholds are strict", item("a", 5, 10, 5, 0), []string{ReasonActiveConversation}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reasons(tt.item)
			if len(got) != len(tt.want) {
				t.Fatalf("Reasons() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Reasons()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFindOpportunitiesOrderingAndLimit(t *testing.T) {
	s := newTestScorer()
	items := []feed.ActivityItem{
		item("low", 0, 2, 0, 0),   // 2, below minimum
		item("tie-1", 0, 9, 0, 0), // 9
		item("top", 6, 12, 2, 0),  // 40
		item("tie-2", 0, 9, 0, 0), // 9
		item("mid", 0, 5, 5, 0),   // 20
		item("tie-3", 0, 0, 3, 0), // 9
		item("other", 0, 6, 0, 0), // 6
	}

	ranking, err := s.FindOpportunities(items, Options{MaxResults: 4})
	if err != nil {
		t.Fatalf("FindOpportunities: %v", err)
	}

	wantOrder := []string{"top", "mid", "tie-1", "tie-2"}
	if len(ranking.Opportunities) != len(wantOrder) {
		t.Fatalf("got %d opportunities, want %d", len(ranking.Opportunities), len(wantOrder))
	}
	for i, opp := range ranking.Opportunities {
		if opp.Item.Hash != wantOrder[i] {
			t.Errorf("position %d = %s, want %s", i, opp.Item.Hash, wantOrder[i])
		}
		if len(opp.Reasons) == 0 {
			t.Errorf("%s has no reasons", opp.Item.Hash)
		}
		if i > 0 && opp.Score > ranking.Opportunities[i-1].Score {
			t.Errorf("not sorted at %d", i)
		}
	}
	if ranking.BelowMinimum != 1 {
		t.Errorf("BelowMinimum = %d, want 1", ranking.BelowMinimum)
	}
	if ranking.Truncated != 2 {
		t.Errorf("Truncated = %d, want 2", ranking.Truncated)
	}
	if ranking.Opportunities[0].URL != "https://warpcast.com/~/conversations/top" {
		t.Errorf("URL = %q", ranking.Opportunities[0].URL)
	}
}

func TestFindOpportunitiesDefaults(t *testing.T) {
	s := newTestScorer()
	var items []feed.ActivityItem
	for i := 0; i < 8; i++ {
		items = append(items, item(string(rune('a'+i)), 1, 0, 0, 0))
	}
	ranking, err := s.FindOpportunities(items, Options{})
	if err != nil {
		t.Fatalf("FindOpportunities: %v", err)
	}
	if len(ranking.Opportunities) != DefaultMaxResults {
		t.Errorf("got %d, want default %d", len(ranking.Opportunities), DefaultMaxResults)
	}
}

func TestFindOpportunitiesRejectsMalformed(t *testing.T) {
	s := newTestScorer()
	bad := item("neg", -1, 40, 0, 0)
	future := item("future", 3, 3, 3, -time.Hour)
	noHash := item("", 3, 3, 3, 0)
	items := []feed.ActivityItem{bad, item("ok", 3, 3, 3, 0), future, noHash}

	ranking, err := s.FindOpportunities(items, Options{})
	if err != nil {
		t.Fatalf("FindOpportunities: %v", err)
	}
	if len(ranking.Opportunities) != 1 || ranking.Opportunities[0].Item.Hash != "ok" {
		t.Fatalf("unexpected opportunities: %+v", ranking.Opportunities)
	}
	if len(ranking.Rejected) != 3 {
		t.Fatalf("Rejected = %d, want 3", len(ranking.Rejected))
	}
	if ranking.Rejected[0].ItemHash != "neg" || ranking.Rejected[1].ItemHash != "future" {
		t.Errorf("rejections out of order: %+v", ranking.Rejected)
	}
}

func TestFindOpportunitiesInvalidOptions(t *testing.T) {
	s := newTestScorer()
	items := []feed.ActivityItem{item("ok", 3, 3, 3, 0)}
	for _, opts := range []Options{{MinScore: -1}, {MaxResults: -2}} {
		ranking, err := s.FindOpportunities(items, opts)
		if !errors.Is(err, ErrInvalidOption) {
			t.Errorf("%+v: expected ErrInvalidOption, got %v", opts, err)
		}
		if len(ranking.Opportunities) != 0 {
			t.Errorf("%+v: partial results returned", opts)
		}
	}
}

func TestNilLoggerDiscards(t *testing.T) {
	s := NewScorer(DefaultWeights(), func() time.Time { return now }, nil)
	ranking, err := s.FindOpportunities([]feed.ActivityItem{item("neg", -1, 1, 0, 0), item("ok", 3, 3, 3, 0)}, Options{})
	if err != nil {
		t.Fatalf("FindOpportunities: %v", err)
	}
	if len(ranking.Opportunities) != 1 || len(ranking.Rejected) != 1 {
		t.Errorf("ranking = %+v", ranking)
	}
}
