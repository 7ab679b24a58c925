package knowledge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/fc-companion/internal/db"
	"github.com/ziadkadry99/fc-companion/internal/feed"
	"github.com/ziadkadry99/fc-companion/internal/patterns"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func post(hash, text string) feed.ActivityItem {
	return feed.ActivityItem{
		Hash:      hash,
		Author:    feed.Author{FID: 3, Username: "carol"},
		Text:      text,
		Timestamp: now.Add(-time.Hour),
	}
}

func TestBootstrap(t *testing.T) {
	s := NewSeededStore(now)
	want := []string{"bankr", "emerge", "gm", "harmony-bot", "ngmi", "nyor", "wagmi"}
	var got []string
	for _, e := range s.All() {
		got = append(got, e.ID)
		if err := e.Validate(); err != nil {
			t.Errorf("bootstrap entry invalid: %v", err)
		}
		if e.Explanation == "" || e.WhyMatters == "" {
			t.Errorf("%s missing explanation text", e.ID)
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("bootstrap ids = %v, want %v", got, want)
	}
	if gm, _ := s.Get("gm"); gm.Confidence != 1.0 {
		t.Errorf("gm confidence = %v, want 1", gm.Confidence)
	}
}

func TestStoreAddGet(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get("missing"); ok {
		t.Fatal("Get on empty store reported a hit")
	}

	e := Entry{ID: "degen", Type: patterns.KindCulture, Title: "degen", Sources: []string{"a"}, FirstSeen: now, LastUpdated: now}
	if err := s.Add(e); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, ok := s.Get("degen")
	if !ok {
		t.Fatal("Get after Add missed")
	}

	got.Sources[0] = "mutated"
	again, _ := s.Get("degen")
	if again.Sources[0] != "a" {
		t.Error("Get returned a shared slice")
	}

	e.Title = "Degen"
	if err := s.Add(e); err != nil {
		t.Fatalf("Add replace: %v", err)
	}
	if got, _ := s.Get("degen"); got.Title != "Degen" {
		t.Errorf("Add did not replace: %q", got.Title)
	}
}

func TestStoreAddInvalid(t *testing.T) {
	s := NewStore()
	tests := []struct {
		name string
		e    Entry
	}{
		{"empty id", Entry{Type: patterns.KindTool, Title: "x"}},
		{"upper id", Entry{ID: "GM", Type: patterns.KindCulture, Title: "x"}},
		{"unknown type", Entry{ID: "x", Type: patterns.KindUnknown, Title: "x"}},
		{"no title", Entry{ID: "x", Type: patterns.KindTool}},
		{"confidence", Entry{ID: "x", Type: patterns.KindTool, Title: "x", Confidence: 1.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Add(tt.e); !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("expected ErrInvalidEntry, got %v", err)
			}
		})
	}
	if s.Len() != 0 {
		t.Errorf("invalid entries stored: %d", s.Len())
	}
}

func TestStoreSearchAndByType(t *testing.T) {
	s := NewSeededStore(now)

	var ids []string
	for _, e := range s.Search("TRADING") {
		ids = append(ids, e.ID)
	}
	if !reflect.DeepEqual(ids, []string{"bankr"}) {
		t.Errorf("Search(TRADING) = %v", ids)
	}

	if n := len(s.Search("greeting")); n != 1 {
		t.Errorf("Search(greeting) returned %d entries, want 1", n)
	}
	if n := len(s.Search("no such term")); n != 0 {
		t.Errorf("Search miss returned %d entries", n)
	}
	if n := len(s.ByType(patterns.KindTool)); n != 4 {
		t.Errorf("ByType(tool) = %d, want 4", n)
	}
	if n := len(s.ByType(patterns.KindCulture)); n != 3 {
		t.Errorf("ByType(culture) = %d, want 3", n)
	}
}

func TestMergeIdempotent(t *testing.T) {
	s := NewStore()
	e := Entry{ID: "nyor", Type: patterns.KindTool, Title: "Nyor", Sources: []string{"a", "b"}, FirstSeen: now, LastUpdated: now, Confidence: 0.2}
	if err := s.Add(e); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		got, ok := s.Merge("nyor", e.Sources, now.Add(time.Hour))
		if !ok {
			t.Fatal("Merge missed existing entry")
		}
		if len(got.Sources) != 2 {
			t.Errorf("merge %d: sources = %v", i, got.Sources)
		}
	}
	if _, ok := s.Merge("missing", []string{"a"}, now); ok {
		t.Error("Merge on missing id reported success")
	}
}

func TestMergeConfidenceSaturates(t *testing.T) {
	s := NewStore()
	if err := s.Add(Entry{ID: "frens", Type: patterns.KindCulture, Title: "frens", FirstSeen: now, LastUpdated: now}); err != nil {
		t.Fatal(err)
	}
	var sources []string
	for i := 0; i < 15; i++ {
		sources = append(sources, fmt.Sprintf("item-%d", i))
	}
	got, _ := s.Merge("frens", sources, now)
	if got.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1", got.Confidence)
	}
	if len(got.Sources) != 15 {
		t.Errorf("sources = %d, want 15", len(got.Sources))
	}
}

func TestSeedKeepsExisting(t *testing.T) {
	s := NewStore()
	custom := Entry{ID: "gm", Type: patterns.KindCulture, Title: "gm", Explanation: "edited", FirstSeen: now, LastUpdated: now, Confidence: 1}
	if err := s.Add(custom); err != nil {
		t.Fatal(err)
	}
	added, err := s.Seed(Bootstrap(now))
	if err != nil {
		t.Fatal(err)
	}
	if added != 6 {
		t.Errorf("seeded %d, want 6", added)
	}
	if gm, _ := s.Get("gm"); gm.Explanation != "edited" {
		t.Error("Seed overwrote an existing entry")
	}
}

func TestLearnAccretion(t *testing.T) {
	store := NewStore()
	clock := now
	l := NewLearner(store, func() time.Time { return clock }, quietLogger())

	batch := []feed.ActivityItem{
		post("c1", "asked bankr to swap"),
		post("c2", "bankr is wild"),
		post("c3", "trading with @bankr today"),
	}
	res, err := l.Learn(batch, LearnOptions{})
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if len(res.Created) != 1 || res.Created[0].ID != "bankr" {
		t.Fatalf("Created = %+v", res.Created)
	}
	if got := res.Created[0].Confidence; got != 0.3 {
		t.Errorf("initial confidence = %v, want 0.3", got)
	}
	if res.Created[0].Explanation != PlaceholderExplanation {
		t.Errorf("explanation = %q", res.Created[0].Explanation)
	}

	clock = now.Add(time.Hour)
	res, err = l.Learn([]feed.ActivityItem{post("c4", "bankr again")}, LearnOptions{})
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if len(res.Updated) != 1 {
		t.Fatalf("Updated = %+v", res.Updated)
	}

	e, ok := store.Get("bankr")
	if !ok {
		t.Fatal("bankr not stored")
	}
	if len(e.Sources) != 4 {
		t.Errorf("sources = %v, want 4", e.Sources)
	}
	if e.Confidence != 0.4 {
		t.Errorf("confidence = %v, want 0.4", e.Confidence)
	}
	if !e.LastUpdated.Equal(clock) || !e.FirstSeen.Equal(now) {
		t.Errorf("timestamps first=%v last=%v", e.FirstSeen, e.LastUpdated)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d entries, want 1", store.Len())
	}
}

func TestLearnAccretionSeededStore(t *testing.T) {
	store := NewSeededStore(now)
	before, _ := store.Get("bankr")
	l := NewLearner(store, func() time.Time { return now }, quietLogger())

	for _, batch := range [][]feed.ActivityItem{
		{post("c1", "asked bankr to swap"), post("c2", "bankr is wild"), post("c3", "trading with @bankr today")},
		{post("c4", "bankr again")},
	} {
		if _, err := l.Learn(batch, LearnOptions{}); err != nil {
			t.Fatalf("Learn: %v", err)
		}
	}

	e, _ := store.Get("bankr")
	if len(e.Sources) != 4 {
		t.Errorf("sources = %v, want 4", e.Sources)
	}
	if e.Confidence != 0.4 {
		t.Errorf("confidence = %v, want 0.4", e.Confidence)
	}
	if e.Explanation != before.Explanation || e.Title != before.Title {
		t.Error("accretion rewrote curated text")
	}
}

func TestLearnKeepsExplanations(t *testing.T) {
	store := NewSeededStore(now)
	before, _ := store.Get("gm")
	l := NewLearner(store, func() time.Time { return now }, quietLogger())

	res, err := l.Learn([]feed.ActivityItem{post("a", "gm"), post("b", "GM frens"), post("c", "frens")}, LearnOptions{})
	if err != nil {
		t.Fatal(err)
	}
	after, _ := store.Get("gm")
	if after.Explanation != before.Explanation || after.Description != before.Description {
		t.Error("accretion rewrote entry text")
	}
	if after.Confidence != 0.2 || len(after.Sources) != 2 {
		t.Errorf("gm confidence = %v sources = %v, want 0.2 from 2 sources", after.Confidence, after.Sources)
	}
	if len(res.Updated) != 1 || len(res.Created) != 1 || res.Created[0].ID != "frens" {
		t.Errorf("result = %+v", res)
	}
}

func TestLearnOptions(t *testing.T) {
	items := []feed.ActivityItem{
		post("a", "posting in /base and using a frame"),
		post("b", "new frame in /base"),
		post("c", "nyor helps"),
		post("d", "nyor again"),
		{Hash: "bad", Text: "nyor", Replies: -1},
	}

	t.Run("min mentions", func(t *testing.T) {
		store := NewStore()
		res, err := NewLearner(store, func() time.Time { return now }, quietLogger()).Learn(items, LearnOptions{MinMentions: 3})
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Created) != 0 || res.BelowMinimum != 3 {
			t.Errorf("result = %+v", res)
		}
		if res.Rejected != 1 {
			t.Errorf("Rejected = %d, want 1", res.Rejected)
		}
	})

	t.Run("channels and features", func(t *testing.T) {
		store := NewStore()
		if _, err := NewLearner(store, func() time.Time { return now }, quietLogger()).Learn(items, LearnOptions{}); err != nil {
			t.Fatal(err)
		}
		ch, ok := store.Get("channel-base")
		if !ok || ch.Type != patterns.KindChannel || ch.Title != "base" {
			t.Errorf("channel entry = %+v", ch)
		}
		if fr, ok := store.Get("frames"); !ok || fr.Type != patterns.KindFeature {
			t.Errorf("frames entry = %+v", fr)
		}
	})

	t.Run("skip existing", func(t *testing.T) {
		store := NewSeededStore(now)
		res, err := NewLearner(store, func() time.Time { return now }, quietLogger()).Learn(items, LearnOptions{SkipExisting: true})
		if err != nil {
			t.Fatal(err)
		}
		if res.Skipped != 1 || len(res.Updated) != 0 {
			t.Errorf("result = %+v", res)
		}
		if e, _ := store.Get("nyor"); len(e.Sources) != 0 {
			t.Errorf("nyor sources changed: %v", e.Sources)
		}
	})

	t.Run("negative", func(t *testing.T) {
		_, err := NewLearner(NewStore(), nil, quietLogger()).Learn(items, LearnOptions{MinMentions: -1})
		if !errors.Is(err, ErrInvalidOption) {
			t.Errorf("expected ErrInvalidOption, got %v", err)
		}
	})
}

func TestRepositoryRoundTrip(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()
	repo := NewRepository(database)
	ctx := context.Background()

	store := NewSeededStore(now)
	extra := Entry{
		ID: "channel-base", Type: patterns.KindChannel, Title: "base",
		Description: "Mentioned in 2 casts", Explanation: PlaceholderExplanation,
		Sources: []string{"x", "y"}, FirstSeen: now.Add(123456789 * time.Nanosecond), LastUpdated: now,
		Confidence: 0.2,
	}
	if err := store.Add(extra); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveStore(ctx, store); err != nil {
		t.Fatalf("SaveStore: %v", err)
	}
	// Saving twice upserts rather than duplicating.
	if err := repo.SaveStore(ctx, store); err != nil {
		t.Fatalf("SaveStore again: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded, store.All()) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, store.All())
	}

	fresh := NewStore()
	n, seeded, err := repo.LoadInto(ctx, fresh, now)
	if err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	if n != 8 || seeded != 0 {
		t.Errorf("LoadInto loaded=%d seeded=%d, want 8 and 0", n, seeded)
	}
}

func TestRepositorySeedsEmptyDatabase(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	store := NewStore()
	n, seeded, err := NewRepository(database).LoadInto(context.Background(), store, now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || seeded != 7 || store.Len() != 7 {
		t.Errorf("loaded=%d seeded=%d len=%d", n, seeded, store.Len())
	}
}

func TestLearnNilLogger(t *testing.T) {
	l := NewLearner(NewStore(), nil, nil)
	bad := post("", "bankr")
	res, err := l.Learn([]feed.ActivityItem{bad, post("a", "bankr"), post("b", "bankr")}, LearnOptions{})
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if res.Rejected != 1 || len(res.Created) != 1 {
		t.Errorf("result = %+v", res)
	}
}
