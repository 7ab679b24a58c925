package neynar

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/fc-companion/internal/feed"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testClient(url string, retries int) *Client {
	return NewClient(Config{
		BaseURL:    url,
		APIKey:     "test-key",
		MaxRetries: retries,
		RetryDelay: time.Millisecond,
	}, quietLogger())
}

const samplePage = `{
  "casts": [
    {
      "hash": "0x01",
      "author": {"fid": 42, "username": "alice", "display_name": "Alice"},
      "text": "just deployed our new frame, gm frens!",
      "timestamp": "2026-03-01T10:00:00Z",
      "replies": {"count": 6},
      "reactions": {"likes_count": 12, "recasts_count": 2, "likes": [{"fid": 1}]}
    },
    {
      "hash": "0x02",
      "author": {"fid": 7, "username": "bob"},
      "text": "hello",
      "timestamp": "2026-03-01T11:00:00Z",
      "replies": {"count": 0},
      "reactions": {"likes": [{"fid": 1}, {"fid": 2}], "recasts": [{"fid": 3}]}
    }
  ],
  "next": {"cursor": "next-page"}
}`

func TestFetchDecodesPage(t *testing.T) {
	var gotKey, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/farcaster/feed/following" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotKey = r.Header.Get("x-api-key")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	page, err := testClient(srv.URL, 0).Fetch(context.Background(), 42, feed.FetchOptions{Limit: 25, Cursor: "abc"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotQuery != "cursor=abc&fid=42&limit=25" {
		t.Errorf("query = %q", gotQuery)
	}
	if page.NextCursor != "next-page" {
		t.Errorf("NextCursor = %q", page.NextCursor)
	}
	if len(page.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(page.Items))
	}

	first := page.Items[0]
	if first.Author.DisplayName != "Alice" || first.Replies != 6 || first.Likes != 12 || first.Recasts != 2 {
		t.Errorf("first item decoded wrong: %+v", first)
	}
	second := page.Items[1]
	if second.Likes != 2 || second.Recasts != 1 {
		t.Errorf("list-derived counts wrong: likes=%d recasts=%d", second.Likes, second.Recasts)
	}
	if !second.Timestamp.Equal(time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v", second.Timestamp)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"casts": []}`))
	}))
	defer srv.Close()

	page, err := testClient(srv.URL, 3).Fetch(context.Background(), 1, feed.FetchOptions{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("expected empty page")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 3).Fetch(context.Background(), 1, feed.FetchOptions{})
	if !errors.Is(err, feed.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestFetchInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 0).Fetch(context.Background(), 1, feed.FetchOptions{})
	if !errors.Is(err, feed.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&statusError{Code: 500}, true},
		{&statusError{Code: 429}, true},
		{&statusError{Code: 404}, false},
		{errors.New("connection reset"), true},
		{context.Canceled, false},
	}
	for _, tt := range tests {
		if got := retryable(tt.err); got != tt.want {
			t.Errorf("retryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
