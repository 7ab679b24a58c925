// Package neynar fetches following feeds from the Neynar social-graph API.
package neynar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/fc-companion/internal/feed"
	"github.com/ziadkadry99/fc-companion/internal/logging"
)

// DefaultBaseURL is the public Neynar API endpoint.
const DefaultBaseURL = "https://api.neynar.com"

// Config configures the API client.
type Config struct {
	BaseURL    string
	APIKey     string
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// DefaultConfig retries three times, one second apart.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		MaxRetries: 3,
		RetryDelay: time.Second,
		Timeout:    30 * time.Second,
	}
}

// Client implements feed.Source against the following-feed endpoint.
type Client struct {
	cfg      Config
	http     *http.Client
	executor failsafe.Executor[[]byte]
	log      logrus.FieldLogger
}

// statusError is returned for non-2xx responses.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("neynar: unexpected status %d: %s", e.Code, e.Body)
}

// retryable reports whether a failed call is worth repeating. Client
// errors other than rate limiting are final.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return !errors.Is(err, context.Canceled)
}

// NewClient builds a client. Zero numeric fields fall back to DefaultConfig.
func NewClient(cfg Config, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logging.Discard()
	}
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = def.RetryDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	retry := retrypolicy.NewBuilder[[]byte]().
		WithMaxRetries(cfg.MaxRetries).
		WithDelay(cfg.RetryDelay).
		HandleIf(func(_ []byte, err error) bool { return retryable(err) }).
		OnRetry(func(e failsafe.ExecutionEvent[[]byte]) {
			log.WithFields(logrus.Fields{
				"attempt": e.Attempts(),
				"error":   e.LastError(),
			}).Warn("neynar: request failed, retrying")
		}).
		Build()

	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		executor: failsafe.With[[]byte](retry),
		log:      log,
	}
}

// Fetch retrieves one page of the account's following feed.
func (c *Client) Fetch(ctx context.Context, fid int64, opts feed.FetchOptions) (feed.Page, error) {
	q := url.Values{}
	q.Set("fid", strconv.FormatInt(fid, 10))
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		q.Set("cursor", opts.Cursor)
	}
	endpoint := c.cfg.BaseURL + "/v2/farcaster/feed/following?" + q.Encode()

	body, err := c.executor.WithContext(ctx).Get(func() ([]byte, error) {
		return c.get(ctx, endpoint)
	})
	if err != nil {
		return feed.Page{}, fmt.Errorf("%w: %w", feed.ErrFetchFailed, err)
	}

	var resp feedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return feed.Page{}, fmt.Errorf("%w: decoding feed response: %v", feed.ErrFetchFailed, err)
	}

	page := feed.Page{Items: make([]feed.ActivityItem, 0, len(resp.Casts))}
	for _, cast := range resp.Casts {
		page.Items = append(page.Items, cast.toItem())
	}
	if resp.Next != nil {
		page.NextCursor = resp.Next.Cursor
	}

	c.log.WithFields(logrus.Fields{"fid": fid, "casts": len(page.Items)}).Debug("neynar: fetched feed page")
	return page, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &statusError{Code: resp.StatusCode, Body: snippet}
	}
	return body, nil
}
