package config

import (
	"time"

	"github.com/ziadkadry99/fc-companion/internal/feed"
	"github.com/ziadkadry99/fc-companion/internal/knowledge"
	"github.com/ziadkadry99/fc-companion/internal/neynar"
	"github.com/ziadkadry99/fc-companion/internal/quality"
	"github.com/ziadkadry99/fc-companion/internal/radar"
)

// DefaultConfigFile is the file Load reads when no path is given.
const DefaultConfigFile = ".companion.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	filter := quality.DefaultFilter()
	return &Config{
		VaultPath: "vault",
		Database:  ".companion/companion.db",
		LogLevel:  "info",
		LogFormat: "text",
		Feed: FeedConfig{
			Source:     SourceNeynar,
			Limit:      50,
			LearnLimit: 100,
			PageSize:   25,
			MaxPages:   1,
			PageDelay:  500 * time.Millisecond,
		},
		Neynar: NeynarConfig{
			BaseURL:    neynar.DefaultBaseURL,
			MaxRetries: 3,
			RetryDelay: time.Second,
			Timeout:    30 * time.Second,
		},
		Radar: RadarConfig{
			MinScore:   radar.DefaultMinScore,
			MaxResults: radar.DefaultMaxResults,
			Weights:    radar.DefaultWeights(),
		},
		Quality: QualityConfig{
			MinQuality:      filter.MinQuality,
			ExcludeBots:     filter.ExcludeBots,
			ExcludeScammers: filter.ExcludeScammers,
			Weights:         quality.DefaultWeights(),
		},
		Knowledge: KnowledgeConfig{
			MinMentions: knowledge.DefaultMinMentions,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
	}
}

// RankOptions returns the scorer options.
func (c *Config) RankOptions() radar.Options {
	return radar.Options{MinScore: c.Radar.MinScore, MaxResults: c.Radar.MaxResults}
}

// Filter returns the quality gate, or nil when the quality stage is off.
func (c *Config) Filter() *quality.Filter {
	if !c.Quality.Enabled {
		return nil
	}
	return &quality.Filter{
		MinQuality:      c.Quality.MinQuality,
		ExcludeBots:     c.Quality.ExcludeBots,
		ExcludeScammers: c.Quality.ExcludeScammers,
	}
}

// QualityOptions returns the classifier's deeper-check switches.
func (c *Config) QualityOptions() quality.Options {
	return quality.Options{CheckHistory: c.Quality.CheckHistory, CheckOnchain: c.Quality.CheckOnchain}
}

// LearnOptions returns the learner options.
func (c *Config) LearnOptions() knowledge.LearnOptions {
	return knowledge.LearnOptions{MinMentions: c.Knowledge.MinMentions, SkipExisting: c.Knowledge.SkipExisting}
}

// Paginate returns pagination options for a batch of at most limit items:
// pages no larger than the limit, enough of them to reach it, and a total
// capped at the limit. A non-positive limit leaves the total uncapped.
func (c *Config) Paginate(limit int) feed.PaginateOptions {
	size := c.Feed.PageSize
	if limit > 0 && limit < size {
		size = limit
	}
	pages := c.Feed.MaxPages
	if limit > size && size > 0 {
		if need := (limit + size - 1) / size; need > pages {
			pages = need
		}
	}
	opts := feed.PaginateOptions{PageSize: size, MaxPages: pages, PageDelay: c.Feed.PageDelay}
	if limit > 0 {
		opts.MaxItems = limit
	}
	return opts
}

// NeynarClientConfig returns the HTTP client configuration.
func (c *Config) NeynarClientConfig() neynar.Config {
	return neynar.Config{
		BaseURL:    c.Neynar.BaseURL,
		APIKey:     c.Neynar.APIKey,
		MaxRetries: c.Neynar.MaxRetries,
		RetryDelay: c.Neynar.RetryDelay,
		Timeout:    c.Neynar.Timeout,
	}
}
