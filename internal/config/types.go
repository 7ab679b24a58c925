package config

import (
	"time"

	"github.com/ziadkadry99/fc-companion/internal/quality"
	"github.com/ziadkadry99/fc-companion/internal/radar"
)

// FeedSource identifies where activity items come from.
type FeedSource string

const (
	SourceNeynar FeedSource = "neynar"
	SourceFile   FeedSource = "file"
)

// Config is the top-level companion configuration, corresponding to .companion.yml.
type Config struct {
	FID       int64           `yaml:"fid" koanf:"fid"`
	VaultPath string          `yaml:"vault_path" koanf:"vault_path"`
	Database  string          `yaml:"database" koanf:"database"`
	LogLevel  string          `yaml:"log_level" koanf:"log_level"`
	LogFormat string          `yaml:"log_format" koanf:"log_format"`
	Feed      FeedConfig      `yaml:"feed" koanf:"feed"`
	Neynar    NeynarConfig    `yaml:"neynar" koanf:"neynar"`
	Radar     RadarConfig     `yaml:"radar" koanf:"radar"`
	Quality   QualityConfig   `yaml:"quality" koanf:"quality"`
	Knowledge KnowledgeConfig `yaml:"knowledge" koanf:"knowledge"`
	Server    ServerConfig    `yaml:"server" koanf:"server"`
}

// FeedConfig controls how batches are fetched.
type FeedConfig struct {
	Source     FeedSource    `yaml:"source" koanf:"source"`
	File       string        `yaml:"file" koanf:"file"`
	Limit      int           `yaml:"limit" koanf:"limit"`
	LearnLimit int           `yaml:"learn_limit" koanf:"learn_limit"`
	PageSize   int           `yaml:"page_size" koanf:"page_size"`
	MaxPages   int           `yaml:"max_pages" koanf:"max_pages"`
	PageDelay  time.Duration `yaml:"page_delay" koanf:"page_delay"`
}

// NeynarConfig holds feed API settings.
type NeynarConfig struct {
	APIKey     string        `yaml:"api_key,omitempty" koanf:"api_key"`
	BaseURL    string        `yaml:"base_url" koanf:"base_url"`
	MaxRetries int           `yaml:"max_retries" koanf:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay" koanf:"retry_delay"`
	Timeout    time.Duration `yaml:"timeout" koanf:"timeout"`
}

// RadarConfig holds engagement scoring settings.
type RadarConfig struct {
	MinScore   int           `yaml:"min_score" koanf:"min_score"`
	MaxResults int           `yaml:"max_results" koanf:"max_results"`
	Weights    radar.Weights `yaml:"weights" koanf:"weights"`
}

// QualityConfig holds the quality gate.
type QualityConfig struct {
	Enabled         bool            `yaml:"enabled" koanf:"enabled"`
	MinQuality      float64         `yaml:"min_quality" koanf:"min_quality"`
	ExcludeBots     bool            `yaml:"exclude_bots" koanf:"exclude_bots"`
	ExcludeScammers bool            `yaml:"exclude_scammers" koanf:"exclude_scammers"`
	CheckHistory    bool            `yaml:"check_history" koanf:"check_history"`
	CheckOnchain    bool            `yaml:"check_onchain" koanf:"check_onchain"`
	Weights         quality.Weights `yaml:"weights" koanf:"weights"`
}

// KnowledgeConfig holds learning settings.
type KnowledgeConfig struct {
	MinMentions      int  `yaml:"min_mentions" koanf:"min_mentions"`
	SkipExisting     bool `yaml:"skip_existing" koanf:"skip_existing"`
	LearnAfterReport bool `yaml:"learn_after_report" koanf:"learn_after_report"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr string `yaml:"addr" koanf:"addr"`
}
