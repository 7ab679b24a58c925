package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides. Double underscores separate
// nested keys: COMPANION_NEYNAR__API_KEY -> neynar.api_key.
const EnvPrefix = "COMPANION_"

// plainEnv maps the unprefixed variables a .env file usually carries.
var plainEnv = map[string]string{
	"NEYNAR_API_KEY": "neynar.api_key",
	"FID":            "fid",
	"VAULT_PATH":     "vault_path",
}

// LoadDotEnv loads variables from the given files (default .env) into the
// process environment. Variables already set are kept; missing files are
// skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from the given YAML file, then overlays
// NEYNAR_API_KEY/FID/VAULT_PATH and finally COMPANION_* overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return plainEnv[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path. The API key
// is never written; keep it in the environment.
func (c *Config) Save(path string) error {
	out := *c
	out.Neynar.APIKey = ""
	data, err := yamlv3.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validSources is the set of recognized feed sources.
var validSources = map[FeedSource]bool{
	SourceNeynar: true,
	SourceFile:   true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.FID <= 0 {
		return fmt.Errorf("fid must be a positive account id")
	}
	if c.VaultPath == "" {
		return fmt.Errorf("vault_path is required")
	}
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}

	if !validSources[c.Feed.Source] {
		return fmt.Errorf("invalid feed.source %q: must be one of neynar, file", c.Feed.Source)
	}
	if c.Feed.Source == SourceFile && c.Feed.File == "" {
		return fmt.Errorf("feed.file is required when feed.source is file")
	}
	if c.Feed.PageSize <= 0 {
		return fmt.Errorf("feed.page_size must be positive")
	}
	if c.Feed.Limit < 0 || c.Feed.LearnLimit < 0 || c.Feed.MaxPages < 0 || c.Feed.PageDelay < 0 {
		return fmt.Errorf("feed limits, max_pages and page_delay must be non-negative")
	}

	if c.Radar.MinScore < 0 {
		return fmt.Errorf("radar.min_score must be non-negative")
	}
	if c.Radar.MaxResults < 0 {
		return fmt.Errorf("radar.max_results must be non-negative")
	}
	if c.Quality.MinQuality < 0 || c.Quality.MinQuality > 1 {
		return fmt.Errorf("quality.min_quality must be between 0 and 1")
	}
	if c.Knowledge.MinMentions < 0 {
		return fmt.Errorf("knowledge.min_mentions must be non-negative")
	}
	if c.Neynar.MaxRetries < 0 || c.Neynar.RetryDelay < 0 {
		return fmt.Errorf("neynar.max_retries and neynar.retry_delay must be non-negative")
	}

	return nil
}

// RequireAPIKey reports an error when the feed needs a key that is missing.
func (c *Config) RequireAPIKey() error {
	if c.Feed.Source == SourceNeynar && c.Neynar.APIKey == "" {
		return fmt.Errorf("NEYNAR_API_KEY is not set (or set %sNEYNAR__API_KEY)", EnvPrefix)
	}
	return nil
}
