package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

func positiveInt(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func nonNegativeInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("enter zero or a positive number")
	}
	return nil
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to the Farcaster companion! Let's set things up.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Account.
	fidPrompt := promptui.Prompt{
		Label:    "Your Farcaster ID (fid)",
		Validate: positiveInt,
	}
	fidStr, err := fidPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("fid: %w", err)
	}
	cfg.FID, _ = strconv.ParseInt(fidStr, 10, 64)

	// 2. Feed source.
	sourcePrompt := promptui.Select{
		Label: "Where should the feed come from",
		Items: []string{
			"neynar: live following feed (needs NEYNAR_API_KEY)",
			"file: a JSON batch on disk",
		},
	}
	sourceIdx, _, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("feed source: %w", err)
	}
	cfg.Feed.Source = []FeedSource{SourceNeynar, SourceFile}[sourceIdx]

	if cfg.Feed.Source == SourceFile {
		filePrompt := promptui.Prompt{
			Label:   "Path to the feed JSON",
			Default: "feed.json",
		}
		if cfg.Feed.File, err = filePrompt.Run(); err != nil {
			return nil, fmt.Errorf("feed file: %w", err)
		}
	}

	// 3. Vault.
	vaultPrompt := promptui.Prompt{
		Label:   "Vault directory for reports",
		Default: cfg.VaultPath,
	}
	if cfg.VaultPath, err = vaultPrompt.Run(); err != nil {
		return nil, fmt.Errorf("vault path: %w", err)
	}

	// 4. Threshold.
	scorePrompt := promptui.Prompt{
		Label:    "Minimum engagement score",
		Default:  strconv.Itoa(cfg.Radar.MinScore),
		Validate: nonNegativeInt,
	}
	scoreStr, err := scorePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("min score: %w", err)
	}
	cfg.Radar.MinScore, _ = strconv.Atoi(scoreStr)

	// 5. Quality gate.
	qualityPrompt := promptui.Select{
		Label: "Filter out bots and scam posts",
		Items: []string{"yes", "no"},
	}
	qualityIdx, _, err := qualityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quality filter: %w", err)
	}
	cfg.Quality.Enabled = qualityIdx == 0

	if cfg.Feed.Source == SourceNeynar && os.Getenv("NEYNAR_API_KEY") == "" {
		fmt.Println("\nNote: Set NEYNAR_API_KEY in your environment or .env before running companion report.")
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
