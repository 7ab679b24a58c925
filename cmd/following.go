package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/fc-companion/internal/feed"
	"github.com/ziadkadry99/fc-companion/internal/following"
)

var followingCmd = &cobra.Command{
	Use:   "following",
	Short: "Classify the accounts you follow",
	Long:  `Classifies account profiles exported from the social graph (a JSON array of profiles) into builders, creators, traders, power players and community members.`,
}

var followingAnalyzeCmd = &cobra.Command{
	Use:   "analyze <profiles.json>",
	Short: "Classify every profile, most followed first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := following.LoadProfiles(args[0])
		if err != nil {
			return err
		}
		minFollowers, _ := cmd.Flags().GetInt("min-followers")
		noReasons, _ := cmd.Flags().GetBool("no-reasons")
		results, err := following.Analyze(profiles, following.Options{MinFollowers: minFollowers, SkipReasons: noReasons})
		if err != nil {
			return err
		}
		return printFollowing(cmd, results)
	},
}

var followingBestCmd = &cobra.Command{
	Use:   "best <profiles.json>",
	Short: "Show your most valuable follows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := following.LoadProfiles(args[0])
		if err != nil {
			return err
		}
		minFollowers, _ := cmd.Flags().GetInt("min-followers")
		top, _ := cmd.Flags().GetInt("top")
		results, err := following.Best(profiles, following.BestOptions{MinFollowers: minFollowers, TopN: top})
		if err != nil {
			return err
		}
		return printFollowing(cmd, results)
	},
}

var followingBuilderCmd = &cobra.Command{
	Use:   "builder <fid>",
	Short: "Summarize what an account has been shipping",
	Long:  `Fetches recent activity from the configured feed source and extracts the topics and project announcements posted by the given account.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fid, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || fid <= 0 {
			return fmt.Errorf("invalid fid %q", args[0])
		}

		ctx := context.Background()
		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		profile := following.Profile{FID: fid}
		if path, _ := cmd.Flags().GetString("profiles"); path != "" {
			profiles, err := following.LoadProfiles(path)
			if err != nil {
				return err
			}
			for _, p := range profiles {
				if p.FID == fid {
					profile = p
					break
				}
			}
		}

		src, err := a.source()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		items, err := feed.Paginate(ctx, src, a.cfg.FID, a.cfg.Paginate(limit))
		if err != nil {
			return err
		}
		if profile.Username == "" {
			for _, item := range items {
				if item.Author.FID == fid {
					profile.Username = item.Author.Username
					profile.DisplayName = item.Author.DisplayName
					break
				}
			}
		}

		act := following.TrackBuilder(profile, items)
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(act)
		}

		name := act.Username
		if name == "" {
			name = fmt.Sprintf("fid %d", fid)
		}
		fmt.Printf("%s [%s]\n", heading(name), act.Classification)
		fmt.Printf("  Topics:        %s\n", strings.Join(act.Topics, ", "))
		fmt.Printf("  Announcements: %d\n", len(act.Announcements))
		for _, h := range act.Announcements {
			fmt.Printf("                 %s\n", h)
		}
		if act.Building {
			fmt.Printf("  %s\n", good("Actively building"))
		}
		return nil
	},
}

func printFollowing(cmd *cobra.Command, results []following.Analysis) error {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	if len(results) == 0 {
		fmt.Println("No accounts matched.")
		return nil
	}
	for _, r := range results {
		fmt.Printf("  %-20s %-12s %8d  %s\n", r.Username, r.Classification, r.FollowerCount, strings.Join(r.WhyFollow, "; "))
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{followingAnalyzeCmd, followingBestCmd, followingBuilderCmd} {
		c.Flags().Bool("json", false, "print results as JSON")
	}
	followingAnalyzeCmd.Flags().Int("min-followers", 0, "skip accounts with fewer followers")
	followingAnalyzeCmd.Flags().Bool("no-reasons", false, "omit follow reasons")
	followingBestCmd.Flags().Int("min-followers", 0, "skip accounts with fewer followers (default 50)")
	followingBestCmd.Flags().Int("top", 0, "number of accounts to show (default 20)")
	followingBuilderCmd.Flags().String("profiles", "", "profiles JSON used for the account's follower count")
	followingBuilderCmd.Flags().Int("limit", 50, "number of feed items to scan")

	followingCmd.AddCommand(followingAnalyzeCmd, followingBestCmd, followingBuilderCmd)
	rootCmd.AddCommand(followingCmd)
}
