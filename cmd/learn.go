package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/fc-companion/internal/progress"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Grow the knowledge library from your feed",
	Long: `Fetches a larger batch of your feed and records the terms, tools and channels
mentioned often enough to be worth explaining.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		flags := cmd.Flags()
		limit := a.cfg.Feed.LearnLimit
		if flags.Changed("limit") {
			limit, _ = flags.GetInt("limit")
		}
		opts := a.cfg.LearnOptions()
		if flags.Changed("min-mentions") {
			opts.MinMentions, _ = flags.GetInt("min-mentions")
		}
		if flags.Changed("skip-existing") {
			opts.SkipExisting, _ = flags.GetBool("skip-existing")
		}

		gen, err := a.generator(nil)
		if err != nil {
			return err
		}

		fetch := a.cfg.Paginate(limit)
		reporter := progress.NewReporter()
		reporter.Start(fetch.MaxPages)
		fetch.OnPage = progress.PageHook(reporter)

		before := a.store.Len()
		res, err := gen.Learn(ctx, a.cfg.FID, fetch, opts)
		reporter.Finish()
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(heading("Learning complete!"))
		printLearnResult(res)
		fmt.Printf("  Library size:  %d -> %d entries\n", before, a.store.Len())
		return nil
	},
}

func init() {
	learnCmd.Flags().Int("limit", 0, "number of feed items to learn from (overrides config)")
	learnCmd.Flags().Int("min-mentions", 0, "casts a new term must appear in (overrides config)")
	learnCmd.Flags().Bool("skip-existing", false, "leave known entries untouched")
	rootCmd.AddCommand(learnCmd)
}
