package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/fc-companion/internal/companion"
	"github.com/ziadkadry99/fc-companion/internal/progress"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate today's engagement report",
	Long: `Fetches your following feed, ranks the casts worth engaging with, explains
the community references in them, and writes the report to your vault.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().Int("min-score", 0, "minimum engagement score (overrides config)")
	reportCmd.Flags().Int("max-results", 0, "maximum number of opportunities (overrides config)")
	reportCmd.Flags().Int("limit", 0, "number of feed items to fetch (overrides config)")
	reportCmd.Flags().Bool("quality", false, "filter opportunities through the quality classifier")
	reportCmd.Flags().Bool("learn", false, "learn new terms from the fetched batch")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()

	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	// Flags override config only when given.
	flags := cmd.Flags()
	if flags.Changed("min-score") {
		a.cfg.Radar.MinScore, _ = flags.GetInt("min-score")
	}
	if flags.Changed("max-results") {
		a.cfg.Radar.MaxResults, _ = flags.GetInt("max-results")
	}
	if flags.Changed("limit") {
		a.cfg.Feed.Limit, _ = flags.GetInt("limit")
	}
	if flags.Changed("quality") {
		a.cfg.Quality.Enabled, _ = flags.GetBool("quality")
	}
	if flags.Changed("learn") {
		a.cfg.Knowledge.LearnAfterReport, _ = flags.GetBool("learn")
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	gen, err := a.generator(nil)
	if err != nil {
		return err
	}

	opts := companion.Options{
		FID:          a.cfg.FID,
		Fetch:        a.cfg.Paginate(a.cfg.Feed.Limit),
		Rank:         a.cfg.RankOptions(),
		Filter:       a.cfg.Filter(),
		Learn:        a.cfg.Knowledge.LearnAfterReport,
		LearnOptions: a.cfg.LearnOptions(),
	}
	reporter := progress.NewReporter()
	reporter.Start(opts.Fetch.MaxPages)
	opts.Fetch.OnPage = progress.PageHook(reporter)

	res, err := gen.Generate(ctx, opts)
	reporter.Finish()
	if err != nil {
		return err
	}

	r := res.Report
	fmt.Println()
	fmt.Println(heading("Companion report complete!"))
	fmt.Printf("  Date:            %s\n", r.Date)
	fmt.Printf("  Items fetched:   %d\n", res.Fetched)
	fmt.Printf("  Opportunities:   %s\n", good(r.Summary.Count))
	fmt.Printf("  Average score:   %d\n", r.Summary.AverageScore)
	fmt.Printf("  Contexts needed: %d\n", r.Summary.ContextsNeeded)
	if len(r.Rejected) > 0 {
		fmt.Printf("  Malformed items: %s\n", warn(len(r.Rejected)))
	}
	if opts.Filter != nil {
		fmt.Printf("  Quality filtered: %d\n", res.Filtered)
	}
	for _, p := range res.Paths {
		fmt.Printf("  Wrote:           %s\n", p)
	}
	if res.Learned != nil {
		fmt.Println()
		fmt.Println(heading("Knowledge learned:"))
		printLearnResult(*res.Learned)
	}
	fmt.Printf("  Duration:        %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
