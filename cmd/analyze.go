package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/fc-companion/internal/detector"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <text>",
	Short: "Explain the community references in a piece of text",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := openApp(context.Background(), false)
		exitOnError(err)
		defer a.Close()

		text := strings.Join(args, " ")
		analysis := detector.New(a.store).Analyze(text, "")

		if len(analysis.References) == 0 {
			fmt.Println("No community references found.")
			return
		}

		fmt.Println(heading(fmt.Sprintf("Found %d reference(s):", len(analysis.References))))
		for _, r := range analysis.References {
			status := warn("unknown")
			if r.Resolved() {
				status = good(r.Entry.Title)
			}
			fmt.Printf("  %-16s %-8s %s\n", r.Text, r.Kind, status)
		}
		if analysis.NeedsExplanation {
			fmt.Println()
			fmt.Println(heading("Context:"))
			for _, s := range analysis.SuggestedContext {
				fmt.Printf("  - %s\n", s)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
