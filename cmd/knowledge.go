package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/fc-companion/internal/knowledge"
	"github.com/ziadkadry99/fc-companion/internal/patterns"
	"github.com/ziadkadry99/fc-companion/internal/vault"
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Browse and export the knowledge library",
}

var knowledgeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List knowledge entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		entries := a.store.All()
		if t, _ := cmd.Flags().GetString("type"); t != "" {
			kind := patterns.Kind(t)
			if !slices.Contains(knowledge.ValidTypes, kind) {
				return fmt.Errorf("unknown type %q", t)
			}
			entries = a.store.ByType(kind)
		}
		printEntries(entries)
		return nil
	},
}

var knowledgeGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		e, ok := a.store.Get(args[0])
		if !ok {
			return fmt.Errorf("no entry %q", args[0])
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(e)
		}

		fmt.Printf("%s [%s]\n", heading(e.Title), e.Type)
		if e.Description != "" {
			fmt.Println(e.Description)
		}
		fmt.Printf("\n%s\n", e.Explanation)
		if e.WhyMatters != "" {
			fmt.Printf("\nWhy it matters: %s\n", e.WhyMatters)
		}
		for _, ex := range e.Examples {
			fmt.Printf("  - %s\n", ex)
		}
		fmt.Printf("\nConfidence: %.2f  Sources: %d  Updated: %s\n",
			e.Confidence, len(e.Sources), e.LastUpdated.Format("2006-01-02"))
		return nil
	},
}

var knowledgeSearchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search entries by keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		printEntries(a.store.Search(args[0]))
		return nil
	},
}

var knowledgeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the glossary to the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := vault.New(a.cfg.VaultPath).WriteGlossary(a.store.All())
		if err != nil {
			return err
		}
		fmt.Printf("Glossary with %d entries written to %s\n", a.store.Len(), path)
		return nil
	},
}

func printEntries(entries []knowledge.Entry) {
	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return
	}
	for _, e := range entries {
		fmt.Printf("  %-20s %-8s %.2f  %s\n", e.ID, e.Type, e.Confidence, e.Title)
	}
	if len(entries) == 1 {
		fmt.Println("\n1 entry")
		return
	}
	fmt.Printf("\n%d entries\n", len(entries))
}

func init() {
	knowledgeListCmd.Flags().String("type", "", "only list entries of this type")
	knowledgeGetCmd.Flags().Bool("json", false, "print the entry as JSON")
	knowledgeCmd.AddCommand(knowledgeListCmd, knowledgeGetCmd, knowledgeSearchCmd, knowledgeExportCmd)
	rootCmd.AddCommand(knowledgeCmd)
}
