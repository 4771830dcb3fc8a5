// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/variant-evidence/internal/evidence"
	"github.com/pdiddy/variant-evidence/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse stored assessment runs",
	Long: `History queries the local evidence database of completed runs. Use
subcommands to list recent runs, show one run in full, or search the
stored experiment summaries with full-text search.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No stored runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-24s  %-10s  %-10s  %-10s  %s\n",
		"ID", "Variant", "Gene", "Decision", "Strength", "Date")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, r := range runs {
		date := r.CreatedAt
		if len(date) > 10 {
			date = date[:10]
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-24s  %-10s  %-10s  %-10s  %s\n",
			r.ID, r.Variant, r.Gene, r.Decision, r.Strength, date)
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one stored run in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q", args[0])
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.GetRun(id)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Fprintf(os.Stdout, "Run %d: %s", rec.ID, rec.Variant)
	if rec.Gene != "" {
		fmt.Fprintf(os.Stdout, " (%s)", rec.Gene)
	}
	fmt.Fprintf(os.Stdout, "\nDecision: %s   Strength: %s   Rule: %s\n", rec.Decision, rec.Strength, rec.Rule)
	fmt.Fprintf(os.Stdout, "Date: %s\n", rec.CreatedAt)
	if rec.Incomplete {
		fmt.Fprintln(os.Stdout, "Note: this run is marked incomplete.")
	}

	fmt.Fprintln(os.Stdout, "\nNarrative:")
	fmt.Fprintln(os.Stdout, rec.Narrative)

	if len(rec.Papers) > 0 {
		fmt.Fprintln(os.Stdout, "\nPapers:")
		fmt.Fprintf(os.Stdout, "%-10s  %-12s  %-6s  %s\n", "PMID", "Disposition", "Year", "Title")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
		for _, p := range rec.Papers {
			year := ""
			if p.Year > 0 {
				year = strconv.Itoa(p.Year)
			}
			title := p.Title
			if len(title) > 56 {
				title = title[:53] + "..."
			}
			fmt.Fprintf(os.Stdout, "%-10s  %-12s  %-6s  %s\n", p.PMID, p.Disposition, year, title)
		}
	}

	if len(rec.Experiments) > 0 {
		fmt.Fprintln(os.Stdout, "\nExperiments:")
		for _, e := range rec.Experiments {
			fmt.Fprintf(os.Stdout, "  PMID %s [%s] %s (tier %s): %s\n",
				e.PMID, e.Direction, e.AssayType, e.Tier, e.Summary)
		}
	}
	return nil
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Full-text search over stored experiment summaries",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistorySearch,
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	hits, err := store.SearchExperiments(strings.Join(args, " "))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	for _, h := range hits {
		fmt.Fprintf(os.Stdout, "run %d  %s  PMID %s  [%s] %s\n  %s\n",
			h.RunID, h.Variant, h.PMID, h.Direction, h.AssayType, h.Summary)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(hits))
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*evidence.Store, error) {
	path, _ := cmd.Flags().GetString("store")
	if path == "" {
		path = viper.GetString("store.path")
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults == 0 {
		maxResults = viper.GetInt("store.max_results")
	}

	return evidence.NewStore(types.StoreConfig{
		Path:       path,
		MaxResults: maxResults,
	})
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	historyCmd.PersistentFlags().String("store", "", "evidence database path (default evidence/evidence.db)")
	historyCmd.PersistentFlags().Int("max-results", 0, "maximum query results (0 = use default)")
	historyCmd.PersistentFlags().Bool("json", false, "output as JSON")

	historyListCmd.Flags().Int("limit", 0, "maximum runs to list (0 = use default)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historySearchCmd)

	rootCmd.AddCommand(historyCmd)
}
