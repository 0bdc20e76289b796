// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdyun/sermon-engine/internal/runstore"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past runs from the history database",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := runstore.Open(outputDir())
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-20s  %-10s  %-12s  %s\n",
		"Tag", "Range", "Status", "Date", "Document")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for _, r := range runs {
		rng := r.PassageRange
		if len([]rune(rng)) > 20 {
			rng = string([]rune(rng)[:17]) + "..."
		}
		fmt.Fprintf(os.Stdout, "%-16s  %-20s  %-10s  %-12s  %s\n",
			r.Tag, rng, r.Status, r.SermonDate, r.DocumentPath)
	}

	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}
