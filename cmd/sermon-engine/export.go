// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdyun/sermon-engine/internal/export"
	"github.com/jdyun/sermon-engine/internal/runstore"
	"github.com/jdyun/sermon-engine/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [run-tag]",
	Short: "Re-export a completed run's document from stored artifacts",
	Long: `Export rebuilds the .docx document for a run whose five phases already
completed, reading the phase artifacts from disk. No API calls are made.
Use 'history' to find run tags.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	tag := args[0]
	ctx := cmd.Context()

	store, err := runstore.Open(outputDir())
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(ctx, tag)
	if err != nil {
		return err
	}
	if rec.Status != runstore.StatusGenerated && rec.Status != runstore.StatusExported {
		return fmt.Errorf("run %s is %s; only completed runs can be exported", tag, rec.Status)
	}

	completed, err := restorePhases(ctx, store, tag)
	if err != nil {
		return err
	}
	if len(completed) != types.PhaseCount {
		return fmt.Errorf("run %s has %d readable phase artifacts, need %d", tag, len(completed), types.PhaseCount)
	}

	startedAt, err := time.Parse(time.RFC3339, rec.StartedAt)
	if err != nil {
		startedAt = time.Now()
	}

	run := &types.Run{
		Tag: rec.Tag,
		Input: types.RunInput{
			PassageRange: rec.PassageRange,
			SermonDate:   rec.SermonDate,
			Tone:         types.Tone(rec.Tone),
			Duration:     rec.Duration,
		},
		Dir:       filepath.Dir(completed[0].Path),
		Results:   completed,
		StartedAt: startedAt,
	}

	var e export.Exporter
	path, err := e.Export(run)
	if err != nil {
		return err
	}

	if err := store.MarkExported(ctx, tag, path); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "📄 문서:", pathStyle.Render(path))
	return nil
}
