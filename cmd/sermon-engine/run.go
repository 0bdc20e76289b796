// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdyun/sermon-engine/internal/export"
	"github.com/jdyun/sermon-engine/internal/gemini"
	"github.com/jdyun/sermon-engine/internal/pipeline"
	"github.com/jdyun/sermon-engine/internal/prompt"
	"github.com/jdyun/sermon-engine/internal/runstore"
	"github.com/jdyun/sermon-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the five-phase sermon pipeline for a passage range",
	Long: `Run executes all five phases in order for the given Bible passage range:
passage selection, outline, persona feedback, manuscript draft, and final
package. Each phase's raw output is saved under the output directory as it
arrives, and the finished sermon is exported as a .docx document.

When --range is omitted the passage range is read interactively. With
--resume, the most recent aborted run for the same passage range is picked
up where it stopped instead of starting over.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("range", "", `설교할 성경 범위 (예: "에스겔 36-37장")`)
	runCmd.Flags().String("date", "", `설교 예정일 (YYYY-MM-DD). 미입력 시 다음 주일`)
	runCmd.Flags().String("context", "", "이번 주 성도들의 삶의 상황·교회 분위기 (선택)")
	runCmd.Flags().String("tone", string(types.ToneEveryday), "설교 어조: 도전, 위로, 교육, 일상")
	runCmd.Flags().String("duration", "40", "설교 예상 시간(분): 15, 30, 40, 60")
	runCmd.Flags().String("model", "", "AI model identifier (default from config)")
	runCmd.Flags().Bool("resume", false, "resume the most recent aborted run for this passage range")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	// Pre-flight: credentials are checked before anything else happens.
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	in, err := runInput(cmd)
	if err != nil {
		return err
	}

	store, err := runstore.Open(cfg.Pipeline.OutputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	var opts pipeline.Options
	if resume, _ := cmd.Flags().GetBool("resume"); resume {
		opts, err = resumeOptions(ctx, cmd, store, in.PassageRange)
		if err != nil {
			return err
		}
	}

	p := &pipeline.Pipeline{
		Backend:  gemini.New(cfg.AI),
		Exporter: &export.Exporter{},
		Store:    store,
		Config:   cfg,
		Out:      cmd.OutOrStdout(),
	}

	fmt.Fprintln(cmd.OutOrStdout(), startBanner(in.PassageRange, in.SermonDate))

	run, err := p.Run(ctx, in, opts)
	if err != nil {
		var phaseErr *pipeline.PhaseError
		if errors.As(err, &phaseErr) && run != nil && len(run.Results) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(),
				"완료된 Phase 결과 %d개는 %s 에 보존되어 있습니다. 'run --resume' 으로 이어서 실행할 수 있습니다.\n",
				len(run.Results), run.Dir)
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), donePanel(run))
	return nil
}

// runInput validates the flags and fills in defaults: the passage range is
// prompted for when absent, and the sermon date defaults to next Sunday.
func runInput(cmd *cobra.Command) (prompt.Input, error) {
	var in prompt.Input

	passageRange, _ := cmd.Flags().GetString("range")
	passageRange = strings.TrimSpace(passageRange)
	if passageRange == "" {
		var err error
		passageRange, err = promptPassageRange(cmd)
		if err != nil {
			return in, err
		}
	}

	tone, _ := cmd.Flags().GetString("tone")
	if !types.Tone(tone).Valid() {
		return in, fmt.Errorf("invalid tone %q (choose one of: 도전, 위로, 교육, 일상)", tone)
	}

	duration, _ := cmd.Flags().GetString("duration")
	if !types.ValidDuration(duration) {
		return in, fmt.Errorf("invalid duration %q (choose one of: 15, 30, 40, 60)", duration)
	}

	sermonDate, err := resolveSermonDate(cmd)
	if err != nil {
		return in, err
	}

	contextNote, _ := cmd.Flags().GetString("context")

	return prompt.Input{
		PassageRange: passageRange,
		SermonDate:   sermonDate,
		Context:      contextNote,
		Tone:         types.Tone(tone),
		Duration:     duration,
	}, nil
}

func promptPassageRange(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "📖 설교할 성경 범위를 입력하세요 (예: 에스겔 36-37장): ")

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading passage range: %w", err)
	}

	passageRange := strings.TrimSpace(line)
	if passageRange == "" {
		return "", fmt.Errorf("passage range is required")
	}
	return passageRange, nil
}

func resolveSermonDate(cmd *cobra.Command) (string, error) {
	dateFlag, _ := cmd.Flags().GetString("date")
	if dateFlag == "" {
		return nextSunday(time.Now()).Format("2006년 01월 02일"), nil
	}
	parsed, err := time.Parse("2006-01-02", dateFlag)
	if err != nil {
		return "", fmt.Errorf("invalid --date %q (expected YYYY-MM-DD): %w", dateFlag, err)
	}
	return parsed.Format("2006년 01월 02일"), nil
}

// nextSunday returns the first Sunday strictly after t.
func nextSunday(t time.Time) time.Time {
	days := (7 - int(t.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	return t.AddDate(0, 0, days)
}

// resumeOptions looks up the most recent aborted run for the passage
// range and restores its completed phases from their artifact files.
// When there is nothing to resume the run starts fresh.
func resumeOptions(ctx context.Context, cmd *cobra.Command, store *runstore.Store, passageRange string) (pipeline.Options, error) {
	rec, err := store.LastAborted(ctx, passageRange)
	if err != nil {
		return pipeline.Options{}, err
	}
	if rec == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "이어서 실행할 중단된 작업이 없어 처음부터 시작합니다.")
		return pipeline.Options{}, nil
	}

	completed, err := restorePhases(ctx, store, rec.Tag)
	if err != nil {
		return pipeline.Options{}, err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "중단된 작업 %s 을 이어서 실행합니다 (완료된 Phase %d개 복원).\n",
		rec.Tag, len(completed))
	return pipeline.Options{ResumeTag: rec.Tag, Completed: completed}, nil
}

// restorePhases reloads a run's recorded phases from disk, keeping only
// the contiguous prefix starting at phase 1. A phase whose artifact file
// has gone missing, and everything after it, is simply re-run.
func restorePhases(ctx context.Context, store *runstore.Store, tag string) ([]types.PhaseResult, error) {
	recs, err := store.PhasesFor(ctx, tag)
	if err != nil {
		return nil, err
	}

	var completed []types.PhaseResult
	next := types.PhaseSelection
	for _, rec := range recs {
		if rec.Phase != next {
			break
		}
		data, err := os.ReadFile(rec.Path)
		if err != nil {
			break
		}
		completed = append(completed, types.PhaseResult{
			Phase: rec.Phase,
			Text:  string(data),
			Path:  rec.Path,
		})
		next++
	}
	return completed, nil
}
