// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the five sermon phases. Each phase's prompt
// embeds every earlier phase's raw output, each result is flushed to disk
// the moment it arrives, and any failure aborts the run with the already
// written artifacts left in place.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jdyun/sermon-engine/internal/prompt"
	"github.com/jdyun/sermon-engine/pkg/types"
)

// Backend is the text-generation call the pipeline depends on. Satisfied
// by *gemini.Client; tests supply deterministic stubs.
type Backend interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Exporter turns a completed run into the final document.
type Exporter interface {
	Export(run *types.Run) (string, error)
}

// Store records run progress. A nil Store disables history recording.
type Store interface {
	BeginRun(ctx context.Context, run *types.Run) error
	RecordPhase(ctx context.Context, tag string, res types.PhaseResult) error
	MarkGenerated(ctx context.Context, tag string) error
	MarkAborted(ctx context.Context, tag string) error
	MarkExported(ctx context.Context, tag, documentPath string) error
}

// PhaseError reports which phase aborted the run and why.
type PhaseError struct {
	Phase types.Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("phase %d (%s): %v", e.Phase, e.Phase.Name(), e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// now is stubbed in tests to pin run tags.
var now = time.Now

// Options control a single run.
type Options struct {
	// ResumeTag, when set, continues the run with that tag instead of
	// starting fresh. Completed must then hold the phases already done.
	ResumeTag string

	// Completed holds phase results restored from a prior aborted run.
	Completed []types.PhaseResult
}

// Pipeline drives one run end to end.
type Pipeline struct {
	Backend  Backend
	Exporter Exporter
	Store    Store
	Config   types.Config

	// Out receives progress lines; nil means discard.
	Out io.Writer
}

// Run executes phases 1..5 in order for the given input, exports the
// document, and returns the completed run. On a phase failure it returns
// the partial run together with a *PhaseError; artifacts written so far
// stay on disk. On an export failure the run itself is complete and
// re-exportable, and the error says so.
func (p *Pipeline) Run(ctx context.Context, in prompt.Input, opts Options) (*types.Run, error) {
	out := p.Out
	if out == nil {
		out = io.Discard
	}

	start := now()
	tag := start.Format("20060102_150405")
	if opts.ResumeTag != "" {
		tag = opts.ResumeTag
	}

	dir := runDir(p.Config.Pipeline.OutputDir, in.SermonDate, start)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}

	run := &types.Run{
		Tag: tag,
		Input: types.RunInput{
			PassageRange: in.PassageRange,
			SermonDate:   in.SermonDate,
			Context:      in.Context,
			Tone:         in.Tone,
			Duration:     in.Duration,
		},
		Dir:       dir,
		StartedAt: start,
	}

	completed := append([]types.PhaseResult(nil), opts.Completed...)
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].Phase < completed[j].Phase
	})

	// Restored phases must form a contiguous prefix from phase 1;
	// otherwise a re-run phase would land after a later restored one and
	// Results would fall out of phase order.
	prior := make(map[types.Phase]string, types.PhaseCount)
	for i, res := range completed {
		if res.Phase != types.Phase(i+1) {
			return nil, fmt.Errorf("restored phases must form a contiguous prefix from phase 1, got phase %d", res.Phase)
		}
		run.Results = append(run.Results, res)
		prior[res.Phase] = res.Text
	}

	if err := p.beginRun(ctx, run); err != nil {
		return nil, err
	}

	for phase := types.PhaseSelection; phase <= types.PhaseFinal; phase++ {
		if text, ok := prior[phase]; ok && text != "" {
			fmt.Fprintf(out, "phase %d restored (%s)\n", phase, phase.Name())
			continue
		}

		res, err := p.runPhase(ctx, phase, in, prior, run)
		if err != nil {
			p.abort(ctx, run.Tag)
			return run, &PhaseError{Phase: phase, Err: err}
		}

		run.Results = append(run.Results, res)
		prior[phase] = res.Text
	}

	if p.Store != nil {
		if err := p.Store.MarkGenerated(ctx, run.Tag); err != nil {
			fmt.Fprintf(out, "warning: recording run completion: %v\n", err)
		}
	}

	docPath, err := p.Exporter.Export(run)
	if err != nil {
		return run, fmt.Errorf("all phases complete but export failed (re-export with the run tag %s): %w", run.Tag, err)
	}
	run.DocumentPath = docPath

	if p.Store != nil {
		if err := p.Store.MarkExported(ctx, run.Tag, docPath); err != nil {
			fmt.Fprintf(out, "warning: recording export: %v\n", err)
		}
	}

	fmt.Fprintf(out, "document written: %s\n", docPath)
	return run, nil
}

func (p *Pipeline) runPhase(ctx context.Context, phase types.Phase, in prompt.Input, prior map[types.Phase]string, run *types.Run) (types.PhaseResult, error) {
	out := p.Out
	if out == nil {
		out = io.Discard
	}

	fmt.Fprintf(out, "phase %d: %s\n", phase, phase.Name())

	system, user, err := prompt.Build(phase, in, prior)
	if err != nil {
		return types.PhaseResult{}, err
	}

	text, err := p.Backend.Generate(ctx, system, user)
	if err != nil {
		return types.PhaseResult{}, err
	}

	// Flush the artifact before anything else so partial progress
	// survives a later failure.
	path := filepath.Join(run.Dir, fmt.Sprintf("%s_phase%d_%s.md", run.Tag, phase, phase.Slug()))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return types.PhaseResult{}, fmt.Errorf("writing artifact: %w", err)
	}

	res := types.PhaseResult{Phase: phase, Text: text, Path: path}

	if p.Store != nil {
		if err := p.Store.RecordPhase(ctx, run.Tag, res); err != nil {
			fmt.Fprintf(out, "warning: recording phase %d: %v\n", phase, err)
		}
	}

	fmt.Fprintf(out, "  saved: %s\n", path)
	return res, nil
}

func (p *Pipeline) beginRun(ctx context.Context, run *types.Run) error {
	if p.Store == nil {
		return nil
	}
	if err := p.Store.BeginRun(ctx, run); err != nil {
		return fmt.Errorf("recording run start: %w", err)
	}
	return nil
}

func (p *Pipeline) abort(ctx context.Context, tag string) {
	if p.Store == nil {
		return
	}
	if err := p.Store.MarkAborted(ctx, tag); err != nil && p.Out != nil {
		fmt.Fprintf(p.Out, "warning: recording abort: %v\n", err)
	}
}

// runDir returns the per-run output directory: a subdirectory of the
// output dir named for the sermon date (or the run date when the sermon
// date does not parse).
func runDir(outputDir, sermonDate string, start time.Time) string {
	sub := start.Format("2006 0102")
	if sermonDate != "" {
		if parsed, err := time.Parse("2006년 01월 02일", sermonDate); err == nil {
			sub = parsed.Format("2006 0102")
		}
	}
	return filepath.Join(outputDir, sub)
}
