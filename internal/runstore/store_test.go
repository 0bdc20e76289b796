// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdyun/sermon-engine/pkg/types"
)

func testRun(tag, passageRange string) *types.Run {
	return &types.Run{
		Tag: tag,
		Input: types.RunInput{
			PassageRange: passageRange,
			SermonDate:   "2026년 03월 02일",
			Tone:         types.ToneEveryday,
			Duration:     "40",
		},
		StartedAt: time.Date(2026, 2, 26, 14, 30, 0, 0, time.UTC),
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBeginAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BeginRun(ctx, testRun("20260226_143000", "창조 1-2장")))

	got, err := s.Get(ctx, "20260226_143000")
	require.NoError(t, err)
	assert.Equal(t, "창조 1-2장", got.PassageRange)
	assert.Equal(t, StatusRunning, got.Status)
	assert.Equal(t, "일상", got.Tone)
}

func TestGetUnknownTag(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRecordPhasesAndLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	run := testRun("20260226_143000", "에스겔 36-37장")

	require.NoError(t, s.BeginRun(ctx, run))
	for p := types.PhaseSelection; p <= types.PhaseOutline; p++ {
		require.NoError(t, s.RecordPhase(ctx, run.Tag, types.PhaseResult{
			Phase: p,
			Text:  "결과 텍스트",
			Path:  "/tmp/phase.md",
		}))
	}

	phases, err := s.PhasesFor(ctx, run.Tag)
	require.NoError(t, err)
	require.Len(t, phases, 2)
	assert.Equal(t, types.PhaseSelection, phases[0].Phase)
	assert.Equal(t, types.PhaseOutline, phases[1].Phase)
	assert.Equal(t, len([]rune("결과 텍스트")), phases[0].Chars)

	require.NoError(t, s.MarkAborted(ctx, run.Tag))
	got, err := s.Get(ctx, run.Tag)
	require.NoError(t, err)
	assert.Equal(t, StatusAborted, got.Status)
	assert.NotEmpty(t, got.FinishedAt)
}

func TestMarkGeneratedAndExported(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	run := testRun("20260226_143000", "창조 1-2장")

	require.NoError(t, s.BeginRun(ctx, run))
	require.NoError(t, s.MarkGenerated(ctx, run.Tag))

	got, err := s.Get(ctx, run.Tag)
	require.NoError(t, err)
	assert.Equal(t, StatusGenerated, got.Status)
	assert.Empty(t, got.DocumentPath)

	require.NoError(t, s.MarkExported(ctx, run.Tag, "/out/doc.docx"))
	got, err = s.Get(ctx, run.Tag)
	require.NoError(t, err)
	assert.Equal(t, StatusExported, got.Status)
	assert.Equal(t, "/out/doc.docx", got.DocumentPath)
}

func TestMarkUnknownRun(t *testing.T) {
	s := openTestStore(t)
	err := s.MarkGenerated(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLastAborted(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// No aborted run yet.
	got, err := s.LastAborted(ctx, "창조 1-2장")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.BeginRun(ctx, testRun("20260220_090000", "창조 1-2장")))
	require.NoError(t, s.MarkAborted(ctx, "20260220_090000"))
	require.NoError(t, s.BeginRun(ctx, testRun("20260221_090000", "창조 1-2장")))
	require.NoError(t, s.MarkAborted(ctx, "20260221_090000"))
	// A different passage range and a completed run must not match.
	require.NoError(t, s.BeginRun(ctx, testRun("20260222_090000", "출애굽기 3장")))
	require.NoError(t, s.MarkAborted(ctx, "20260222_090000"))
	require.NoError(t, s.BeginRun(ctx, testRun("20260223_090000", "창조 1-2장")))
	require.NoError(t, s.MarkGenerated(ctx, "20260223_090000"))

	got, err = s.LastAborted(ctx, "창조 1-2장")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "20260221_090000", got.Tag)
}

func TestBeginRunResumeKeepsPhases(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	run := testRun("20260226_143000", "창조 1-2장")

	require.NoError(t, s.BeginRun(ctx, run))
	require.NoError(t, s.RecordPhase(ctx, run.Tag, types.PhaseResult{
		Phase: types.PhaseSelection, Text: "본문", Path: "/tmp/p1.md",
	}))
	require.NoError(t, s.MarkAborted(ctx, run.Tag))

	// Resume: begin again under the same tag.
	require.NoError(t, s.BeginRun(ctx, run))

	got, err := s.Get(ctx, run.Tag)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, got.Status)
	assert.Empty(t, got.FinishedAt)

	phases, err := s.PhasesFor(ctx, run.Tag)
	require.NoError(t, err)
	assert.Len(t, phases, 1)
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, tag := range []string{"20260220_090000", "20260221_090000", "20260222_090000"} {
		require.NoError(t, s.BeginRun(ctx, testRun(tag, "창조 1-2장")))
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "20260222_090000", runs[0].Tag)
	assert.Equal(t, "20260221_090000", runs[1].Tag)

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
