// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the domain types shared across the sermon pipeline:
// phases, runs, personas, and configuration.
package types

import (
	"fmt"
	"time"
)

// Phase identifies one of the five ordered steps of the sermon workflow.
type Phase int

const (
	PhaseSelection Phase = iota + 1 // passage selection and theme development
	PhaseOutline                    // sermon outline
	PhaseFeedback                   // persona feedback simulation
	PhaseDraft                      // full manuscript draft
	PhaseFinal                      // final package
)

// PhaseCount is the number of phases in a complete run.
const PhaseCount = 5

// Valid reports whether p is one of the five pipeline phases.
func (p Phase) Valid() bool {
	return p >= PhaseSelection && p <= PhaseFinal
}

// Name returns the display name of the phase, as shown in progress output
// and document headings.
func (p Phase) Name() string {
	switch p {
	case PhaseSelection:
		return "본문 선정 및 주제 개발"
	case PhaseOutline:
		return "설교 개요 상세화"
	case PhaseFeedback:
		return "통합 피드백 및 시뮬레이션"
	case PhaseDraft:
		return "설교문 원고 작성"
	case PhaseFinal:
		return "최종 수정 및 완료"
	default:
		return fmt.Sprintf("phase %d", int(p))
	}
}

// Slug returns the short label used in artifact file names
// (e.g. "20260226_143000_phase1_본문선정.md").
func (p Phase) Slug() string {
	switch p {
	case PhaseSelection:
		return "본문선정"
	case PhaseOutline:
		return "개요"
	case PhaseFeedback:
		return "피드백"
	case PhaseDraft:
		return "원고"
	case PhaseFinal:
		return "최종"
	default:
		return fmt.Sprintf("phase%d", int(p))
	}
}

// Tone selects the overall register of the sermon.
type Tone string

const (
	ToneChallenge Tone = "도전" // strong call to repentance and decision
	ToneComfort   Tone = "위로" // gentle grace and empathy
	ToneTeaching  Tone = "교육" // original-language analysis focus
	ToneEveryday  Tone = "일상" // conversational, daily-life framing
)

// Tones lists the accepted tone values in CLI order.
var Tones = []Tone{ToneChallenge, ToneComfort, ToneTeaching, ToneEveryday}

// Valid reports whether t is an accepted tone.
func (t Tone) Valid() bool {
	for _, v := range Tones {
		if t == v {
			return true
		}
	}
	return false
}

// Durations lists the accepted sermon lengths in minutes.
var Durations = []string{"15", "30", "40", "60"}

// ValidDuration reports whether d is an accepted sermon duration.
func ValidDuration(d string) bool {
	for _, v := range Durations {
		if d == v {
			return true
		}
	}
	return false
}

// RunInput carries the user-supplied parameters of one run.
type RunInput struct {
	// PassageRange is the Bible book/chapter span, e.g. "에스겔 36-37장".
	PassageRange string `json:"passage_range" yaml:"passage_range"`

	// SermonDate is the planned preaching date, formatted for display
	// (e.g. "2026년 03월 02일").
	SermonDate string `json:"sermon_date" yaml:"sermon_date"`

	// Context optionally describes the congregation's situation this week.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`

	// Tone is the overall sermon register.
	Tone Tone `json:"tone" yaml:"tone"`

	// Duration is the target sermon length in minutes ("15"/"30"/"40"/"60").
	Duration string `json:"duration" yaml:"duration"`
}

// PhaseResult is the immutable output of one completed phase.
type PhaseResult struct {
	Phase Phase  `json:"phase" yaml:"phase"`
	Text  string `json:"-" yaml:"-"`
	Path  string `json:"path" yaml:"path"`
}

// Run is one end-to-end execution of the pipeline for a passage range.
// It accumulates PhaseResults in phase order and, after export, the path
// of the final document.
type Run struct {
	// Tag is the timestamp-derived run identifier (e.g. "20260226_143000").
	Tag string `json:"tag" yaml:"tag"`

	Input RunInput `json:"input" yaml:"input"`

	// Dir is the directory all of this run's files are written into.
	Dir string `json:"dir" yaml:"dir"`

	// Results holds completed phases in strictly increasing phase order.
	Results []PhaseResult `json:"results" yaml:"results"`

	// DocumentPath is set once the exporter has produced the .docx file.
	DocumentPath string `json:"document_path,omitempty" yaml:"document_path,omitempty"`

	StartedAt time.Time `json:"started_at" yaml:"started_at"`
}

// Text returns the raw output of the given phase, or "" if that phase has
// not completed.
func (r *Run) Text(p Phase) string {
	for _, res := range r.Results {
		if res.Phase == p {
			return res.Text
		}
	}
	return ""
}

// Complete reports whether all five phases have produced a result.
func (r *Run) Complete() bool {
	return len(r.Results) == PhaseCount
}
