// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt renders the per-phase prompts sent to the Gemini API.
// Rendering is deterministic: the same input and prior-phase texts always
// produce the same prompt, and every prior phase's output is embedded
// verbatim so later phases keep full continuity.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/jdyun/sermon-engine/pkg/types"
)

// Input carries the user-supplied run parameters referenced by the
// templates.
type Input struct {
	PassageRange string
	SermonDate   string
	Context      string
	Tone         types.Tone
	Duration     string
}

// priorPhase is one earlier phase's output as rendered into a prompt.
type priorPhase struct {
	Phase types.Phase
	Name  string
	Text  string
}

type tmplData struct {
	Input
	Personas []types.Persona
	Prior    []priorPhase
}

// assistantRole is the shared opening of every system prompt.
const assistantRole = "당신은 20년 경력의 설교 준비 조력자 '윤비서'입니다. " +
	"담임 목사의 설교 준비를 다섯 단계로 돕습니다. " +
	"모든 응답은 한국어로, 마크다운 형식으로 작성합니다."

// systemPrompts defines each phase's role and output rules.
var systemPrompts = map[types.Phase]string{
	types.PhaseSelection: assistantRole + "\n\n" +
		"지금은 1단계(본문 선정 및 주제 개발)입니다. 주어진 성경 범위에서 " +
		"설교 본문 단락을 선정하고, 본문 관찰·배경 연구·중심 주제 후보를 제시합니다. " +
		"본문을 벗어난 추측은 하지 않습니다.",
	types.PhaseOutline: assistantRole + "\n\n" +
		"지금은 2단계(설교 개요 상세화)입니다. 1단계에서 선정된 본문과 주제를 " +
		"서론 Hook, 대지 1-3(각 대지마다 본문 근거·해설·적용), 결론으로 구성된 " +
		"설교 개요로 발전시킵니다.",
	types.PhaseFeedback: assistantRole + "\n\n" +
		"지금은 3단계(통합 피드백 및 시뮬레이션)입니다. 다섯 명의 가상 성도 " +
		"페르소나가 각자의 자리에서 개요를 들었다고 가정하고, 페르소나별 반응과 " +
		"예상 질문, 그리고 개요 수정 제안을 보고서로 작성합니다.",
	types.PhaseDraft: assistantRole + "\n\n" +
		"지금은 4단계(설교문 원고 작성)입니다. 개요와 피드백 보고서를 반영하여 " +
		"강단에서 그대로 읽을 수 있는 구어체 전문 원고를 작성합니다. " +
		"요청된 어조와 설교 시간을 지킵니다.",
	types.PhaseFinal: assistantRole + "\n\n" +
		"지금은 5단계(최종 수정 및 완료)입니다. 원고를 다듬어 최종 설교 패키지를 " +
		"완성합니다: 설교 제목, 본문, 핵심 한 문장, 최종 원고, 대표 기도문, " +
		"주보용 요약 순으로 정리합니다.",
}

// priorBlock renders every earlier phase's output verbatim. Shared suffix
// of all templates past phase 1.
const priorBlock = `
{{range .Prior}}
───────────────────────────────
[{{.Phase}}단계 결과: {{.Name}}]
───────────────────────────────
{{.Text}}
{{end}}`

const phase1Tmpl = `설교할 성경 범위: {{.PassageRange}}
{{if .Context}}
이번 주 성도들의 상황: {{.Context}}
{{end}}
위 범위에서 이번 주일 설교 본문 단락을 선정해 주세요.
선정 이유, 본문 관찰(구조·반복어·긴장), 역사적 배경, 그리고
중심 주제 후보 3가지를 제시해 주세요.`

const phase2Tmpl = `설교 예상 시간: {{.Duration}}분
` + priorBlock + `
1단계 결과를 바탕으로 설교 개요를 상세화해 주세요.
서론 Hook, 대지 1-3(대지마다 본문 근거 구절·해설·적용 방향),
결론과 결단 촉구까지 포함합니다. {{.Duration}}분 분량에 맞는 깊이로 작성해 주세요.`

const phase3Tmpl = `다음 다섯 명의 성도가 이 개요로 설교를 들었다고 가정합니다.
{{range .Personas}}
- {{.Name}} ({{.Age}}, {{.Role}}): {{.Profile}}
{{end}}` + priorBlock + `
페르소나별로 (1) 마음에 남은 부분, (2) 걸리거나 이해되지 않은 부분,
(3) 예상 질문을 작성하고, 마지막에 개요 수정 제안을 통합 정리해 주세요.`

const phase4Tmpl = `설교 어조: {{.Tone}}
설교 예상 시간: {{.Duration}}분
{{if .Context}}이번 주 성도들의 상황: {{.Context}}
{{end}}` + priorBlock + `
개요(2단계)를 뼈대로 삼고 피드백 보고서(3단계)의 수정 제안을 반영하여
설교문 전체 원고를 작성해 주세요. 구어체로, 강단에서 그대로 읽을 수 있게
작성합니다. 서론 Hook은 성도들의 상황에 닿아야 합니다.`

const phase5Tmpl = `설교 예정일: {{.SermonDate}}
` + priorBlock + `
4단계 원고를 최종 점검하여 설교 패키지를 완성해 주세요.
문장 흐름과 전환부를 다듬고, 다음 순서로 정리합니다:
## 설교 제목 / ## 본문 / ## 핵심 한 문장 / ## 최종 원고 /
## 대표 기도문 / ## 주보용 요약(3문장).`

var phaseTmpls = map[types.Phase]*template.Template{
	types.PhaseSelection: template.Must(template.New("phase1").Parse(phase1Tmpl)),
	types.PhaseOutline:   template.Must(template.New("phase2").Parse(phase2Tmpl)),
	types.PhaseFeedback:  template.Must(template.New("phase3").Parse(phase3Tmpl)),
	types.PhaseDraft:     template.Must(template.New("phase4").Parse(phase4Tmpl)),
	types.PhaseFinal:     template.Must(template.New("phase5").Parse(phase5Tmpl)),
}

// Build renders the system and user prompts for the given phase. prior
// must contain the raw output of every phase before it; a missing or
// empty prior phase is a caller error, reported before any rendering.
func Build(phase types.Phase, in Input, prior map[types.Phase]string) (system, user string, err error) {
	if !phase.Valid() {
		return "", "", fmt.Errorf("invalid phase %d", phase)
	}
	if strings.TrimSpace(in.PassageRange) == "" {
		return "", "", fmt.Errorf("passage range is empty")
	}

	var ordered []priorPhase
	for p := types.PhaseSelection; p < phase; p++ {
		text, ok := prior[p]
		if !ok || strings.TrimSpace(text) == "" {
			return "", "", fmt.Errorf("phase %d prompt requires phase %d output", phase, p)
		}
		ordered = append(ordered, priorPhase{Phase: p, Name: p.Name(), Text: text})
	}

	data := tmplData{Input: in, Personas: Personas, Prior: ordered}

	var buf bytes.Buffer
	if err := phaseTmpls[phase].Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("rendering phase %d prompt: %w", phase, err)
	}
	return systemPrompts[phase], buf.String(), nil
}
