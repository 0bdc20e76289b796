// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jdyun/sermon-engine/pkg/types"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// startBanner frames the run parameters the way the pastor sees them
// before the first phase begins.
func startBanner(passageRange, sermonDate string) string {
	body := strings.Join([]string{
		titleStyle.Render("🔖 설교 작성 자동화 시스템"),
		"📖 성경 범위: " + valueStyle.Render(passageRange),
		"📅 설교 예정일: " + valueStyle.Render(sermonDate),
	}, "\n")
	return panelStyle.Render(body)
}

// donePanel summarizes a successful run: the document path and how many
// phase artifacts were written.
func donePanel(run *types.Run) string {
	body := strings.Join([]string{
		titleStyle.Render("🎉 설교 작성이 완료되었습니다!"),
		"",
		"📄 문서: " + pathStyle.Render(run.DocumentPath),
		fmt.Sprintf("📂 Phase 결과 %d개: %s", len(run.Results), valueStyle.Render(run.Dir)),
	}, "\n")
	return panelStyle.Render(body)
}

// failLine formats a run failure for stderr.
func failLine(err error) string {
	return errStyle.Render("❌ " + err.Error())
}
