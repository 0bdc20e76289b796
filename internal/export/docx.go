// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders a completed run into a Word document the pastor
// can print and preach from, plus a YAML manifest describing the run.
//
// The document layout follows the preaching workflow: a title page, the
// final package (phase 5) as the main body, then the passage analysis
// (phase 1) and the feedback report (phase 3) as appendices.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fumiama/go-docx"

	"github.com/jdyun/sermon-engine/pkg/types"
)

// Font sizes in half-points, mirroring the print layout the congregation's
// office uses (title 28pt, headings 22/16/13pt, meta 11pt).
const (
	sizeTitle    = "56"
	sizeHeading1 = "44"
	sizeHeading2 = "32"
	sizeHeading3 = "26"
	sizeMeta     = "22"
	sizeRef      = "32"
	sizeDate     = "24"
)

const (
	colorHeading = "1A1A2E"
	colorRef     = "555555"
	colorDate    = "888888"
)

// Exporter writes the final document and manifest for a run.
type Exporter struct{}

// Export renders the run into <tag>_설교_<range>.docx inside the run
// directory and writes the run manifest beside it. The run must have a
// phase 5 result; earlier phases are optional appendix material.
func (e *Exporter) Export(run *types.Run) (string, error) {
	finalText := run.Text(types.PhaseFinal)
	if strings.TrimSpace(finalText) == "" {
		return "", fmt.Errorf("run %s has no final package to export", run.Tag)
	}

	doc := docx.New().WithDefaultTheme()

	addTitlePage(doc, "설교 원고", "📖 "+run.Input.PassageRange, displayDate(run))

	addHeading(doc, "최종 설교 패키지", sizeHeading1)
	addMarkdown(doc, finalText)

	if text := run.Text(types.PhaseSelection); strings.TrimSpace(text) != "" {
		pageBreak(doc)
		addHeading(doc, "부록 A: 본문 선정 분석", sizeHeading1)
		addMarkdown(doc, text)
	}
	if text := run.Text(types.PhaseFeedback); strings.TrimSpace(text) != "" {
		pageBreak(doc)
		addHeading(doc, "부록 B: 통합 피드백 보고서", sizeHeading1)
		addMarkdown(doc, text)
	}

	path := filepath.Join(run.Dir, DocumentName(run))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating document %s: %w", path, err)
	}
	defer f.Close()

	if _, err := doc.WriteTo(f); err != nil {
		return "", fmt.Errorf("writing document %s: %w", path, err)
	}

	if err := writeManifest(run, path); err != nil {
		return "", err
	}
	return path, nil
}

// DocumentName returns the deterministic document file name for a run:
// the run tag keeps documents from different runs of the same passage
// range from overwriting each other.
func DocumentName(run *types.Run) string {
	rangePart := strings.ReplaceAll(strings.TrimSpace(run.Input.PassageRange), " ", "_")
	return fmt.Sprintf("%s_설교_%s.docx", run.Tag, rangePart)
}

// displayDate returns the cover-page date: the sermon date when set,
// otherwise the run start date.
func displayDate(run *types.Run) string {
	if run.Input.SermonDate != "" {
		return run.Input.SermonDate
	}
	return run.StartedAt.Format("2006년 01월 02일")
}

func addTitlePage(doc *docx.Docx, title, passageRef, dateStr string) {
	for i := 0; i < 6; i++ {
		doc.AddParagraph()
	}

	p := doc.AddParagraph()
	p.Justification("center")
	p.AddText(title).Size(sizeTitle).Bold().Color(colorHeading)

	p = doc.AddParagraph()
	p.Justification("center")
	p.AddText(passageRef).Size(sizeRef).Color(colorRef)

	doc.AddParagraph()
	p = doc.AddParagraph()
	p.Justification("center")
	p.AddText(dateStr).Size(sizeDate).Color(colorDate)

	pageBreak(doc)
}

func addHeading(doc *docx.Docx, text, size string) {
	doc.AddParagraph().AddText(text).Size(size).Bold().Color(colorHeading)
}

func pageBreak(doc *docx.Docx) {
	doc.AddParagraph().AddPageBreaks()
}

var (
	boldPattern     = regexp.MustCompile(`\*\*[^*]+\*\*`)
	numberedPattern = regexp.MustCompile(`^\d+\.\s`)
)

// metaRunes are the leading symbols of metadata lines the model tends to
// emit (passage, duration, date markers); those lines render bold-small.
const metaRunes = "📖📌⏱📅📋🔑✅🌟🔧💡⭐🎯"

// addMarkdown converts the model's markdown-ish output into document
// paragraphs. It is not a full Markdown parser; it covers the structures
// the phase outputs actually use: headings, divider-framed titles,
// bullets, numbered lists, code fences, and **bold** spans.
func addMarkdown(doc *docx.Docx, content string) {
	lines := strings.Split(content, "\n")

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		switch {
		case line == "":

		case strings.HasPrefix(line, "═══"):
			// Big divider: the cover page already carries this framing.

		case strings.HasPrefix(line, "───"):
			// A title sandwiched between two dividers becomes a heading.
			if i+2 < len(lines) {
				title := strings.TrimSpace(lines[i+1])
				below := strings.TrimSpace(lines[i+2])
				if title != "" && !strings.HasPrefix(title, "───") && strings.HasPrefix(below, "───") {
					addHeading(doc, title, sizeHeading2)
					i += 2
				}
			}

		case strings.HasPrefix(line, "```"):
			// Code fences carry liturgy or scripture blocks; keep the
			// lines as plain paragraphs.
			for i++; i < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[i]), "```"); i++ {
				doc.AddParagraph().AddText(lines[i])
			}

		case strings.HasPrefix(line, "### "):
			addHeading(doc, line[len("### "):], sizeHeading3)

		case strings.HasPrefix(line, "## "):
			addHeading(doc, line[len("## "):], sizeHeading2)

		case strings.HasPrefix(line, "# "):
			addHeading(doc, line[len("# "):], sizeHeading1)

		case isMetaLine(line):
			doc.AddParagraph().AddText(line).Size(sizeMeta).Bold()

		case hasBulletPrefix(line):
			text := strings.TrimSpace(strings.TrimLeft(line, "•-* □"))
			doc.AddParagraph().AddText("• " + text)

		case numberedPattern.MatchString(line):
			doc.AddParagraph().AddText(line)

		default:
			addInline(doc.AddParagraph(), line)
		}
	}
}

func isMetaLine(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return r != utf8.RuneError && strings.ContainsRune(metaRunes, r)
}

func hasBulletPrefix(line string) bool {
	for _, prefix := range []string{"• ", "- ", "* ", "□ "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// addInline writes one paragraph, turning **spans** into bold runs.
func addInline(p *docx.Paragraph, line string) {
	last := 0
	for _, m := range boldPattern.FindAllStringIndex(line, -1) {
		if m[0] > last {
			p.AddText(line[last:m[0]])
		}
		p.AddText(line[m[0]+2 : m[1]-2]).Bold()
		last = m[1]
	}
	if last < len(line) {
		p.AddText(line[last:])
	}
}
