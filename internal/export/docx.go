package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Calibri"
	fontSize = 11
)

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*•]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^\d+[.)]\s+(.+)$`)
)

// SummaryDocx writes the model's markdown-flavoured summary as a styled
// document: headings, bullets and **bold** spans become formatted runs.
func (s *Service) SummaryDocx(title, summary, outputPath string) error {
	start := time.Now()
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new docx: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)

	paragraphs := 0
	for _, line := range strings.Split(summary, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}
		p := doc.AddParagraph("")
		paragraphs++

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(p, m[2], true, headingSize(len(m[1])))
			continue
		}
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(p, "• "+m[1])
			continue
		}
		if reNumbered.MatchString(trimmed) {
			addRichText(p, trimmed)
			continue
		}
		addRichText(p, trimmed)
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	s.logger.Info("export.docx.ok",
		"path", outputPath,
		"paragraphs", paragraphs,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 14
	case 3:
		return 13
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
