package export

import (
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docsum/internal/core/extract"
)

const (
	pagesSheet    = "Pages"
	documentSheet = "Document"
	previewChars  = 200
)

// Service renders extraction and summary results into office files.
// Nothing is retained; callers decide where the bytes go.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// PagesXLSX returns a workbook (as bytes) with one row per extracted unit
// and a sheet of document totals.
func (s *Service) PagesXLSX(res extract.Result, source string) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("export.xlsx.close_error", "error", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", pagesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(documentSheet); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	activeIndex, _ := f.GetSheetIndex(pagesSheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Index", "Method", "Characters", "Confidence", "Warning", "Text Preview"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(pagesSheet, cell, h)
	}

	for i, p := range res.Pages {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(pagesSheet, cell, v)
		}
		write(1, p.Index)
		write(2, string(p.Method))
		write(3, utf8.RuneCountInString(p.Text))
		write(4, p.Confidence)
		write(5, p.Warning)
		write(6, truncate(p.Text, previewChars))
	}

	summary := [][2]any{
		{"Source", source},
		{"Format", string(res.Format)},
		{"Units", len(res.Pages)},
		{"OCR Units", res.OCRPages},
		{"Warnings", len(res.Warnings)},
		{"Language", res.Language},
		{"Characters", utf8.RuneCountInString(res.Text)},
		{"Duration (ms)", res.Duration.Milliseconds()},
	}
	for i, kv := range summary {
		_ = f.SetCellValue(documentSheet, fmt.Sprintf("A%d", i+1), kv[0])
		_ = f.SetCellValue(documentSheet, fmt.Sprintf("B%d", i+1), kv[1])
	}

	// Widen a few columns
	_ = f.SetColWidth(pagesSheet, "A", "D", 12)
	_ = f.SetColWidth(pagesSheet, "E", "E", 40) // warning
	_ = f.SetColWidth(pagesSheet, "F", "F", 80) // preview
	_ = f.SetColWidth(documentSheet, "A", "A", 16)
	_ = f.SetColWidth(documentSheet, "B", "B", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"source", source,
		"rows", len(res.Pages),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// truncate cuts s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
