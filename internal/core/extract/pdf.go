package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"rsc.io/pdf"

	"github.com/joseph-ayodele/docsum/internal/common"
)

// extractPDF reads each page's text layer and falls back to rasterize+OCR
// for pages without one. Only a container failure aborts.
func (e *Extractor) extractPDF(ctx context.Context, doc InputDocument) (Result, error) {
	logger := common.LoggerFor(ctx, e.logger)

	r, n, err := openPDF(doc.Data, doc.Password)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return Result{}, common.DecodeError("pdf is encrypted and no usable password was supplied", err)
		}
		return Result{}, common.DecodeError("cannot open pdf", err)
	}
	logger.Debug("extract.pdf.opened", "pages", n)

	run := &pdfRun{e: e, doc: doc, logger: logger}
	defer run.cleanup()

	res := Result{Pages: make([]PageText, 0, n), Language: e.cfg.Language}
	texts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("pdf extraction interrupted at page %d: %w", i, err)
		}
		pt := run.page(ctx, r, i)
		res.Pages = append(res.Pages, pt)
		texts = append(texts, pt.Text)
	}
	res.Text = strings.Join(texts, e.cfg.PageSeparator)
	res.OCRPages = run.ocrUsed
	res.Warnings = run.warnings
	return res, nil
}

// pdfRun carries the per-call state of one PDF extraction.
type pdfRun struct {
	e        *Extractor
	doc      InputDocument
	logger   *slog.Logger
	tmpPath  string
	ocrUsed  int // pages sent to the rasterizer and engine
	warnings []PageWarning
}

func (p *pdfRun) page(ctx context.Context, r *pdf.Reader, i int) PageText {
	pt := PageText{Index: i, Method: MethodEmbedded, Confidence: 1}

	text, err := embeddedText(r, i+1)
	if err != nil {
		p.warn(&pt, StageEmbedded, err.Error())
	}
	if !p.needsOCR(text) {
		pt.Text = text
		p.logger.Debug("extract.pdf.page", "page", i, "method", pt.Method, "chars", len(text))
		return pt
	}

	// Over budget the page keeps whatever thin embedded text it had.
	if limit := p.e.cfg.MaxOCRPages; limit > 0 && p.ocrUsed >= limit {
		pt.Text = text
		p.warn(&pt, StageBudget, fmt.Sprintf("ocr page budget of %d exhausted", limit))
		return pt
	}
	pt.Method = MethodOCR
	pt.Confidence = 0
	p.ocrUsed++

	path, err := p.materialize()
	if err != nil {
		p.warn(&pt, StageRasterize, err.Error())
		return pt
	}
	img, err := p.e.rasterizer.RenderPage(ctx, path, i+1, p.doc.Password)
	if err != nil {
		p.logger.Warn("extract.pdf.page_rasterize_failed", "page", i, "error", err)
		p.warn(&pt, StageRasterize, err.Error())
		return pt
	}
	rec, err := p.e.engine.Recognize(ctx, img)
	if err != nil {
		p.logger.Warn("extract.pdf.page_ocr_failed", "page", i, "error", err)
		p.warn(&pt, StageOCR, err.Error())
		return pt
	}
	for _, w := range rec.Warnings {
		p.warn(&pt, StageOCR, w)
	}
	pt.Text = rec.Text
	pt.Confidence = rec.Confidence
	p.logger.Debug("extract.pdf.page", "page", i, "method", pt.Method, "chars", len(pt.Text))
	return pt
}

// needsOCR reports whether embedded text is too thin to keep.
func (p *pdfRun) needsOCR(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	minChars := p.e.cfg.MinEmbeddedChars
	if minChars <= 0 {
		return false
	}
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
			if n >= minChars {
				return false
			}
		}
	}
	return true
}

func (p *pdfRun) warn(pt *PageText, stage, msg string) {
	p.warnings = append(p.warnings, PageWarning{Index: pt.Index, Stage: stage, Message: msg})
	if pt.Warning == "" {
		pt.Warning = msg
	} else {
		pt.Warning += "; " + msg
	}
}

// materialize writes the PDF to a temp file once per call, for the rasterizer.
func (p *pdfRun) materialize() (string, error) {
	if p.tmpPath != "" {
		return p.tmpPath, nil
	}
	f, err := os.CreateTemp("", "docsum-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp pdf: %w", err)
	}
	if _, err := f.Write(p.doc.Data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write temp pdf: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close temp pdf: %w", err)
	}
	p.tmpPath = f.Name()
	return p.tmpPath, nil
}

func (p *pdfRun) cleanup() {
	if p.tmpPath == "" {
		return
	}
	if err := os.Remove(p.tmpPath); err != nil {
		p.logger.Warn("failed to remove temp pdf", "path", p.tmpPath, "error", err)
	}
	p.tmpPath = ""
}

// openPDF parses the container and its page count. The parser panics on
// some malformed inputs; those come back as errors.
func openPDF(data []byte, password string) (r *pdf.Reader, pages int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, pages, err = nil, 0, fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	ra := bytes.NewReader(data)
	if password == "" {
		r, err = pdf.NewReader(ra, int64(len(data)))
	} else {
		offered := false
		r, err = pdf.NewReaderEncrypted(ra, int64(len(data)), func() string {
			if offered {
				return ""
			}
			offered = true
			return password
		})
	}
	if err != nil {
		return nil, 0, err
	}
	return r, r.NumPage(), nil
}

// embeddedText returns the text layer of page num (1-based).
func embeddedText(r *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("page %d content stream: %v", num, rec)
		}
	}()
	pg := r.Page(num)
	if pg.V.IsNull() {
		return "", fmt.Errorf("page %d not found", num)
	}
	return assembleText(pg.Content().Text), nil
}
