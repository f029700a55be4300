package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/docsum/constants"
	"github.com/joseph-ayodele/docsum/internal/core/ocr"
)

// Engine recognizes text in one encoded raster image.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (ocr.Recognition, error)
}

// Rasterizer renders a single PDF page (1-based) to an encoded image.
type Rasterizer interface {
	RenderPage(ctx context.Context, pdfPath string, page int, password string) ([]byte, error)
}

// InputDocument is one uploaded file. It is read, never modified.
type InputDocument struct {
	Data     []byte
	Format   constants.Format
	Filename string // informational only
	Password string // user password for encrypted PDFs
}

// Method records how a unit's text was obtained.
type Method string

const (
	MethodEmbedded Method = "embedded"
	MethodOCR      Method = "ocr"
)

// PageText is the text of one unit: an image, a PDF page or a docx paragraph.
type PageText struct {
	Index      int     `json:"index"`
	Text       string  `json:"text"`
	Method     Method  `json:"method"`
	Confidence float32 `json:"confidence,omitempty"`
	Warning    string  `json:"warning,omitempty"`
}

// PageWarning is a per-unit problem that did not abort extraction.
type PageWarning struct {
	Index   int    `json:"index"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Warning stages.
const (
	StageEmbedded  = "embedded"
	StageRasterize = "rasterize"
	StageOCR       = "ocr"
	StageBudget    = "ocr_budget"
)

// Result is the ordered extraction of a whole document.
// len(Pages) always equals the number of units in the source.
type Result struct {
	Format   constants.Format `json:"format"`
	Pages    []PageText       `json:"pages"`
	Text     string           `json:"text"`
	OCRPages int              `json:"ocr_pages"`
	Warnings []PageWarning    `json:"warnings,omitempty"`
	Language string           `json:"language,omitempty"`
	Duration time.Duration    `json:"duration_ns"`
}
