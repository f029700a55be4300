package extract

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/joseph-ayodele/docsum/internal/common"
)

func (e *Extractor) extractImage(ctx context.Context, doc InputDocument) (Result, error) {
	if _, _, err := image.DecodeConfig(bytes.NewReader(doc.Data)); err != nil {
		return Result{}, common.DecodeError("not a valid image", err)
	}
	rec, err := e.engine.Recognize(ctx, doc.Data)
	if err != nil {
		return Result{}, common.OCRError("image recognition failed", err)
	}
	page := PageText{
		Index:      0,
		Text:       rec.Text,
		Method:     MethodOCR,
		Confidence: rec.Confidence,
	}
	res := Result{
		Pages:    []PageText{page},
		Text:     rec.Text,
		OCRPages: 1,
		Language: e.cfg.Language,
	}
	for _, w := range rec.Warnings {
		res.Warnings = append(res.Warnings, PageWarning{Index: 0, Stage: StageOCR, Message: w})
	}
	return res, nil
}
