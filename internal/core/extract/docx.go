package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joseph-ayodele/docsum/internal/common"
)

const (
	wordNS         = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	markupCompatNS = "http://schemas.openxmlformats.org/markup-compatibility/2006"
	documentPart   = "word/document.xml"
	// cap on the decompressed main part
	maxDocumentPart = 64 << 20
)

// extractDOCX turns every w:p of the main document part into one unit,
// table cells included, in document order.
func (e *Extractor) extractDOCX(doc InputDocument) (Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return Result{}, common.DecodeError("not a docx archive", err)
	}
	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return Result{}, common.DecodeError("docx has no "+documentPart, nil)
	}
	rc, err := part.Open()
	if err != nil {
		return Result{}, common.DecodeError("open "+documentPart, err)
	}
	defer rc.Close()

	paras, err := readParagraphs(io.LimitReader(rc, maxDocumentPart+1))
	if err != nil {
		return Result{}, common.DecodeError("parse "+documentPart, err)
	}

	res := Result{Pages: make([]PageText, 0, len(paras))}
	nonEmpty := make([]string, 0, len(paras))
	for i, p := range paras {
		res.Pages = append(res.Pages, PageText{Index: i, Text: p, Method: MethodEmbedded, Confidence: 1})
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	res.Text = strings.Join(nonEmpty, "\n")
	return res, nil
}

// readParagraphs streams WordprocessingML and returns paragraph texts in
// the order their w:p opens, so a text box follows the paragraph that
// anchors it. Fallback branches of mc:AlternateContent repeat their Choice
// and are skipped. Tabs and breaks count only inside a run and outside
// property blocks (pPr tab stops are layout, not text).
func readParagraphs(r io.Reader) ([]string, error) {
	counted := &countingReader{r: r}
	dec := xml.NewDecoder(counted)

	type openPara struct {
		slot int
		b    strings.Builder
	}
	var (
		paras    []string
		open     []*openPara // nested paragraphs (text boxes)
		inText   bool
		runs     int
		props    int
		fallback int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if counted.n > maxDocumentPart {
			return nil, fmt.Errorf("document part exceeds %d bytes", maxDocumentPart)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == markupCompatNS && t.Name.Local == "Fallback" {
				fallback++
				continue
			}
			if fallback > 0 || t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				open = append(open, &openPara{slot: len(paras)})
				paras = append(paras, "")
			case "r":
				runs++
			case "pPr", "rPr", "sectPr":
				props++
			case "t":
				inText = true
			case "tab":
				if runs > 0 && props == 0 && len(open) > 0 {
					open[len(open)-1].b.WriteByte('\t')
				}
			case "br", "cr":
				if runs > 0 && props == 0 && len(open) > 0 {
					open[len(open)-1].b.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space == markupCompatNS && t.Name.Local == "Fallback" {
				fallback--
				continue
			}
			if fallback > 0 || t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "r":
				if runs > 0 {
					runs--
				}
			case "pPr", "rPr", "sectPr":
				if props > 0 {
					props--
				}
			case "p":
				if len(open) == 0 {
					continue
				}
				last := open[len(open)-1]
				open = open[:len(open)-1]
				paras[last.slot] = last.b.String()
			}
		case xml.CharData:
			if inText && fallback == 0 && len(open) > 0 {
				open[len(open)-1].b.Write(t)
			}
		}
	}
	if len(open) > 0 {
		return nil, errors.New("unterminated paragraph")
	}
	return paras, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
