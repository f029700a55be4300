package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsum/internal/core/ocr"
)

// stubEngine counts calls and replays a scripted response.
type stubEngine struct {
	calls  int
	images [][]byte
	fn     func(call int, img []byte) (ocr.Recognition, error)
}

func (s *stubEngine) Recognize(_ context.Context, img []byte) (ocr.Recognition, error) {
	s.calls++
	s.images = append(s.images, img)
	if s.fn == nil {
		return ocr.Recognition{}, nil
	}
	return s.fn(s.calls, img)
}

// stubRasterizer records requested pages and checks the temp PDF is readable.
type stubRasterizer struct {
	pages []int
	paths []string
	seen  [][]byte
	err   error
}

func (s *stubRasterizer) RenderPage(_ context.Context, pdfPath string, page int, _ string) ([]byte, error) {
	s.pages = append(s.pages, page)
	s.paths = append(s.paths, pdfPath)
	b, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, err
	}
	s.seen = append(s.seen, b)
	if s.err != nil {
		return nil, s.err
	}
	return []byte(fmt.Sprintf("raster-page-%d", page)), nil
}

// buildPDF writes a minimal PDF with one page per entry; each page lists its
// text lines. A page with no lines has an empty content stream.
func buildPDF(t *testing.T, pages [][]string) []byte {
	t.Helper()
	n := len(pages)
	objs := make([]string, 0, 3+2*n)

	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, lines := range pages {
		objs = append(objs, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			5+2*i))
		content := pageContent(lines)
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

// pageContent places every word with an absolute text matrix so positions,
// not glyph widths, carry the layout.
func pageContent(lines []string) string {
	if len(lines) == 0 {
		return "q Q"
	}
	var b strings.Builder
	b.WriteString("BT /F1 12 Tf")
	for li, line := range lines {
		for wi, word := range strings.Fields(line) {
			fmt.Fprintf(&b, " 1 0 0 1 %d %d Tm (%s) Tj", 72+wi*100, 700-li*20, escapePDF(word))
		}
	}
	b.WriteString(" ET")
	return b.String()
}

func escapePDF(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.Black)
	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, img))
	return b.Bytes()
}

// docxBytes zips a WordprocessingML body into a docx container.
func docxBytes(t *testing.T, body string) []byte {
	t.Helper()
	xmlDoc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006">` +
		`<w:body>` + body + `</w:body></w:document>`
	return zipBytes(t, map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   xmlDoc,
	})
}

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	for _, name := range []string{"[Content_Types].xml", "word/document.xml", "docProps/app.xml"} {
		body, ok := files[name]
		if !ok {
			continue
		}
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return b.Bytes()
}

func para(runs ...string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	for _, r := range runs {
		b.WriteString(r)
	}
	b.WriteString("</w:p>")
	return b.String()
}

func run(text string) string {
	return `<w:r><w:t xml:space="preserve">` + text + `</w:t></w:r>`
}
