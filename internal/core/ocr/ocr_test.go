package ocr

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

// stubRunner replays scripted responses and records every invocation.
type stubRunner struct {
	calls []call
	fn    func(name string, args []string) ([]byte, []byte, error)
}

func (s *stubRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, call{name: name, args: append([]string(nil), args...)})
	if s.fn == nil {
		return nil, nil, nil
	}
	return s.fn(name, args)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf and tabs", "a\r\nb\t\tc", "a\nb c"},
		{"multi space", "hello    world  ", "hello world"},
		{"blank lines", "one\n\n\n\n\ntwo", "one\n\ntwo"},
		{"form feed", "page text\n\f", "page text"},
		{"box noise", "total\n-----\nnext", "total\n\nnext"},
		{"digits untouched", "room 01 and 0 items", "room 01 and 0 items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestMeanTSVConfidence(t *testing.T) {
	header := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext"
	tsv := strings.Join([]string{
		header,
		"1\t1\t0\t0\t0\t0\t0\t0\t100\t100\t-1\t",
		"5\t1\t1\t1\t1\t1\t1\t1\t10\t10\t90\thello",
		"5\t1\t1\t1\t1\t2\t1\t1\t10\t10\t70\tworld",
	}, "\n")

	c, ok := meanTSVConfidence(tsv)
	require.True(t, ok)
	assert.InDelta(t, 0.8, c, 1e-6)

	_, ok = meanTSVConfidence(header + "\n")
	assert.False(t, ok)
}

func TestTesseractRecognize(t *testing.T) {
	var seenImage []byte
	r := &stubRunner{fn: func(_ string, args []string) ([]byte, []byte, error) {
		b, err := os.ReadFile(args[0])
		if err == nil {
			seenImage = b
		}
		return []byte("Hello\t\tWorld\r\n\f"), nil, nil
	}}
	eng := NewTesseract(TesseractConfig{Lang: "deu", TessdataDir: "/td", PSM: 6}, r, nil)

	rec, err := eng.Recognize(context.Background(), []byte("img-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "Hello World", rec.Text)
	assert.Equal(t, []byte("img-bytes"), seenImage)
	require.Len(t, r.calls, 1)
	assert.Equal(t, "tesseract", r.calls[0].name)
	assert.Equal(t, []string{"stdout", "-l", "deu", "--tessdata-dir", "/td", "--psm", "6"}, r.calls[0].args[1:])

	_, statErr := os.Stat(r.calls[0].args[0])
	assert.True(t, os.IsNotExist(statErr), "temp image must be removed")
}

func TestTesseractRecognizeFailure(t *testing.T) {
	r := &stubRunner{fn: func(string, []string) ([]byte, []byte, error) {
		return nil, []byte("Error opening data file"), errors.New("exit status 1")
	}}
	_, err := NewTesseract(TesseractConfig{}, r, nil).Recognize(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error opening data file")
}

func TestTesseractTSVConfidence(t *testing.T) {
	r := &stubRunner{fn: func(_ string, args []string) ([]byte, []byte, error) {
		if args[len(args)-1] == "tsv" {
			return []byte("h\n5\t1\t1\t1\t1\t1\t1\t1\t1\t1\t50\tword"), nil, nil
		}
		return []byte("word"), nil, nil
	}}
	rec, err := NewTesseract(TesseractConfig{EnableTSVConfidence: true}, r, nil).
		Recognize(context.Background(), []byte("x"))
	require.NoError(t, err)
	assert.Len(t, r.calls, 2)
	assert.InDelta(t, 0.5, rec.Confidence, 1e-6)
}

func TestTesseractTSVFailureIsWarning(t *testing.T) {
	r := &stubRunner{fn: func(_ string, args []string) ([]byte, []byte, error) {
		if args[len(args)-1] == "tsv" {
			return nil, nil, errors.New("tsv broke")
		}
		return []byte("word"), nil, nil
	}}
	rec, err := NewTesseract(TesseractConfig{EnableTSVConfidence: true}, r, nil).
		Recognize(context.Background(), []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "word", rec.Text)
	require.Len(t, rec.Warnings, 1)
	assert.Contains(t, rec.Warnings[0], "tsv broke")
}

func TestPopplerRenderPage(t *testing.T) {
	r := &stubRunner{fn: func(_ string, args []string) ([]byte, []byte, error) {
		prefix := args[len(args)-1]
		return nil, nil, os.WriteFile(prefix+".png", []byte("png-data"), 0o600)
	}}
	p := NewPoppler("", 150, r, nil)

	img, err := p.RenderPage(context.Background(), "/tmp/in.pdf", 2, "secret")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-data"), img)
	require.Len(t, r.calls, 1)
	args := r.calls[0].args
	assert.Equal(t, "pdftoppm", r.calls[0].name)
	assert.Equal(t, []string{"-r", "150", "-png", "-f", "2", "-l", "2", "-singlefile", "-upw", "secret", "/tmp/in.pdf"}, args[:len(args)-1])
}

func TestPopplerRenderPageErrors(t *testing.T) {
	failing := &stubRunner{fn: func(string, []string) ([]byte, []byte, error) {
		return nil, []byte("Syntax Error"), errors.New("exit status 1")
	}}
	_, err := NewPoppler("pdftoppm", 0, failing, nil).RenderPage(context.Background(), "in.pdf", 1, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Syntax Error")

	silent := &stubRunner{}
	_, err = NewPoppler("pdftoppm", 0, silent, nil).RenderPage(context.Background(), "in.pdf", 1, "")
	assert.Error(t, err, "missing output image")

	_, err = NewPoppler("pdftoppm", 0, silent, nil).RenderPage(context.Background(), "in.pdf", 0, "")
	assert.Error(t, err)
}
