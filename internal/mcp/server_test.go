package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsum/constants"
	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/core"
	"github.com/joseph-ayodele/docsum/internal/core/extract"
)

type fakeProcessor struct {
	calls int
	doc   extract.InputDocument
	opts  core.Options
	out   core.Outcome
	err   error
}

func (f *fakeProcessor) Process(_ context.Context, doc extract.InputDocument, opts core.Options) (core.Outcome, error) {
	f.calls++
	f.doc, f.opts = doc, opts
	return f.out, f.err
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	var parts []string
	for _, c := range res.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			parts = append(parts, tc.Text)
		case *mcp.TextContent:
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestExtractTextTool(t *testing.T) {
	proc := &fakeProcessor{out: core.Outcome{Extraction: extract.Result{
		Text:     "page one\n\f\n",
		Warnings: []extract.PageWarning{{Index: 2, Stage: extract.StageOCR, Message: "tesseract failed"}},
	}}}
	ts := NewToolServer(proc, 0, "test", nil)
	path := writeFile(t, "scan.pdf", []byte("%PDF-1.4"))

	res, err := ts.handleExtractText(context.Background(), callRequest("extract_text", map[string]any{"path": path}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	assert.Equal(t, constants.PDF, proc.doc.Format)
	assert.Equal(t, "scan.pdf", proc.doc.Filename)
	assert.Equal(t, []byte("%PDF-1.4"), proc.doc.Data)
	assert.False(t, proc.opts.Summarize)

	text := resultText(t, res)
	assert.Contains(t, text, "page one")
	assert.Contains(t, text, "page 2 (ocr): tesseract failed")
}

func TestSummarizeDocumentTool(t *testing.T) {
	proc := &fakeProcessor{out: core.Outcome{Summary: "a short summary"}}
	ts := NewToolServer(proc, 0, "test", nil)
	path := writeFile(t, "notes.bin", []byte("PK"))

	res, err := ts.handleSummarizeDocument(context.Background(), callRequest("summarize_document", map[string]any{
		"path":   path,
		"format": "DOCX",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	assert.True(t, proc.opts.Summarize)
	assert.Equal(t, constants.DOCX, proc.doc.Format)
	assert.Equal(t, "a short summary", resultText(t, res))
}

func TestToolArgumentErrors(t *testing.T) {
	dir := t.TempDir()
	big := writeFile(t, "big.png", make([]byte, 2048))

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing path", map[string]any{}, common.CodeInvalidArgument},
		{"bad format", map[string]any{"path": big, "format": "xlsx"}, common.CodeInvalidArgument},
		{"no such file", map[string]any{"path": filepath.Join(dir, "nope.pdf")}, common.CodeInvalidArgument},
		{"directory", map[string]any{"path": dir}, common.CodeInvalidArgument},
		{"too large", map[string]any{"path": big}, common.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := &fakeProcessor{}
			ts := NewToolServer(proc, 1024, "test", nil)

			res, err := ts.handleExtractText(context.Background(), callRequest("extract_text", tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.True(t, strings.HasPrefix(resultText(t, res), tt.want), resultText(t, res))
			assert.Zero(t, proc.calls)
		})
	}
}

func TestToolCarriesPipelineErrorKind(t *testing.T) {
	proc := &fakeProcessor{err: common.AuthError("no API key configured", nil)}
	ts := NewToolServer(proc, 0, "test", nil)
	path := writeFile(t, "a.png", []byte("png"))

	res, err := ts.handleSummarizeDocument(context.Background(), callRequest("summarize_document", map[string]any{"path": path}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "AUTH_ERROR: no API key configured", resultText(t, res))
}

func TestBuildRegistersTools(t *testing.T) {
	s := NewToolServer(&fakeProcessor{}, 0, "", nil).Build()

	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"extract_text"`)
	assert.Contains(t, string(raw), `"summarize_document"`)
}
