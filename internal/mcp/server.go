package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joseph-ayodele/docsum/constants"
	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/core"
	"github.com/joseph-ayodele/docsum/internal/core/extract"
)

// DocumentProcessor runs extraction and optional summarization for one file.
type DocumentProcessor interface {
	Process(ctx context.Context, doc extract.InputDocument, opts core.Options) (core.Outcome, error)
}

// ToolServer exposes the document pipeline as MCP tools over stdio.
type ToolServer struct {
	processor DocumentProcessor
	maxBytes  int64
	version   string
	logger    *slog.Logger
}

func NewToolServer(processor DocumentProcessor, maxBytes int64, version string, logger *slog.Logger) *ToolServer {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBytes <= 0 {
		maxBytes = constants.MaxUploadBytes
	}
	if version == "" {
		version = "dev"
	}
	return &ToolServer{processor: processor, maxBytes: maxBytes, version: version, logger: logger}
}

// Build registers the tools on a fresh MCP server.
func (ts *ToolServer) Build() *server.MCPServer {
	s := server.NewMCPServer(
		"docsum",
		ts.version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	formatOpt := mcp.WithString("format",
		mcp.Description("Document format: image, pdf or docx. Inferred from the extension when omitted."),
		mcp.Enum("image", "pdf", "docx"),
	)
	pathOpt := mcp.WithString("path", mcp.Required(), mcp.Description("Local path of the document"))
	passwordOpt := mcp.WithString("password", mcp.Description("Password for an encrypted PDF"))

	s.AddTool(
		mcp.NewTool(
			"extract_text",
			mcp.WithDescription("Extract the text of an image, PDF or Word document. Blank PDF pages are OCRed."),
			pathOpt, formatOpt, passwordOpt,
		),
		ts.handleExtractText,
	)
	s.AddTool(
		mcp.NewTool(
			"summarize_document",
			mcp.WithDescription("Extract the text of a document and summarize it with the configured LLM."),
			pathOpt, formatOpt, passwordOpt,
		),
		ts.handleSummarizeDocument,
	)
	return s
}

// Run serves the tools on stdin/stdout until the client disconnects.
func (ts *ToolServer) Run() error {
	ts.logger.Info("mcp server starting", "transport", "stdio")
	return server.ServeStdio(ts.Build())
}

func (ts *ToolServer) handleExtractText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, errResult := ts.process(ctx, request, false)
	if errResult != nil {
		return errResult, nil
	}

	res := mcp.NewToolResultText(out.Extraction.Text)
	if len(out.Extraction.Warnings) > 0 {
		lines := make([]string, 0, len(out.Extraction.Warnings))
		for _, w := range out.Extraction.Warnings {
			lines = append(lines, fmt.Sprintf("page %d (%s): %s", w.Index, w.Stage, w.Message))
		}
		res.Content = append(res.Content, mcp.NewTextContent("warnings:\n"+strings.Join(lines, "\n")))
	}
	return res, nil
}

func (ts *ToolServer) handleSummarizeDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, errResult := ts.process(ctx, request, true)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(out.Summary), nil
}

// process validates the arguments, reads the file and runs the pipeline. A
// non-nil result is a tool error to hand back to the client.
func (ts *ToolServer) process(ctx context.Context, request mcp.CallToolRequest, summarize bool) (core.Outcome, *mcp.CallToolResult) {
	path := request.GetString("path", "")
	formatArg := request.GetString("format", "")
	password := request.GetString("password", "")

	v := common.NewValidator().
		Field("path", path, common.Required).
		Field("format", formatArg, common.OneOf("image", "pdf", "docx"))
	if err := v.Err(); err != nil {
		return core.Outcome{}, toolError(err)
	}

	format := constants.ParseFormat(formatArg)
	if format == "" {
		format = constants.FormatFromFilename(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return core.Outcome{}, toolError(common.InvalidArgumentError(fmt.Sprintf("cannot read %s: %v", path, err)))
	}
	if info.IsDir() {
		return core.Outcome{}, toolError(common.InvalidArgumentError(path + " is a directory"))
	}
	if err := common.NewValidator().Field("path", info.Size(), common.MaxBytes(ts.maxBytes)).Err(); err != nil {
		return core.Outcome{}, toolError(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Outcome{}, toolError(common.InvalidArgumentError(fmt.Sprintf("cannot read %s: %v", path, err)))
	}

	out, err := ts.processor.Process(ctx, extract.InputDocument{
		Data:     data,
		Format:   format,
		Filename: filepath.Base(path),
		Password: password,
	}, core.Options{Summarize: summarize})
	if err != nil {
		ts.logger.Warn("mcp.tool_failed", "tool", request.Params.Name, "path", path, "kind", common.KindOf(err), "error", err)
		return core.Outcome{}, toolError(err)
	}
	return out, nil
}

func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(common.KindOf(err) + ": " + common.MessageOf(err))
}
