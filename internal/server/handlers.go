package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/docsum/constants"
	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/core"
	"github.com/joseph-ayodele/docsum/internal/core/extract"
)

// multipart framing allowance on top of the file limit
const multipartSlack = 1 << 20

var errTooLarge = errors.New("upload too large")

// handleExtract returns the extraction of one uploaded file.
func (s *Server) handleExtract(c *gin.Context) {
	s.process(c, false)
}

// handleDocuments extracts and summarizes one uploaded file.
func (s *Server) handleDocuments(c *gin.Context) {
	s.process(c, true)
}

func (s *Server) process(c *gin.Context, summarize bool) {
	doc, err := s.readUpload(c)
	if errors.Is(err, errTooLarge) {
		tooLarge(c, s.cfg.MaxUploadBytes)
		return
	}
	if err != nil {
		handleError(c, err)
		return
	}

	ctx, cancel := common.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()

	out, err := s.processor.Process(ctx, doc, core.Options{
		Summarize:  summarize,
		Credential: c.GetHeader("X-API-Key"),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// handleSummarize summarizes caller-supplied text.
func (s *Server) handleSummarize(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, common.InvalidArgumentError("invalid request body: "+err.Error()))
		return
	}
	if s.summarizer == nil {
		handleError(c, common.ServiceError("summarization is not configured", nil))
		return
	}

	ctx, cancel := common.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()

	summary, err := s.summarizer.Summarize(ctx, req.Text, c.GetHeader("X-API-Key"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"request_id": common.RequestIDFromContext(c.Request.Context()),
		"summary":    summary,
	})
}

// readUpload reads the multipart "file" field plus the optional "format"
// and "password" fields into an InputDocument.
func (s *Server) readUpload(c *gin.Context) (extract.InputDocument, error) {
	limit := s.cfg.MaxUploadBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartSlack)

	fh, err := c.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
			return extract.InputDocument{}, errTooLarge
		}
		return extract.InputDocument{}, common.InvalidArgumentError("multipart field 'file' is required")
	}
	if fh.Size > limit {
		return extract.InputDocument{}, errTooLarge
	}

	formatField := c.PostForm("format")
	password := c.PostForm("password")
	v := common.NewValidator().
		Field("filename", fh.Filename, common.MaxLength(255)).
		Field("password", password, common.MaxLength(1024))
	if err := v.Err(); err != nil {
		return extract.InputDocument{}, err
	}
	format := constants.ParseFormat(formatField)
	if formatField != "" && format == "" {
		return extract.InputDocument{}, common.UnsupportedFormatError("format %q is not supported", formatField)
	}
	if format == "" {
		format = constants.FormatFromFilename(fh.Filename)
	}
	if format == "" {
		format = constants.FormatFromMIME(fh.Header.Get("Content-Type"))
	}

	f, err := fh.Open()
	if err != nil {
		return extract.InputDocument{}, common.DecodeError("open upload", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return extract.InputDocument{}, common.DecodeError("read upload", err)
	}
	if int64(len(data)) > limit {
		return extract.InputDocument{}, errTooLarge
	}

	return extract.InputDocument{
		Data:     data,
		Format:   format,
		Filename: fh.Filename,
		Password: password,
	}, nil
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
