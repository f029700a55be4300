package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Poppler rasterizes single PDF pages with pdftoppm.
type Poppler struct {
	binary string
	dpi    int
	runner Runner
	logger *slog.Logger
}

func NewPoppler(binary string, dpi int, runner Runner, logger *slog.Logger) *Poppler {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if binary == "" {
		binary = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 300
	}
	return &Poppler{binary: binary, dpi: dpi, runner: runner, logger: logger}
}

// RenderPage renders page (1-based) of the PDF at pdfPath to PNG bytes.
func (p *Poppler) RenderPage(ctx context.Context, pdfPath string, page int, password string) ([]byte, error) {
	if page < 1 {
		return nil, fmt.Errorf("pdftoppm: invalid page %d", page)
	}
	tmpDir, err := os.MkdirTemp("", "docsum-pp-*")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm: temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			p.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	n := strconv.Itoa(page)
	// pdftoppm -r 300 -png -f n -l n -singlefile <in.pdf> <tmp/page>
	args := []string{"-r", strconv.Itoa(p.dpi), "-png", "-f", n, "-l", n, "-singlefile"}
	if password != "" {
		args = append(args, "-upw", password)
	}
	args = append(args, pdfPath, prefix)

	_, errb, err := p.runner.Run(ctx, p.binary, p.logger, args...)
	if err != nil {
		if msg := strings.TrimSpace(string(errb)); msg != "" {
			return nil, fmt.Errorf("pdftoppm: %w: %s", err, truncate(msg, 512))
		}
		return nil, fmt.Errorf("pdftoppm: %w", err)
	}
	img, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm produced no image for page %d: %w", page, err)
	}
	return img, nil
}
