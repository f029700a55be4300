package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/docsum/internal/core"
	"github.com/joseph-ayodele/docsum/internal/export"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		format   string
		password string
		asJSON   bool
		xlsxPath string
	)
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the text of an image, PDF or DOCX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], format, password, a.cfg.Limits.MaxUploadBytes)
			if err != nil {
				return a.fail("read input failed", err)
			}

			ctx, cancel := a.deadline(cmd.Context())
			defer cancel()

			out, err := a.processor(nil).Process(ctx, doc, core.Options{})
			if err != nil {
				return a.fail("extract failed", err)
			}
			for _, w := range out.Extraction.Warnings {
				a.logger.Warn("page degraded", "page", w.Index, "stage", w.Stage, "message", w.Message)
			}

			if xlsxPath != "" {
				b, err := export.NewService(a.logger).PagesXLSX(out.Extraction, doc.Filename)
				if err != nil {
					return a.fail("xlsx export failed", err)
				}
				if err := os.WriteFile(xlsxPath, b, 0o644); err != nil {
					return a.fail("write xlsx failed", err)
				}
				a.logger.Info("page report written", "path", xlsxPath)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out.Extraction.Text)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "declared format: image, pdf or docx (default: from extension)")
	cmd.Flags().StringVar(&password, "password", "", "password for an encrypted PDF")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write a per-page report workbook to this path")
	return cmd
}
