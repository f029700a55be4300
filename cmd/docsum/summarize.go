package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/docsum/internal/core"
	"github.com/joseph-ayodele/docsum/internal/export"
)

func newSummarizeCmd(a *app) *cobra.Command {
	var (
		format   string
		password string
		apiKey   string
		asJSON   bool
		docxPath string
	)
	cmd := &cobra.Command{
		Use:   "summarize <file>",
		Short: "Extract a document and summarize it with the configured LLM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], format, password, a.cfg.Limits.MaxUploadBytes)
			if err != nil {
				return a.fail("read input failed", err)
			}
			summarizer, err := a.summarizer()
			if err != nil {
				return a.fail("summarizer setup failed", err)
			}

			ctx, cancel := a.deadline(cmd.Context())
			defer cancel()

			out, err := a.processor(summarizer).Process(ctx, doc, core.Options{
				Summarize:  true,
				Credential: apiKey,
			})
			if err != nil {
				return a.fail("summarize failed", err)
			}
			if out.Truncated {
				a.logger.Warn("input truncated before summarizing", "max_chars", a.cfg.LLM.MaxInputChars)
			}

			if docxPath != "" {
				title := "Summary of " + strings.TrimSuffix(doc.Filename, filepath.Ext(doc.Filename))
				if err := export.NewService(a.logger).SummaryDocx(title, out.Summary, docxPath); err != nil {
					return a.fail("docx export failed", err)
				}
				a.logger.Info("summary document written", "path", docxPath)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out.Summary)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "declared format: image, pdf or docx (default: from extension)")
	cmd.Flags().StringVar(&password, "password", "", "password for an encrypted PDF")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "provider API key (overrides GOOGLE_API_KEY / OPENAI_API_KEY)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print extraction and summary as JSON")
	cmd.Flags().StringVar(&docxPath, "docx", "", "also write the summary as a Word document to this path")
	return cmd
}
