package main

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/docsum/internal/mcp"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve extract_text and summarize_document as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			summarizer, err := a.summarizer()
			if err != nil {
				return a.fail("summarizer setup failed", err)
			}
			ts := mcp.NewToolServer(a.processor(summarizer), a.cfg.Limits.MaxUploadBytes, version, a.logger)
			if err := ts.Run(); err != nil {
				return a.fail("mcp server failed", err)
			}
			return nil
		},
	}
}
