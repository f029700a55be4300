package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/docsum/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP upload API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.HTTP.Addr
			}
			summarizer, err := a.summarizer()
			if err != nil {
				return a.fail("summarizer setup failed", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.NewServer(server.Config{
				Addr:           addr,
				MaxUploadBytes: a.cfg.Limits.MaxUploadBytes,
				RequestTimeout: a.cfg.HTTP.RequestTimeout,
			}, a.processor(summarizer), summarizer, a.logger)
			if err := srv.Run(ctx); err != nil {
				return a.fail("http server failed", err)
			}
			a.logger.Info("stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
