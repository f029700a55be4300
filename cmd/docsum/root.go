package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/core"
	"github.com/joseph-ayodele/docsum/internal/core/extract"
	"github.com/joseph-ayodele/docsum/internal/llm/provider"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	timeout    time.Duration
	lang       string
	providerID string

	cfg    *common.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "docsum",
		Short:         "Extract text from images, PDFs and Word documents and summarize it",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: json or text")
	pf.DurationVar(&a.timeout, "timeout", 0, "overall deadline for one command (0 = config default)")
	pf.StringVar(&a.lang, "lang", "", "tesseract language, e.g. eng or eng+deu")
	pf.StringVar(&a.providerID, "provider", "", "summarizer backend: gemini or openai")

	root.AddCommand(
		newExtractCmd(a),
		newSummarizeCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
	)
	return root
}

// setup loads .env and the config file, applies flag overrides and installs
// the logger. Logs go to stderr so stdout stays free for results and for
// the MCP stdio transport.
func (a *app) setup(cmd *cobra.Command) error {
	_ = godotenv.Load()

	cfg, err := common.LoadConfig(a.configPath)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "config error:", err)
		return err
	}
	if a.lang != "" {
		cfg.OCR.Lang = a.lang
	}
	if a.providerID != "" {
		cfg.LLM.Provider = strings.ToLower(a.providerID)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "config error:", err)
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cfg.Log)
	slog.SetDefault(a.logger)
	return nil
}

func newLogger(c common.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// deadline bounds one command; --timeout wins over the configured request timeout.
func (a *app) deadline(parent context.Context) (context.Context, context.CancelFunc) {
	d := a.timeout
	if d <= 0 {
		d = a.cfg.HTTP.RequestTimeout
	}
	return common.WithTimeout(parent, d)
}

// summarizer builds the configured gateway, bounded by the LLM timeout.
func (a *app) summarizer() (core.Summarizer, error) {
	gw, err := provider.NewGateway(a.cfg.LLM, a.logger)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("summarizer ready", "provider", gw.Provider())
	return boundedSummarizer{next: gw, timeout: a.cfg.LLM.Timeout}, nil
}

func (a *app) processor(summarizer core.Summarizer) *core.Processor {
	return core.NewProcessor(a.logger, extract.NewFromConfig(a.cfg.OCR, a.logger), summarizer, a.cfg.LLM.MaxInputChars)
}

// fail logs err with its kind and hands it back to cobra.
func (a *app) fail(msg string, err error) error {
	a.logger.Error(msg, "kind", common.KindOf(err), "error", err)
	return err
}

type boundedSummarizer struct {
	next    core.Summarizer
	timeout time.Duration
}

func (b boundedSummarizer) Summarize(ctx context.Context, text, credential string) (string, error) {
	ctx, cancel := common.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.next.Summarize(ctx, text, credential)
}
