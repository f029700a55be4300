package common

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docsum.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "tesseract", cfg.OCR.Tesseract)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, "\n\f\n", cfg.OCR.PageSeparator)
	assert.Equal(t, int64(10<<20), cfg.Limits.MaxUploadBytes)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, int32(1024), cfg.LLM.MaxOutputTokens)
}

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	path := writeConfig(t, `
ocr:
  lang: deu
  dpi: 200
llm:
  provider: openai
  model: gpt-4o-mini
  temperature: 0
http:
  request_timeout: 90s
`)
	t.Setenv("OCR_DPI", "150")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "deu", cfg.OCR.Lang)
	assert.Equal(t, 150, cfg.OCR.DPI, "env must win over yaml")
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Zero(t, cfg.LLM.Temperature, "explicit zero in yaml must survive defaults")
	assert.Equal(t, 90*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey())
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown provider", "llm:\n  provider: claude-local\n"},
		{"dpi too low", "ocr:\n  dpi: 10\n"},
		{"negative ocr page budget", "ocr:\n  max_ocr_pages: -1\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"bad lang", "ocr:\n  lang: 'eng; rm -rf'\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestAPIKeyPerProvider(t *testing.T) {
	c := LLMConfig{Provider: ProviderGemini, GoogleAPIKey: "g", OpenAIAPIKey: "o"}
	assert.Equal(t, "g", c.APIKey())
	c.Provider = ProviderOpenAI
	assert.Equal(t, "o", c.APIKey())
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LogConfig{Level: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "warn"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "bogus"}.SlogLevel())
}
