package common

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/docsum/constants"
)

// Config holds all application configuration
type Config struct {
	OCR    OCRConfig    `yaml:"ocr" json:"ocr"`
	LLM    LLMConfig    `yaml:"llm" json:"llm"`
	HTTP   HTTPConfig   `yaml:"http" json:"http"`
	Limits LimitsConfig `yaml:"limits" json:"limits"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

// OCRConfig holds OCR- and PDF-related configuration
type OCRConfig struct {
	Tesseract           string `yaml:"tesseract" json:"tesseract" env:"TESSERACT_BIN"`
	Pdftoppm            string `yaml:"pdftoppm" json:"pdftoppm" env:"PDFTOPPM_BIN"`
	Lang                string `yaml:"lang" json:"lang" env:"TESSERACT_LANG"`
	TessdataDir         string `yaml:"tessdata_dir" json:"tessdata_dir" env:"TESSDATA_PREFIX"`
	DPI                 int    `yaml:"dpi" json:"dpi" env:"OCR_DPI"`
	PSM                 int    `yaml:"psm" json:"psm" env:"TESSERACT_PSM"`
	OEM                 int    `yaml:"oem" json:"oem" env:"TESSERACT_OEM"`
	EnableTSVConfidence bool   `yaml:"tsv_confidence" json:"tsv_confidence" env:"OCR_TSV_CONFIDENCE"`
	MaxOCRPages         int    `yaml:"max_ocr_pages" json:"max_ocr_pages" env:"OCR_MAX_PAGES"`
	MinEmbeddedChars    int    `yaml:"min_embedded_chars" json:"min_embedded_chars" env:"PDF_MIN_EMBEDDED_CHARS"`
	PageSeparator       string `yaml:"page_separator" json:"page_separator"`
}

// LLMConfig holds summarizer configuration. API keys are read from the
// environment only.
type LLMConfig struct {
	Provider        string        `yaml:"provider" json:"provider" env:"LLM_PROVIDER"`
	Model           string        `yaml:"model" json:"model" env:"LLM_MODEL"`
	Temperature     float32       `yaml:"temperature" json:"temperature" env:"LLM_TEMPERATURE"`
	MaxOutputTokens int32         `yaml:"max_output_tokens" json:"max_output_tokens" env:"LLM_MAX_OUTPUT_TOKENS"`
	BaseURL         string        `yaml:"base_url" json:"base_url" env:"LLM_BASE_URL"`
	MaxInputChars   int           `yaml:"max_input_chars" json:"max_input_chars" env:"LLM_MAX_INPUT_CHARS"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout" env:"LLM_TIMEOUT"`
	GoogleAPIKey    string        `yaml:"-" json:"-" env:"GOOGLE_API_KEY"`
	OpenAIAPIKey    string        `yaml:"-" json:"-" env:"OPENAI_API_KEY"`
}

// HTTPConfig holds upload API configuration
type HTTPConfig struct {
	Addr           string        `yaml:"addr" json:"addr" env:"HTTP_ADDR"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout" env:"HTTP_REQUEST_TIMEOUT"`
}

// LimitsConfig holds input size limits
type LimitsConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes" json:"max_upload_bytes" env:"MAX_UPLOAD_BYTES"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level" json:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" json:"format" env:"LOG_FORMAT"`
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OCR: OCRConfig{
			Tesseract:     "tesseract",
			Pdftoppm:      "pdftoppm",
			Lang:          "eng",
			DPI:           300,
			PageSeparator: "\n\f\n",
		},
		LLM: LLMConfig{
			Provider:        ProviderGemini,
			Temperature:     0.2,
			MaxOutputTokens: 1024,
			Timeout:         60 * time.Second,
		},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			RequestTimeout: 5 * time.Minute,
		},
		Limits: LimitsConfig{
			MaxUploadBytes: constants.MaxUploadBytes,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file
// and the environment (environment wins), then validates it.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against the config schema and a few
// cross-field rules.
func (c *Config) Validate() error {
	if err := ValidateJSONAgainstSchema(ConfigSchema(), c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.OCR.Tesseract == "" || c.OCR.Pdftoppm == "" {
		return errors.New("invalid config: ocr binaries must not be empty")
	}
	if c.LLM.Provider == ProviderOpenAI && c.LLM.BaseURL != "" &&
		!strings.HasPrefix(c.LLM.BaseURL, "http://") && !strings.HasPrefix(c.LLM.BaseURL, "https://") {
		return fmt.Errorf("invalid config: llm.base_url %q must be an http(s) URL", c.LLM.BaseURL)
	}
	return nil
}

// APIKey returns the credential configured for the selected provider.
func (c LLMConfig) APIKey() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	default:
		return c.GoogleAPIKey
	}
}

// SlogLevel maps the configured level name to a slog.Level (info when unknown).
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
