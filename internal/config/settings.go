package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/ppt-architect/internal/llm"
)

// Settings is the service configuration read from the environment.
type Settings struct {
	// Providers
	OpenAIKey        string
	AnthropicKey     string
	AnthropicBaseURL string
	DeepSeekKey      string
	GeminiKey        string
	PrivateKey       string
	PrivateURL       string

	// Server
	Host        string
	Port        int
	CORSOrigins []string

	// Storage
	OutputDir    string
	TemplatesDir string
	MaxSlides    int
	DatabaseURL  string

	// Conversion and previews
	ConvertTimeout time.Duration
	SofficeBin     string
	PreviewWidth   int

	// APIKeyHash is the bcrypt hash of the key exchanged for tokens.
	APIKeyHash string
}

// Defaults mirror a local development checkout.
const (
	DefaultHost         = "0.0.0.0"
	DefaultPort         = 8000
	DefaultCORSOrigins  = "http://localhost:3000"
	DefaultOutputDir    = "./output"
	DefaultTemplatesDir = "./templates"
	DefaultMaxSlides    = 50
	DefaultPreviewWidth = 1280
)

// LoadSettings reads Settings from the environment.
func LoadSettings() (*Settings, error) {
	port, err := envInt("API_PORT", DefaultPort)
	if err != nil {
		return nil, err
	}
	maxSlides, err := envInt("MAX_SLIDES", DefaultMaxSlides)
	if err != nil {
		return nil, err
	}
	timeout, err := envDuration("CONVERT_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	previewWidth, err := envInt("PREVIEW_WIDTH", DefaultPreviewWidth)
	if err != nil {
		return nil, err
	}

	s := &Settings{
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicBaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
		DeepSeekKey:      os.Getenv("DEEPSEEK_API_KEY"),
		GeminiKey:        os.Getenv("GEMINI_API_KEY"),
		PrivateKey:       os.Getenv("PRIVATE_API_KEY"),
		PrivateURL:       os.Getenv("PRIVATE_API_URL"),

		Host:        envString("API_HOST", DefaultHost),
		Port:        port,
		CORSOrigins: splitList(envString("CORS_ORIGINS", DefaultCORSOrigins)),

		OutputDir:    envString("OUTPUT_DIR", DefaultOutputDir),
		TemplatesDir: envString("TEMPLATES_DIR", DefaultTemplatesDir),
		MaxSlides:    maxSlides,
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		ConvertTimeout: timeout,
		SofficeBin:     envString("SOFFICE_BIN", "soffice"),
		PreviewWidth:   previewWidth,

		APIKeyHash: os.Getenv("API_KEY_HASH"),
	}

	if s.Port < 1 || s.Port > 65535 {
		return nil, fmt.Errorf("API_PORT out of range: %d", s.Port)
	}
	if s.MaxSlides < 1 {
		return nil, fmt.Errorf("MAX_SLIDES must be at least 1, got: %d", s.MaxSlides)
	}
	return s, nil
}

// Addr is the listen address of the HTTP service.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ProviderKeys returns the credentials handed to the model catalogue.
func (s *Settings) ProviderKeys() llm.Keys {
	return llm.Keys{
		OpenAI:           s.OpenAIKey,
		Anthropic:        s.AnthropicKey,
		AnthropicBaseURL: s.AnthropicBaseURL,
		DeepSeek:         s.DeepSeekKey,
		Gemini:           s.GeminiKey,
		Private:          s.PrivateKey,
		PrivateURL:       s.PrivateURL,
	}
}

// EnsureDirs creates the output and template directories.
func (s *Settings) EnsureDirs() error {
	for _, dir := range []string{s.OutputDir, s.TemplatesDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// AuthEnabled reports whether token auth is configured: it needs both a
// JWT secret and the API key hash.
func (s *Settings) AuthEnabled() bool {
	return os.Getenv("JWT_SECRET") != "" && s.APIKeyHash != ""
}

func envString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

// envDuration accepts Go durations ("90s") or plain seconds ("300").
func envDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
