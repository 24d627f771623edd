package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/ppt-architect/internal/types"
)

// Keys carries the provider credentials known to the process.
type Keys struct {
	OpenAI           string
	Anthropic        string
	AnthropicBaseURL string
	DeepSeek         string
	Gemini           string
	Private          string
	PrivateURL       string
}

// Model is one entry of the outline model catalogue.
type Model struct {
	ID       string
	Name     string
	Provider Provider
	Private  bool
}

// AnthropicBaseURL is Anthropic's OpenAI-compatible endpoint.
const AnthropicBaseURL = "https://api.anthropic.com/v1/"

// DefaultModel is used when a request names no model.
const DefaultModel = "deepseek-chat"

var hostedModels = []Model{
	{ID: "gpt-4o", Name: "GPT-4o", Provider: ProviderOpenAI},
	{ID: "claude-3-5-sonnet-20240620", Name: "Claude 3.5 Sonnet", Provider: ProviderAnthropic},
	{ID: "deepseek-chat", Name: "DeepSeek V3", Provider: ProviderDeepSeek},
	{ID: "gemini-pro", Name: "Gemini Pro", Provider: ProviderGemini},
}

var privateModels = []Model{
	{ID: "DeepSeek-R1", Name: "DeepSeek-R1"},
	{ID: "Qwen3-235B", Name: "Qwen3-235B"},
	{ID: "Qwen2.5-72B", Name: "Qwen2.5-72B"},
	{ID: "Qwen2.5-VL-72B", Name: "Qwen2.5-VL-72B"},
	{ID: "Qwen3-32B", Name: "Qwen3-32B"},
	{ID: "Qwen3-embedding-8B", Name: "Qwen3-embedding-8B"},
	{ID: "bge-reranker-v2-m3", Name: "bge-reranker-v2-m3"},
	{ID: "bge-m3", Name: "bge-m3"},
	{ID: "CosyVoice-0.5B", Name: "CosyVoice-0.5B"},
	{ID: "whisper-large-v3", Name: "whisper-large-v3"},
}

// Catalog returns every known model, hosted first.
func Catalog() []Model {
	out := make([]Model, 0, len(hostedModels)+len(privateModels))
	out = append(out, hostedModels...)
	for _, m := range privateModels {
		m.Provider = ProviderPrivate
		m.Private = true
		out = append(out, m)
	}
	return out
}

// LookupModel finds a catalogue entry by id.
func LookupModel(id string) (Model, bool) {
	for _, m := range Catalog() {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// keyFor returns the credential that unlocks provider p.
func (k Keys) keyFor(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return k.OpenAI
	case ProviderAnthropic:
		return k.Anthropic
	case ProviderDeepSeek:
		return k.DeepSeek
	case ProviderGemini:
		return k.Gemini
	case ProviderPrivate:
		return k.Private
	default:
		return ""
	}
}

// configured reports whether a key has been filled in. Placeholder values
// copied from an example env file ("your_...") do not count.
func configured(key string) bool {
	return key != "" && !strings.HasPrefix(key, "your_")
}

// Available reports whether model m can be called with keys.
func (k Keys) Available(m Model) bool {
	if m.Provider == ProviderPrivate && k.PrivateURL == "" {
		return false
	}
	return configured(k.keyFor(m.Provider))
}

// AvailableModels returns the catalogue annotated with availability.
func AvailableModels(keys Keys) []types.ModelInfo {
	catalog := Catalog()
	out := make([]types.ModelInfo, 0, len(catalog))
	for _, m := range catalog {
		out = append(out, types.ModelInfo{
			ID:        m.ID,
			Name:      m.Name,
			Provider:  string(m.Provider),
			Private:   m.Private,
			Available: keys.Available(m),
		})
	}
	return out
}

// ValidateAPIKey performs the cheap shape check on a provider key.
func ValidateAPIKey(key string) bool {
	return len(key) > 20
}

// ConfigFor builds the client configuration for model id.
func ConfigFor(id string, keys Keys) (*Config, string, error) {
	m, ok := LookupModel(id)
	if !ok {
		return nil, "", &ProviderError{Model: id, Message: "unknown model"}
	}
	key := keys.keyFor(m.Provider)
	if !configured(key) {
		return nil, "", &ProviderError{Model: id, Provider: m.Provider, Message: "API key not configured"}
	}

	cfg := &Config{
		Provider:    m.Provider,
		Models:      map[ModelTier]string{TierStandard: m.ID},
		Temperature: DefaultTemperature,
	}
	switch m.Provider {
	case ProviderDeepSeek:
		cfg.BaseURL = DeepSeekBaseURL
	case ProviderAnthropic:
		cfg.BaseURL = keys.AnthropicBaseURL
		if cfg.BaseURL == "" {
			cfg.BaseURL = AnthropicBaseURL
		}
	case ProviderPrivate:
		if keys.PrivateURL == "" {
			return nil, "", &ProviderError{Model: id, Provider: m.Provider, Message: "PRIVATE_API_URL not configured"}
		}
		cfg.BaseURL = keys.PrivateURL
	}
	return cfg, key, nil
}

// ProviderError reports a provider that could not be configured or called.
type ProviderError struct {
	Model    string
	Provider Provider
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	prefix := e.Model
	if e.Provider != "" {
		prefix = fmt.Sprintf("%s (%s)", e.Model, e.Provider)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
