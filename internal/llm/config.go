// Package llm provides centralized LLM configuration and client abstractions.
// Outline generation runs against Gemini through generative-ai-go and against every
// OpenAI-compatible endpoint (OpenAI, DeepSeek, private vLLM gateways) through openai-go.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, short rewrites
	TierLite ModelTier = "lite"
	// TierStandard is for outline generation
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form sources that need more reasoning
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderDeepSeek  Provider = "deepseek"
	// ProviderPrivate is a self-hosted OpenAI-compatible gateway
	ProviderPrivate Provider = "private"
)

// DefaultTemperature is the sampling temperature used for outline generation.
const DefaultTemperature = 0.7

// DeepSeekBaseURL is the OpenAI-compatible endpoint of DeepSeek.
const DeepSeekBaseURL = "https://api.deepseek.com/v1"

// Config holds the model configuration for one client
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	BaseURL     string
	Temperature float32
}

// DefaultConfig returns the default configuration (DeepSeek)
func DefaultConfig() *Config {
	return DefaultDeepSeekConfig()
}

// DefaultDeepSeekConfig returns the default DeepSeek configuration
func DefaultDeepSeekConfig() *Config {
	return &Config{
		Provider: ProviderDeepSeek,
		Models: map[ModelTier]string{
			TierLite:     "deepseek-chat",
			TierStandard: "deepseek-chat",
			TierAdvanced: "deepseek-reasoner",
		},
		BaseURL:     DeepSeekBaseURL,
		Temperature: DefaultTemperature,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string),
		BaseURL:     c.BaseURL,
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}

// temperature returns the configured temperature or the default.
func (c *Config) temperature() float32 {
	if c.Temperature <= 0 {
		return DefaultTemperature
	}
	return c.Temperature
}
