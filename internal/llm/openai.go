package llm

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Client for any OpenAI-compatible chat endpoint.
type OpenAIClient struct {
	client openai.Client
	config *Config
}

// NewOpenAIClient creates a client for config.BaseURL, or the OpenAI default
// endpoint when it is empty.
func NewOpenAIClient(config *Config, apiKey string, extra ...option.RequestOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	opts = append(opts, extra...)

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		config: config,
	}, nil
}

func (c *OpenAIClient) complete(ctx context.Context, prompt Prompt, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	var msgs []openai.ChatCompletionMessageParamUnion
	if prompt.System != "" {
		msgs = append(msgs, openai.SystemMessage(prompt.System))
	}
	msgs = append(msgs, openai.UserMessage(prompt.User))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(modelName),
		Messages:    msgs,
		Temperature: openai.Float(float64(c.config.temperature())),
	})
	if err != nil {
		return "", &ProviderError{Model: modelName, Provider: c.config.Provider, Message: "chat completion", Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Model: modelName, Provider: c.config.Provider, Message: "no choices in response"}
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt Prompt, tier ModelTier) (string, error) {
	return c.complete(ctx, prompt, tier)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt Prompt, tier ModelTier) (string, error) {
	text, err := c.complete(ctx, prompt, tier)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client is shared.
func (c *OpenAIClient) Close() error {
	return nil
}
