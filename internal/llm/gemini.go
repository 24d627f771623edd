package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient talks to Google Gemini through the generative-ai SDK.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient opens a Gemini client. Extra options are appended after the
// API key, so tests can point it at a local endpoint.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string, extra ...option.ClientOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, extra...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, config: config}, nil
}

// generate runs one prompt. With asJSON the model is asked for an
// application/json response.
func (c *GeminiClient) generate(ctx context.Context, prompt Prompt, tier ModelTier, asJSON bool) (string, error) {
	name := c.config.GetModel(tier)
	if name == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(name)
	model.SetTemperature(c.config.temperature())
	if prompt.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt.System)}}
	}
	if asJSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		return "", &ProviderError{Model: name, Provider: ProviderGemini, Message: "generate content", Cause: err}
	}
	text, err := responseText(resp)
	if err != nil {
		return "", &ProviderError{Model: name, Provider: ProviderGemini, Message: err.Error()}
	}
	return text, nil
}

// GenerateContent returns the model's plain text reply.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt Prompt, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier, false)
}

// GenerateJSON returns the model's reply with any markdown fence removed.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt Prompt, tier ModelTier) (string, error) {
	text, err := c.generate(ctx, prompt, tier, true)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// responseText joins the text parts of the first candidate. A candidate
// stopped by a safety filter is reported with its finish reason.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	cand := resp.Candidates[0]
	var sb strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	if sb.Len() == 0 {
		if cand.FinishReason != genai.FinishReasonStop && cand.FinishReason != genai.FinishReasonUnspecified {
			return "", fmt.Errorf("empty response, finish reason %s", cand.FinishReason)
		}
		return "", fmt.Errorf("no text parts in response")
	}
	return sb.String(), nil
}
