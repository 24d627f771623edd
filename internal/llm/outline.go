package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jonathan/ppt-architect/internal/prompts"
	"github.com/jonathan/ppt-architect/internal/schemas"
	"github.com/jonathan/ppt-architect/internal/types"
)

const outlinePrompts = "outline.json"

// OutlineGenerator turns free text into a deck outline through one model.
type OutlineGenerator struct {
	client    Client
	maxSlides int
}

// NewOutlineGenerator builds a generator for the catalogue model id.
// An empty id selects DefaultModel.
func NewOutlineGenerator(ctx context.Context, modelID string, keys Keys, maxSlides int) (*OutlineGenerator, error) {
	if modelID == "" {
		modelID = DefaultModel
	}
	cfg, key, err := ConfigFor(modelID, keys)
	if err != nil {
		return nil, err
	}
	client, err := NewClient(ctx, cfg, key)
	if err != nil {
		return nil, &ProviderError{Model: modelID, Provider: cfg.Provider, Message: "create client", Cause: err}
	}
	return NewOutlineGeneratorWithClient(client, maxSlides), nil
}

// NewOutlineGeneratorWithClient wraps an existing client. maxSlides <= 0 disables truncation.
func NewOutlineGeneratorWithClient(client Client, maxSlides int) *OutlineGenerator {
	return &OutlineGenerator{client: client, maxSlides: maxSlides}
}

// Model returns the model the generator calls.
func (g *OutlineGenerator) Model() string {
	return g.client.GetModel(TierStandard)
}

// Close releases the underlying client.
func (g *OutlineGenerator) Close() error {
	return g.client.Close()
}

// BuildOutlinePrompt renders the system and user messages for content.
// slideCount nil asks for the default range.
func BuildOutlinePrompt(content string, slideCount *int) (Prompt, error) {
	var (
		count string
		err   error
	)
	if slideCount != nil {
		count, err = prompts.Render(outlinePrompts, "count-exact", map[string]string{"Count": strconv.Itoa(*slideCount)})
	} else {
		count, err = prompts.Render(outlinePrompts, "count-range", nil)
	}
	if err != nil {
		return Prompt{}, err
	}

	layouts := make([]string, 0, len(types.AllLayouts()))
	for _, l := range types.AllLayouts() {
		layouts = append(layouts, string(l))
	}

	system, err := prompts.Render(outlinePrompts, "outline-system", map[string]string{
		"CountInstruction": count,
		"Layouts":          strings.Join(layouts, " | "),
	})
	if err != nil {
		return Prompt{}, err
	}
	user, err := prompts.Render(outlinePrompts, "outline-user", map[string]string{"Content": content})
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{System: system, User: user}, nil
}

// Generate asks the model for an outline of content.
func (g *OutlineGenerator) Generate(ctx context.Context, content string, slideCount *int) (*types.Outline, error) {
	prompt, err := BuildOutlinePrompt(content, slideCount)
	if err != nil {
		return nil, fmt.Errorf("failed to build outline prompt: %w", err)
	}

	model := g.Model()
	log.Printf("[llm] generating outline with %s (%d chars of source)", model, len(content))

	raw, err := g.client.GenerateJSON(ctx, prompt, TierStandard)
	if err != nil {
		return nil, err
	}

	outline, err := ParseOutline(raw)
	if err != nil {
		return nil, &ProviderError{Model: model, Message: "invalid outline", Cause: err}
	}

	if g.maxSlides > 0 && len(outline.Slides) > g.maxSlides {
		log.Printf("[llm] outline has %d slides, keeping the first %d", len(outline.Slides), g.maxSlides)
		outline.Slides = outline.Slides[:g.maxSlides]
	}
	return outline, nil
}

// ParseOutline extracts, schema-checks and decodes an outline from a model reply.
func ParseOutline(raw string) (*types.Outline, error) {
	body, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	if _, err := schemas.ValidateOutline([]byte(body)); err != nil {
		return nil, err
	}

	var outline types.Outline
	if err := json.Unmarshal([]byte(body), &outline); err != nil {
		return nil, fmt.Errorf("failed to decode outline: %w", err)
	}
	if err := outline.Validate(); err != nil {
		return nil, err
	}
	return &outline, nil
}
