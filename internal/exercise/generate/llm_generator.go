package generate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/studyhall/studyhall/internal/exercise"
	"github.com/studyhall/studyhall/internal/llm"
)

// LLMGenerator implements Generator using the model provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates an LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate produces a single problem instance for the given input.
// The model's draft is normalized into the canonical contract and
// strictly validated; any violation fails the whole request.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*exercise.ProblemInstance, error) {
	if !input.Spec.Kind.Valid() {
		return nil, fmt.Errorf("unknown exercise kind: %q", input.Spec.Kind)
	}
	if input.RequireContext && input.Module == nil && input.Lesson == nil {
		return nil, ErrContextRequired
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeProblemGen)

	req := llm.Request{
		System: buildSystemPrompt(input.Spec.Kind),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      DraftSchema(input.Spec.Kind),
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("model generation failed: %w", err)
	}

	var draft map[string]any
	if err := json.Unmarshal(resp.Content, &draft); err != nil {
		return nil, fmt.Errorf("parse model draft: %w", err)
	}

	return exercise.NormalizeDraft(input.Spec.Kind, draft)
}
