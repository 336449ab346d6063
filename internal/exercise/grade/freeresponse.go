package grade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/studyhall/studyhall/internal/exercise"
	"github.com/studyhall/studyhall/internal/llm"
)

// verdictSchema constrains the model's grading response.
var verdictSchema = &llm.Schema{
	Name:        "free-response-verdict",
	Description: "A rubric-based correctness judgment for a free-form answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the answer satisfies the rubric",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Short feedback for the learner, 1-3 sentences",
			},
		},
		"required":             []any{"correct", "feedback"},
		"additionalProperties": false,
	},
}

const gradingSystemPrompt = `You are grading a learner's free-form answer against the author's rubric.

Rules:
- Judge only against the rubric. Do not invent additional requirements.
- Minor spelling and phrasing differences do not matter; substance does.
- Feedback addresses the learner directly, briefly, and constructively.
- Never reveal the full expected answer in the feedback.`

// FreeResponseGrader evaluates free-form answers by delegating to the
// model with the exercise's rubric. The model's correct verdict is
// taken as-is.
type FreeResponseGrader struct {
	provider llm.Provider
	config   Config
}

// Config bounds the grading model call.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns grading defaults. Temperature stays at zero so
// repeated grading of the same answer is as stable as the model allows.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0,
	}
}

// NewFreeResponseGrader returns a FreeResponseGrader using provider.
func NewFreeResponseGrader(provider llm.Provider, cfg Config) *FreeResponseGrader {
	return &FreeResponseGrader{provider: provider, config: cfg}
}

// Grade evaluates the submission against the spec's rubric.
func (g *FreeResponseGrader) Grade(ctx context.Context, p *exercise.ProblemInstance, sub exercise.Submission, spec *exercise.ExerciseSpec) (*exercise.GradeResult, error) {
	answer, err := sub.Text()
	if err != nil {
		return nil, fmt.Errorf("free-response submission must be a string: %w", err)
	}
	if spec == nil || spec.GradingRubric == "" {
		return nil, errors.New("free-response grading requires an exercise with a rubric")
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeFreeResponseGrade)

	req := llm.Request{
		System: gradingSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGradingMessage(p, spec, answer)},
		},
		Schema:      verdictSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("model grading failed: %w", err)
	}

	var verdict struct {
		Correct  bool   `json:"correct"`
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal(resp.Content, &verdict); err != nil {
		return nil, fmt.Errorf("parse grading verdict: %w", err)
	}

	return &exercise.GradeResult{
		Correct:  verdict.Correct,
		Feedback: verdict.Feedback,
	}, nil
}

func buildGradingMessage(p *exercise.ProblemInstance, spec *exercise.ExerciseSpec, answer string) string {
	var b strings.Builder

	b.WriteString("Problem:\n")
	for _, block := range p.Stem {
		b.WriteString(block.Value)
		b.WriteString("\n")
	}

	b.WriteString("\nRubric:\n")
	b.WriteString(spec.GradingRubric)
	b.WriteString("\n")

	b.WriteString("\nLearner answer:\n")
	b.WriteString(answer)

	return b.String()
}
