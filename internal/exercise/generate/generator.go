package generate

import (
	"context"
	"errors"

	"github.com/studyhall/studyhall/internal/exercise"
)

// ErrContextRequired is returned when the caller expects contextual
// variation but no module or lesson context could be resolved.
// Generating without it would produce near-duplicate problems for
// modules authored with that expectation.
var ErrContextRequired = errors.New("generation context required but none resolved")

// ModuleContext describes the module a problem is generated for.
type ModuleContext struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// LessonContext describes the lesson a problem is generated for.
type LessonContext struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// GenerateInput carries an exercise spec plus optional context.
type GenerateInput struct {
	Spec exercise.ExerciseSpec

	// Module and Lesson enrich the prompt when present. Lookups that
	// fail upstream are passed in as nil, never as errors.
	Module *ModuleContext
	Lesson *LessonContext

	// PriorProblems holds the stems of problems already generated for
	// this exercise, for deduplication in the prompt.
	PriorProblems []string

	// RequireContext makes generation fail with ErrContextRequired
	// when neither Module nor Lesson is present.
	RequireContext bool
}

// Generator produces problem instances from exercise specs.
type Generator interface {
	// Generate produces a single canonical problem instance for the
	// given input. The result has passed strict validation.
	Generate(ctx context.Context, input GenerateInput) (*exercise.ProblemInstance, error)
}
