package generate

import (
	"strings"
	"testing"

	"github.com/studyhall/studyhall/internal/exercise"
)

func TestInterpolate(t *testing.T) {
	got := interpolate("Factor {{expr}} over {{domain}}.", map[string]string{
		"expr":   "x^2-1",
		"domain": "the integers",
	})
	want := "Factor x^2-1 over the integers."
	if got != want {
		t.Fatalf("expected %q, got %q", got, want)
	}
}

func TestInterpolate_UnknownPlaceholderKept(t *testing.T) {
	got := interpolate("Use {{known}} and {{unknown}}.", map[string]string{"known": "this"})
	if got != "Use this and {{unknown}}." {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestInterpolate_NoVars(t *testing.T) {
	tmpl := "No placeholders here."
	if got := interpolate(tmpl, nil); got != tmpl {
		t.Fatalf("expected template unchanged, got %q", got)
	}
}

func TestBuildUserMessage_RubricOnlyForFreeResponse(t *testing.T) {
	cfg := DefaultConfig()

	fr := GenerateInput{Spec: exercise.ExerciseSpec{
		Kind:           exercise.KindFreeResponse,
		PromptTemplate: "Ask about photosynthesis.",
		GradingRubric:  "Must mention chlorophyll.",
	}}
	if msg := buildUserMessage(fr, cfg); !strings.Contains(msg, "Must mention chlorophyll.") {
		t.Error("expected rubric in free-response prompt")
	}

	mc := GenerateInput{Spec: exercise.ExerciseSpec{
		Kind:           exercise.KindMultipleChoice,
		PromptTemplate: "Ask about photosynthesis.",
		GradingRubric:  "Must mention chlorophyll.",
	}}
	if msg := buildUserMessage(mc, cfg); strings.Contains(msg, "Must mention chlorophyll.") {
		t.Error("rubric must not leak into non-free-response prompts")
	}
}

func TestBuildUserMessage_ContextSections(t *testing.T) {
	input := GenerateInput{
		Spec: exercise.ExerciseSpec{
			Kind:           exercise.KindMultipleChoice,
			PromptTemplate: "Ask something.",
		},
		Module: &ModuleContext{Slug: "bio-1", Title: "Cell Biology"},
		Lesson: &LessonContext{Slug: "membranes", Title: "Membranes", Summary: "Lipid bilayers."},
	}
	msg := buildUserMessage(input, DefaultConfig())
	for _, want := range []string{"Cell Biology", "Membranes", "Lipid bilayers."} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in prompt", want)
		}
	}
}

func TestBuildDedup_CapsPriorProblems(t *testing.T) {
	prior := []string{"one", "two", "three", "four", "five"}
	got := buildDedup(prior, 3)
	if strings.Contains(got, "one") || strings.Contains(got, "two") {
		t.Errorf("expected oldest entries dropped, got %q", got)
	}
	for _, want := range []string{"three", "four", "five"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q kept, got %q", want, got)
		}
	}
}

func TestBuildDedup_Empty(t *testing.T) {
	if got := buildDedup(nil, 8); got != "None" {
		t.Fatalf("expected None, got %q", got)
	}
}

func TestBuildSystemPrompt_KindRules(t *testing.T) {
	for _, kind := range exercise.Kinds {
		prompt := buildSystemPrompt(kind)
		if !strings.Contains(prompt, "exercise author") {
			t.Errorf("%s: missing base prompt", kind)
		}
	}
	if !strings.Contains(buildSystemPrompt(exercise.KindOrdering), "correctPosition") {
		t.Error("expected ordering rules in ordering system prompt")
	}
	if !strings.Contains(buildSystemPrompt(exercise.KindMultipleChoice), "correctChoiceId") {
		t.Error("expected answer key rule in multiple-choice system prompt")
	}
}
