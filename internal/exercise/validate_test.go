package exercise

import (
	"errors"
	"strings"
	"testing"
)

func validMC() *ProblemInstance {
	return &ProblemInstance{
		ID:     "p1",
		Engine: EngineLLM,
		Kind:   KindMultipleChoice,
		Stem:   []Block{{Type: BlockMarkdown, Value: "Pick one."}},
		Choices: []Choice{
			{ID: "c1", Label: "A", Text: "first"},
			{ID: "c2", Label: "B", Text: "second"},
		},
		EngineState: map[string]any{StateCorrectChoiceID: "c2"},
	}
}

func assertInvalid(t *testing.T, p *ProblemInstance, wantField string) {
	t.Helper()
	err := p.Validate()
	if err == nil {
		t.Fatalf("expected validation failure on %s", wantField)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if !strings.HasPrefix(verr.Field, wantField) {
		t.Fatalf("expected failure on %s, got %s", wantField, verr.Field)
	}
}

func TestValidate_CleanInstancePasses(t *testing.T) {
	if err := validMC().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_EmptyStem(t *testing.T) {
	p := validMC()
	p.Stem = nil
	assertInvalid(t, p, "stem")
}

func TestValidate_CorrectChoiceNotAChoice(t *testing.T) {
	p := validMC()
	p.EngineState[StateCorrectChoiceID] = "c99"
	assertInvalid(t, p, "engineState."+StateCorrectChoiceID)
}

func TestValidate_MissingAnswerKey(t *testing.T) {
	p := validMC()
	p.EngineState = nil
	assertInvalid(t, p, "engineState."+StateCorrectChoiceID)
}

func TestValidate_DuplicateChoiceIDs(t *testing.T) {
	p := validMC()
	p.Choices[1].ID = "c1"
	assertInvalid(t, p, "choices")
}

func TestValidate_StrayPayload(t *testing.T) {
	p := validMC()
	p.OrderingItems = []OrderingItem{{ID: "i1"}, {ID: "i2", CorrectPosition: 1}}
	assertInvalid(t, p, "orderingItems")
}

func TestValidate_FillBlankAnswerKeyConsistency(t *testing.T) {
	p := &ProblemInstance{
		ID:     "p2",
		Engine: EngineLLM,
		Kind:   KindFillInTheBlank,
		Stem:   []Block{{Type: BlockMarkdown, Value: "____ is the capital."}},
		Blanks: []Blank{{ID: "blank-1", Label: "____", Hints: []string{}}},
		EngineState: map[string]any{
			StateFillBlankAnswers: map[string]any{"blank-2": "Paris"},
		},
	}
	assertInvalid(t, p, "engineState."+StateFillBlankAnswers)

	p.EngineState[StateFillBlankAnswers] = map[string]any{"blank-1": "Paris"}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_TrueFalseStateAgreesWithPayload(t *testing.T) {
	p := &ProblemInstance{
		ID:     "p3",
		Engine: EngineLLM,
		Kind:   KindTrueFalse,
		Stem:   []Block{{Type: BlockMarkdown, Value: "Judge this."}},
		TrueFalseData: &TrueFalseData{
			Statement:     "The sun is a star.",
			CorrectAnswer: true,
		},
		EngineState: map[string]any{StateTrueFalseAnswer: false},
	}
	assertInvalid(t, p, "engineState."+StateTrueFalseAnswer)
}

func TestValidate_OrderingDuplicatePositions(t *testing.T) {
	p := &ProblemInstance{
		ID:     "p4",
		Engine: EngineLLM,
		Kind:   KindOrdering,
		Stem:   []Block{{Type: BlockMarkdown, Value: "Order these."}},
		OrderingItems: []OrderingItem{
			{ID: "i1", CorrectPosition: 0},
			{ID: "i2", CorrectPosition: 0},
		},
	}
	assertInvalid(t, p, "orderingItems")
}

func TestValidate_OrderingPositionsNeedNotStartAtZero(t *testing.T) {
	p := &ProblemInstance{
		ID:     "p5",
		Engine: EngineLLM,
		Kind:   KindOrdering,
		Stem:   []Block{{Type: BlockMarkdown, Value: "Order these."}},
		OrderingItems: []OrderingItem{
			{ID: "i1", CorrectPosition: 1},
			{ID: "i2", CorrectPosition: 2},
			{ID: "i3", CorrectPosition: 3},
		},
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("1-based positions should validate: %v", err)
	}
}

func TestValidate_UnknownBlockType(t *testing.T) {
	p := validMC()
	p.Stem = []Block{{Type: BlockType("html"), Value: "<b>x</b>"}}
	assertInvalid(t, p, "stem")
}
