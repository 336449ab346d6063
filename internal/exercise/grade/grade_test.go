package grade

import (
	"context"
	"errors"
	"testing"

	"github.com/studyhall/studyhall/internal/exercise"
)

func grader() *Grader {
	return NewGrader(nil)
}

func mcProblem() *exercise.ProblemInstance {
	return &exercise.ProblemInstance{
		ID:     "p1",
		Engine: exercise.EngineLLM,
		Kind:   exercise.KindMultipleChoice,
		Stem:   []exercise.Block{{Type: exercise.BlockMarkdown, Value: "Pick one."}},
		Choices: []exercise.Choice{
			{ID: "c1", Label: "A", Text: "first"},
			{ID: "c2", Label: "B", Text: "second"},
			{ID: "c3", Label: "C", Text: "third"},
		},
		EngineState: map[string]any{exercise.StateCorrectChoiceID: "c2"},
	}
}

func TestGrade_NilProblem(t *testing.T) {
	_, err := grader().Grade(context.Background(), nil, exercise.Submission(`"c1"`), nil)
	if !errors.Is(err, ErrNoProblem) {
		t.Fatalf("expected ErrNoProblem, got %v", err)
	}
}

func TestGrade_MultipleChoiceExactness(t *testing.T) {
	g := grader()

	result, err := g.Grade(context.Background(), mcProblem(), exercise.Submission(`"c2"`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Correct {
		t.Error("expected correct for matching choice id")
	}
	if result.Expected != nil {
		t.Error("expected no answer reveal on correct submission")
	}

	result, err = g.Grade(context.Background(), mcProblem(), exercise.Submission(`"c3"`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Correct {
		t.Error("expected incorrect for wrong choice id")
	}
	if result.Expected != "c2" {
		t.Errorf("expected answer reveal c2, got %v", result.Expected)
	}
}

func TestGrade_TrueFalse(t *testing.T) {
	p := &exercise.ProblemInstance{
		ID:     "p2",
		Engine: exercise.EngineLLM,
		Kind:   exercise.KindTrueFalse,
		Stem:   []exercise.Block{{Type: exercise.BlockMarkdown, Value: "Judge this."}},
		TrueFalseData: &exercise.TrueFalseData{
			Statement:     "The sun is a star.",
			CorrectAnswer: true,
			Explanation:   "It is a main-sequence star.",
		},
		EngineState: map[string]any{exercise.StateTrueFalseAnswer: true},
	}

	result, err := grader().Grade(context.Background(), p, exercise.Submission(`true`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Correct {
		t.Error("expected correct for matching boolean")
	}

	result, err = grader().Grade(context.Background(), p, exercise.Submission(`false`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Correct {
		t.Error("expected incorrect for wrong boolean")
	}
	if result.Expected != true {
		t.Errorf("expected answer reveal true, got %v", result.Expected)
	}
	if result.Feedback == "" {
		t.Error("expected explanation as feedback")
	}
}

func TestGrade_FillBlankCaseAndWhitespaceInsensitive(t *testing.T) {
	p := &exercise.ProblemInstance{
		ID:     "p3",
		Engine: exercise.EngineLLM,
		Kind:   exercise.KindFillInTheBlank,
		Stem:   []exercise.Block{{Type: exercise.BlockMarkdown, Value: "____ is the capital of France."}},
		Blanks: []exercise.Blank{{ID: "blank-1", Label: "____", Hints: []string{}}},
		EngineState: map[string]any{
			exercise.StateFillBlankAnswers: map[string]any{"blank-1": "Paris"},
		},
	}

	result, err := grader().Grade(context.Background(), p, exercise.Submission(`{"blank-1":" paris "}`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Correct {
		t.Error("expected case and whitespace insensitive match")
	}
	blankResults, ok := result.Details["blankResults"].(map[string]bool)
	if !ok || !blankResults["blank-1"] {
		t.Errorf("expected per-blank detail, got %v", result.Details)
	}
}

func TestGrade_FillBlankAllMustMatch(t *testing.T) {
	p := &exercise.ProblemInstance{
		ID:     "p4",
		Engine: exercise.EngineLLM,
		Kind:   exercise.KindFillInTheBlank,
		Stem:   []exercise.Block{{Type: exercise.BlockMarkdown, Value: "____ and ____."}},
		Blanks: []exercise.Blank{
			{ID: "blank-1", Label: "____", Hints: []string{}},
			{ID: "blank-2", Label: "____", Position: 1, Hints: []string{}},
		},
		EngineState: map[string]any{
			exercise.StateFillBlankAnswers: map[string]any{"blank-1": "salt", "blank-2": "pepper"},
		},
	}

	result, err := grader().Grade(context.Background(), p, exercise.Submission(`{"blank-1":"salt","blank-2":"sugar"}`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Correct {
		t.Error("expected overall incorrect when one blank is wrong")
	}
	blankResults := result.Details["blankResults"].(map[string]bool)
	if !blankResults["blank-1"] || blankResults["blank-2"] {
		t.Errorf("expected per-blank flags salt=true sugar=false, got %v", blankResults)
	}
	if result.Expected == nil {
		t.Error("expected answer map revealed for fill-in-the-blank")
	}
}

func matchingProblem() *exercise.ProblemInstance {
	return &exercise.ProblemInstance{
		ID:     "p5",
		Engine: exercise.EngineLLM,
		Kind:   exercise.KindMatching,
		Stem:   []exercise.Block{{Type: exercise.BlockMarkdown, Value: "Match them."}},
		MatchingPairs: []exercise.MatchingPair{
			{ID: "pair-1", LeftItem: "France", RightItem: "Paris"},
			{ID: "pair-2", LeftItem: "Japan", RightItem: "Tokyo"},
		},
	}
}

func TestGrade_MatchingCompleteness(t *testing.T) {
	result, err := grader().Grade(context.Background(), matchingProblem(),
		exercise.Submission(`{"France":"Paris","Japan":"Kyoto"}`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Correct {
		t.Error("expected incorrect when one pair is wrong")
	}

	matchResults, ok := result.Details["matchResults"].([]map[string]any)
	if !ok {
		t.Fatalf("expected matchResults detail, got %v", result.Details)
	}
	if len(matchResults) != 2 {
		t.Fatalf("expected one entry per pair, got %d", len(matchResults))
	}
	if matchResults[0]["correct"] != true || matchResults[1]["correct"] != false {
		t.Errorf("expected explicit per-pair flags, got %v", matchResults)
	}
	if result.Expected != nil {
		t.Error("matching must never reveal the canonical pairing")
	}
}

func TestGrade_MatchingMissingEntryIsWrong(t *testing.T) {
	result, err := grader().Grade(context.Background(), matchingProblem(),
		exercise.Submission(`{"France":"Paris"}`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Correct {
		t.Error("expected incorrect when a pair is unanswered")
	}
}

func orderingProblem() *exercise.ProblemInstance {
	return &exercise.ProblemInstance{
		ID:     "p6",
		Engine: exercise.EngineLLM,
		Kind:   exercise.KindOrdering,
		Stem:   []exercise.Block{{Type: exercise.BlockMarkdown, Value: "Order the steps."}},
		OrderingItems: []exercise.OrderingItem{
			{ID: "A", Text: "first", CorrectPosition: 0},
			{ID: "B", Text: "second", CorrectPosition: 1},
			{ID: "C", Text: "third", CorrectPosition: 2},
		},
	}
}

func TestGrade_OrderingOneBasedPositions(t *testing.T) {
	// Positions only need to order the items. Models often emit 1-based
	// values and those problems must grade like any other.
	p := orderingProblem()
	p.OrderingItems = []exercise.OrderingItem{
		{ID: "A", Text: "first", CorrectPosition: 1},
		{ID: "B", Text: "second", CorrectPosition: 2},
		{ID: "C", Text: "third", CorrectPosition: 3},
	}

	result, err := grader().Grade(context.Background(), p,
		exercise.Submission(`["A","B","C"]`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Correct {
		t.Error("expected correct for exact order with 1-based positions")
	}

	result, err = grader().Grade(context.Background(), p,
		exercise.Submission(`["C","B","A"]`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Correct {
		t.Error("expected incorrect for reversed order")
	}
	if got := result.Details["correctPositions"]; got != 1 {
		t.Errorf("expected 1 positionally correct id, got %v", got)
	}
}

func TestGrade_OrderingSparsePositions(t *testing.T) {
	p := orderingProblem()
	p.OrderingItems = []exercise.OrderingItem{
		{ID: "A", Text: "first", CorrectPosition: 10},
		{ID: "B", Text: "second", CorrectPosition: 20},
		{ID: "C", Text: "third", CorrectPosition: 5},
	}

	result, err := grader().Grade(context.Background(), p,
		exercise.Submission(`["C","A","B"]`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Correct {
		t.Error("expected correct for submission matching the sorted positions")
	}
}

func TestGrade_OrderingPartialCredit(t *testing.T) {
	result, err := grader().Grade(context.Background(), orderingProblem(),
		exercise.Submission(`["A","C","B"]`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Correct {
		t.Error("expected incorrect for misordered submission")
	}
	if got := result.Details["correctPositions"]; got != 1 {
		t.Errorf("expected 1 positionally correct id, got %v", got)
	}
}

func TestGrade_OrderingAnswerNeverRevealed(t *testing.T) {
	for _, sub := range []string{`["A","B","C"]`, `["C","B","A"]`, `["A"]`} {
		result, err := grader().Grade(context.Background(), orderingProblem(), exercise.Submission(sub), nil)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", sub, err)
		}
		if result.Expected != nil {
			t.Errorf("ordering revealed expected for submission %s", sub)
		}
	}
}

func TestGrade_OrderingLengthMismatchIsIncorrect(t *testing.T) {
	result, err := grader().Grade(context.Background(), orderingProblem(),
		exercise.Submission(`["A","B"]`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Correct {
		t.Error("expected incorrect for short submission")
	}
	if got := result.Details["correctPositions"]; got != 2 {
		t.Errorf("expected 2 positionally correct ids, got %v", got)
	}
}

func TestGrade_OrderingFullyCorrect(t *testing.T) {
	result, err := grader().Grade(context.Background(), orderingProblem(),
		exercise.Submission(`["A","B","C"]`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Correct {
		t.Error("expected correct for exact order")
	}
}

func TestGrade_FreeResponseUnconfigured(t *testing.T) {
	p := &exercise.ProblemInstance{
		ID:     "p7",
		Engine: exercise.EngineLLM,
		Kind:   exercise.KindFreeResponse,
		Stem:   []exercise.Block{{Type: exercise.BlockMarkdown, Value: "Explain."}},
	}
	if _, err := grader().Grade(context.Background(), p, exercise.Submission(`"because"`), nil); err == nil {
		t.Fatal("expected error when free-response grading is not configured")
	}
}
