package grade

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/studyhall/studyhall/internal/exercise"
)

// ErrNoProblem is returned when grading is requested without a problem
// instance. This is a caller programming error, surfaced before any
// model or database call.
var ErrNoProblem = errors.New("no problem to grade, generate first")

// Grader dispatches a submission to the grading strategy for the
// problem's kind. Five kinds are resolved locally; free-response
// delegates to the model with the exercise's rubric.
type Grader struct {
	freeResponse *FreeResponseGrader
}

// NewGrader returns a Grader. freeResponse may be nil, in which case
// free-response grading fails with an explicit error.
func NewGrader(freeResponse *FreeResponseGrader) *Grader {
	return &Grader{freeResponse: freeResponse}
}

// Grade evaluates a submission against a problem instance. The input
// for free-response grading includes the authoring spec for its rubric.
func (g *Grader) Grade(ctx context.Context, p *exercise.ProblemInstance, sub exercise.Submission, spec *exercise.ExerciseSpec) (*exercise.GradeResult, error) {
	if p == nil {
		return nil, ErrNoProblem
	}

	switch p.Kind {
	case exercise.KindMultipleChoice:
		return gradeMultipleChoice(p, sub)
	case exercise.KindTrueFalse:
		return gradeTrueFalse(p, sub)
	case exercise.KindFillInTheBlank:
		return gradeFillInTheBlank(p, sub)
	case exercise.KindMatching:
		return gradeMatching(p, sub)
	case exercise.KindOrdering:
		return gradeOrdering(p, sub)
	case exercise.KindFreeResponse:
		if g.freeResponse == nil {
			return nil, errors.New("free-response grading is not configured")
		}
		return g.freeResponse.Grade(ctx, p, sub, spec)
	default:
		return nil, fmt.Errorf("unknown exercise kind: %q", p.Kind)
	}
}

func gradeMultipleChoice(p *exercise.ProblemInstance, sub exercise.Submission) (*exercise.GradeResult, error) {
	choiceID, err := sub.Text()
	if err != nil {
		return nil, fmt.Errorf("multiple-choice submission must be a choice id: %w", err)
	}

	want, ok := p.CorrectChoiceID()
	if !ok {
		return nil, errors.New("problem has no correct choice recorded")
	}

	if choiceID == want {
		return &exercise.GradeResult{Correct: true}, nil
	}
	return &exercise.GradeResult{Correct: false, Expected: want}, nil
}

func gradeTrueFalse(p *exercise.ProblemInstance, sub exercise.Submission) (*exercise.GradeResult, error) {
	answer, err := sub.Bool()
	if err != nil {
		return nil, fmt.Errorf("true-false submission must be a boolean: %w", err)
	}

	want, ok := p.TrueFalseAnswer()
	if !ok {
		return nil, errors.New("problem has no true-false answer recorded")
	}

	result := &exercise.GradeResult{Correct: answer == want}
	if !result.Correct {
		result.Expected = want
	}
	if p.TrueFalseData != nil && p.TrueFalseData.Explanation != "" {
		result.Feedback = p.TrueFalseData.Explanation
	}
	return result, nil
}

func gradeFillInTheBlank(p *exercise.ProblemInstance, sub exercise.Submission) (*exercise.GradeResult, error) {
	answers, err := sub.IDMap()
	if err != nil {
		return nil, fmt.Errorf("fill-in-the-blank submission must map blank ids to answers: %w", err)
	}

	want := p.FillBlankAnswers()
	if len(want) == 0 {
		return nil, errors.New("problem has no blank answers recorded")
	}

	blankResults := make(map[string]bool, len(want))
	allCorrect := true
	for id, expected := range want {
		ok := equalFold(answers[id], expected)
		blankResults[id] = ok
		if !ok {
			allCorrect = false
		}
	}

	result := &exercise.GradeResult{
		Correct: allCorrect,
		Details: map[string]any{"blankResults": blankResults},
	}
	if !allCorrect {
		result.Expected = want
	}
	return result, nil
}

func gradeMatching(p *exercise.ProblemInstance, sub exercise.Submission) (*exercise.GradeResult, error) {
	matches, err := sub.IDMap()
	if err != nil {
		return nil, fmt.Errorf("matching submission must map left items to right items: %w", err)
	}

	if len(p.MatchingPairs) == 0 {
		return nil, errors.New("problem has no matching pairs")
	}

	matchResults := make([]map[string]any, 0, len(p.MatchingPairs))
	allCorrect := true
	for _, pair := range p.MatchingPairs {
		ok := matches[pair.LeftItem] == pair.RightItem
		matchResults = append(matchResults, map[string]any{
			"id":      pair.ID,
			"correct": ok,
		})
		if !ok {
			allCorrect = false
		}
	}

	// The canonical pairing never goes in Expected; revealing it would
	// defeat the exercise.
	return &exercise.GradeResult{
		Correct: allCorrect,
		Details: map[string]any{"matchResults": matchResults},
	}, nil
}

func gradeOrdering(p *exercise.ProblemInstance, sub exercise.Submission) (*exercise.GradeResult, error) {
	order, err := sub.IDList()
	if err != nil {
		return nil, fmt.Errorf("ordering submission must be a list of item ids: %w", err)
	}

	if len(p.OrderingItems) == 0 {
		return nil, errors.New("problem has no ordering items")
	}

	// The canonical order is the items sorted by correctPosition.
	// Positions only need to order the items; drafts commonly emit
	// 1-based or sparse values and those grade the same.
	items := slices.Clone(p.OrderingItems)
	slices.SortStableFunc(items, func(a, b exercise.OrderingItem) int {
		return a.CorrectPosition - b.CorrectPosition
	})
	want := make([]string, len(items))
	for i, item := range items {
		want[i] = item.ID
	}

	correctPositions := 0
	for i, id := range order {
		if i < len(want) && want[i] == id {
			correctPositions++
		}
	}
	allCorrect := len(order) == len(want) && correctPositions == len(want)

	// Expected stays unset for ordering regardless of correctness.
	return &exercise.GradeResult{
		Correct: allCorrect,
		Details: map[string]any{"correctPositions": correctPositions},
	}, nil
}

// equalFold compares two answers case-insensitively after trimming
// surrounding whitespace.
func equalFold(got, want string) bool {
	return strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want))
}
