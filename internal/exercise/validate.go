package exercise

import "fmt"

// ValidationError describes why a problem instance violates the strict
// contract.
type ValidationError struct {
	Field   string // contract field that failed, e.g. "stem", "engineState.correctChoiceId"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid problem: %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate enforces the strict canonical contract. There is no partial
// acceptance: a generation request whose normalized draft fails here fails
// as a whole.
func (p *ProblemInstance) Validate() error {
	if p.ID == "" {
		return invalid("id", "must not be empty")
	}
	if p.Engine == "" {
		return invalid("engine", "must not be empty")
	}
	if !p.Kind.Valid() {
		return invalid("kind", "unknown kind %q", p.Kind)
	}
	if len(p.Stem) == 0 {
		return invalid("stem", "must contain at least one block")
	}
	for i, b := range p.Stem {
		if !b.Type.Valid() {
			return invalid("stem", "block %d has unknown type %q", i, b.Type)
		}
	}
	for i, b := range p.Hints {
		if !b.Type.Valid() {
			return invalid("hints", "block %d has unknown type %q", i, b.Type)
		}
	}

	if err := p.validatePayload(); err != nil {
		return err
	}
	return p.validateStrayPayloads()
}

// validatePayload checks the kind-specific payload and its consistency
// with the engine-state answer key.
func (p *ProblemInstance) validatePayload() error {
	switch p.Kind {
	case KindMultipleChoice:
		if len(p.Choices) < 2 {
			return invalid("choices", "need at least two choices, got %d", len(p.Choices))
		}
		ids := make(map[string]bool, len(p.Choices))
		for i, c := range p.Choices {
			if c.ID == "" {
				return invalid("choices", "choice %d has empty id", i)
			}
			if ids[c.ID] {
				return invalid("choices", "duplicate choice id %q", c.ID)
			}
			ids[c.ID] = true
		}
		correct, ok := p.CorrectChoiceID()
		if !ok {
			return invalid("engineState."+StateCorrectChoiceID, "missing answer key")
		}
		if !ids[correct] {
			return invalid("engineState."+StateCorrectChoiceID, "%q is not a choice id", correct)
		}

	case KindFillInTheBlank:
		if len(p.Blanks) == 0 {
			return invalid("blanks", "must contain at least one blank")
		}
		ids := make(map[string]bool, len(p.Blanks))
		for i, b := range p.Blanks {
			if b.ID == "" {
				return invalid("blanks", "blank %d has empty id", i)
			}
			if ids[b.ID] {
				return invalid("blanks", "duplicate blank id %q", b.ID)
			}
			ids[b.ID] = true
		}
		answers := p.FillBlankAnswers()
		if len(answers) == 0 {
			return invalid("engineState."+StateFillBlankAnswers, "missing answer key")
		}
		for id := range answers {
			if !ids[id] {
				return invalid("engineState."+StateFillBlankAnswers, "answer key %q is not a blank id", id)
			}
		}

	case KindMatching:
		if len(p.MatchingPairs) == 0 {
			return invalid("matchingPairs", "must contain at least one pair")
		}
		for i, pair := range p.MatchingPairs {
			if pair.ID == "" {
				return invalid("matchingPairs", "pair %d has empty id", i)
			}
			if pair.LeftItem == "" || pair.RightItem == "" {
				return invalid("matchingPairs", "pair %q has an empty item", pair.ID)
			}
		}

	case KindTrueFalse:
		if p.TrueFalseData == nil {
			return invalid("trueFalseData", "missing payload")
		}
		if p.TrueFalseData.Statement == "" {
			return invalid("trueFalseData.statement", "must not be empty")
		}
		if key, ok := p.TrueFalseAnswer(); ok && key != p.TrueFalseData.CorrectAnswer {
			return invalid("engineState."+StateTrueFalseAnswer, "answer key disagrees with payload")
		}

	case KindOrdering:
		if len(p.OrderingItems) < 2 {
			return invalid("orderingItems", "need at least two items, got %d", len(p.OrderingItems))
		}
		// Positions must be distinct so they define one order. They are
		// not required to start at zero or be contiguous.
		positions := make(map[int]bool, len(p.OrderingItems))
		for i, item := range p.OrderingItems {
			if item.ID == "" {
				return invalid("orderingItems", "item %d has empty id", i)
			}
			if positions[item.CorrectPosition] {
				return invalid("orderingItems", "duplicate correctPosition %d", item.CorrectPosition)
			}
			positions[item.CorrectPosition] = true
		}

	case KindFreeResponse:
		// Free-response carries no kind-specific payload; grading uses the
		// authoring spec's rubric.
	}
	return nil
}

// validateStrayPayloads rejects payloads that do not belong to the kind.
// Exactly one payload may be populated.
func (p *ProblemInstance) validateStrayPayloads() error {
	if p.Kind != KindMultipleChoice && len(p.Choices) > 0 {
		return invalid("choices", "populated on %s problem", p.Kind)
	}
	if p.Kind != KindFillInTheBlank && len(p.Blanks) > 0 {
		return invalid("blanks", "populated on %s problem", p.Kind)
	}
	if p.Kind != KindMatching && len(p.MatchingPairs) > 0 {
		return invalid("matchingPairs", "populated on %s problem", p.Kind)
	}
	if p.Kind != KindTrueFalse && p.TrueFalseData != nil {
		return invalid("trueFalseData", "populated on %s problem", p.Kind)
	}
	if p.Kind != KindOrdering && len(p.OrderingItems) > 0 {
		return invalid("orderingItems", "populated on %s problem", p.Kind)
	}
	return nil
}
