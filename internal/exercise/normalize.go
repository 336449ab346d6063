package exercise

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// blankPlaceholder is the label glyph shown for a blank the draft left
// unlabeled.
const blankPlaceholder = "____"

// NormalizeDraft rewrites a loosely-typed draft, as returned by the
// language model, into a canonical ProblemInstance. This is the only
// permissive entry point into the contract: it fills defaults, coerces
// ambiguous block/choice/blank/pair/item representations, lifts the answer
// key into engine state, and then validates strictly. Normalizing a draft
// that is already canonical is a no-op.
func NormalizeDraft(kind Kind, raw map[string]any) (*ProblemInstance, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("normalize draft: unknown kind %q", kind)
	}

	p := &ProblemInstance{
		ID:     stringField(raw, "id"),
		Engine: stringField(raw, "engine"),
		Kind:   kind,
		Stem:   coerceBlocks(raw["stem"]),
		Hints:  coerceBlocks(raw["hints"]),
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Engine == "" {
		p.Engine = EngineLLM
	}

	state := map[string]any{}
	if m, ok := raw["engineState"].(map[string]any); ok {
		for k, v := range m {
			state[k] = v
		}
	}

	switch kind {
	case KindMultipleChoice:
		p.Choices = coerceChoices(raw["choices"])
		if _, ok := state[StateCorrectChoiceID]; !ok {
			if s := stringField(raw, "correctChoiceId"); s != "" {
				state[StateCorrectChoiceID] = s
			}
		}

	case KindFillInTheBlank:
		blanks, answers := coerceBlanks(raw["blanks"])
		p.Blanks = blanks
		key := liftedAnswerMap(state[StateFillBlankAnswers])
		if key == nil {
			key = liftedAnswerMap(raw["fillBlankAnswers"])
		}
		if key == nil {
			key = liftedAnswerMap(raw["answers"])
		}
		if key == nil {
			key = map[string]string{}
		}
		// Per-blank answers fill gaps the top-level key left open.
		for id, a := range answers {
			if _, ok := key[id]; !ok {
				key[id] = a
			}
		}
		if len(key) > 0 {
			state[StateFillBlankAnswers] = key
		}

	case KindMatching:
		p.MatchingPairs = coercePairs(raw["matchingPairs"])
		if len(p.MatchingPairs) == 0 {
			p.MatchingPairs = coercePairs(raw["pairs"])
		}

	case KindTrueFalse:
		p.TrueFalseData = coerceTrueFalse(raw["trueFalseData"])
		if _, ok := state[StateTrueFalseAnswer].(bool); !ok {
			state[StateTrueFalseAnswer] = p.TrueFalseData.CorrectAnswer
		}

	case KindOrdering:
		p.OrderingItems = coerceOrderingItems(raw["orderingItems"])
		if len(p.OrderingItems) == 0 {
			p.OrderingItems = coerceOrderingItems(raw["items"])
		}

	case KindFreeResponse:
		// Stem and hints only.
	}

	if len(state) > 0 {
		p.EngineState = state
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// coerceBlocks turns a draft stem/hints value into canonical blocks.
// A bare string becomes a markdown block. Objects map their type through
// coerceBlockType and take the first string among value/text/content.
// Entries that yield no string value are dropped, never fatal.
func coerceBlocks(v any) []Block {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	blocks := make([]Block, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			blocks = append(blocks, Block{Type: BlockMarkdown, Value: t})
		case map[string]any:
			value, ok := firstString(t, "value", "text", "content")
			if !ok {
				continue
			}
			blocks = append(blocks, Block{
				Type:  coerceBlockType(stringField(t, "type")),
				Value: value,
			})
		}
	}
	return blocks
}

// coerceBlockType maps draft type tags onto the canonical set. "latex" and
// "formula" become formula; anything else, including absent, becomes md.
func coerceBlockType(t string) BlockType {
	switch strings.ToLower(t) {
	case "latex", "formula":
		return BlockFormula
	case "text":
		return BlockText
	default:
		return BlockMarkdown
	}
}

// coerceChoices normalizes choice records: missing ids are synthesized as
// opaque tokens, missing labels assigned sequential letters by position.
// A bare string is treated as the choice text.
func coerceChoices(v any) []Choice {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	choices := make([]Choice, 0, len(items))
	for i, item := range items {
		var c Choice
		switch t := item.(type) {
		case string:
			c.Text = t
		case map[string]any:
			c.ID = stringField(t, "id")
			c.Label = stringField(t, "label")
			c.Text = stringField(t, "text")
		default:
			continue
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.Label == "" {
			c.Label = choiceLabel(i)
		}
		choices = append(choices, c)
	}
	return choices
}

// choiceLabel returns A, B, C, ... Z, AA, AB, ... for position i.
func choiceLabel(i int) string {
	label := ""
	for {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
		if i < 0 {
			return label
		}
	}
}

// coerceBlanks normalizes blank records and returns any per-blank answers
// found in the draft, keyed by the blank's final id.
func coerceBlanks(v any) ([]Blank, map[string]string) {
	items, ok := v.([]any)
	if !ok {
		return nil, nil
	}
	blanks := make([]Blank, 0, len(items))
	answers := map[string]string{}
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		b := Blank{
			ID:         stringField(m, "id"),
			Label:      stringField(m, "label"),
			Position:   intField(m, "position", i),
			UserAnswer: "",
			Feedback:   "",
			IsCorrect:  false,
			Hints:      []string{},
		}
		if b.ID == "" {
			b.ID = fmt.Sprintf("blank-%d", len(blanks)+1)
		}
		if b.Label == "" {
			b.Label = blankPlaceholder
		}
		if a, ok := firstString(m, "answer", "correctAnswer"); ok {
			answers[b.ID] = a
		}
		blanks = append(blanks, b)
	}
	return blanks, answers
}

// coercePairs normalizes matching pairs, accepting the legacy left/right
// aliases for leftItem/rightItem.
func coercePairs(v any) []MatchingPair {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	pairs := make([]MatchingPair, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		p := MatchingPair{
			ID:        stringField(m, "id"),
			LeftItem:  stringField(m, "leftItem"),
			RightItem: stringField(m, "rightItem"),
		}
		if p.LeftItem == "" {
			p.LeftItem = stringField(m, "left")
		}
		if p.RightItem == "" {
			p.RightItem = stringField(m, "right")
		}
		if p.ID == "" {
			p.ID = fmt.Sprintf("pair-%d", len(pairs)+1)
		}
		pairs = append(pairs, p)
	}
	return pairs
}

// coerceTrueFalse normalizes the true-false payload, defaulting statement
// and explanation to empty strings and correctAnswer to false when the
// draft value is not a boolean.
func coerceTrueFalse(v any) *TrueFalseData {
	data := &TrueFalseData{}
	m, ok := v.(map[string]any)
	if !ok {
		return data
	}
	data.Statement = stringField(m, "statement")
	data.Explanation = stringField(m, "explanation")
	if b, ok := m["correctAnswer"].(bool); ok {
		data.CorrectAnswer = b
	}
	return data
}

// coerceOrderingItems normalizes ordering items, defaulting correctPosition
// to the array index.
func coerceOrderingItems(v any) []OrderingItem {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]OrderingItem, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		o := OrderingItem{
			ID:              stringField(m, "id"),
			Text:            stringField(m, "text"),
			CorrectPosition: intField(m, "correctPosition", i),
		}
		if o.ID == "" {
			o.ID = fmt.Sprintf("item-%d", len(out)+1)
		}
		out = append(out, o)
	}
	return out
}

// liftedAnswerMap converts a draft answer-key value into map[string]string.
func liftedAnswerMap(v any) map[string]string {
	switch t := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	case map[string]any:
		out := make(map[string]string, len(t))
		for k, raw := range t {
			if s, ok := raw.(string); ok {
				out[k] = s
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return nil
}

// stringField returns m[key] when it is a string, else "".
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// firstString returns the first of the named fields that holds a string.
func firstString(m map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := m[key].(string); ok {
			return s, true
		}
	}
	return "", false
}

// intField returns m[key] as an int, falling back to def. JSON decoding
// yields float64 for all numbers.
func intField(m map[string]any, key string, def int) int {
	switch t := m[key].(type) {
	case float64:
		return int(t)
	case int:
		return t
	}
	return def
}
