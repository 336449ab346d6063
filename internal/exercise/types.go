// Package exercise defines the canonical exercise contract: the authoring
// spec, the generated problem instance, learner submissions, and grade
// results. Everything downstream of the normalizer may assume these shapes
// unconditionally.
package exercise

// EngineLLM tags problem instances produced by the LLM generator.
const EngineLLM = "llm"

// Engine-state keys. The answer key lives in ProblemInstance.EngineState
// under these names and is consulted only by the grader; it must never be
// presented to the learner as "the answer" before grading.
const (
	StateCorrectChoiceID  = "correctChoiceId"
	StateFillBlankAnswers = "fillBlankAnswers"
	StateTrueFalseAnswer  = "trueFalseAnswer"
)

// BlockType tags a render block.
type BlockType string

const (
	BlockMarkdown BlockType = "md"
	BlockText     BlockType = "text"
	BlockFormula  BlockType = "formula"
)

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	return t == BlockMarkdown || t == BlockText || t == BlockFormula
}

// Block is one ordered unit of renderable content in a stem or hint list.
type Block struct {
	Type  BlockType `json:"type"`
	Value string    `json:"value"`
}

// ExerciseSpec is the authoring-time contract. It is created by a module
// author and never mutated by the engine.
type ExerciseSpec struct {
	Kind           Kind              `json:"kind"`
	PromptTemplate string            `json:"promptTemplate"`
	GradingRubric  string            `json:"gradingRubric,omitempty"`
	FormatHints    string            `json:"formatHints,omitempty"`
	Vars           map[string]string `json:"vars,omitempty"`
	Difficulty     string            `json:"difficulty,omitempty"`
	Seed           string            `json:"seed,omitempty"`
	Title          string            `json:"title,omitempty"`
	Slug           string            `json:"slug,omitempty"`
}

// Choice is one option of a multiple-choice problem.
type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Blank is one gap of a fill-in-the-blank problem. UserAnswer, Feedback,
// IsCorrect and Hints are render-side slots the UI fills in as the learner
// works; the generator always emits them zeroed.
type Blank struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Position   int      `json:"position"`
	UserAnswer string   `json:"userAnswer"`
	Feedback   string   `json:"feedback"`
	IsCorrect  bool     `json:"isCorrect"`
	Hints      []string `json:"hints"`
}

// MatchingPair is one left/right pairing of a matching problem.
type MatchingPair struct {
	ID        string `json:"id"`
	LeftItem  string `json:"leftItem"`
	RightItem string `json:"rightItem"`
}

// TrueFalseData is the payload of a true-false problem.
type TrueFalseData struct {
	Statement     string `json:"statement"`
	CorrectAnswer bool   `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

// OrderingItem is one element of an ordering problem. CorrectPosition is
// the item's place in the canonical order, 0-based.
type OrderingItem struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	CorrectPosition int    `json:"correctPosition"`
}

// ProblemInstance is the canonical generator output. Exactly one
// kind-specific payload is populated, matching Kind. Instances are created
// once by the generator and immutable thereafter.
type ProblemInstance struct {
	ID     string  `json:"id"`
	Engine string  `json:"engine"`
	Kind   Kind    `json:"kind"`
	Stem   []Block `json:"stem"`
	Hints  []Block `json:"hints,omitempty"`

	Choices       []Choice       `json:"choices,omitempty"`
	Blanks        []Blank        `json:"blanks,omitempty"`
	MatchingPairs []MatchingPair `json:"matchingPairs,omitempty"`
	TrueFalseData *TrueFalseData `json:"trueFalseData,omitempty"`
	OrderingItems []OrderingItem `json:"orderingItems,omitempty"`

	// EngineState carries the answer key and kind-specific secrets.
	EngineState map[string]any `json:"engineState,omitempty"`
}

// CorrectChoiceID returns the multiple-choice answer key from engine state.
func (p *ProblemInstance) CorrectChoiceID() (string, bool) {
	s, ok := p.EngineState[StateCorrectChoiceID].(string)
	return s, ok && s != ""
}

// FillBlankAnswers returns the blank-id to expected-answer map from engine
// state. Values survive a JSON round trip as map[string]any, so both
// representations are accepted.
func (p *ProblemInstance) FillBlankAnswers() map[string]string {
	switch v := p.EngineState[StateFillBlankAnswers].(type) {
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, raw := range v {
			if s, ok := raw.(string); ok {
				out[k] = s
			}
		}
		return out
	}
	return nil
}

// TrueFalseAnswer returns the true-false answer key from engine state.
func (p *ProblemInstance) TrueFalseAnswer() (bool, bool) {
	b, ok := p.EngineState[StateTrueFalseAnswer].(bool)
	return b, ok
}
