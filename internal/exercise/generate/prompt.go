package generate

import (
	"fmt"
	"strings"

	"github.com/studyhall/studyhall/internal/exercise"
)

const systemPrompt = `You are an exercise author for an online tutoring platform.

Rules:
- Generate a single practice problem of the requested kind, matching the author's prompt.
- The "stem" is the problem statement shown to the learner: an ordered list of blocks, each {"type": "md" | "text" | "formula", "value": "..."}. Use "formula" (LaTeX) only for mathematical notation, "md" for everything else. The stem must not be empty.
- Optionally include "hints" in the same block shape.
- The problem must be self-contained and solvable from the stem alone.
- Do not repeat any problem from the "already generated" list.`

// kindRules holds the kind-specific formatting rules appended to the
// system prompt.
var kindRules = map[exercise.Kind]string{
	exercise.KindMultipleChoice: `- Provide 3 to 5 choices as {"id", "label", "text"}, exactly one correct.
- Distractors should reflect plausible mistakes, not random values.
- Set "correctChoiceId" to the id of the correct choice.`,
	exercise.KindFreeResponse: `- Do not provide choices or an answer key. The learner writes a free-form answer that is graded later against the author's rubric.`,
	exercise.KindFillInTheBlank: `- Provide "blanks" as {"id", "label", "position"}, one per gap in the stem.
- Set "fillBlankAnswers" to a map from blank id to the expected answer string.
- Expected answers should be short: a word, number, or brief phrase.`,
	exercise.KindMatching: `- Provide "matchingPairs" as {"id", "leftItem", "rightItem"}. Each left item matches exactly one right item.
- Use 3 to 6 pairs.`,
	exercise.KindTrueFalse: `- Provide "trueFalseData" as {"statement", "correctAnswer", "explanation"}.
- The statement must be unambiguously true or false.`,
	exercise.KindOrdering: `- Provide "orderingItems" as {"id", "text", "correctPosition"} with positions 0-based and contiguous.
- Use 3 to 6 items. List the items in a scrambled order; "correctPosition" carries the true order.`,
}

// buildSystemPrompt appends the kind-specific rules to the base prompt.
func buildSystemPrompt(kind exercise.Kind) string {
	rules, ok := kindRules[kind]
	if !ok {
		return systemPrompt
	}
	return systemPrompt + "\n\nRules for " + string(kind) + " problems:\n" + rules
}

// buildUserMessage constructs the user message from the input and
// config limits.
func buildUserMessage(input GenerateInput, cfg Config) string {
	spec := input.Spec

	var b strings.Builder

	fmt.Fprintf(&b, "Kind: %s\n", spec.Kind)
	if spec.Title != "" {
		fmt.Fprintf(&b, "Exercise: %s\n", spec.Title)
	}
	if spec.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", spec.Difficulty)
	}
	if spec.Seed != "" {
		fmt.Fprintf(&b, "Variation seed: %s\n", spec.Seed)
	}

	b.WriteString("\nAuthor prompt:\n")
	b.WriteString(interpolate(spec.PromptTemplate, spec.Vars))
	b.WriteString("\n")

	if spec.Kind == exercise.KindFreeResponse && spec.GradingRubric != "" {
		b.WriteString("\nGrading rubric (the problem must be answerable against this):\n")
		b.WriteString(spec.GradingRubric)
		b.WriteString("\n")
	}

	if spec.FormatHints != "" {
		b.WriteString("\nFormatting hints:\n")
		b.WriteString(spec.FormatHints)
		b.WriteString("\n")
	}

	if input.Module != nil {
		fmt.Fprintf(&b, "\nModule: %s\n", input.Module.Title)
	}
	if input.Lesson != nil {
		fmt.Fprintf(&b, "\nLesson: %s\n", input.Lesson.Title)
		if input.Lesson.Summary != "" {
			b.WriteString(input.Lesson.Summary)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nAlready generated for this exercise:\n")
	b.WriteString(buildDedup(input.PriorProblems, cfg.MaxPriorProblems))

	return b.String()
}

// interpolate substitutes {{name}} placeholders in the template with
// values from vars. Unknown placeholders are left intact.
func interpolate(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// buildDedup formats prior problem stems for the prompt, keeping only
// the most recent max entries.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}

	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, p := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
