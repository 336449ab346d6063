package generate

import (
	"github.com/studyhall/studyhall/internal/exercise"
	"github.com/studyhall/studyhall/internal/llm"
)

// blockSchema accepts either a bare string or a loose block object.
// The normalizer handles both shapes.
var blockSchema = map[string]any{
	"anyOf": []any{
		map[string]any{"type": "string"},
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type":    map[string]any{"type": "string"},
				"value":   map[string]any{"type": "string"},
				"text":    map[string]any{"type": "string"},
				"content": map[string]any{"type": "string"},
			},
		},
	},
}

var blockListSchema = map[string]any{
	"type":  "array",
	"items": blockSchema,
}

// kindPayloads holds the extra draft properties expected per kind.
// These stay permissive on purpose; strict checking happens after
// normalization, against the canonical contract.
var kindPayloads = map[exercise.Kind]map[string]any{
	exercise.KindMultipleChoice: {
		"choices": map[string]any{
			"type": "array",
			"items": map[string]any{
				"anyOf": []any{
					map[string]any{"type": "string"},
					map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id":    map[string]any{"type": "string"},
							"label": map[string]any{"type": "string"},
							"text":  map[string]any{"type": "string"},
						},
					},
				},
			},
		},
		"correctChoiceId": map[string]any{"type": "string"},
	},
	exercise.KindFreeResponse: {},
	exercise.KindFillInTheBlank: {
		"blanks": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":       map[string]any{"type": "string"},
					"label":    map[string]any{"type": "string"},
					"position": map[string]any{"type": "integer"},
					"answer":   map[string]any{"type": "string"},
				},
			},
		},
		"fillBlankAnswers": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "string"},
		},
	},
	exercise.KindMatching: {
		"matchingPairs": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":        map[string]any{"type": "string"},
					"leftItem":  map[string]any{"type": "string"},
					"rightItem": map[string]any{"type": "string"},
				},
			},
		},
	},
	exercise.KindTrueFalse: {
		"trueFalseData": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"statement":     map[string]any{"type": "string"},
				"correctAnswer": map[string]any{"type": "boolean"},
				"explanation":   map[string]any{"type": "string"},
			},
		},
	},
	exercise.KindOrdering: {
		"orderingItems": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":              map[string]any{"type": "string"},
					"text":            map[string]any{"type": "string"},
					"correctPosition": map[string]any{"type": "integer"},
				},
			},
		},
	},
}

// DraftSchema builds the response schema for a problem draft of the
// given kind.
func DraftSchema(kind exercise.Kind) *llm.Schema {
	props := map[string]any{
		"stem":  blockListSchema,
		"hints": blockListSchema,
	}
	for name, schema := range kindPayloads[kind] {
		props[name] = schema
	}

	return &llm.Schema{
		Name:        "problem-draft-" + string(kind),
		Description: "A draft practice problem of kind " + string(kind),
		Definition: map[string]any{
			"type":       "object",
			"properties": props,
			"required":   []any{"stem"},
		},
	}
}
