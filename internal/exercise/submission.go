package exercise

import (
	"encoding/json"
	"fmt"
)

// Submission is a single learner answer. Its JSON shape depends on the
// exercise kind: a string for multiple-choice and free-response, a boolean
// for true-false, an ordered id list for ordering, and an id-to-string map
// for fill-in-the-blank and matching. The grader decodes it with the typed
// accessors below.
type Submission []byte

// MarshalJSON returns s as-is, or null when empty.
func (s Submission) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

// UnmarshalJSON stores the raw bytes without interpreting them.
func (s *Submission) UnmarshalJSON(data []byte) error {
	*s = append((*s)[0:0], data...)
	return nil
}

// Text decodes the submission as a string answer.
func (s Submission) Text() (string, error) {
	var v string
	if err := json.Unmarshal(s, &v); err != nil {
		return "", fmt.Errorf("submission is not a string: %w", err)
	}
	return v, nil
}

// Bool decodes the submission as a true-false answer.
func (s Submission) Bool() (bool, error) {
	var v bool
	if err := json.Unmarshal(s, &v); err != nil {
		return false, fmt.Errorf("submission is not a boolean: %w", err)
	}
	return v, nil
}

// IDList decodes the submission as an ordered list of item ids.
func (s Submission) IDList() ([]string, error) {
	var v []string
	if err := json.Unmarshal(s, &v); err != nil {
		return nil, fmt.Errorf("submission is not an id list: %w", err)
	}
	return v, nil
}

// IDMap decodes the submission as an id-to-answer map.
func (s Submission) IDMap() (map[string]string, error) {
	var v map[string]string
	if err := json.Unmarshal(s, &v); err != nil {
		return nil, fmt.Errorf("submission is not an id map: %w", err)
	}
	return v, nil
}

// GradeResult is the outcome of grading one submission. Expected is left
// unset when revealing the canonical answer would defeat the exercise
// (ordering, matching). Details carries kind-specific diagnostics such as
// per-blank correctness or positional partial credit.
type GradeResult struct {
	Correct  bool           `json:"correct"`
	Feedback string         `json:"feedback,omitempty"`
	Expected any            `json:"expected,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}
