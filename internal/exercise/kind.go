package exercise

// Kind identifies one of the six supported exercise kinds. The set is
// closed: the grading dispatcher switches exhaustively over it, so adding
// a kind means touching the normalizer, the draft schema, and the grader
// in the same change.
type Kind string

const (
	KindMultipleChoice Kind = "multiple-choice"
	KindFreeResponse   Kind = "free-response"
	KindFillInTheBlank Kind = "fill-in-the-blank"
	KindMatching       Kind = "matching"
	KindTrueFalse      Kind = "true-false"
	KindOrdering       Kind = "ordering"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{
	KindMultipleChoice,
	KindFreeResponse,
	KindFillInTheBlank,
	KindMatching,
	KindTrueFalse,
	KindOrdering,
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMultipleChoice, KindFreeResponse, KindFillInTheBlank,
		KindMatching, KindTrueFalse, KindOrdering:
		return true
	}
	return false
}
