package generate

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for the model response.
	MaxTokens int

	// Temperature controls model output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorProblems is the maximum number of prior problem stems
	// to include in the prompt for deduplication.
	MaxPriorProblems int
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:        2048,
		Temperature:      0.7,
		MaxPriorProblems: 8,
	}
}
