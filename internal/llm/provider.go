// Package llm abstracts the language-model collaborator behind a single
// Provider interface with schema-constrained structured output. The
// exercise engine only ever consumes this interface; concrete providers
// (Anthropic, OpenAI, Gemini, OpenRouter) live behind it together with
// retry and call-logging middleware.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is the language-model collaborator contract: send a system and
// user prompt pair, receive JSON that satisfies the requested schema.
type Provider interface {
	// Generate sends a prompt to the model and returns a structured
	// response. When the request carries a Schema the provider uses its
	// native structured-output mechanism and the returned Content is the
	// schema-validated JSON. Malformed or non-conforming output surfaces
	// as *ErrInvalidResponse.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured for.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Generation and rubric grading are
	// single-turn, so this is normally one user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to. Nil means
	// free-text output, returned as a raw JSON string.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0-1.0. Zero means deterministic.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names and defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema to the provider (tool name for Anthropic,
	// schema name for OpenAI). Kebab-case, e.g. "problem-draft".
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output: validated JSON when the request
	// carried a schema, otherwise the raw text wrapped as a JSON string.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to: "end", "max_tokens", "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
