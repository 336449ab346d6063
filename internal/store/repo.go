package store

import (
	"context"
	"time"
)

// GeneratedProblem is one generated problem instance with attempt
// aggregates for the requesting user.
type GeneratedProblem struct {
	ID           string    `json:"id"`
	Problem      []byte    `json:"problem"`
	CreatedAt    time.Time `json:"createdAt"`
	AttemptCount int       `json:"attemptCount"`
	IsAttempted  bool      `json:"isAttempted"`
	LastCorrect  *bool     `json:"lastCorrect"`
}

// AttemptRepo provides access to the attempt log.
type AttemptRepo interface {
	// Append records one attempt row.
	Append(ctx context.Context, a *Attempt) error

	// ListGenerated returns the generated problem instances for an
	// exercise, newest first, with attempt aggregates for userID.
	ListGenerated(ctx context.Context, moduleSlug, exerciseSlug, userID string) ([]GeneratedProblem, error)
}

// LLMCallData captures the data for a single model call.
type LLMCallData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// PurposeUsage aggregates call counts and token usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int64
	InputTokens  int64
	OutputTokens int64
}

// ModelUsage aggregates call counts and token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int64
	InputTokens  int64
	OutputTokens int64
}

// LLMCallRepo provides access to the model call log.
type LLMCallRepo interface {
	// AppendCall records one model call.
	AppendCall(ctx context.Context, data LLMCallData) error

	// ListCalls returns the most recent calls, newest first.
	ListCalls(ctx context.Context, limit int) ([]LLMCallLog, error)

	// GetCall returns one call by ID, or nil if not found.
	GetCall(ctx context.Context, id string) (*LLMCallLog, error)

	// UsageByPurpose aggregates usage grouped by purpose.
	UsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// UsageByModel aggregates usage grouped by model.
	UsageByModel(ctx context.Context) ([]ModelUsage, error)
}
