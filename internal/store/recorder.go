package store

import (
	"context"
	"encoding/json"

	"github.com/studyhall/studyhall/internal/exercise"
	"github.com/studyhall/studyhall/internal/logger"
)

// Sentinel values marking a row that records a generated problem
// instance rather than a learner attempt.
const (
	SentinelUserID = "system-generated"
	SentinelAnswer = "__generated__"
)

// Recorder persists attempts and generated problems on a best-effort
// basis. Persistence failures are logged and swallowed so that grading
// and generation results always reach the caller.
type Recorder struct {
	attempts AttemptRepo
	log      *logger.Logger
}

// NewRecorder returns a Recorder writing through attempts.
func NewRecorder(attempts AttemptRepo, log *logger.Logger) *Recorder {
	return &Recorder{attempts: attempts, log: log.With("component", "recorder")}
}

// RecordAttempt writes one graded attempt. The write is detached from
// the request's cancellation so an abandoned request still records.
func (r *Recorder) RecordAttempt(ctx context.Context, userID, moduleSlug, exerciseSlug string, p *exercise.ProblemInstance, answer exercise.Submission, result *exercise.GradeResult) {
	problemJSON, err := json.Marshal(p)
	if err != nil {
		r.log.Warn("failed to serialize problem for attempt", "problemId", p.ID, "error", err)
		return
	}

	correct := result.Correct
	a := &Attempt{
		UserID:       userID,
		ModuleSlug:   moduleSlug,
		ExerciseSlug: exerciseSlug,
		ProblemID:    p.ID,
		Problem:      problemJSON,
		UserAnswer:   string(answer),
		Correct:      &correct,
		Feedback:     result.Feedback,
	}
	if err := r.attempts.Append(context.WithoutCancel(ctx), a); err != nil {
		r.log.Warn("failed to record attempt", "problemId", p.ID, "error", err)
	}
}

// RecordGenerated writes the sentinel row for a generated problem.
// Unlike attempts this write is load-bearing, so the error is returned.
func (r *Recorder) RecordGenerated(ctx context.Context, moduleSlug, exerciseSlug string, p *exercise.ProblemInstance) error {
	problemJSON, err := json.Marshal(p)
	if err != nil {
		return err
	}

	a := &Attempt{
		UserID:       SentinelUserID,
		ModuleSlug:   moduleSlug,
		ExerciseSlug: exerciseSlug,
		ProblemID:    p.ID,
		Problem:      problemJSON,
		UserAnswer:   SentinelAnswer,
	}
	return r.attempts.Append(ctx, a)
}
