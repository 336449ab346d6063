package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// attemptRepo implements AttemptRepo backed by gorm.
type attemptRepo struct {
	db *gorm.DB
}

func (r *attemptRepo) Append(ctx context.Context, a *Attempt) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) ListGenerated(ctx context.Context, moduleSlug, exerciseSlug, userID string) ([]GeneratedProblem, error) {
	var sentinels []Attempt
	err := r.db.WithContext(ctx).
		Where("module_slug = ? AND exercise_slug = ? AND user_id = ?", moduleSlug, exerciseSlug, SentinelUserID).
		Order("created_at DESC").
		Find(&sentinels).Error
	if err != nil {
		return nil, fmt.Errorf("list generated problems: %w", err)
	}

	out := make([]GeneratedProblem, 0, len(sentinels))
	for _, s := range sentinels {
		var attempts []Attempt
		err := r.db.WithContext(ctx).
			Where("problem_id = ? AND user_id = ?", s.ProblemID, userID).
			Order("created_at DESC").
			Find(&attempts).Error
		if err != nil {
			return nil, fmt.Errorf("list attempts for problem %s: %w", s.ProblemID, err)
		}

		gp := GeneratedProblem{
			ID:           s.ProblemID,
			Problem:      []byte(s.Problem),
			CreatedAt:    s.CreatedAt,
			AttemptCount: len(attempts),
			IsAttempted:  len(attempts) > 0,
		}
		if len(attempts) > 0 {
			gp.LastCorrect = attempts[0].Correct
		}
		out = append(out, gp)
	}
	return out, nil
}
