package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// llmCallRepo implements LLMCallRepo backed by gorm.
type llmCallRepo struct {
	db *gorm.DB
}

func (r *llmCallRepo) AppendCall(ctx context.Context, data LLMCallData) error {
	row := LLMCallLog{
		Provider:     data.Provider,
		Model:        data.Model,
		Purpose:      data.Purpose,
		InputTokens:  data.InputTokens,
		OutputTokens: data.OutputTokens,
		LatencyMs:    data.LatencyMs,
		Success:      data.Success,
		ErrorMessage: data.ErrorMessage,
		RequestBody:  data.RequestBody,
		ResponseBody: data.ResponseBody,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save model call: %w", err)
	}
	return nil
}

func (r *llmCallRepo) ListCalls(ctx context.Context, limit int) ([]LLMCallLog, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []LLMCallLog
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list model calls: %w", err)
	}
	return rows, nil
}

func (r *llmCallRepo) GetCall(ctx context.Context, id string) (*LLMCallLog, error) {
	var row LLMCallLog
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get model call %s: %w", id, err)
	}
	return &row, nil
}

func (r *llmCallRepo) UsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	var rows []PurposeUsage
	err := r.db.WithContext(ctx).
		Model(&LLMCallLog{}).
		Select("purpose, COUNT(*) AS calls, SUM(input_tokens) AS input_tokens, SUM(output_tokens) AS output_tokens").
		Group("purpose").
		Order("calls DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate usage by purpose: %w", err)
	}
	return rows, nil
}

func (r *llmCallRepo) UsageByModel(ctx context.Context) ([]ModelUsage, error) {
	var rows []ModelUsage
	err := r.db.WithContext(ctx).
		Model(&LLMCallLog{}).
		Select("model, COUNT(*) AS calls, SUM(input_tokens) AS input_tokens, SUM(output_tokens) AS output_tokens").
		Group("model").
		Order("calls DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate usage by model: %w", err)
	}
	return rows, nil
}
