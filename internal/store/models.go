package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attempt is one row in the attempt log. Generated problem instances
// are stored as sentinel rows (UserID = SentinelUserID) in the same
// table, so the full problem JSON lives alongside the attempts made
// against it.
type Attempt struct {
	ID           string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string         `gorm:"index" json:"userId"`
	ModuleSlug   string         `gorm:"index:idx_attempts_exercise" json:"moduleSlug"`
	ExerciseSlug string         `gorm:"index:idx_attempts_exercise" json:"exerciseSlug"`
	ProblemID    string         `gorm:"index" json:"problemId"`
	Problem      datatypes.JSON `json:"problem"`
	UserAnswer   string         `json:"userAnswer"`
	Correct      *bool          `json:"correct"`
	Feedback     string         `json:"feedback"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (a *Attempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// LLMCallLog is one row in the model call log.
type LLMCallLog struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Purpose      string    `gorm:"index" json:"purpose"`
	InputTokens  int       `json:"inputTokens"`
	OutputTokens int       `json:"outputTokens"`
	LatencyMs    int64     `json:"latencyMs"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"errorMessage"`
	RequestBody  string    `json:"requestBody"`
	ResponseBody string    `json:"responseBody"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
}

func (l *LLMCallLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (LLMCallLog) TableName() string {
	return "llm_call_logs"
}
