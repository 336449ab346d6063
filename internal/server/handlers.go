package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyhall/studyhall/internal/exercise"
	"github.com/studyhall/studyhall/internal/exercise/generate"
	"github.com/studyhall/studyhall/internal/llm"
)

type generateRequest struct {
	Exercise exercise.ExerciseSpec   `json:"exercise"`
	Module   *generate.ModuleContext `json:"module"`
	Lesson   *generate.LessonContext `json:"lesson"`
	Prior    []string                `json:"priorProblems"`

	// RequireContext fails generation when no module or lesson context
	// resolves, instead of degrading to a context-free prompt.
	RequireContext bool `json:"requireContext"`
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	problem, err := s.generator.Generate(c.Request.Context(), generate.GenerateInput{
		Spec:           req.Exercise,
		Module:         req.Module,
		Lesson:         req.Lesson,
		PriorProblems:  req.Prior,
		RequireContext: req.RequireContext,
	})
	if err != nil {
		fields := []any{"kind", req.Exercise.Kind, "error", err}
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			fields = append(fields, "modelOutput", invalid.Snippet())
		}
		s.log.Warn("generation failed", fields...)
		fail(c, generateStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"problem": problem})
}

type gradeRequest struct {
	Engine     string                    `json:"engine"`
	Problem    *exercise.ProblemInstance `json:"problem"`
	Submission exercise.Submission       `json:"submission"`
	Exercise   *exercise.ExerciseSpec    `json:"exercise"`
	Module     *generate.ModuleContext   `json:"module"`
}

func (s *Server) handleGrade(c *gin.Context) {
	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := s.grader.Grade(c.Request.Context(), req.Problem, req.Submission, req.Exercise)
	if err != nil {
		status := http.StatusBadRequest
		if isModelError(err) {
			status = http.StatusBadGateway
		}
		s.log.Warn("grading failed", "error", err)
		fail(c, status, err.Error())
		return
	}

	moduleSlug := ""
	if req.Module != nil {
		moduleSlug = req.Module.Slug
	}
	exerciseSlug := ""
	if req.Exercise != nil {
		exerciseSlug = req.Exercise.Slug
	}
	s.recorder.RecordAttempt(c.Request.Context(), userID(c), moduleSlug, exerciseSlug, req.Problem, req.Submission, result)

	// GradeResult goes back unwrapped.
	c.JSON(http.StatusOK, result)
}

type saveGeneratedRequest struct {
	Problem  *exercise.ProblemInstance `json:"problem"`
	Exercise *exercise.ExerciseSpec    `json:"exercise"`
	Module   *generate.ModuleContext   `json:"module"`
}

func (s *Server) handleSaveGenerated(c *gin.Context) {
	var req saveGeneratedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Problem == nil {
		fail(c, http.StatusBadRequest, "problem is required")
		return
	}
	if err := req.Problem.Validate(); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	moduleSlug := ""
	if req.Module != nil {
		moduleSlug = req.Module.Slug
	}
	exerciseSlug := ""
	if req.Exercise != nil {
		exerciseSlug = req.Exercise.Slug
	}
	if err := s.recorder.RecordGenerated(c.Request.Context(), moduleSlug, exerciseSlug, req.Problem); err != nil {
		s.log.Error("failed to save generated problem", "problemId", req.Problem.ID, "error", err)
		fail(c, http.StatusInternalServerError, "failed to save problem")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleListGenerated(c *gin.Context) {
	moduleSlug := c.Query("moduleSlug")
	exerciseSlug := c.Query("exerciseSlug")
	if moduleSlug == "" || exerciseSlug == "" {
		fail(c, http.StatusBadRequest, "moduleSlug and exerciseSlug are required")
		return
	}

	rows, err := s.attempts.ListGenerated(c.Request.Context(), moduleSlug, exerciseSlug, userID(c))
	if err != nil {
		s.log.Error("failed to list generated problems", "moduleSlug", moduleSlug, "exerciseSlug", exerciseSlug, "error", err)
		fail(c, http.StatusInternalServerError, "failed to list problems")
		return
	}

	problems := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		problems = append(problems, gin.H{
			"id":           row.ID,
			"problem":      json.RawMessage(row.Problem),
			"createdAt":    row.CreatedAt,
			"attemptCount": row.AttemptCount,
			"isAttempted":  row.IsAttempted,
			"lastCorrect":  row.LastCorrect,
		})
	}

	c.JSON(http.StatusOK, gin.H{"problems": problems})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

// generateStatus maps a generation error to an HTTP status. Contract
// and context errors are the caller's problem; provider errors are
// upstream failures.
func generateStatus(err error) int {
	if isModelError(err) {
		return http.StatusBadGateway
	}
	return http.StatusBadRequest
}

func isModelError(err error) bool {
	var (
		rateLimit   *llm.ErrRateLimit
		invalid     *llm.ErrInvalidResponse
		unavailable *llm.ErrProviderUnavailable
		maxTokens   *llm.ErrMaxTokensExceeded
	)
	return errors.As(err, &rateLimit) ||
		errors.As(err, &invalid) ||
		errors.As(err, &unavailable) ||
		errors.As(err, &maxTokens)
}
