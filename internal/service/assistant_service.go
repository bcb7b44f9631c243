package service

import (
	"context"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	apperrors "trackmyprogress/internal/errors"
	"trackmyprogress/internal/metrics"
)

// PlanRequest carries the planner inputs as the caller sent them.
type PlanRequest struct {
	Goals         string
	TimeAvailable string
	Level         string
}

// AssistantService answers the three AI endpoints.
type AssistantService interface {
	Chat(ctx context.Context, prompt string) (string, error)
	Plan(ctx context.Context, req PlanRequest) (string, error)
	Summarize(ctx context.Context) (string, error)
}

// TextGenerator produces a completion for a single prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type assistantService struct {
	generator TextGenerator
	metrics   *metrics.Metrics
	logger    *zap.Logger
	intn      func(n int) int
}

// NewAssistantService creates the assistant. A nil generator serves canned
// replies only.
func NewAssistantService(generator TextGenerator, m *metrics.Metrics, logger *zap.Logger) AssistantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &assistantService{
		generator: generator,
		metrics:   m,
		logger:    logger,
		intn:      rand.IntN,
	}
}

// Chat returns the generator's completion, or a canned reply when no generator
// is configured or it fails.
func (s *assistantService) Chat(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apperrors.ErrEmptyPrompt
	}

	if s.generator == nil {
		s.metrics.AIFallback("chat", "unconfigured")
		return s.cannedReply(prompt), nil
	}

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("generative reply failed, using canned reply", zap.Error(err))
		s.metrics.AIFallback("chat", "error")
		return s.cannedReply(prompt), nil
	}
	return reply, nil
}

// Plan renders a weekly schedule scaled to the daily minutes.
func (s *assistantService) Plan(_ context.Context, req PlanRequest) (string, error) {
	goals := req.Goals
	if goals == "" {
		goals = defaultGoals
	}
	return renderPlan(goals, ParseMinutes(req.TimeAvailable), req.Level), nil
}

// Summarize renders a weekly summary with pseudorandom statistics.
func (s *assistantService) Summarize(_ context.Context) (string, error) {
	return renderSummary(s.intn), nil
}

func (s *assistantService) cannedReply(prompt string) string {
	pool := replyPool(prompt)
	return pool[s.intn(len(pool))]
}
