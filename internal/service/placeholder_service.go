package service

import (
	"context"
	"fmt"
)

const placeholderSummary = "Weekly Summary:\n- Completed tasks: 5\n- Hours coded: 8\n- Streak: 3 days\n- Suggested improvements: Practice timed problems and focus on async/await."

type placeholderService struct{}

// NewPlaceholderAssistantService returns an assistant that echoes fixed text
// for local development.
func NewPlaceholderAssistantService() AssistantService {
	return placeholderService{}
}

func (placeholderService) Chat(_ context.Context, prompt string) (string, error) {
	return "(placeholder AI reply) Received: " + prompt, nil
}

func (placeholderService) Plan(_ context.Context, req PlanRequest) (string, error) {
	return fmt.Sprintf("Sample plan for goals: %s, %s minutes/day, level %s.", req.Goals, req.TimeAvailable, req.Level), nil
}

func (placeholderService) Summarize(context.Context) (string, error) {
	return placeholderSummary, nil
}
