package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"trackmyprogress/internal/errors"
	"trackmyprogress/internal/service"
)

// AssistantHandler handles the AI endpoints.
type AssistantHandler struct {
	assistantService service.AssistantService
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(assistantService service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// ChatRequest represents a chat request.
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// ChatResponse represents a chat reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// PlannerRequest represents a study plan request. TimeAvailable accepts a
// number or a numeric string.
type PlannerRequest struct {
	Goals         string          `json:"goals"`
	TimeAvailable json.RawMessage `json:"timeAvailable" swaggertype:"string" example:"45"`
	Level         string          `json:"level" example:"Beginner"`
}

// PlannerResponse represents a generated study plan.
type PlannerResponse struct {
	Plan string `json:"plan"`
}

// SummaryResponse represents a weekly summary.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// HealthResponse reports the AI feature status.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Chat godoc
// @Summary Chat with the study assistant
// @Tags ai
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Prompt"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 410 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /ai/chat [post]
func (h *AssistantHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	reply, err := h.assistantService.Chat(c.Request().Context(), req.Prompt)
	if err != nil {
		return toHTTPError(errors.MapErrorToHTTP(err, "Failed to generate response", "CHAT_FAILED"))
	}

	return c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// Planner godoc
// @Summary Generate a weekly study plan
// @Tags ai
// @Accept json
// @Produce json
// @Param request body PlannerRequest true "Plan inputs"
// @Success 200 {object} PlannerResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /ai/planner [post]
func (h *AssistantHandler) Planner(c echo.Context) error {
	var req PlannerRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	plan, err := h.assistantService.Plan(c.Request().Context(), service.PlanRequest{
		Goals:         req.Goals,
		TimeAvailable: rawText(req.TimeAvailable),
		Level:         req.Level,
	})
	if err != nil {
		return toHTTPError(errors.MapErrorToHTTP(err, "Failed to generate plan", "PLAN_FAILED"))
	}

	return c.JSON(http.StatusOK, PlannerResponse{Plan: plan})
}

// Summary godoc
// @Summary Generate a weekly progress summary
// @Tags ai
// @Produce json
// @Success 200 {object} SummaryResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /ai/summary [post]
func (h *AssistantHandler) Summary(c echo.Context) error {
	summary, err := h.assistantService.Summarize(c.Request().Context())
	if err != nil {
		return toHTTPError(errors.MapErrorToHTTP(err, "Failed to generate summary", "SUMMARY_FAILED"))
	}

	return c.JSON(http.StatusOK, SummaryResponse{Summary: summary})
}

// RemovedHealth godoc
// @Summary AI feature status when AI is disabled
// @Tags ai
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /ai/health [get]
func RemovedHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "removed",
		Message: "AI endpoints have been removed from this deployment.",
	})
}

// Removed answers any AI endpoint with 410 Gone.
func Removed(c echo.Context) error {
	return toHTTPError(errors.MapErrorToHTTP(errors.ErrAIRemoved, "", ""))
}

// rawText renders a JSON string or number as plain text.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}
