package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"trackmyprogress/internal/service"
)

// RelayHandler handles form submissions that are relayed by email.
type RelayHandler struct {
	relayService service.RelayService
}

// NewRelayHandler creates a new relay handler.
func NewRelayHandler(relayService service.RelayService) *RelayHandler {
	return &RelayHandler{relayService: relayService}
}

// ContactRequest represents a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// FeedbackRequest represents a feedback form submission.
type FeedbackRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Feedback string `json:"feedback" validate:"required"`
}

// NoticeRequest identifies the user a notification email is for.
type NoticeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

// RelayResponse reports that a submission was accepted and whether email went out.
type RelayResponse struct {
	Status    string `json:"status" example:"received"`
	Delivered bool   `json:"delivered"`
}

func received(c echo.Context, delivered bool) error {
	return c.JSON(http.StatusOK, RelayResponse{Status: "received", Delivered: delivered})
}

// Contact godoc
// @Summary Submit the contact form
// @Tags forms
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Contact form"
// @Success 200 {object} RelayResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /contact [post]
func (h *RelayHandler) Contact(c echo.Context) error {
	var req ContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	delivered := h.relayService.Contact(c.Request().Context(), service.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	return received(c, delivered)
}

// Feedback godoc
// @Summary Submit feedback
// @Tags forms
// @Accept json
// @Produce json
// @Param request body FeedbackRequest true "Feedback form"
// @Success 200 {object} RelayResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /feedback [post]
func (h *RelayHandler) Feedback(c echo.Context) error {
	var req FeedbackRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	delivered := h.relayService.Feedback(c.Request().Context(), service.FeedbackMessage{
		Name:     req.Name,
		Email:    req.Email,
		Feedback: req.Feedback,
	})
	return received(c, delivered)
}

// SendRegistration godoc
// @Summary Send the welcome email for a new account
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body NoticeRequest true "New user"
// @Success 200 {object} RelayResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /send-registration [post]
func (h *RelayHandler) SendRegistration(c echo.Context) error {
	var req NoticeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	return received(c, h.relayService.Registration(c.Request().Context(), req.Email, req.Name))
}

// SendLogin godoc
// @Summary Send a login notification email
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body NoticeRequest true "Signed-in user"
// @Success 200 {object} RelayResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /send-login [post]
func (h *RelayHandler) SendLogin(c echo.Context) error {
	var req NoticeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	return received(c, h.relayService.Login(c.Request().Context(), req.Email, req.Name))
}
