package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEmptyPrompt is returned when a chat prompt is blank.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
	// ErrAIRemoved is returned by every AI endpoint when AI features are disabled.
	ErrAIRemoved = errors.New("AI endpoints have been removed from this application")
	// ErrMailNotConfigured is returned when SMTP settings are incomplete.
	ErrMailNotConfigured = errors.New("mail service not configured")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a 500
// carrying the fallback message and code.
func MapErrorToHTTP(err error, fallbackMessage, fallbackCode string) *HTTPError {
	switch {
	case errors.Is(err, ErrEmptyPrompt):
		return NewHTTPError(http.StatusBadRequest, "Prompt cannot be empty", "EMPTY_PROMPT")
	case errors.Is(err, ErrAIRemoved):
		return NewHTTPError(http.StatusGone, err.Error(), "AI_REMOVED")
	default:
		return NewHTTPError(http.StatusInternalServerError, fallbackMessage, fallbackCode)
	}
}
