package router

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"trackmyprogress/internal/config"
	"trackmyprogress/internal/handler"
	"trackmyprogress/internal/logging"
	"trackmyprogress/internal/metrics"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	assistantHandler *handler.AssistantHandler,
	relayHandler *handler.RelayHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: splitOrigins(cfg.CORSOrigins),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(m.Middleware())

	// Add validator
	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	if cfg.AIMode == config.AIModeDisabled {
		api.GET("/ai/health", handler.RemovedHealth)
		api.POST("/ai/*", handler.Removed)
	} else {
		api.POST("/ai/chat", assistantHandler.Chat)
		api.POST("/ai/planner", assistantHandler.Planner)
		api.POST("/ai/summary", assistantHandler.Summary)
	}

	api.POST("/contact", relayHandler.Contact)
	api.POST("/feedback", relayHandler.Feedback)
	api.POST("/send-registration", relayHandler.SendRegistration)
	api.POST("/send-login", relayHandler.SendLogin)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the validator used by Register.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
