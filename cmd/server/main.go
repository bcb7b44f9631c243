package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"trackmyprogress/docs"
	"trackmyprogress/internal/config"
	"trackmyprogress/internal/generative"
	"trackmyprogress/internal/handler"
	"trackmyprogress/internal/logging"
	"trackmyprogress/internal/mail"
	"trackmyprogress/internal/metrics"
	"trackmyprogress/internal/router"
	"trackmyprogress/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title TrackMyProgress API
// @version 1.0
// @description Study assistant, planner, weekly summary and form relay endpoints for TrackMyProgress.
// @host localhost:4000
// @BasePath /api
// @schemes http
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	assistantService, err := newAssistantService(ctx, cfg, m, logger)
	if err != nil {
		return err
	}

	mailer := mail.NewSMTPMailer(mail.Config{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		User:       cfg.SMTPUser,
		Password:   cfg.SMTPPassword,
		FromEmail:  cfg.SMTPFromEmail,
		FromName:   cfg.SMTPFromName,
		AdminEmail: cfg.AdminEmail,
		Timeout:    cfg.SMTPTimeout,
	}, logger)
	if !cfg.MailConfigured() {
		logger.Warn("SMTP not configured, form submissions will be accepted but not emailed")
	}
	relayService := service.NewRelayService(mailer, m, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(
		e,
		cfg,
		logger,
		m,
		handler.NewAssistantHandler(assistantService),
		handler.NewRelayHandler(relayService),
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	logger.Info("swagger documentation available",
		zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server listening", zap.String("addr", addr), zap.String("ai_mode", cfg.AIMode))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newAssistantService(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (service.AssistantService, error) {
	switch cfg.AIMode {
	case config.AIModePlaceholder:
		return service.NewPlaceholderAssistantService(), nil
	case config.AIModeDisabled:
		return nil, nil
	}

	if cfg.GoogleAPIKey == "" {
		logger.Warn("GOOGLE_API_KEY not set, using canned replies")
		return service.NewAssistantService(nil, m, logger), nil
	}

	client, err := generative.NewGoogleAI(ctx, cfg.GoogleAPIKey, cfg.GeminiModel, cfg.GeminiRateLimit, cfg.GeminiBurst)
	if err != nil {
		return nil, err
	}
	logger.Info("generative model configured", zap.String("model", cfg.GeminiModel))
	return service.NewAssistantService(client, m, logger), nil
}
