package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	apperrors "trackmyprogress/internal/errors"
	"trackmyprogress/internal/mail"
	"trackmyprogress/internal/metrics"
)

// Relay kinds, used as the metrics label.
const (
	RelayContact      = "contact"
	RelayFeedback     = "feedback"
	RelayRegistration = "registration"
	RelayLogin        = "login"
)

// ContactMessage is a contact form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// FeedbackMessage is a feedback form submission.
type FeedbackMessage struct {
	Name     string
	Email    string
	Feedback string
}

// RelayService turns form submissions into email. Delivery is best effort: the
// result only reports whether a message went out.
type RelayService interface {
	Contact(ctx context.Context, msg ContactMessage) bool
	Feedback(ctx context.Context, msg FeedbackMessage) bool
	Registration(ctx context.Context, email, name string) bool
	Login(ctx context.Context, email, name string) bool
}

type relayService struct {
	mailer  mail.Mailer
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewRelayService creates a relay over mailer.
func NewRelayService(mailer mail.Mailer, m *metrics.Metrics, logger *zap.Logger) RelayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &relayService{mailer: mailer, metrics: m, logger: logger}
}

// Contact acknowledges the message to its sender. The message body itself is
// only logged.
func (s *relayService) Contact(ctx context.Context, msg ContactMessage) bool {
	s.logger.Info("contact form received",
		zap.String("email", msg.Email),
		zap.String("name", msg.Name),
		zap.Int("message_length", len(msg.Message)),
	)
	return s.finish(RelayContact, msg.Email, s.mailer.SendContactAck(ctx, msg.Email, msg.Name))
}

// Feedback forwards the feedback to the admin address.
func (s *relayService) Feedback(ctx context.Context, msg FeedbackMessage) bool {
	s.logger.Info("feedback received", zap.String("email", msg.Email), zap.String("name", msg.Name))
	return s.finish(RelayFeedback, msg.Email, s.mailer.SendFeedback(ctx, msg.Email, msg.Name, msg.Feedback))
}

// Registration sends the welcome email.
func (s *relayService) Registration(ctx context.Context, email, name string) bool {
	return s.finish(RelayRegistration, email, s.mailer.SendWelcome(ctx, email, name))
}

// Login sends the login notification.
func (s *relayService) Login(ctx context.Context, email, name string) bool {
	return s.finish(RelayLogin, email, s.mailer.SendLoginNotification(ctx, email, name))
}

func (s *relayService) finish(kind, email string, err error) bool {
	delivered := err == nil
	s.metrics.Relay(kind, delivered)

	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrMailNotConfigured):
		s.logger.Warn("mail not configured, message not delivered", zap.String("kind", kind))
	default:
		s.logger.Error("failed to deliver message",
			zap.String("kind", kind),
			zap.String("email", email),
			zap.Error(err),
		)
	}
	return delivered
}
