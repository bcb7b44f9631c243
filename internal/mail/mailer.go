// Package mail sends the backend's transactional email over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	apperrors "trackmyprogress/internal/errors"
)

// DefaultTimeout bounds each SMTP exchange when Config.Timeout is unset.
const DefaultTimeout = 15 * time.Second

// Mailer sends the four message kinds.
type Mailer interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendLoginNotification(ctx context.Context, email, name string) error
	SendFeedback(ctx context.Context, email, name, feedback string) error
	SendContactAck(ctx context.Context, email, name string) error
}

// Config holds SMTP settings.
type Config struct {
	Host       string
	Port       int
	User       string
	Password   string
	FromEmail  string
	FromName   string
	AdminEmail string
	Timeout    time.Duration
}

type sendFunc func(ctx context.Context, msg *gomail.Msg) error

// SMTPMailer implements Mailer over STARTTLS with PLAIN auth.
type SMTPMailer struct {
	cfg    Config
	send   sendFunc
	now    func() time.Time
	logger *zap.Logger
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer. An incomplete config is allowed; every send
// then fails with ErrMailNotConfigured.
func NewSMTPMailer(cfg Config, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FromName == "" {
		cfg.FromName = "TrackMyProgress"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	m := &SMTPMailer{
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}
	m.send = m.dialAndSend
	return m
}

// Configured reports whether user, password and sender address are set.
func (m *SMTPMailer) Configured() bool {
	return m.cfg.User != "" && m.cfg.Password != "" && m.cfg.FromEmail != ""
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, email, name string) error {
	return m.deliver(ctx, email, welcomeTemplate, m.data(email, name, ""))
}

func (m *SMTPMailer) SendLoginNotification(ctx context.Context, email, name string) error {
	return m.deliver(ctx, email, loginTemplate, m.data(email, name, ""))
}

// SendFeedback forwards feedback to the admin address.
func (m *SMTPMailer) SendFeedback(ctx context.Context, email, name, feedback string) error {
	if m.cfg.AdminEmail == "" {
		return fmt.Errorf("%w: admin address missing", apperrors.ErrMailNotConfigured)
	}
	return m.deliver(ctx, m.cfg.AdminEmail, feedbackTemplate, m.data(email, name, feedback))
}

func (m *SMTPMailer) SendContactAck(ctx context.Context, email, name string) error {
	return m.deliver(ctx, email, contactTemplate, m.data(email, name, ""))
}

func (m *SMTPMailer) data(email, name, body string) messageData {
	return messageData{
		Name:    name,
		Email:   email,
		Body:    body,
		SentAt:  m.now().UTC().Format(timeLayout),
		AppName: m.cfg.FromName,
	}
}

func (m *SMTPMailer) deliver(ctx context.Context, to string, tmpl messageTemplate, data messageData) error {
	if !m.Configured() {
		return apperrors.ErrMailNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.compose(to, tmpl, data)
	if err != nil {
		return err
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	m.logger.Info("email sent", zap.String("to", to))
	return nil
}

// dialAndSend opens one SMTP session per message. The connection deadline
// follows ctx, and cancelling ctx aborts a blocked read.
func (m *SMTPMailer) dialAndSend(ctx context.Context, msg *gomail.Msg) error {
	var stop func() bool
	defer func() {
		if stop != nil {
			stop()
		}
	}()

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.User),
		gomail.WithPassword(m.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(m.cfg.Timeout),
		gomail.WithDialContextFunc(func(dialCtx context.Context, network, addr string) (net.Conn, error) {
			var d net.Dialer
			conn, err := d.DialContext(dialCtx, network, addr)
			if err != nil {
				return nil, err
			}
			if deadline, ok := dialCtx.Deadline(); ok {
				_ = conn.SetDeadline(deadline)
			}
			stop = context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Unix(1, 0)) })
			return conn, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func (m *SMTPMailer) compose(to string, tmpl messageTemplate, data messageData) (*gomail.Msg, error) {
	var subject, text, html bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("render subject: %w", err)
	}
	if err := tmpl.text.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("render text body: %w", err)
	}
	if err := tmpl.html.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.FromEmail); err != nil {
		return nil, fmt.Errorf("sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("recipient address: %w", err)
	}
	msg.Subject(subject.String())
	msg.SetDateWithValue(m.now().UTC())
	msg.SetMessageID()
	msg.SetBodyString(gomail.TypeTextPlain, text.String())
	msg.AddAlternativeString(gomail.TypeTextHTML, html.String())
	return msg, nil
}
