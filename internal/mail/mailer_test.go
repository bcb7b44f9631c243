package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net"
	netmail "net/mail"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	apperrors "trackmyprogress/internal/errors"
)

func newTestMailer(t *testing.T, cfg Config) (*SMTPMailer, *[][]byte) {
	t.Helper()
	var sent [][]byte
	m := NewSMTPMailer(cfg, nil)
	m.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	m.send = func(_ context.Context, msg *gomail.Msg) error {
		var buf bytes.Buffer
		_, err := msg.WriteTo(&buf)
		require.NoError(t, err)
		sent = append(sent, buf.Bytes())
		return nil
	}
	return m, &sent
}

func configured() Config {
	return Config{
		Host:       "smtp.example.com",
		Port:       587,
		User:       "mailer",
		Password:   "secret",
		FromEmail:  "noreply@example.com",
		FromName:   "TrackMyProgress",
		AdminEmail: "admin@example.com",
	}
}

func readParts(t *testing.T, raw []byte) (*netmail.Message, map[string]string) {
	t.Helper()
	msg, err := netmail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/alternative", mediaType)

	parts := make(map[string]string)
	mr := multipart.NewReader(msg.Body, params["boundary"])
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(p)
		require.NoError(t, err)
		ct, _, err := mime.ParseMediaType(p.Header.Get("Content-Type"))
		require.NoError(t, err)
		parts[ct] = string(body)
	}
	return msg, parts
}

func TestSMTPMailer_NotConfigured(t *testing.T) {
	m, sent := newTestMailer(t, Config{Host: "smtp.example.com", Port: 587})
	assert.False(t, m.Configured())

	err := m.SendWelcome(context.Background(), "a@x.com", "A")
	assert.ErrorIs(t, err, apperrors.ErrMailNotConfigured)
	assert.Empty(t, *sent)
}

func TestSMTPMailer_SendWelcome(t *testing.T) {
	m, sent := newTestMailer(t, configured())

	require.NoError(t, m.SendWelcome(context.Background(), "alice@x.com", "Alice"))
	require.Len(t, *sent, 1)

	msg, parts := readParts(t, (*sent)[0])
	assert.Contains(t, msg.Header.Get("To"), "alice@x.com")
	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Contains(t, subject, "Welcome to TrackMyProgress")
	assert.Contains(t, msg.Header.Get("From"), "noreply@example.com")
	assert.Contains(t, parts["text/plain"], "Hi Alice,")
	assert.Contains(t, parts["text/plain"], "2025-01-02 03:04:05 UTC")
	assert.Contains(t, parts["text/html"], "<strong>Alice</strong>")
}

func TestSMTPMailer_SendFeedbackGoesToAdmin(t *testing.T) {
	m, sent := newTestMailer(t, configured())

	require.NoError(t, m.SendFeedback(context.Background(), "bob@x.com", "Bob", "<script>alert(1)</script>"))
	require.Len(t, *sent, 1)
	msg, parts := readParts(t, (*sent)[0])
	assert.Contains(t, msg.Header.Get("To"), "admin@example.com")
	assert.Contains(t, parts["text/plain"], "<script>alert(1)</script>")
	assert.NotContains(t, parts["text/html"], "<script>")
	assert.Contains(t, parts["text/html"], "&lt;script&gt;")
}

func TestSMTPMailer_SendFeedbackWithoutAdmin(t *testing.T) {
	cfg := configured()
	cfg.AdminEmail = ""
	m, sent := newTestMailer(t, cfg)

	err := m.SendFeedback(context.Background(), "bob@x.com", "Bob", "hi")
	assert.ErrorIs(t, err, apperrors.ErrMailNotConfigured)
	assert.Empty(t, *sent)
}

func TestSMTPMailer_SendContactAckAndLogin(t *testing.T) {
	m, sent := newTestMailer(t, configured())
	ctx := context.Background()

	require.NoError(t, m.SendContactAck(ctx, "carol@x.com", "Carol"))
	require.NoError(t, m.SendLoginNotification(ctx, "carol@x.com", "Carol"))
	require.Len(t, *sent, 2)

	_, contact := readParts(t, (*sent)[0])
	assert.Contains(t, contact["text/plain"], "Usually within 24-48 hours")
	_, login := readParts(t, (*sent)[1])
	assert.Contains(t, login["text/plain"], "Email: carol@x.com")
}

func TestSMTPMailer_SendError(t *testing.T) {
	m, _ := newTestMailer(t, configured())
	m.send = func(context.Context, *gomail.Msg) error {
		return errors.New("535 authentication failed")
	}

	err := m.SendContactAck(context.Background(), "carol@x.com", "Carol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535")
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	m, sent := newTestMailer(t, configured())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.SendWelcome(ctx, "a@x.com", "A"), context.Canceled)
	assert.Empty(t, *sent)
}

// silentServer accepts SMTP connections and never sends the greeting.
func silentServer(t *testing.T) *net.TCPAddr {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return ln.Addr().(*net.TCPAddr)
}

func TestSMTPMailer_StalledServer(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		ctx     func() (context.Context, context.CancelFunc)
	}{
		{
			name:    "caller deadline",
			timeout: time.Minute,
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 200*time.Millisecond)
			},
		},
		{
			name:    "caller cancel",
			timeout: time.Minute,
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				time.AfterFunc(200*time.Millisecond, cancel)
				return ctx, cancel
			},
		},
		{
			name:    "configured timeout",
			timeout: 200 * time.Millisecond,
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithCancel(context.Background())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := silentServer(t)
			cfg := configured()
			cfg.Host = addr.IP.String()
			cfg.Port = addr.Port
			cfg.Timeout = tt.timeout
			m := NewSMTPMailer(cfg, nil)

			ctx, cancel := tt.ctx()
			defer cancel()

			start := time.Now()
			err := m.SendWelcome(ctx, "a@x.com", "A")
			require.Error(t, err)
			assert.Less(t, time.Since(start), 3*time.Second, "send returns soon after the deadline")
		})
	}
}

func TestNewSMTPMailer_DefaultTimeout(t *testing.T) {
	m := NewSMTPMailer(configured(), nil)
	assert.Equal(t, DefaultTimeout, m.cfg.Timeout)
}
