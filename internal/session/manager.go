// Package session owns the signed-in user: login, registration, logout and
// rehydration from a durable key-value store.
//
// Two keys are used. "user" holds the JSON of the current session user and
// "users" holds the credential store, a JSON object mapping email to
// {password, user}. The demo account never appears in the credential store.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trackmyprogress/internal/model"
	"trackmyprogress/internal/storage"
)

// Storage keys.
const (
	UserKey  = "user"
	UsersKey = "users"
)

// Demo account, always available and never stored.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password"
	DemoUserID   = "1"
	DemoUserName = "Demo User"
)

// DefaultLatency is the simulated round trip applied to login and register.
const DefaultLatency = time.Second

const defaultNotifyTimeout = 5 * time.Second

// Status is the coarse authentication state.
type Status int

const (
	StatusAnonymous Status = iota
	StatusAuthenticating
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is a snapshot of the manager.
type State struct {
	User  *model.User
	Error string
	Busy  bool
}

// Notifier receives the best-effort welcome notification after a registration.
type Notifier interface {
	NotifyRegistration(ctx context.Context, email, name string) error
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) NotifyRegistration(context.Context, string, string) error { return nil }

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier sets the registration notifier.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithLatency sets the simulated delay before login and register resolve.
func WithLatency(d time.Duration) Option {
	return func(m *Manager) { m.latency = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithPasswordPolicy sets how passwords are stored and compared.
func WithPasswordPolicy(p PasswordPolicy) Option {
	return func(m *Manager) { m.passwords = p }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides how new user ids are made.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// WithNotifyTimeout bounds each registration notification.
func WithNotifyTimeout(d time.Duration) Option {
	return func(m *Manager) { m.notifyTimeout = d }
}

// Manager is the session manager for one client context.
type Manager struct {
	store         storage.Store
	notifier      Notifier
	passwords     PasswordPolicy
	logger        *zap.Logger
	latency       time.Duration
	notifyTimeout time.Duration
	now           func() time.Time
	newID         func() string

	mu       sync.Mutex
	user     *model.User
	lastErr  string
	inflight int
	closing  bool

	// commitMu serializes the credential store read-modify-write.
	commitMu sync.Mutex
	pending  sync.WaitGroup
}

// NewManager creates a manager over store and rehydrates the saved session.
// A saved session that cannot be decoded is removed and the manager starts
// anonymous; only store I/O failures are returned.
func NewManager(ctx context.Context, store storage.Store, opts ...Option) (*Manager, error) {
	m := &Manager{
		store:         store,
		notifier:      NopNotifier{},
		passwords:     PlainPasswords{},
		logger:        zap.NewNop(),
		latency:       DefaultLatency,
		notifyTimeout: defaultNotifyTimeout,
		now:           time.Now,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.rehydrate(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) rehydrate(ctx context.Context) error {
	raw, ok, err := m.store.Read(ctx, UserKey)
	if err != nil {
		return fmt.Errorf("read saved session: %w", err)
	}
	if !ok {
		return nil
	}

	user, err := decodeUser(raw)
	if err != nil {
		m.logger.Warn("discarding saved session", zap.Error(err))
		if err := m.store.Remove(ctx, UserKey); err != nil {
			return fmt.Errorf("remove saved session: %w", err)
		}
		return nil
	}

	m.user = user
	return nil
}

// State returns a snapshot of the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{User: copyUser(m.user), Error: m.lastErr, Busy: m.inflight > 0}
}

// CurrentUser returns the session user, or nil when anonymous.
func (m *Manager) CurrentUser() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyUser(m.user)
}

// Status reports the authentication state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.inflight > 0:
		return StatusAuthenticating
	case m.user != nil:
		return StatusAuthenticated
	default:
		return StatusAnonymous
	}
}

// ClearError resets the last error message.
func (m *Manager) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = ""
}

// Login authenticates email/password. The demo account is checked before the
// credential store. A failed login records a message and leaves any existing
// session in place.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.begin()
	user, err := m.login(ctx, email, password)
	m.finish(user, err, LoginFailed)
	return err
}

func (m *Manager) login(ctx context.Context, email, password string) (*model.User, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	if email == DemoEmail && password == DemoPassword {
		demo := &model.User{
			ID:        DemoUserID,
			Name:      DemoUserName,
			Email:     DemoEmail,
			CreatedAt: m.now().UTC(),
		}
		if err := m.saveSession(ctx, demo); err != nil {
			return nil, err
		}
		return demo, nil
	}

	creds, err := m.loadCredentials(ctx)
	if err != nil {
		return nil, err
	}
	entry, ok := creds[email]
	if !ok || !m.passwords.Matches(entry.Password, password) {
		return nil, ErrInvalidCredentials
	}

	user := entry.User
	if err := m.saveSession(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates credentials for a new email and signs the user in. After the
// store commit the notifier is called in the background; its outcome never
// affects the result.
func (m *Manager) Register(ctx context.Context, name, email, password string) error {
	m.begin()
	user, err := m.register(ctx, name, email, password)
	m.finish(user, err, RegistrationFailed)
	if err == nil {
		m.notify(ctx, email, name)
	}
	return err
}

func (m *Manager) register(ctx context.Context, name, email, password string) (*model.User, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	if email == DemoEmail {
		return nil, ErrEmailReserved
	}

	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	creds, err := m.loadCredentials(ctx)
	if err != nil {
		return nil, err
	}
	if _, exists := creds[email]; exists {
		return nil, ErrEmailInUse
	}

	sealed, err := m.passwords.Seal(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		ID:        m.newID(),
		Name:      name,
		Email:     email,
		CreatedAt: m.now().UTC(),
	}
	creds[email] = model.Credential{Password: sealed, User: *user}

	if err := m.saveCredentials(ctx, creds); err != nil {
		return nil, err
	}
	if err := m.saveSession(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout clears the session and its durable record. Calling it while anonymous
// is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()

	if err := m.store.Remove(ctx, UserKey); err != nil {
		err = fmt.Errorf("remove session: %w", err)
		m.mu.Lock()
		m.lastErr = Message(err, LogoutFailed)
		m.mu.Unlock()
		return err
	}
	return nil
}

// Close waits for in-flight registration notifications or until ctx is done.
// Registrations that complete after Close has been called skip the notification.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closing = true
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) begin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight++
	m.lastErr = ""
}

func (m *Manager) finish(user *model.User, err error, fallback string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight--
	if err != nil {
		m.lastErr = Message(err, fallback)
		return
	}
	m.user = user
}

func (m *Manager) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) notify(ctx context.Context, email, name string) {
	m.mu.Lock()
	if m.closing {
		m.mu.Unlock()
		m.logger.Debug("manager closing, registration notification skipped", zap.String("email", email))
		return
	}
	m.pending.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				m.logger.Debug("registration notification panicked", zap.Any("panic", r))
			}
		}()

		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.notifyTimeout)
		defer cancel()
		if err := m.notifier.NotifyRegistration(nctx, email, name); err != nil {
			m.logger.Debug("registration notification failed", zap.String("email", email), zap.Error(err))
		}
	}()
}

func (m *Manager) loadCredentials(ctx context.Context) (model.Credentials, error) {
	raw, ok, err := m.store.Read(ctx, UsersKey)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	creds := make(model.Credentials)
	if !ok || raw == "" {
		return creds, nil
	}
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("%w: credentials: %v", ErrStorageParse, err)
	}
	if creds == nil {
		creds = make(model.Credentials)
	}
	return creds, nil
}

func (m *Manager) saveCredentials(ctx context.Context, creds model.Credentials) error {
	payload, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := m.store.Write(ctx, UsersKey, string(payload)); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (m *Manager) saveSession(ctx context.Context, user *model.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Write(ctx, UserKey, string(payload)); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func decodeUser(raw string) (*model.User, error) {
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("%w: session: %v", ErrStorageParse, err)
	}
	if !user.Valid() {
		return nil, fmt.Errorf("%w: session record missing id or email", ErrStorageParse)
	}
	return &user, nil
}

func copyUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
