package session

import (
	"context"
	"errors"
)

var (
	// ErrInvalidCredentials is returned when the email/password pair matches no account.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailInUse is returned when registering an email that already has credentials.
	ErrEmailInUse = errors.New("email already in use")
	// ErrEmailReserved is returned when registering the demo account's email.
	ErrEmailReserved = errors.New("email reserved for the demo account")
	// ErrStorageParse is returned when a durable record cannot be decoded.
	ErrStorageParse = errors.New("stored record is unreadable")
)

// Fallback messages shown when an operation fails for an unclassified reason.
const (
	LoginFailed        = "Login failed"
	RegistrationFailed = "Registration failed"
	LogoutFailed       = "Logout failed"
)

// Message converts err into the single user-facing message kept in state.
func Message(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrEmailInUse), errors.Is(err, ErrEmailReserved):
		return "Email already in use"
	case errors.Is(err, ErrStorageParse):
		return "Saved account data is corrupted"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Request cancelled"
	default:
		return fallback
	}
}
