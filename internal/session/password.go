package session

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// PasswordPolicy decides how passwords are written to and checked against the
// credential store.
type PasswordPolicy interface {
	Seal(password string) (string, error)
	Matches(stored, candidate string) bool
}

// PlainPasswords stores passwords as given and compares them byte for byte.
type PlainPasswords struct{}

func (PlainPasswords) Seal(password string) (string, error) {
	return password, nil
}

func (PlainPasswords) Matches(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// BcryptPasswords stores bcrypt hashes in the password field.
type BcryptPasswords struct{}

func (BcryptPasswords) Seal(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (BcryptPasswords) Matches(stored, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}

// PolicyByName maps a configuration value to a policy.
func PolicyByName(name string) (PasswordPolicy, error) {
	switch name {
	case "", "plain":
		return PlainPasswords{}, nil
	case "bcrypt":
		return BcryptPasswords{}, nil
	default:
		return nil, fmt.Errorf("unknown password policy %q", name)
	}
}
