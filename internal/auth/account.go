package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidCredentials is returned on login failure. Unknown email and
	// wrong password are indistinguishable on purpose.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidInput is returned when registration input fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAccountNotFound is returned by stores when no account matches.
	ErrAccountNotFound = errors.New("account not found")
)

// Account is a registered dashboard user.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Store defines account persistence.
type Store interface {
	// CreateAccount inserts a new account. Returns ErrEmailTaken when the
	// email is already registered.
	CreateAccount(ctx context.Context, email, passwordHash string) (*Account, error)

	// AccountByEmail returns the account for an email, or ErrAccountNotFound.
	AccountByEmail(ctx context.Context, email string) (*Account, error)
}
