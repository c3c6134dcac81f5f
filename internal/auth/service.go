package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

// Credentials is the result of a successful registration or login.
type Credentials struct {
	Token     string
	AccountID string
}

// Service implements account registration and login.
type Service struct {
	store  Store
	issuer *TokenIssuer
	logger *zap.Logger
}

// NewService creates a new auth service.
func NewService(store Store, issuer *TokenIssuer, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		issuer: issuer,
		logger: logger,
	}
}

// Register creates an account and returns a bearer token for it.
func (s *Service) Register(ctx context.Context, email, password string) (*Credentials, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") || len(password) < minPasswordLength {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	account, err := s.store.CreateAccount(ctx, email, string(hash))
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(account.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account registered", zap.String("accountId", account.ID))

	return &Credentials{Token: token, AccountID: account.ID}, nil
}

// Login verifies credentials and returns a fresh bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (*Credentials, error) {
	account, err := s.store.AccountByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(account.ID)
	if err != nil {
		return nil, err
	}

	return &Credentials{Token: token, AccountID: account.ID}, nil
}
