package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hashboard/stat18ion/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeAccountStore struct {
	byEmail map[string]*auth.Account
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{byEmail: make(map[string]*auth.Account)}
}

func (s *fakeAccountStore) CreateAccount(_ context.Context, email, passwordHash string) (*auth.Account, error) {
	if _, exists := s.byEmail[email]; exists {
		return nil, auth.ErrEmailTaken
	}

	account := &auth.Account{ID: uuid.NewString(), Email: email, PasswordHash: passwordHash}
	s.byEmail[email] = account

	return account, nil
}

func (s *fakeAccountStore) AccountByEmail(_ context.Context, email string) (*auth.Account, error) {
	account, ok := s.byEmail[email]
	if !ok {
		return nil, auth.ErrAccountNotFound
	}

	return account, nil
}

func newTestService(store auth.Store) *auth.Service {
	return auth.NewService(store, auth.NewTokenIssuer("test-secret"), zap.NewNop())
}

func TestRegister(t *testing.T) {
	t.Run("creates account and issues verifiable token", func(t *testing.T) {
		store := newFakeAccountStore()
		service := newTestService(store)

		creds, err := service.Register(context.Background(), "owner@example.com", "hunter22")

		require.NoError(t, err)
		assert.NotEmpty(t, creds.Token)
		assert.NotEmpty(t, creds.AccountID)

		issuer := auth.NewTokenIssuer("test-secret")
		accountID, err := issuer.Verify(creds.Token)
		require.NoError(t, err)
		assert.Equal(t, creds.AccountID, accountID)
	})

	t.Run("hashes the password", func(t *testing.T) {
		store := newFakeAccountStore()
		service := newTestService(store)

		_, err := service.Register(context.Background(), "owner@example.com", "hunter22")
		require.NoError(t, err)

		stored := store.byEmail["owner@example.com"]
		assert.NotEqual(t, "hunter22", stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter22")))
	})

	t.Run("rejects short passwords and malformed emails", func(t *testing.T) {
		service := newTestService(newFakeAccountStore())

		_, err := service.Register(context.Background(), "owner@example.com", "short")
		assert.ErrorIs(t, err, auth.ErrInvalidInput)

		_, err = service.Register(context.Background(), "not-an-email", "hunter22")
		assert.ErrorIs(t, err, auth.ErrInvalidInput)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		service := newTestService(newFakeAccountStore())

		_, err := service.Register(context.Background(), "owner@example.com", "hunter22")
		require.NoError(t, err)

		_, err = service.Register(context.Background(), "owner@example.com", "hunter23")
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})
}

func TestLogin(t *testing.T) {
	t.Run("returns token for valid credentials", func(t *testing.T) {
		store := newFakeAccountStore()
		service := newTestService(store)

		registered, err := service.Register(context.Background(), "owner@example.com", "hunter22")
		require.NoError(t, err)

		creds, err := service.Login(context.Background(), "owner@example.com", "hunter22")

		require.NoError(t, err)
		assert.Equal(t, registered.AccountID, creds.AccountID)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		store := newFakeAccountStore()
		service := newTestService(store)

		_, err := service.Register(context.Background(), "owner@example.com", "hunter22")
		require.NoError(t, err)

		_, wrongPass := service.Login(context.Background(), "owner@example.com", "wrong-pass")
		_, unknown := service.Login(context.Background(), "nobody@example.com", "hunter22")

		assert.ErrorIs(t, wrongPass, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, unknown, auth.ErrInvalidCredentials)
	})
}

func TestTokenIssuer(t *testing.T) {
	t.Run("round trips the account id", func(t *testing.T) {
		issuer := auth.NewTokenIssuer("secret")

		token, err := issuer.Issue("account-1")
		require.NoError(t, err)

		accountID, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "account-1", accountID)
	})

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		token, err := auth.NewTokenIssuer("secret-a").Issue("account-1")
		require.NoError(t, err)

		_, err = auth.NewTokenIssuer("secret-b").Verify(token)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := auth.NewTokenIssuer("secret").Verify("not-a-token")
		assert.Error(t, err)
	})
}

func TestAccountContext(t *testing.T) {
	ctx := auth.ContextWithAccountID(context.Background(), "account-1")

	id, ok := auth.AccountIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "account-1", id)

	_, ok = auth.AccountIDFromContext(context.Background())
	assert.False(t, ok)
}
