package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// MetadataKey marks an operation as requiring a bearer token. Operations
// without it (ingestion, auth itself, health) stay public.
const MetadataKey = "authRequired"

type accountIDKey struct{}

// ContextWithAccountID attaches the authenticated account id to a context.
func ContextWithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey{}, accountID)
}

// AccountIDFromContext returns the authenticated account id, if any.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey{}).(string)

	return id, ok
}

// Verifier validates a bearer token and returns the account id.
type Verifier interface {
	Verify(token string) (string, error)
}

// Middleware enforces bearer authentication on operations marked with
// MetadataKey. Missing or invalid credentials yield 401, which is distinct
// from the 403 an ownership check produces later.
func Middleware(api huma.API, verifier Verifier) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !requiresAuth(ctx) {
			next(ctx)

			return
		}

		token, ok := bearerToken(ctx.Header("Authorization"))
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing token")

			return
		}

		accountID, err := verifier.Verify(token)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid token")

			return
		}

		ctx = huma.WithContext(ctx, ContextWithAccountID(ctx.Context(), accountID))

		next(ctx)
	}
}

func requiresAuth(ctx huma.Context) bool {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return false
	}

	required, ok := op.Metadata[MetadataKey].(bool)

	return ok && required
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "

	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])

	return token, token != ""
}
