package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hashboard/stat18ion/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter returns a huma middleware applying sliding-window limits
// keyed on hashed client IP and user-agent. Endpoints may override or
// disable the default limits via ratelimit.MetadataKey metadata.
func RateLimiter(
	api huma.API,
	store ratelimit.Store,
	defaults []ratelimit.LimitConfig,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		limits := defaults

		if cfg := ratelimit.GetEndpointConfig(ctx); cfg != nil {
			if cfg.Disabled {
				next(ctx)

				return
			}

			if len(cfg.Limits) > 0 {
				limits = cfg.Limits
			}
		}

		path := operationPath(ctx)
		key := clientKey(ctx)

		for _, limit := range limits {
			// Key combines client, route template, and window so each
			// limit is tracked independently.
			windowKey := fmt.Sprintf("%s:%s:%d", key, path, limit.Window.Milliseconds())

			count, err := store.Record(ctx.Context(), windowKey, limit.Window)
			if err != nil {
				logger.Error("rate limit check failed",
					zap.String("path", path),
					zap.Error(err),
				)
				_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

				return
			}

			if count > limit.Max {
				logger.Warn("rate limit exceeded",
					zap.String("path", path),
					zap.String("method", ctx.Method()),
					zap.Int64("count", count),
					zap.Int64("max", limit.Max),
					zap.Duration("window", limit.Window),
				)
				_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "rate limit exceeded")

				return
			}
		}

		next(ctx)
	}
}

// clientKey hashes IP and user-agent so raw client identifiers never
// appear in the rate limit store.
func clientKey(ctx huma.Context) string {
	sum := sha256.Sum256([]byte(clientIP(ctx) + "|" + ctx.Header("User-Agent")))

	return hex.EncodeToString(sum[:])
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}
