package middleware

import (
	"context"
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// countryHeader is set by the geolocation proxy in front of the service.
const countryHeader = "X-Vercel-IP-Country"

// RequestMeta holds per-request metadata used for event enrichment. None
// of these values are trusted from the request body; they come from the
// transport and proxy headers only.
type RequestMeta struct {
	ClientIP string
	Country  string
}

type requestMetaKey struct{}

// ContextWithRequestMeta adds request metadata to a context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from a context. The
// zero value's fields carry the same defaults the middleware applies.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{ClientIP: "unknown", Country: "Unknown"}
}

// RequestMetaMiddleware derives the client IP and country from the
// request and attaches them to the context.
func RequestMetaMiddleware(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := RequestMeta{
			ClientIP: clientIP(ctx),
			Country:  country(ctx),
		}

		newCtx := ContextWithRequestMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}

func country(ctx huma.Context) string {
	if c := ctx.Header(countryHeader); c != "" {
		return c
	}

	return "Unknown"
}

// clientIP extracts the client IP, considering proxies: X-Forwarded-For
// first (original client is the first entry), then X-Real-IP, then the
// transport-level address, else "unknown".
func clientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	host := ctx.Host()
	if host == "" {
		return "unknown"
	}

	if ip, _, err := net.SplitHostPort(host); err == nil {
		return ip
	}

	return host
}
