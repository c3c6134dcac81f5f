package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// CORSZones splits the surface into two origin policies.
//
// Paths listed in publicPaths form the ingestion zone: any origin is
// echoed back and credentials are allowed, because the beacon must be
// embeddable on arbitrary third-party sites. This is the only permissive
// zone; nothing there requires authentication, trading spoofability for
// zero-friction embedding.
//
// Everything else is the dashboard zone, restricted to the configured
// origin allow-list. An empty list (or one containing "*") mirrors any
// origin, which credentialed requests require.
func CORSZones(publicPaths, allowedOrigins []string) func(http.Handler) http.Handler {
	permissive := cors.Handler(cors.Options{
		AllowOriginFunc:  func(_ *http.Request, _ string) bool { return true },
		AllowedMethods:   []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	allowAll := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")

	restricted := cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return allowAll || slices.Contains(allowedOrigins, origin)
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		permissiveNext := permissive(next)
		restrictedNext := restricted(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := public[r.URL.Path]; ok {
				permissiveNext.ServeHTTP(w, r)

				return
			}

			restrictedNext.ServeHTTP(w, r)
		})
	}
}
