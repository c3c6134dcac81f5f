package beacon

import "net/http"

// Middleware wires a tracker into a server-side request path. Each served
// request is reported as one navigation, so no NavigationObserver is
// needed in this host: requests map 1:1 to navigations. Tracking happens
// after the response is written and never blocks or fails the request.
func Middleware(t *Tracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			t.TrackServerEvent(ServerEvent{
				SiteID:    t.cfg.SiteID,
				Path:      r.URL.Path,
				UserAgent: r.UserAgent(),
				Referrer:  r.Referer(),
			})
		})
	}
}
