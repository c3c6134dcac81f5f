package beacon

import (
	"net"
	"path"
	"strings"
)

// Paths under these prefixes are requests, not page views. They show up
// when the beacon is wired into a server-side middleware that runs on
// every request.
var skipPrefixes = []string{"/_next/", "/api/"}

var assetExtensions = map[string]struct{}{
	".js":    {},
	".mjs":   {},
	".css":   {},
	".map":   {},
	".png":   {},
	".jpg":   {},
	".jpeg":  {},
	".gif":   {},
	".svg":   {},
	".webp":  {},
	".avif":  {},
	".ico":   {},
	".woff":  {},
	".woff2": {},
	".ttf":   {},
	".otf":   {},
	".txt":   {},
	".xml":   {},
	".json":  {},
}

// isPageView reports whether a path looks like a page navigation rather
// than a static asset or API call.
func isPageView(p string) bool {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(p, prefix) {
			return false
		}
	}

	ext := strings.ToLower(path.Ext(p))
	if _, ok := assetExtensions[ext]; ok {
		return false
	}

	return true
}

var loopbackHosts = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"0.0.0.0":   {},
	"::1":       {},
}

// isLoopback reports whether the host (optionally host:port) is a local
// address.
func isLoopback(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	_, ok := loopbackHosts[strings.ToLower(host)]

	return ok
}
