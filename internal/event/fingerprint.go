package event

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Fingerprint derives the day-scoped visitor identifier from the client IP,
// user-agent, and calendar day (UTC). It is deterministic within a day and
// changes at midnight, approximating unique visitors without a cookie. Only
// the hash is ever stored; the (IP, UA) tuple is not.
func Fingerprint(clientIP, userAgent string, day time.Time) string {
	sum := sha256.Sum256([]byte(clientIP + "|" + userAgent + "|" + day.UTC().Format("2006-01-02")))

	return hex.EncodeToString(sum[:])
}
