package event

import (
	"strings"
	"time"
)

// TopicRecorded is the topic accepted navigation events are published to.
const TopicRecorded = "event.recorded"

// Recorded is one enriched page-view event. Events are append-only: once
// published they are never updated or deleted by the pipeline.
type Recorded struct {
	SiteID      string    `json:"siteId"`
	Path        string    `json:"path"`
	Referrer    string    `json:"referrer"`
	DeviceType  string    `json:"deviceType"`
	Browser     string    `json:"browser"`
	OS          string    `json:"os"`
	Country     string    `json:"country"`
	VisitorHash string    `json:"visitorHash"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DeviceType classifies a user-agent as "mobile" or "desktop". Any
// user-agent containing "mobile" (case-insensitive) is mobile; everything
// else, including the empty string, is desktop.
func DeviceType(userAgent string) string {
	if strings.Contains(strings.ToLower(userAgent), "mobile") {
		return "mobile"
	}

	return "desktop"
}
