package event

import "strings"

// UnknownValue is used when a dimension cannot be derived from the user-agent.
const UnknownValue = "Unknown"

// ParseUserAgent derives browser and operating system names from a raw
// user-agent string. The classification is total: unparseable or empty
// agents map to "Unknown" for both dimensions.
func ParseUserAgent(userAgent string) (browser, os string) {
	return parseBrowser(userAgent), parseOS(userAgent)
}

func parseBrowser(ua string) string {
	// Order matters: Chrome-derived browsers also advertise Chrome and
	// Safari tokens, so the more specific markers are checked first.
	switch {
	case strings.Contains(ua, "Edg/") || strings.Contains(ua, "Edge/"):
		return "Edge"
	case strings.Contains(ua, "OPR/") || strings.Contains(ua, "Opera"):
		return "Opera"
	case strings.Contains(ua, "SamsungBrowser"):
		return "Samsung Internet"
	case strings.Contains(ua, "Firefox/"):
		return "Firefox"
	case strings.Contains(ua, "Chrome/") || strings.Contains(ua, "CriOS"):
		return "Chrome"
	case strings.Contains(ua, "Safari/"):
		return "Safari"
	case strings.Contains(ua, "MSIE") || strings.Contains(ua, "Trident/"):
		return "Internet Explorer"
	default:
		return UnknownValue
	}
}

func parseOS(ua string) string {
	switch {
	case strings.Contains(ua, "Windows"):
		return "Windows"
	case strings.Contains(ua, "Android"):
		return "Android"
	case strings.Contains(ua, "iPhone") || strings.Contains(ua, "iPad") || strings.Contains(ua, "iOS"):
		return "iOS"
	case strings.Contains(ua, "Mac OS X") || strings.Contains(ua, "Macintosh"):
		return "macOS"
	case strings.Contains(ua, "CrOS"):
		return "ChromeOS"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	default:
		return UnknownValue
	}
}
