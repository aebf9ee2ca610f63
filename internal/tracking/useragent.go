package tracking

import (
	"strings"

	"github.com/ignite/outreach/internal/domain"
)

// classifyUserAgent extracts a coarse device type and email client from
// the User-Agent header. Image proxies rewrite the UA (Gmail fetches
// through GoogleImageProxy), so these are hints, not facts.
func classifyUserAgent(ua string) (domain.DeviceType, string) {
	lower := strings.ToLower(ua)

	client := "unknown"
	switch {
	case strings.Contains(lower, "googleimageproxy"):
		client = "gmail"
	case strings.Contains(lower, "outlook"):
		client = "outlook"
	case strings.Contains(lower, "thunderbird"):
		client = "thunderbird"
	case strings.Contains(lower, "applemail") || strings.Contains(lower, "apple mail"):
		client = "apple_mail"
	case strings.Contains(lower, "yahoo"):
		client = "yahoo"
	}

	device := domain.DeviceUnknown
	switch {
	case strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet"):
		device = domain.DeviceTablet
	case strings.Contains(lower, "iphone") || strings.Contains(lower, "android") || strings.Contains(lower, "mobile"):
		device = domain.DeviceMobile
	case strings.Contains(lower, "macintosh") || strings.Contains(lower, "windows") || strings.Contains(lower, "x11") || strings.Contains(lower, "linux"):
		device = domain.DeviceDesktop
	}

	// Apple Mail on iOS/macOS identifies itself only by platform.
	if client == "unknown" && (strings.Contains(lower, "iphone") || strings.Contains(lower, "ipad") || strings.Contains(lower, "macintosh")) {
		client = "apple_mail"
	}

	return device, client
}
