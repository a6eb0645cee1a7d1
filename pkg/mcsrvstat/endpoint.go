package mcsrvstat

import (
	"net/url"
	"strings"
)

// DefaultBaseURL is the public status API root.
const DefaultBaseURL = "https://api.mcsrvstat.us"

// StatusURL returns the status endpoint for address on platform.
// It is computed from its arguments only and never mutates shared state.
func StatusURL(base string, platform Platform, address string) string {
	base = normalizeBase(base)
	addr := url.PathEscape(address)
	if platform == PlatformBedrock {
		return base + "/bedrock/2/" + addr
	}
	return base + "/2/" + addr
}

// IconURL returns the icon endpoint for address.
func IconURL(base, address string) string {
	return normalizeBase(base) + "/icon/" + url.PathEscape(address)
}

func normalizeBase(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return DefaultBaseURL
	}
	return base
}
