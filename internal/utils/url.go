package utils

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	versionSuffix = regexp.MustCompile(`/v\d+$`)
	versionPrefix = regexp.MustCompile(`^/v\d+`)
)

// ValidateURL reports whether a URL is well-formed with an http or https
// scheme and a host.
func ValidateURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	return parsed.Host != ""
}

// JoinEndpoint appends an API endpoint path to a base URL. A single trailing
// slash on the base is dropped, and when the base already ends in a version
// segment (/v1, /v2, ...) a matching version prefix on the endpoint is
// stripped so "https://api.x.com/v1" + "/v1/models" never becomes /v1/v1/models.
func JoinEndpoint(baseURL, endpoint string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if versionSuffix.MatchString(base) && versionPrefix.MatchString(endpoint) {
		endpoint = versionPrefix.ReplaceAllString(endpoint, "")
	}
	return base + endpoint
}

// MaskAPIKey masks an API key for display.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
