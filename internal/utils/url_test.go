package utils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		rawURL string
		want   bool
	}{
		{"https://api.openai.com/v1", true},
		{"http://localhost:11434", true},
		{"https://api.x.com", true},
		{"", false},
		{"ftp://files.example.com", false},
		{"not-a-url", false},
		{"https://", false},
		{"//missing-scheme.com", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateURL(tt.rawURL), "url %q", tt.rawURL)
	}
}

func TestJoinEndpoint(t *testing.T) {
	tests := []struct {
		base     string
		endpoint string
		want     string
	}{
		{"https://api.x.com/v1/", "/v1/models", "https://api.x.com/v1/models"},
		{"https://api.x.com/v1", "/v1/models", "https://api.x.com/v1/models"},
		{"https://api.x.com", "/models", "https://api.x.com/models"},
		{"https://api.x.com", "/v1/models", "https://api.x.com/v1/models"},
		{"https://api.x.com/v2", "/v1/chat/completions", "https://api.x.com/v2/chat/completions"},
		{"http://localhost:11434/", "/v1/chat/completions", "http://localhost:11434/v1/chat/completions"},
		{"https://gateway.example.com/openai/v1", "/v1/models", "https://gateway.example.com/openai/v1/models"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinEndpoint(tt.base, tt.endpoint), "%s + %s", tt.base, tt.endpoint)
	}
}

// For any host and version number, joining a versioned endpoint onto a
// versioned base never duplicates the version segment.
func TestJoinEndpointNeverDuplicatesVersion(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	hostGen := gen.RegexMatch(`[a-z]{1,10}\.[a-z]{2,3}`)
	versionGen := gen.IntRange(1, 9)

	properties.Property("no /vN/vN in joined URL", prop.ForAll(
		func(host string, version int, trailingSlash bool) bool {
			base := fmt.Sprintf("https://%s/v%d", host, version)
			if trailingSlash {
				base += "/"
			}
			joined := JoinEndpoint(base, fmt.Sprintf("/v%d/models", version))
			dup := fmt.Sprintf("/v%d/v%d/", version, version)
			return !strings.Contains(joined, dup) && strings.HasSuffix(joined, "/models")
		},
		hostGen,
		versionGen,
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "sk-t****-key", MaskAPIKey("sk-test-api-key"))
}
