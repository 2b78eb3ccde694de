// Package validation contains the pure field predicates for provider
// entries, plus an aggregate validator that reports every violation in one
// pass so the UI can show the user everything wrong with a submission.
package validation

import (
	"fmt"
	"regexp"

	"provmgr/config/models"
	"provmgr/internal/utils"
)

const (
	maxProviderIDLen = 64
	maxAPIKeyLen     = 2048
	maxModelIDLen    = 256
)

// Provider identifiers allow ASCII word characters, dashes and CJK
// characters, 1-64 runes.
var providerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_\x{4e00}-\x{9fa5}-]{1,64}$`)

// Result aggregates the outcome of validating one provider entry.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// IsValidProviderID reports whether id is usable as a provider identifier.
func IsValidProviderID(id string) bool {
	return providerIDPattern.MatchString(id)
}

// IsValidBaseURL reports whether rawURL parses as an http or https URL.
func IsValidBaseURL(rawURL string) bool {
	return utils.ValidateURL(rawURL)
}

// IsValidAPIKey reports whether key has an acceptable length (1-2048).
func IsValidAPIKey(key string) bool {
	return len(key) >= 1 && len(key) <= maxAPIKeyLen
}

// IsValidModelID reports whether id has an acceptable length (1-256).
func IsValidModelID(id string) bool {
	return len(id) >= 1 && len(id) <= maxModelIDLen
}

// ValidateProvider checks a provider entry field by field and collects every
// violation instead of stopping at the first one.
func ValidateProvider(id string, cfg models.ProviderConfig) Result {
	var errs []string

	if !IsValidProviderID(id) {
		errs = append(errs, fmt.Sprintf("invalid provider id %q: must be 1-64 letters, digits, underscores, dashes or CJK characters", id))
	}

	if cfg.Options.BaseURL != "" && !IsValidBaseURL(cfg.Options.BaseURL) {
		errs = append(errs, fmt.Sprintf("invalid base URL %q: must be a well-formed http or https URL", cfg.Options.BaseURL))
	}

	if cfg.Options.APIKey != "" && !IsValidAPIKey(cfg.Options.APIKey) {
		errs = append(errs, fmt.Sprintf("invalid api key: length must be between 1 and %d characters", maxAPIKeyLen))
	}

	for modelID := range cfg.Models {
		if !IsValidModelID(modelID) {
			errs = append(errs, fmt.Sprintf("invalid model id %q: length must be between 1 and %d characters", modelID, maxModelIDLen))
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
