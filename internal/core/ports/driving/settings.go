package driving

import "github.com/custodia-labs/appsec-mcp/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, then the configuration
	// file, then environment overrides.
	Get() (*domain.Settings, error)

	// SearchLimits returns the search limits currently configured. It
	// reflects configuration reloads.
	SearchLimits() domain.SearchLimits

	// Set parses raw for key and persists it.
	Set(key, raw string) error

	// Keys returns every supported configuration key.
	Keys() []string

	// Validate checks that the platform connection is configured.
	Validate() error

	// Path returns the configuration file path.
	Path() string
}
