package domain

import (
	"fmt"
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// ConnectionSettings holds the platform credentials and endpoint.
type ConnectionSettings struct {
	// HostName is the platform host, e.g. "app.example.com".
	HostName string

	// Protocol is "https" unless overridden for local testing.
	Protocol string

	APIKey     string
	ServiceKey string
	Username   string
	OrgID      string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// RequestsPerSecond is the proactive throttle applied to API calls.
	RequestsPerSecond float64
}

// Missing returns the names of required settings that are empty.
func (c ConnectionSettings) Missing() []string {
	var missing []string
	if strings.TrimSpace(c.HostName) == "" {
		missing = append(missing, "host_name")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		missing = append(missing, "api_key")
	}
	if strings.TrimSpace(c.ServiceKey) == "" {
		missing = append(missing, "service_key")
	}
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(c.OrgID) == "" {
		missing = append(missing, "org_id")
	}
	return missing
}

// IsConfigured returns true if every required setting is present.
func (c ConnectionSettings) IsConfigured() bool {
	return len(c.Missing()) == 0
}

// Validate returns ErrNotConfigured naming the missing settings.
func (c ConnectionSettings) Validate() error {
	if missing := c.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}

// CacheBackend selects the result cache implementation.
type CacheBackend string

// Available cache backends.
const (
	// CacheBackendMemory keeps cached results for the life of the process.
	CacheBackendMemory CacheBackend = "memory"

	// CacheBackendSQLite persists cached results across restarts.
	CacheBackendSQLite CacheBackend = "sqlite"

	// CacheBackendNone disables caching.
	CacheBackendNone CacheBackend = "none"
)

// IsValid returns true if the backend is recognised.
func (b CacheBackend) IsValid() bool {
	switch b {
	case CacheBackendMemory, CacheBackendSQLite, CacheBackendNone:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description of the backend.
func (b CacheBackend) Description() string {
	switch b {
	case CacheBackendMemory:
		return "In-memory (per process)"
	case CacheBackendSQLite:
		return "SQLite (persistent)"
	case CacheBackendNone:
		return "Disabled"
	default:
		return unknownDescription
	}
}

// CacheSettings configures the result cache.
type CacheSettings struct {
	Backend CacheBackend
	TTL     time.Duration

	// Dir holds the SQLite database when Backend is sqlite.
	Dir string
}

// ServerSettings configures the HTTP transport.
type ServerSettings struct {
	// AllowedOrigins lists CORS origins; empty allows all.
	AllowedOrigins []string
}

// TelemetrySettings configures trace export.
type TelemetrySettings struct {
	// OTLPEndpoint is a host:port of an OTLP/gRPC collector. Empty disables export.
	OTLPEndpoint string
	Insecure     bool
}

// Settings holds all application settings.
type Settings struct {
	Connection ConnectionSettings
	Search     SearchLimits
	Cache      CacheSettings
	Server     ServerSettings
	Telemetry  TelemetrySettings
	Verbose    bool
}

// DefaultSettings returns settings with sensible defaults.
// Connection credentials are left empty.
func DefaultSettings() Settings {
	return Settings{
		Connection: ConnectionSettings{
			Protocol:          "https",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
		},
		Search: DefaultSearchLimits(),
		Cache: CacheSettings{
			Backend: CacheBackendMemory,
			TTL:     5 * time.Minute,
		},
	}
}
