package contrast

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond is the default proactive throttle.
	DefaultRequestsPerSecond = 5.0

	apiPath = "/Contrast/api"
)

// Config holds the parsed connection settings.
type Config struct {
	// BaseURL is "{protocol}://{host}/Contrast/api".
	BaseURL string

	OrgID      string
	Username   string
	APIKey     string
	ServiceKey string

	Timeout           time.Duration
	RequestsPerSecond float64
}

// ParseConfig validates connection settings and builds a Config.
func ParseConfig(settings domain.ConnectionSettings) (*Config, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	protocol := strings.ToLower(strings.TrimSpace(settings.Protocol))
	if protocol == "" {
		protocol = "https"
	}
	if protocol != "https" && protocol != "http" {
		return nil, fmt.Errorf("protocol %q must be http or https: %w", settings.Protocol, domain.ErrInvalidInput)
	}

	host := strings.TrimSpace(settings.HostName)
	host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")
	host = strings.TrimSuffix(host, "/")
	host = strings.TrimSuffix(host, apiPath)

	cfg := &Config{
		BaseURL:           protocol + "://" + host + apiPath,
		OrgID:             strings.TrimSpace(settings.OrgID),
		Username:          strings.TrimSpace(settings.Username),
		APIKey:            strings.TrimSpace(settings.APIKey),
		ServiceKey:        strings.TrimSpace(settings.ServiceKey),
		Timeout:           settings.Timeout,
		RequestsPerSecond: settings.RequestsPerSecond,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	return cfg, nil
}
