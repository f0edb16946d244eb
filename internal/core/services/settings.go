package services

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driving"
)

// Ensure SettingsService implements the interfaces.
var (
	_ driving.SettingsService = (*SettingsService)(nil)
	_ driven.LimitsProvider   = (*SettingsService)(nil)
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyHostName       = "contrast.host_name"
	keyProtocol       = "contrast.protocol"
	keyAPIKey         = "contrast.api_key"
	keyServiceKey     = "contrast.service_key"
	keyUsername       = "contrast.username"
	keyOrgID          = "contrast.org_id"
	keyTimeout        = "contrast.timeout_seconds"
	keyRequestsPerSec = "contrast.requests_per_second"
	keyPageSize       = "search.page_size"
	keyMaxPages       = "search.max_pages"
	keyMaxItems       = "search.max_items"
	keyCacheBackend   = "cache.backend"
	keyCacheTTL       = "cache.ttl_seconds"
	keyCacheDir       = "cache.dir"
	keyAllowedOrigins = "server.allowed_origins"
	keyOTLPEndpoint   = "telemetry.otlp_endpoint"
	keyOTLPInsecure   = "telemetry.insecure"
	keyVerbose        = "log.verbose"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
)

// settingKeys lists every supported key and how its raw value parses.
var settingKeys = map[string]keyKind{
	keyHostName:       kindString,
	keyProtocol:       kindString,
	keyAPIKey:         kindString,
	keyServiceKey:     kindString,
	keyUsername:       kindString,
	keyOrgID:          kindString,
	keyTimeout:        kindInt,
	keyRequestsPerSec: kindFloat,
	keyPageSize:       kindInt,
	keyMaxPages:       kindInt,
	keyMaxItems:       kindInt,
	keyCacheBackend:   kindString,
	keyCacheTTL:       kindInt,
	keyCacheDir:       kindString,
	keyAllowedOrigins: kindList,
	keyOTLPEndpoint:   kindString,
	keyOTLPInsecure:   kindBool,
	keyVerbose:        kindBool,
}

// Environment variables that override connection settings.
const (
	EnvHostName   = "CONTRAST_HOST_NAME"
	EnvProtocol   = "CONTRAST_PROTOCOL"
	EnvAPIKey     = "CONTRAST_API_KEY"
	EnvServiceKey = "CONTRAST_SERVICE_KEY"
	EnvUsername   = "CONTRAST_USERNAME"
	EnvOrgID      = "CONTRAST_ORG_ID"
)

// SettingsService reads and writes application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service reading environment
// overrides from the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore, getenv: os.Getenv}
}

// SetEnv replaces the environment lookup. Tests use it to avoid touching
// the process environment.
func (s *SettingsService) SetEnv(getenv func(string) string) {
	s.getenv = getenv
}

// Get returns the effective settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()

	conn := &settings.Connection
	conn.HostName = s.getString(keyHostName, EnvHostName, conn.HostName)
	conn.Protocol = s.getString(keyProtocol, EnvProtocol, conn.Protocol)
	conn.APIKey = s.getString(keyAPIKey, EnvAPIKey, "")
	conn.ServiceKey = s.getString(keyServiceKey, EnvServiceKey, "")
	conn.Username = s.getString(keyUsername, EnvUsername, "")
	conn.OrgID = s.getString(keyOrgID, EnvOrgID, "")
	if secs := s.configStore.GetInt(keyTimeout); secs > 0 {
		conn.Timeout = time.Duration(secs) * time.Second
	}
	if rps := s.configStore.GetFloat(keyRequestsPerSec); rps > 0 {
		conn.RequestsPerSecond = rps
	}

	settings.Search = s.SearchLimits()
	if err := s.rawLimits().Validate(); err != nil {
		return nil, err
	}

	if backend := s.configStore.GetString(keyCacheBackend); backend != "" {
		settings.Cache.Backend = domain.CacheBackend(strings.ToLower(backend))
	}
	if !settings.Cache.Backend.IsValid() {
		return nil, fmt.Errorf("cache backend %q: %w", settings.Cache.Backend, domain.ErrInvalidInput)
	}
	if secs := s.configStore.GetInt(keyCacheTTL); secs > 0 {
		settings.Cache.TTL = time.Duration(secs) * time.Second
	}
	settings.Cache.Dir = s.configStore.GetString(keyCacheDir)

	settings.Server.AllowedOrigins = s.configStore.GetStringSlice(keyAllowedOrigins)
	settings.Telemetry.OTLPEndpoint = s.configStore.GetString(keyOTLPEndpoint)
	settings.Telemetry.Insecure = s.configStore.GetBool(keyOTLPInsecure)
	settings.Verbose = s.configStore.GetBool(keyVerbose)

	return &settings, nil
}

// SearchLimits returns the configured limits with defaults applied. The
// store is read on every call so a reloaded file takes effect at once.
func (s *SettingsService) SearchLimits() domain.SearchLimits {
	return s.rawLimits().WithDefaults()
}

func (s *SettingsService) rawLimits() domain.SearchLimits {
	return domain.SearchLimits{
		PageSize: s.configStore.GetInt(keyPageSize),
		MaxPages: s.configStore.GetInt(keyMaxPages),
		MaxItems: s.configStore.GetInt(keyMaxItems),
	}
}

// Set parses raw according to the key's type and persists it.
func (s *SettingsService) Set(key, raw string) error {
	kind, ok := settingKeys[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	var value any
	switch kind {
	case kindInt:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer: %w", key, domain.ErrInvalidInput)
		}
		value = n
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%s must be a non-negative number: %w", key, domain.ErrInvalidInput)
		}
		value = f
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, domain.ErrInvalidInput)
		}
		value = b
	case kindList:
		var items []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		value = items
	default:
		value = strings.TrimSpace(raw)
	}

	if key == keyCacheBackend && !domain.CacheBackend(strings.ToLower(value.(string))).IsValid() {
		return fmt.Errorf("cache backend %q: %w", raw, domain.ErrInvalidInput)
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every supported configuration key in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Validate checks that the platform connection is configured.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Connection.Validate()
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// getString prefers the environment, then the store, then fallback.
func (s *SettingsService) getString(key, env, fallback string) string {
	if env != "" && s.getenv != nil {
		if v := strings.TrimSpace(s.getenv(env)); v != "" {
			return v
		}
	}
	if v := strings.TrimSpace(s.configStore.GetString(key)); v != "" {
		return v
	}
	return fallback
}
