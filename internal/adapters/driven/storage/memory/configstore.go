package memory

import (
	"github.com/custodia-labs/appsec-mcp/internal/adapters/driven/config"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps configuration in memory only. Tests and embedders use it
// where no config file should be read or written.
type ConfigStore struct {
	*config.Values
}

// NewConfigStore creates an empty in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{Values: config.NewValues()}
}

// Set stores a configuration value.
func (s *ConfigStore) Set(key string, value any) error {
	s.Put(key, value)
	return nil
}

// Save is a no-op.
func (s *ConfigStore) Save() error { return nil }

// Load is a no-op.
func (s *ConfigStore) Load() error { return nil }

// Path reports ":memory:" since nothing is persisted.
func (s *ConfigStore) Path() string { return ":memory:" }
