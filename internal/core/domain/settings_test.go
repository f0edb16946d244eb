package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnectionSettings_Validate(t *testing.T) {
	t.Run("empty reports every missing key", func(t *testing.T) {
		err := ConnectionSettings{}.Validate()
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.Contains(t, err.Error(), "host_name, api_key, service_key, username, org_id")
	})

	t.Run("whitespace counts as missing", func(t *testing.T) {
		c := ConnectionSettings{HostName: " ", APIKey: "k", ServiceKey: "s", Username: "u", OrgID: "o"}
		assert.Equal(t, []string{"host_name"}, c.Missing())
		assert.False(t, c.IsConfigured())
	})

	t.Run("complete settings validate", func(t *testing.T) {
		c := ConnectionSettings{HostName: "h", APIKey: "k", ServiceKey: "s", Username: "u", OrgID: "o"}
		assert.NoError(t, c.Validate())
		assert.True(t, c.IsConfigured())
	})
}

func TestCacheBackend(t *testing.T) {
	for _, b := range []CacheBackend{CacheBackendMemory, CacheBackendSQLite, CacheBackendNone} {
		assert.True(t, b.IsValid(), b)
		assert.NotEqual(t, unknownDescription, b.Description())
	}
	assert.False(t, CacheBackend("redis").IsValid())
	assert.Equal(t, unknownDescription, CacheBackend("redis").Description())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, "https", s.Connection.Protocol)
	assert.Equal(t, 30*time.Second, s.Connection.Timeout)
	assert.Equal(t, DefaultSearchLimits(), s.Search)
	assert.Equal(t, CacheBackendMemory, s.Cache.Backend)
	assert.Equal(t, 5*time.Minute, s.Cache.TTL)
}
