package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/appsec-mcp/internal/logger"
	"github.com/custodia-labs/appsec-mcp/internal/observability"
)

// CacheScope identifies the platform account whose data a cache entry
// holds. Persistent caches outlive the process, so entries written under
// one host, organisation or user must never be read under another.
func CacheScope(conn domain.ConnectionSettings) string {
	return strings.Join([]string{
		strings.ToLower(strings.TrimSpace(conn.Protocol)),
		strings.ToLower(strings.TrimSpace(conn.HostName)),
		strings.TrimSpace(conn.OrgID),
		strings.TrimSpace(conn.Username),
	}, "|")
}

// resultCache is a cache handle bound to one account scope.
type resultCache struct {
	cache driven.Cache
	scope string
	ttl   time.Duration
}

func (c resultCache) key(name string) string {
	return c.scope + "#" + name
}

// loadCached reads name from c. Cache failures are logged and treated as
// misses.
func loadCached[T any](ctx context.Context, c resultCache, name string) (T, bool) {
	var zero T
	if c.cache == nil {
		return zero, false
	}

	key := c.key(name)
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read %s: %v", key, err)
		return zero, false
	}
	if !ok {
		observability.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return zero, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		logger.Warn("cache decode %s: %v", key, err)
		return zero, false
	}

	observability.CacheLookupsTotal.WithLabelValues("hit").Inc()
	logger.Debug("cache hit: %s", key)
	return value, true
}

// storeCached writes value under name. Failures are logged only.
func storeCached[T any](ctx context.Context, c resultCache, name string, value T) {
	if c.cache == nil || c.ttl <= 0 {
		return
	}

	key := c.key(name)
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("cache encode %s: %v", key, err)
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		logger.Warn("cache write %s: %v", key, err)
	}
}
