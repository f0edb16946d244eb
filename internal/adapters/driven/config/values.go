// Package config holds the typed key/value table shared by the config store
// adapters. Keys use dot notation, e.g. "contrast.host_name".
package config

import (
	"maps"
	"slices"
	"sync"
)

// Values is a concurrency-safe table of configuration values with typed
// accessors. TOML decodes integers as int64 and arrays as []any, so the
// accessors accept every shape a decoder or a caller may store.
type Values struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewValues returns an empty table.
func NewValues() *Values {
	return &Values{data: make(map[string]any)}
}

// Get returns the raw value stored under key.
func (v *Values) Get(key string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.data[key]
	return val, ok
}

// GetString returns the value as a string, or "" for other types.
func (v *Values) GetString(key string) string {
	s, _ := v.lookup(key).(string)
	return s
}

// GetInt returns the value as an int, truncating floats.
func (v *Values) GetInt(key string) int {
	switch n := v.lookup(key).(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// GetFloat returns the value as a float64, widening integers.
func (v *Values) GetFloat(key string) float64 {
	switch n := v.lookup(key).(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// GetBool returns the value as a bool, or false for other types.
func (v *Values) GetBool(key string) bool {
	b, _ := v.lookup(key).(bool)
	return b
}

// GetStringSlice returns the value as a string slice. Non-string elements
// of a decoded array are skipped.
func (v *Values) GetStringSlice(key string) []string {
	switch list := v.lookup(key).(type) {
	case []string:
		return slices.Clone(list)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Keys returns every key in sorted order.
func (v *Values) Keys() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Sorted(maps.Keys(v.data))
}

// Put stores value under key.
func (v *Values) Put(key string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data[key] = value
}

// Replace swaps the whole table for data.
func (v *Values) Replace(data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data = data
}

// Snapshot returns a shallow copy of the table.
func (v *Values) Snapshot() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return maps.Clone(v.data)
}

func (v *Values) lookup(key string) any {
	val, _ := v.Get(key)
	return val
}
