package driven

// ConfigReader reads typed configuration values by dotted key. The typed
// getters return the zero value when a key is absent or holds another type.
type ConfigReader interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Keys lists stored keys in sorted order.
	Keys() []string
}

// ConfigStore is a ConfigReader backed by persistent storage.
type ConfigStore interface {
	ConfigReader

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save writes every value to storage.
	Save() error

	// Load replaces the values with what storage holds.
	Load() error

	// Path names the backing file, or ":memory:".
	Path() string
}
