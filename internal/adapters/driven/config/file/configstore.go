package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/appsec-mcp/internal/adapters/driven/config"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// DirName is the configuration directory created under the home directory.
const DirName = ".appsec-mcp"

// FileName is the configuration file inside the directory.
const FileName = "config.toml"

// ConfigStore persists configuration as a TOML file. Dotted keys map to
// tables, so "contrast.host_name" is written as host_name under [contrast].
type ConfigStore struct {
	*config.Values

	// writeMu serialises writers so the file always matches a single snapshot.
	writeMu  sync.Mutex
	filePath string
}

// NewConfigStore opens the config file in configDir, creating the directory
// if needed. If configDir is empty, defaults to ~/.appsec-mcp.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(home, DirName)
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating %s: %w", configDir, err)
	}

	s := &ConfigStore{
		Values:   config.NewValues(),
		filePath: filepath.Join(configDir, FileName),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Set stores a value and rewrites the file.
func (s *ConfigStore) Set(key string, value any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.Put(key, value)
	return s.write()
}

// Save rewrites the file from the current values.
func (s *ConfigStore) Save() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.write()
}

// Load replaces the current values with the file contents. A missing file
// yields an empty configuration. On a parse error the current values are
// kept.
func (s *ConfigStore) Load() error {
	raw, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		s.Replace(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.filePath, err)
	}

	var tables map[string]any
	if err := toml.Unmarshal(raw, &tables); err != nil {
		return fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	flat := make(map[string]any)
	flatten(flat, "", tables)
	s.Replace(flat)
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// write stores the values through a temp file and rename so that readers,
// including the watcher, never see a partial file. Caller holds writeMu.
func (s *ConfigStore) write() error {
	out, err := toml.Marshal(nest(s.Snapshot()))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), FileName+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.filePath, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(out); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("writing %s: %w", s.filePath, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close() //nolint:errcheck,gosec // chmod error takes precedence
		return fmt.Errorf("writing %s: %w", s.filePath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", s.filePath, err)
	}
	if err := os.Rename(tmp.Name(), s.filePath); err != nil {
		return fmt.Errorf("writing %s: %w", s.filePath, err)
	}
	return nil
}

// flatten copies nested tables into dst under dotted keys.
func flatten(dst map[string]any, prefix string, tables map[string]any) {
	for k, v := range tables {
		if prefix != "" {
			k = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			flatten(dst, k, child)
			continue
		}
		dst[k] = v
	}
}

// nest is the inverse of flatten. A key whose prefix is already a plain
// value stays flat rather than overwriting that value.
func nest(flat map[string]any) map[string]any {
	root := make(map[string]any)
	for key, value := range flat {
		parts := strings.Split(key, ".")
		table := root
		for _, part := range parts[:len(parts)-1] {
			next, exists := table[part]
			if !exists {
				next = make(map[string]any)
				table[part] = next
			}
			child, ok := next.(map[string]any)
			if !ok {
				table = nil
				break
			}
			table = child
		}
		if table == nil {
			root[key] = value
			continue
		}
		table[parts[len(parts)-1]] = value
	}
	return root
}
