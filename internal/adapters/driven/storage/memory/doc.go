// Package memory provides in-process implementations of driven ports: a
// TTL result cache used when no persistent backend is configured, and a
// ConfigStore for tests and ephemeral runs.
package memory
