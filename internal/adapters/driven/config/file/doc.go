// Package file provides the TOML configuration store.
//
// Keys are flattened to dot notation on load ("contrast.host_name") and
// written back as nested tables. Watch reloads the file when it changes so
// long-running servers pick up new search limits without a restart.
package file
