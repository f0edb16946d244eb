// Package cli provides the cobra command tree of appsec-mcp.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/appsec-mcp/internal/logger"
)

var (
	version   = "dev"
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "appsec-mcp",
	Short: "Application-security platform tools for AI assistants",
	Long: `appsec-mcp exposes an application-security platform's applications,
vulnerabilities, attacks, libraries, route coverage, agent sessions and
static scan results as Model Context Protocol tools.

Connection settings are read from ~/.appsec-mcp/config.toml and may be
overridden with the CONTRAST_* environment variables.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.appsec-mcp)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer logger.Sync()
	defer closeApp()
	return rootCmd.ExecuteContext(ctx)
}

// setup applies global flags and wires services on first use.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	if app != nil {
		logger.SetVerbose(verbose || app.verbose)
		return nil
	}

	logger.SetVerbose(verbose)
	a, err := newApp(configDir)
	if err != nil {
		return err
	}
	app = a
	if app.verbose {
		logger.SetVerbose(true)
	}
	return nil
}
