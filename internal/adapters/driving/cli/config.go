package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the settings stored in config.toml.

Environment variables (CONTRAST_HOST_NAME, CONTRAST_API_KEY,
CONTRAST_SERVICE_KEY, CONTRAST_USERNAME, CONTRAST_ORG_ID,
CONTRAST_PROTOCOL) take precedence over the file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save it to config.toml.

Lists such as server.allowed_origins take comma-separated values.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
	ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 || app == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return app.settings.Keys(), cobra.ShellCompDirectiveNoFileComp
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(app.settings.Path())
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List supported configuration keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, k := range app.settings.Keys() {
			cmd.Println(k)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settings, err := app.settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	conn := settings.Connection
	cmd.Println("[Connection]")
	cmd.Printf("  Host: %s\n", orUnset(conn.HostName))
	cmd.Printf("  Protocol: %s\n", conn.Protocol)
	cmd.Printf("  Organization: %s\n", orUnset(conn.OrgID))
	cmd.Printf("  Username: %s\n", orUnset(conn.Username))
	cmd.Printf("  API Key: %s\n", maskSecret(conn.APIKey))
	cmd.Printf("  Service Key: %s\n", maskSecret(conn.ServiceKey))
	cmd.Printf("  Timeout: %s\n", conn.Timeout)
	cmd.Printf("  Requests/second: %g\n", conn.RequestsPerSecond)
	status := "configured"
	if missing := conn.Missing(); len(missing) > 0 {
		status = "missing " + strings.Join(missing, ", ")
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Page size: %d\n", settings.Search.PageSize)
	cmd.Printf("  Max pages: %d\n", settings.Search.MaxPages)
	cmd.Printf("  Max items: %d\n", settings.Search.MaxItems)
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Backend: %s\n", settings.Cache.Backend.Description())
	cmd.Printf("  TTL: %s\n", settings.Cache.TTL)
	if settings.Cache.Dir != "" {
		cmd.Printf("  Directory: %s\n", settings.Cache.Dir)
	}
	cmd.Println()

	cmd.Println("[Server]")
	if len(settings.Server.AllowedOrigins) == 0 {
		cmd.Println("  Allowed origins: any")
	} else {
		cmd.Printf("  Allowed origins: %s\n", strings.Join(settings.Server.AllowedOrigins, ", "))
	}
	cmd.Printf("  Trace export: %s\n", orUnset(settings.Telemetry.OTLPEndpoint))
	cmd.Println()

	cmd.Printf("Config file: %s\n", app.settings.Path())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := app.settings.Set(key, value); err != nil {
		return err
	}
	shown := value
	if strings.HasSuffix(key, "_key") {
		shown = maskSecret(value)
	}
	cmd.Printf("%s = %s\n", key, shown)
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// maskSecret shows only the ends of a secret.
func maskSecret(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
