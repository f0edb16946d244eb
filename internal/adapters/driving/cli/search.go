package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/validate"
)

var (
	searchJSON     bool
	searchPage     int
	searchPageSize int

	appName     string
	appTag      string
	appLanguage string

	vulnAppID        string
	vulnSeverities   string
	vulnStatuses     string
	vulnEnvironments string
	vulnSessionID    string
	vulnUseLatest    bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a search from the command line",
	Long: `Runs the same searches the MCP tools run, for checking configuration
and limits without an AI assistant.`,
}

var searchApplicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "Search applications",
	Args:  cobra.NoArgs,
	RunE:  runSearchApplications,
}

var searchVulnerabilitiesCmd = &cobra.Command{
	Use:   "vulnerabilities",
	Short: "Search vulnerabilities",
	Long: `Searches vulnerabilities across the organisation, or within one
application when --app is given. Session filters require --app.`,
	Args: cobra.NoArgs,
	RunE: runSearchVulnerabilities,
}

func init() {
	searchCmd.PersistentFlags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.PersistentFlags().IntVar(&searchPage, "page", 1, "1-based page number")
	searchCmd.PersistentFlags().IntVarP(&searchPageSize, "page-size", "n", domain.DefaultPageSize, "items per page")

	searchApplicationsCmd.Flags().StringVar(&appName, "name", "", "name substring or glob")
	searchApplicationsCmd.Flags().StringVar(&appTag, "tag", "", "application tag")
	searchApplicationsCmd.Flags().StringVar(&appLanguage, "language", "", "application language")

	searchVulnerabilitiesCmd.Flags().StringVar(&vulnAppID, "app", "", "application id")
	searchVulnerabilitiesCmd.Flags().StringVar(&vulnSeverities, "severities", "", "comma-separated severities")
	searchVulnerabilitiesCmd.Flags().StringVar(&vulnStatuses, "statuses", "", "comma-separated statuses")
	searchVulnerabilitiesCmd.Flags().StringVar(&vulnEnvironments, "environments", "", "comma-separated environments")
	searchVulnerabilitiesCmd.Flags().StringVar(&vulnSessionID, "session-id", "", "agent session id (requires --app)")
	searchVulnerabilitiesCmd.Flags().BoolVar(&vulnUseLatest, "use-latest-session", false, "limit to the latest agent session (requires --app)")

	searchCmd.AddCommand(searchApplicationsCmd)
	searchCmd.AddCommand(searchVulnerabilitiesCmd)
	rootCmd.AddCommand(searchCmd)
}

func runSearchApplications(cmd *cobra.Command, _ []string) error {
	v := validate.New()
	page := v.Page(searchPage, searchPageSize)
	if err := v.Err(); err != nil {
		return err
	}

	res, err := app.ports.Applications.Search(cmd.Context(), domain.ApplicationQuery{
		Name:     appName,
		Tag:      appTag,
		Language: appLanguage,
		Page:     page,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd, res)
	}

	if len(res.Items) == 0 {
		cmd.Println("No applications found.")
	}
	for i := range res.Items {
		a := res.Items[i]
		cmd.Printf("  %s  %s", a.ID, a.Name)
		if a.Language != "" {
			cmd.Printf(" (%s)", a.Language)
		}
		cmd.Println()
	}
	printPageFooter(cmd, res.Page, res.HasMorePages, res.TotalItems, append(v.Warnings(), res.Messages...))
	return nil
}

func runSearchVulnerabilities(cmd *cobra.Command, _ []string) error {
	v := validate.New()
	filter := domain.VulnerabilityFilter{
		AppID:        vulnAppID,
		Severities:   v.Severities("severities", vulnSeverities),
		Statuses:     v.Statuses("statuses", vulnStatuses),
		Environments: v.Environments("environments", vulnEnvironments),
	}
	v.DependsOn("session-id", vulnSessionID, "app", vulnAppID)
	if vulnUseLatest {
		v.DependsOn("use-latest-session", "set", "app", vulnAppID)
	}
	v.Conflicts("use-latest-session", vulnUseLatest, "session-id", vulnSessionID != "")
	page := v.Page(searchPage, searchPageSize)
	if err := v.Err(); err != nil {
		return err
	}

	res, err := app.ports.Vulnerabilities.Search(cmd.Context(), domain.VulnerabilityQuery{
		Filter:           filter,
		Session:          domain.SessionFilter{SessionID: vulnSessionID}.Normalise(),
		UseLatestSession: vulnUseLatest,
		Page:             page,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd, res)
	}

	if len(res.Items) == 0 {
		cmd.Println("No vulnerabilities found.")
	}
	for i := range res.Items {
		vuln := res.Items[i]
		cmd.Printf("  [%-8s] %s  %s", vuln.Severity, vuln.ID, vuln.Title)
		if vuln.AppName != "" {
			cmd.Printf("  (%s)", vuln.AppName)
		}
		cmd.Println()
	}
	printPageFooter(cmd, res.Page, res.HasMorePages, res.TotalItems, append(v.Warnings(), res.Messages...))
	return nil
}

func printPageFooter(cmd *cobra.Command, page int, more bool, total *int, messages []string) {
	cmd.Println()
	switch {
	case total != nil:
		cmd.Printf("Page %d, %d total\n", page, *total)
	case more:
		cmd.Printf("Page %d, more available (--page %d)\n", page, page+1)
	default:
		cmd.Printf("Page %d\n", page)
	}
	for _, m := range messages {
		cmd.Printf("Note: %s\n", m)
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
