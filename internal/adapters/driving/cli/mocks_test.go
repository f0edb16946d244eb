package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/appsec-mcp/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/appsec-mcp/internal/adapters/driving/mcp"
	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/services"
)

type mockApplicationService struct {
	page  *domain.PagedResult[domain.Application]
	err   error
	query domain.ApplicationQuery
}

func (m *mockApplicationService) Search(
	_ context.Context,
	q domain.ApplicationQuery,
) (*domain.PagedResult[domain.Application], error) {
	m.query = q
	return m.page, m.err
}

func (m *mockApplicationService) Summary(_ context.Context, _ string) (*domain.ApplicationSummary, error) {
	return nil, m.err
}

type mockVulnerabilityService struct {
	page  *domain.PagedResult[domain.Vulnerability]
	err   error
	query domain.VulnerabilityQuery
	calls int
}

func (m *mockVulnerabilityService) Search(
	_ context.Context,
	q domain.VulnerabilityQuery,
) (*domain.PagedResult[domain.Vulnerability], error) {
	m.calls++
	m.query = q
	return m.page, m.err
}

func (m *mockVulnerabilityService) Get(_ context.Context, _, _ string) (*domain.VulnerabilityDetail, error) {
	return nil, m.err
}

type fakeWatcher struct {
	changes []error
	done    chan struct{}
}

func (w *fakeWatcher) Watch(_ context.Context, onChange func(error)) error {
	defer close(w.done)
	for _, err := range w.changes {
		onChange(err)
	}
	return nil
}

type testApp struct {
	store *memory.ConfigStore
	apps  *mockApplicationService
	vulns *mockVulnerabilityService
}

// setupTestApp installs an application backed by an in-memory config store
// and mock search services, and resets command flags afterwards.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	store := memory.NewConfigStore()
	settings := services.NewSettingsService(store)
	settings.SetEnv(func(string) string { return "" })

	ta := &testApp{
		store: store,
		apps: &mockApplicationService{page: &domain.PagedResult[domain.Application]{
			Items: []domain.Application{}, Page: 1, PageSize: 50,
		}},
		vulns: &mockVulnerabilityService{page: &domain.PagedResult[domain.Vulnerability]{
			Items: []domain.Vulnerability{}, Page: 1, PageSize: 50,
		}},
	}

	previous := app
	app = &application{
		settings: settings,
		ports: &mcp.Ports{
			Applications:    ta.apps,
			Vulnerabilities: ta.vulns,
			Settings:        settings,
		},
	}
	t.Cleanup(func() {
		app = previous
		resetFlags()
	})
	return ta
}

func resetFlags() {
	searchJSON = false
	searchPage = 1
	searchPageSize = domain.DefaultPageSize
	appName, appTag, appLanguage = "", "", ""
	vulnAppID, vulnSeverities, vulnStatuses, vulnEnvironments, vulnSessionID = "", "", "", "", ""
	vulnUseLatest = false
	verbose = false
	configDir = ""
	rootCmd.SetArgs(nil)
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
