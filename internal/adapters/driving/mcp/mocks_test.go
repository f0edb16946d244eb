package mcp

import (
	"context"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

type mockApplicationService struct {
	page    *domain.PagedResult[domain.Application]
	summary *domain.ApplicationSummary
	err     error
	query   domain.ApplicationQuery
	appID   string
}

func (m *mockApplicationService) Search(
	_ context.Context,
	q domain.ApplicationQuery,
) (*domain.PagedResult[domain.Application], error) {
	m.query = q
	return m.page, m.err
}

func (m *mockApplicationService) Summary(_ context.Context, appID string) (*domain.ApplicationSummary, error) {
	m.appID = appID
	return m.summary, m.err
}

type mockVulnerabilityService struct {
	page   *domain.PagedResult[domain.Vulnerability]
	detail *domain.VulnerabilityDetail
	err    error
	query  domain.VulnerabilityQuery
	calls  int
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
	return m.detail, m.err
}

type mockAttackService struct {
	page  *domain.PagedResult[domain.Attack]
	err   error
	query domain.AttackQuery
}

func (m *mockAttackService) Search(_ context.Context, q domain.AttackQuery) (*domain.PagedResult[domain.Attack], error) {
	m.query = q
	return m.page, m.err
}

type mockLibraryService struct {
	page  *domain.PagedResult[domain.Library]
	err   error
	query domain.LibraryQuery
}

func (m *mockLibraryService) List(_ context.Context, q domain.LibraryQuery) (*domain.PagedResult[domain.Library], error) {
	m.query = q
	return m.page, m.err
}

type mockRouteService struct {
	coverage *domain.RouteCoverage
	err      error
	query    domain.RouteQuery
}

func (m *mockRouteService) Coverage(_ context.Context, q domain.RouteQuery) (*domain.RouteCoverage, error) {
	m.query = q
	return m.coverage, m.err
}

type mockSessionService struct {
	session *domain.AgentSession
	err     error
}

func (m *mockSessionService) Latest(_ context.Context, _ string) (*domain.AgentSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.session == nil {
		return nil, domain.ErrNotFound
	}
	return m.session, nil
}

type mockScanService struct {
	results *domain.ScanResults
	err     error
	query   domain.ScanQuery
}

func (m *mockScanService) Results(_ context.Context, q domain.ScanQuery) (*domain.ScanResults, error) {
	m.query = q
	return m.results, m.err
}

type mockSettingsService struct {
	limits domain.SearchLimits
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	s := domain.DefaultSettings()
	return &s, nil
}
func (m *mockSettingsService) SearchLimits() domain.SearchLimits { return m.limits }
func (m *mockSettingsService) Set(_, _ string) error           { return nil }
func (m *mockSettingsService) Keys() []string                  { return nil }
func (m *mockSettingsService) Validate() error                 { return nil }
func (m *mockSettingsService) Path() string                    { return ":memory:" }

// testPorts bundles mocks so tests can reach them after building a server.
type testPorts struct {
	apps     *mockApplicationService
	vulns    *mockVulnerabilityService
	attacks  *mockAttackService
	libs     *mockLibraryService
	routes   *mockRouteService
	sessions *mockSessionService
	scans    *mockScanService
}

func newTestPorts() *testPorts {
	return &testPorts{
		apps:     &mockApplicationService{page: &domain.PagedResult[domain.Application]{Items: []domain.Application{}, Page: 1, PageSize: 50}},
		vulns:    &mockVulnerabilityService{page: &domain.PagedResult[domain.Vulnerability]{Items: []domain.Vulnerability{}, Page: 1, PageSize: 50}},
		attacks:  &mockAttackService{page: &domain.PagedResult[domain.Attack]{Items: []domain.Attack{}, Page: 1, PageSize: 50}},
		libs:     &mockLibraryService{page: &domain.PagedResult[domain.Library]{Items: []domain.Library{}, Page: 1, PageSize: 50}},
		routes:   &mockRouteService{coverage: &domain.RouteCoverage{}},
		sessions: &mockSessionService{},
		scans:    &mockScanService{},
	}
}

func (p *testPorts) ports() *Ports {
	return &Ports{
		Applications:    p.apps,
		Vulnerabilities: p.vulns,
		Attacks:         p.attacks,
		Libraries:       p.libs,
		Routes:          p.routes,
		Sessions:        p.sessions,
		Scans:           p.scans,
	}
}
