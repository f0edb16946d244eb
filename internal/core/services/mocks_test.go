package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
)

// --- Mock implementations ---

// testLimits keeps pages small so tests exercise multi-page searches.
var testLimits = driven.StaticLimits{PageSize: 10, MaxPages: 5, MaxItems: 1000}

const testTTL = time.Minute

const testScope = "https|app.example.com|org-1|user"

// mockPageSource serves items in pages and records every call.
type mockPageSource[C, T any] struct {
	mu       sync.Mutex
	items    []T
	err      error
	failFrom int // err is returned for offsets >= failFrom
	calls    int
	criteria []C
}

func newMockPageSource[C, T any](items ...T) *mockPageSource[C, T] {
	return &mockPageSource[C, T]{items: items}
}

func (m *mockPageSource[C, T]) FetchPage(_ context.Context, criteria C, pageSize, offset int) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.criteria = append(m.criteria, criteria)
	if m.err != nil && offset >= m.failFrom {
		return nil, m.err
	}
	if offset >= len(m.items) {
		return nil, nil
	}
	return m.items[offset:min(offset+pageSize, len(m.items))], nil
}

func (m *mockPageSource[C, T]) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockPageSource[C, T]) lastCriteria() C {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero C
	if len(m.criteria) == 0 {
		return zero
	}
	return m.criteria[len(m.criteria)-1]
}

// mockVulnerabilitySource implements driven.VulnerabilitySource.
type mockVulnerabilitySource struct {
	*mockPageSource[domain.VulnerabilityFilter, domain.Vulnerability]
	detail *domain.VulnerabilityDetail
	getErr error
}

func (m *mockVulnerabilitySource) Get(_ context.Context, _, _ string) (*domain.VulnerabilityDetail, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.detail, nil
}

// mockRouteSource implements driven.RouteSource.
type mockRouteSource struct {
	routes []domain.Route
	err    error
	filter domain.RouteFilter
}

func (m *mockRouteSource) List(_ context.Context, filter domain.RouteFilter) ([]domain.Route, error) {
	m.filter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.routes, nil
}

// mockSessionSource implements driven.SessionSource.
type mockSessionSource struct {
	mu      sync.Mutex
	session *domain.AgentSession
	err     error
	calls   int
}

func (m *mockSessionSource) Latest(_ context.Context, _ string) (*domain.AgentSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.session == nil {
		return nil, domain.ErrNotFound
	}
	s := *m.session
	return &s, nil
}

// mockCache implements driven.Cache in memory without expiry.
type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockCache) Close() error {
	return nil
}

// --- Fixtures ---

func vulnWithSession(id, sessionID string, md ...domain.MetadataItem) domain.Vulnerability {
	return domain.Vulnerability{
		ID:       id,
		Severity: domain.SeverityHigh,
		Status:   domain.StatusReported,
		Sessions: []domain.SessionMetadata{{SessionID: sessionID, Metadata: md}},
	}
}

func numberedVulns(n int) []domain.Vulnerability {
	out := make([]domain.Vulnerability, n)
	for i := range out {
		out[i] = domain.Vulnerability{ID: "v" + strconv.Itoa(i), Severity: domain.SeverityMedium}
	}
	return out
}
