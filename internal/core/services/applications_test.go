package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/appsec-mcp/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

func testApplications() []domain.Application {
	return []domain.Application{
		{ID: "1", Name: "Payments API", Language: "Java", Tags: []string{"pci"},
			Metadata: []domain.MetadataItem{{Name: "team", Value: "billing"}}},
		{ID: "2", Name: "payments-web", Language: "Node", Tags: []string{"PCI", "frontend"}},
		{ID: "3", Name: "Inventory", Language: "Java",
			Metadata: []domain.MetadataItem{{Name: "Team", Value: "Warehouse"}}},
		{ID: "4", Name: "Search", Language: "Go"},
	}
}

func appIDs(items []domain.Application) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}

func TestApplicationService_Search_Filters(t *testing.T) {
	tests := []struct {
		name  string
		query domain.ApplicationQuery
		want  []string
	}{
		{"no filters", domain.ApplicationQuery{}, []string{"1", "2", "3", "4"}},
		{"name substring ignores case", domain.ApplicationQuery{Name: "PAYMENTS"}, []string{"1", "2"}},
		{"name glob", domain.ApplicationQuery{Name: "payments-*"}, []string{"2"}},
		{"name glob single char", domain.ApplicationQuery{Name: "searc?"}, []string{"4"}},
		{"tag", domain.ApplicationQuery{Tag: "pci"}, []string{"1", "2"}},
		{"language", domain.ApplicationQuery{Language: "java"}, []string{"1", "3"}},
		{"metadata name", domain.ApplicationQuery{MetadataName: "TEAM"}, []string{"1", "3"}},
		{"metadata value", domain.ApplicationQuery{MetadataName: "team", MetadataValue: "warehouse"}, []string{"3"}},
		{"combined", domain.ApplicationQuery{Language: "java", Tag: "pci"}, []string{"1"}},
		{"no match", domain.ApplicationQuery{Name: "billing"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newMockPageSource[domain.ApplicationFilter, domain.Application](testApplications()...)
			svc := NewApplicationService(source, testLimits)

			page, err := svc.Search(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, appIDs(page.Items))
			require.NotNil(t, page.TotalItems)
			assert.Equal(t, len(tt.want), *page.TotalItems)
		})
	}
}

func TestApplicationService_Search_Pagination(t *testing.T) {
	source := newMockPageSource[domain.ApplicationFilter, domain.Application](testApplications()...)
	svc := NewApplicationService(source, testLimits)

	page, err := svc.Search(context.Background(), domain.ApplicationQuery{
		Page: domain.PageRequest{Page: 2, PageSize: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, appIDs(page.Items))
	assert.False(t, page.HasMorePages)
	assert.Equal(t, 4, *page.TotalItems)
}

func TestApplicationService_Search_UsesCache(t *testing.T) {
	source := newMockPageSource[domain.ApplicationFilter, domain.Application](testApplications()...)
	cache := newMockCache()
	svc := NewApplicationService(source, testLimits)
	svc.SetCache(cache, testScope, testTTL)

	ctx := context.Background()
	_, err := svc.Search(ctx, domain.ApplicationQuery{})
	require.NoError(t, err)
	calls := source.callCount()

	page, err := svc.Search(ctx, domain.ApplicationQuery{Name: "inventory"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, appIDs(page.Items))
	assert.Equal(t, calls, source.callCount(), "second search should be served from cache")
}

func TestApplicationService_Search_CacheScopedToAccount(t *testing.T) {
	dir := t.TempDir()
	orgA := domain.ConnectionSettings{Protocol: "https", HostName: "app.example.com", OrgID: "org-a", Username: "u"}
	orgB := orgA
	orgB.OrgID = "org-b"
	ctx := context.Background()

	search := func(conn domain.ConnectionSettings, apps ...domain.Application) []domain.Application {
		t.Helper()
		store, err := sqlite.NewStore(dir)
		require.NoError(t, err)
		cache := store.Cache()
		defer cache.Close()

		svc := NewApplicationService(newMockPageSource[domain.ApplicationFilter, domain.Application](apps...), testLimits)
		svc.SetCache(cache, CacheScope(conn), testTTL)
		page, err := svc.Search(ctx, domain.ApplicationQuery{})
		require.NoError(t, err)
		return page.Items
	}

	gotA := search(orgA, domain.Application{ID: "a1", Name: "OrgA-App"})
	gotB := search(orgB, domain.Application{ID: "b1", Name: "OrgB-App"})
	cachedA := search(orgA)

	assert.Equal(t, []string{"a1"}, appIDs(gotA))
	assert.Equal(t, []string{"b1"}, appIDs(gotB))
	assert.Equal(t, []string{"a1"}, appIDs(cachedA), "org A entry should survive a reopen")
}

func TestCacheScope(t *testing.T) {
	base := domain.ConnectionSettings{Protocol: "https", HostName: "App.Example.com", OrgID: "org-1", Username: "user"}

	same := base
	same.HostName = " app.example.com "
	assert.Equal(t, CacheScope(base), CacheScope(same))

	tests := []struct {
		name   string
		change func(*domain.ConnectionSettings)
	}{
		{"org", func(c *domain.ConnectionSettings) { c.OrgID = "org-2" }},
		{"host", func(c *domain.ConnectionSettings) { c.HostName = "eu.example.com" }},
		{"user", func(c *domain.ConnectionSettings) { c.Username = "other" }},
		{"protocol", func(c *domain.ConnectionSettings) { c.Protocol = "http" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base
			tt.change(&other)
			assert.NotEqual(t, CacheScope(base), CacheScope(other))
		})
	}
}

func TestApplicationService_Search_PartialNotCached(t *testing.T) {
	apps := make([]domain.Application, 0, 20)
	for range 5 {
		apps = append(apps, testApplications()...)
	}
	source := newMockPageSource[domain.ApplicationFilter, domain.Application](apps...)
	source.err = errors.New("timeout")
	source.failFrom = 10
	cache := newMockCache()
	svc := NewApplicationService(source, testLimits)
	svc.SetCache(cache, testScope, testTTL)

	page, err := svc.Search(context.Background(), domain.ApplicationQuery{})
	require.NoError(t, err)

	assert.Len(t, page.Items, 10)
	assert.Nil(t, page.TotalItems)
	assertMessage(t, page.Messages, "Results are partial")
	assert.Zero(t, cache.sets)
}

func TestApplicationService_Search_Failure(t *testing.T) {
	source := newMockPageSource[domain.ApplicationFilter, domain.Application]()
	source.err = domain.ErrForbidden
	svc := NewApplicationService(source, testLimits)

	_, err := svc.Search(context.Background(), domain.ApplicationQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApplicationService_Search_NotConfigured(t *testing.T) {
	svc := NewApplicationService(nil, testLimits)
	_, err := svc.Search(context.Background(), domain.ApplicationQuery{})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}
