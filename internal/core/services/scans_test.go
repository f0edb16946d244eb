package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

func testScanFindings() []domain.ScanFinding {
	return []domain.ScanFinding{
		{ID: "f1", Severity: domain.SeverityCritical},
		{ID: "f2", Severity: domain.SeverityLow},
		{ID: "f3", Severity: domain.SeverityHigh},
		{ID: "f4", Severity: domain.SeverityCritical},
	}
}

func TestScanService_Results(t *testing.T) {
	projects := newMockPageSource[domain.ScanProjectFilter, domain.ScanProject](
		domain.ScanProject{ID: "p0", Name: "payments-api-legacy"},
		domain.ScanProject{ID: "p1", Name: "Payments-API", LastScanID: "scan-7"},
		domain.ScanProject{ID: "p2", Name: "payments-api"},
	)
	findings := newMockPageSource[domain.ScanFindingFilter, domain.ScanFinding](testScanFindings()...)
	svc := NewScanService(projects, findings, testLimits)

	res, err := svc.Results(context.Background(), domain.ScanQuery{
		ProjectName: "payments-api",
		Severities:  []domain.Severity{domain.SeverityCritical},
	})
	require.NoError(t, err)

	assert.Equal(t, "p1", res.Project.ID, "first exact match wins")
	assert.Equal(t, domain.ScanFindingFilter{ProjectID: "p1", ScanID: "scan-7"}, findings.lastCriteria())
	assert.Equal(t, "payments-api", projects.lastCriteria().Name)
	require.Len(t, res.Findings.Items, 2)
	assert.Equal(t, "f1", res.Findings.Items[0].ID)
	assert.Equal(t, "f4", res.Findings.Items[1].ID)
}

func TestScanService_Results_AllSeverities(t *testing.T) {
	projects := newMockPageSource[domain.ScanProjectFilter, domain.ScanProject](
		domain.ScanProject{ID: "p1", Name: "svc", LastScanID: "s"},
	)
	findings := newMockPageSource[domain.ScanFindingFilter, domain.ScanFinding](testScanFindings()...)
	svc := NewScanService(projects, findings, testLimits)

	res, err := svc.Results(context.Background(), domain.ScanQuery{ProjectName: "svc"})
	require.NoError(t, err)
	assert.Len(t, res.Findings.Items, 4)
	require.NotNil(t, res.Findings.TotalItems)
	assert.Equal(t, 4, *res.Findings.TotalItems)
}

func TestScanService_Results_NoScans(t *testing.T) {
	projects := newMockPageSource[domain.ScanProjectFilter, domain.ScanProject](
		domain.ScanProject{ID: "p1", Name: "svc"},
	)
	findings := newMockPageSource[domain.ScanFindingFilter, domain.ScanFinding]()
	svc := NewScanService(projects, findings, testLimits)

	res, err := svc.Results(context.Background(), domain.ScanQuery{ProjectName: "svc"})
	require.NoError(t, err)
	assert.Empty(t, res.Findings.Items)
	assertMessage(t, res.Findings.Messages, "no completed scans")
	assert.Zero(t, findings.callCount())
}

func TestScanService_Results_ProjectLookup(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		projects := newMockPageSource[domain.ScanProjectFilter, domain.ScanProject](
			domain.ScanProject{ID: "p1", Name: "other"},
		)
		svc := NewScanService(projects, newMockPageSource[domain.ScanFindingFilter, domain.ScanFinding](), testLimits)

		_, err := svc.Results(context.Background(), domain.ScanQuery{ProjectName: "svc"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("lookup fails", func(t *testing.T) {
		projects := newMockPageSource[domain.ScanProjectFilter, domain.ScanProject]()
		projects.err = errors.New("boom")
		svc := NewScanService(projects, newMockPageSource[domain.ScanFindingFilter, domain.ScanFinding](), testLimits)

		_, err := svc.Results(context.Background(), domain.ScanQuery{ProjectName: "svc"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("missing name", func(t *testing.T) {
		svc := NewScanService(
			newMockPageSource[domain.ScanProjectFilter, domain.ScanProject](),
			newMockPageSource[domain.ScanFindingFilter, domain.ScanFinding](),
			testLimits,
		)
		_, err := svc.Results(context.Background(), domain.ScanQuery{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
