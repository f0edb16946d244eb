package contrast

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
)

// Ensure the scan sources implement their interfaces.
var (
	_ driven.ScanProjectSource = (*ScanProjectAPI)(nil)
	_ driven.ScanFindingSource = (*ScanResultAPI)(nil)
)

// sastPath builds a scan service path below the organisation.
func (c *Client) sastPath(segments ...string) string {
	path := "/sast/organizations/" + url.PathEscape(c.OrgID())
	for _, s := range segments {
		path += "/" + url.PathEscape(s)
	}
	return path
}

// sastQuery converts an offset into the scan service's zero-based page
// number. Offsets from the search engine are always page aligned.
func sastQuery(pageSize, offset int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(offset/pageSize))
	q.Set("size", strconv.Itoa(pageSize))
	return q
}

// ScanProjectAPI lists static-analysis projects.
type ScanProjectAPI struct {
	client *Client
}

// NewScanProjectAPI creates a scan project source.
func NewScanProjectAPI(client *Client) *ScanProjectAPI {
	return &ScanProjectAPI{client: client}
}

// FetchPage returns one page of projects whose name contains filter.Name.
func (s *ScanProjectAPI) FetchPage(
	ctx context.Context,
	filter domain.ScanProjectFilter,
	pageSize, offset int,
) ([]domain.ScanProject, error) {
	q := sastQuery(pageSize, offset)
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}

	var resp sastPage[scanProjectJSON]
	if err := s.client.get(ctx, s.client.sastPath("projects"), q, &resp); err != nil {
		return nil, fmt.Errorf("list scan projects: %w", err)
	}
	return mapAll(resp.Content, scanProjectJSON.toDomain), nil
}

// ScanResultAPI lists the findings of one scan.
type ScanResultAPI struct {
	client *Client
}

// NewScanResultAPI creates a scan finding source.
func NewScanResultAPI(client *Client) *ScanResultAPI {
	return &ScanResultAPI{client: client}
}

// FetchPage returns one page of result instances.
func (s *ScanResultAPI) FetchPage(
	ctx context.Context,
	filter domain.ScanFindingFilter,
	pageSize, offset int,
) ([]domain.ScanFinding, error) {
	path := s.client.sastPath("projects", filter.ProjectID, "scans", filter.ScanID, "result-instances")

	var resp sastPage[scanFindingJSON]
	if err := s.client.get(ctx, path, sastQuery(pageSize, offset), &resp); err != nil {
		return nil, fmt.Errorf("list scan findings: %w", err)
	}
	return mapAll(resp.Content, scanFindingJSON.toDomain), nil
}
