package contrast

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
)

// Ensure VulnerabilityAPI implements the interface.
var _ driven.VulnerabilitySource = (*VulnerabilityAPI)(nil)

const traceExpand = "session_metadata,application,server_environments,skip_links"

// VulnerabilityAPI lists and fetches traces, the platform's name for
// vulnerabilities.
type VulnerabilityAPI struct {
	client *Client
}

// NewVulnerabilityAPI creates a vulnerability source.
func NewVulnerabilityAPI(client *Client) *VulnerabilityAPI {
	return &VulnerabilityAPI{client: client}
}

// traceFilterBody is the POST body of the trace filter endpoints.
type traceFilterBody struct {
	Severities      []string `json:"severities,omitempty"`
	Status          []string `json:"status,omitempty"`
	Environments    []string `json:"environments,omitempty"`
	VulnTypes       []string `json:"vulnTypes,omitempty"`
	FilterTags      []string `json:"filterTags,omitempty"`
	StartDate       int64    `json:"startDate,omitempty"`
	EndDate         int64    `json:"endDate,omitempty"`
	TimestampFilter string   `json:"timestampFilter,omitempty"`
}

func newTraceFilterBody(f domain.VulnerabilityFilter) traceFilterBody {
	body := traceFilterBody{
		Severities:   mapAll(f.Severities, func(s domain.Severity) string { return string(s) }),
		Status:       mapAll(f.Statuses, func(s domain.VulnerabilityStatus) string { return string(s) }),
		Environments: mapAll(f.Environments, func(e domain.Environment) string { return string(e) }),
		VulnTypes:    f.VulnTypes,
		FilterTags:   f.Tags,
	}
	if f.LastSeenAfter != nil {
		body.StartDate = f.LastSeenAfter.UnixMilli()
	}
	if f.LastSeenBefore != nil {
		body.EndDate = f.LastSeenBefore.UnixMilli()
	}
	if body.StartDate != 0 || body.EndDate != 0 {
		body.TimestampFilter = "LAST"
	}
	return body
}

// FetchPage returns one page of vulnerabilities, organisation-wide when
// filter.AppID is empty.
func (v *VulnerabilityAPI) FetchPage(
	ctx context.Context,
	filter domain.VulnerabilityFilter,
	pageSize, offset int,
) ([]domain.Vulnerability, error) {
	path := v.client.orgPath("orgtraces", "filter")
	if filter.AppID != "" {
		path = v.client.orgPath("traces", filter.AppID, "filter")
	}

	q := pageQuery(pageSize, offset)
	q.Set("expand", traceExpand)

	var resp tracesResponse
	if err := v.client.post(ctx, path, q, newTraceFilterBody(filter), &resp); err != nil {
		return nil, fmt.Errorf("list vulnerabilities: %w", err)
	}
	return mapAll(resp.Traces, traceJSON.toDomain), nil
}

// Get fetches the trace and its story concurrently.
func (v *VulnerabilityAPI) Get(ctx context.Context, appID, vulnID string) (*domain.VulnerabilityDetail, error) {
	var (
		trace traceResponse
		story storyResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := url.Values{}
		q.Set("expand", strings.Join([]string{traceExpand, "request", "recommendation"}, ","))
		return v.client.get(gctx, v.client.orgPath("traces", appID, "trace", vulnID), q, &trace)
	})
	g.Go(func() error {
		err := v.client.get(gctx, v.client.orgPath("traces", vulnID, "story"), nil, &story)
		if IsNotFound(err) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("get vulnerability %s: %w", vulnID, err)
	}
	if trace.Trace.UUID == "" {
		return nil, fmt.Errorf("vulnerability %s: %w", vulnID, domain.ErrNotFound)
	}

	detail := trace.Trace.toDetail(story)
	if detail.AppID == "" {
		detail.AppID = appID
	}
	return &detail, nil
}
