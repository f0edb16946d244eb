package contrast

import (
	"context"
	"fmt"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
)

// Ensure ApplicationAPI implements the interface.
var _ driven.ApplicationSource = (*ApplicationAPI)(nil)

// ApplicationAPI lists the organisation's applications.
type ApplicationAPI struct {
	client *Client
}

// NewApplicationAPI creates an application source.
func NewApplicationAPI(client *Client) *ApplicationAPI {
	return &ApplicationAPI{client: client}
}

// FetchPage returns one page of applications with metadata expanded.
func (a *ApplicationAPI) FetchPage(
	ctx context.Context,
	filter domain.ApplicationFilter,
	pageSize, offset int,
) ([]domain.Application, error) {
	q := pageQuery(pageSize, offset)
	q.Set("expand", "metadata,technologies,skip_links")
	if filter.Query != "" {
		q.Set("filterText", filter.Query)
	}

	var resp applicationsResponse
	if err := a.client.get(ctx, a.client.orgPath("applications", "filter"), q, &resp); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return mapAll(resp.Applications, applicationJSON.toDomain), nil
}
