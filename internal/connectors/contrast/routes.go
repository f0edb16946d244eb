package contrast

import (
	"context"
	"fmt"
	"net/url"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
)

// Ensure RouteAPI implements the interface.
var _ driven.RouteSource = (*RouteAPI)(nil)

// RouteAPI reads route coverage.
type RouteAPI struct {
	client *Client
}

// NewRouteAPI creates a route source.
func NewRouteAPI(client *Client) *RouteAPI {
	return &RouteAPI{client: client}
}

type routeMetadataFilter struct {
	Label  string   `json:"label"`
	Values []string `json:"values,omitempty"`
}

type routeFilterBody struct {
	SessionID string                `json:"sessionId,omitempty"`
	Metadata  []routeMetadataFilter `json:"metadata,omitempty"`
}

// List returns every route of an application. Session criteria are
// applied by the platform.
func (r *RouteAPI) List(ctx context.Context, filter domain.RouteFilter) ([]domain.Route, error) {
	body := routeFilterBody{SessionID: filter.SessionID}
	if filter.MetadataName != "" {
		mf := routeMetadataFilter{Label: filter.MetadataName}
		if filter.MetadataValue != "" {
			mf.Values = []string{filter.MetadataValue}
		}
		body.Metadata = []routeMetadataFilter{mf}
	}

	q := url.Values{}
	q.Set("expand", "observations,skip_links")

	var resp routesResponse
	path := r.client.orgPath("applications", filter.AppID, "route", "filter")
	if err := r.client.post(ctx, path, q, body, &resp); err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return mapAll(resp.Routes, routeJSON.toDomain), nil
}
