package contrast

import (
	"context"
	"fmt"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
)

// Ensure LibraryAPI implements the interface.
var _ driven.LibrarySource = (*LibraryAPI)(nil)

// LibraryAPI lists the libraries of an application.
type LibraryAPI struct {
	client *Client
}

// NewLibraryAPI creates a library source.
func NewLibraryAPI(client *Client) *LibraryAPI {
	return &LibraryAPI{client: client}
}

// FetchPage returns one page of libraries with their CVEs.
func (l *LibraryAPI) FetchPage(ctx context.Context, filter domain.LibraryFilter, pageSize, offset int) ([]domain.Library, error) {
	q := pageQuery(pageSize, offset)
	q.Set("expand", "vulns,skip_links")

	var resp librariesResponse
	path := l.client.orgPath("applications", filter.AppID, "libraries")
	if err := l.client.get(ctx, path, q, &resp); err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	return mapAll(resp.Libraries, libraryJSON.toDomain), nil
}
