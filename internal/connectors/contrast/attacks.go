package contrast

import (
	"context"
	"fmt"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
)

// Ensure AttackAPI implements the interface.
var _ driven.AttackSource = (*AttackAPI)(nil)

// AttackAPI lists protect attacks.
type AttackAPI struct {
	client *Client
}

// NewAttackAPI creates an attack source.
func NewAttackAPI(client *Client) *AttackAPI {
	return &AttackAPI{client: client}
}

type attackFilterBody struct {
	QuickFilter string `json:"quickFilter"`
	Keyword     string `json:"keyword,omitempty"`
}

// FetchPage returns one page of attacks.
func (a *AttackAPI) FetchPage(ctx context.Context, filter domain.AttackFilter, pageSize, offset int) ([]domain.Attack, error) {
	quick := filter.QuickFilter
	if quick == "" {
		quick = domain.AttackFilterAll
	}

	q := pageQuery(pageSize, offset)
	q.Set("expand", "skip_links")
	body := attackFilterBody{QuickFilter: string(quick), Keyword: filter.Keyword}

	var resp attacksResponse
	if err := a.client.post(ctx, a.client.orgPath("attacks"), q, body, &resp); err != nil {
		return nil, fmt.Errorf("list attacks: %w", err)
	}
	return mapAll(resp.Attacks, attackJSON.toDomain), nil
}
