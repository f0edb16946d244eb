package services

import (
	"context"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/appsec-mcp/internal/core/search"
)

// Ensure AttackService implements the interface.
var _ driving.AttackService = (*AttackService)(nil)

// AttackService searches runtime attacks.
type AttackService struct {
	attacks driven.AttackSource
	limits  driven.LimitsProvider
}

// NewAttackService creates a new attack service.
func NewAttackService(attacks driven.AttackSource, limits driven.LimitsProvider) *AttackService {
	return &AttackService{attacks: attacks, limits: limits}
}

// Search returns one page of attacks. An unset quick filter means ALL.
func (s *AttackService) Search(ctx context.Context, q domain.AttackQuery) (*domain.PagedResult[domain.Attack], error) {
	if s.attacks == nil {
		return nil, domain.ErrNotConfigured
	}
	q.Page = q.Page.Normalise()
	if q.Filter.QuickFilter == "" {
		q.Filter.QuickFilter = domain.AttackFilterAll
	}

	engine := search.NewEngine[domain.AttackFilter, domain.Attack]("attacks", s.attacks, s.limits.SearchLimits())
	return pageOf(engine.Search(ctx, q.Filter, search.Always[domain.Attack](), q.Page.Target()), q.Page)
}
