package contrast

import (
	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

// Sources bundles every platform source sharing one client, and with it
// one rate limiter.
type Sources struct {
	Applications    *ApplicationAPI
	Vulnerabilities *VulnerabilityAPI
	Attacks         *AttackAPI
	Libraries       *LibraryAPI
	Routes          *RouteAPI
	Sessions        *SessionAPI
	ScanProjects    *ScanProjectAPI
	ScanResults     *ScanResultAPI
}

// New validates settings and creates the platform sources.
func New(settings domain.ConnectionSettings) (*Sources, error) {
	cfg, err := ParseConfig(settings)
	if err != nil {
		return nil, err
	}
	client := NewClient(cfg)
	return &Sources{
		Applications:    NewApplicationAPI(client),
		Vulnerabilities: NewVulnerabilityAPI(client),
		Attacks:         NewAttackAPI(client),
		Libraries:       NewLibraryAPI(client),
		Routes:          NewRouteAPI(client),
		Sessions:        NewSessionAPI(client),
		ScanProjects:    NewScanProjectAPI(client),
		ScanResults:     NewScanResultAPI(client),
	}, nil
}
