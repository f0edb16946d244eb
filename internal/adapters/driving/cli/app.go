package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/appsec-mcp/internal/adapters/driven/config/file"
	"github.com/custodia-labs/appsec-mcp/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/appsec-mcp/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/appsec-mcp/internal/adapters/driving/mcp"
	"github.com/custodia-labs/appsec-mcp/internal/connectors/contrast"
	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/appsec-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/appsec-mcp/internal/core/services"
	"github.com/custodia-labs/appsec-mcp/internal/logger"
)

// configWatcher is implemented by config stores that can reload on change.
type configWatcher interface {
	Watch(ctx context.Context, onChange func(error)) error
}

// application holds the wired services shared by every command.
type application struct {
	settings driving.SettingsService
	ports    *mcp.Ports
	watcher  configWatcher
	verbose  bool
	closers  []func() error
}

// app is set by setup, or directly by tests.
var app *application

// newApp loads configuration from configDir and wires the services.
func newApp(configDir string) (*application, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	a, err := wire(store, services.NewSettingsService(store))
	if err != nil {
		return nil, err
	}
	a.watcher = store
	return a, nil
}

// platform holds the remote sources as interfaces. Fields stay nil when the
// connection is not configured so services report domain.ErrNotConfigured.
type platform struct {
	apps     driven.ApplicationSource
	vulns    driven.VulnerabilitySource
	attacks  driven.AttackSource
	libs     driven.LibrarySource
	routes   driven.RouteSource
	sessions driven.SessionSource
	projects driven.ScanProjectSource
	findings driven.ScanFindingSource
}

func connect(conn domain.ConnectionSettings) platform {
	src, err := contrast.New(conn)
	if err != nil {
		logger.Warn("platform connection unavailable: %v", err)
		return platform{}
	}
	return platform{
		apps:     src.Applications,
		vulns:    src.Vulnerabilities,
		attacks:  src.Attacks,
		libs:     src.Libraries,
		routes:   src.Routes,
		sessions: src.Sessions,
		projects: src.ScanProjects,
		findings: src.ScanResults,
	}
}

// wire builds every service from the settings held in store.
func wire(store driven.ConfigStore, settingsSvc *services.SettingsService) (*application, error) {
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings from %s: %w", store.Path(), err)
	}

	a := &application{settings: settingsSvc, verbose: settings.Verbose}

	cache, err := openCache(settings.Cache)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		a.closers = append(a.closers, cache.Close)
	}

	p := connect(settings.Connection)
	ttl := settings.Cache.TTL

	sessionSvc := services.NewSessionService(p.sessions)
	routeSvc := services.NewRouteService(p.routes)
	routeSvc.SetSessionService(sessionSvc)

	vulnSvc := services.NewVulnerabilityService(p.vulns, settingsSvc)
	vulnSvc.SetSessionService(sessionSvc)

	appSvc := services.NewApplicationService(p.apps, settingsSvc)
	appSvc.SetSummarySources(p.libs, routeSvc, sessionSvc)

	if cache != nil {
		scope := services.CacheScope(settings.Connection)
		sessionSvc.SetCache(cache, scope, ttl)
		appSvc.SetCache(cache, scope, ttl)
	}

	a.ports = &mcp.Ports{
		Applications:    appSvc,
		Vulnerabilities: vulnSvc,
		Attacks:         services.NewAttackService(p.attacks, settingsSvc),
		Libraries:       services.NewLibraryService(p.libs, settingsSvc),
		Routes:          routeSvc,
		Sessions:        sessionSvc,
		Scans:           services.NewScanService(p.projects, p.findings, settingsSvc),
		Settings:        settingsSvc,
	}
	return a, nil
}

// openCache returns the configured result cache, or nil when disabled.
func openCache(cfg domain.CacheSettings) (driven.Cache, error) {
	switch cfg.Backend {
	case domain.CacheBackendNone:
		return nil, nil
	case domain.CacheBackendSQLite:
		store, err := sqlite.NewStore(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("opening cache database: %w", err)
		}
		logger.Debug("result cache: %s", store.Path())
		return store.Cache(), nil
	default:
		return memory.NewCache(), nil
	}
}

// closeApp releases resources held by the wired services.
func closeApp() {
	if app == nil {
		return
	}
	var errs []error
	for _, c := range app.closers {
		errs = append(errs, c())
	}
	if err := errors.Join(errs...); err != nil {
		logger.Warn("closing resources: %v", err)
	}
	app.closers = nil
}
