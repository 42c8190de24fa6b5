package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/skilldrones/regionview/config"
	"github.com/skilldrones/regionview/internal/adapters/devauth"
	"github.com/skilldrones/regionview/internal/adapters/geodata"
	"github.com/skilldrones/regionview/internal/adapters/hints"
	"github.com/skilldrones/regionview/internal/adapters/identity"
	domainauth "github.com/skilldrones/regionview/internal/domain/auth"
	"github.com/skilldrones/regionview/internal/domain/route"
	"github.com/skilldrones/regionview/internal/ports"
	"github.com/skilldrones/regionview/internal/service"
	"github.com/skilldrones/regionview/internal/views"
)

// App bundles the wired application components.
type App struct {
	Sessions *service.SessionStore
	Regions  *service.RegionService
	Catalog  *route.Catalog
	Hints    *hints.FileStore
}

// BuildApp wires the application from configuration: hint store, auth
// gateway, session store, region catalog, and the validated route catalog.
func BuildApp(cfg config.AppConfig, logger *slog.Logger) (*App, error) {
	hintStore, err := hints.NewFileStore(cfg.UI.HintsPath)
	if err != nil {
		return nil, fmt.Errorf("create hint store: %w", err)
	}

	gateway, err := buildAuthGateway(cfg, hintStore, logger)
	if err != nil {
		return nil, err
	}

	sessions, err := service.NewSessionStore(service.SessionStoreOptions{
		Gateway: gateway,
		Hints:   hintStore,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create session store: %w", err)
	}

	regionCatalog, err := geodata.NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("load region catalog: %w", err)
	}
	regions, err := service.NewRegionService(service.RegionServiceOptions{Source: regionCatalog})
	if err != nil {
		return nil, fmt.Errorf("create region service: %w", err)
	}

	registry, err := views.Registry(regions)
	if err != nil {
		return nil, fmt.Errorf("build view registry: %w", err)
	}
	catalog, err := route.NewCatalog(domainauth.DefaultHierarchy(), registry, route.DefaultDescriptors())
	if err != nil {
		return nil, fmt.Errorf("build route catalog: %w", err)
	}

	return &App{
		Sessions: sessions,
		Regions:  regions,
		Catalog:  catalog,
		Hints:    hintStore,
	}, nil
}

//nolint:ireturn // Gateway selection depends on configuration.
func buildAuthGateway(cfg config.AppConfig, hintStore ports.HintStore, logger *slog.Logger) (ports.AuthGateway, error) {
	if cfg.Auth.Bypass {
		logger.Warn("auth bypass enabled, backend session check skipped",
			"role", cfg.Auth.BypassRole, "email", cfg.Auth.BypassEmail)
		gw, err := devauth.NewGateway(devauth.Config{
			Email: cfg.Auth.BypassEmail,
			Role:  domainauth.Role(cfg.Auth.BypassRole),
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth gateway: %w", err)
		}
		return gw, nil
	}

	client, err := identity.NewClient(identity.Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Hints:   hintStore,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create identity client: %w", err)
	}
	return client, nil
}
