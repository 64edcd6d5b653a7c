package app

import (
	"github.com/kabureco/kabureco/internal/common"
	"github.com/kabureco/kabureco/internal/config"
	"github.com/kabureco/kabureco/internal/handlers"
	"github.com/kabureco/kabureco/internal/interfaces"
	"github.com/kabureco/kabureco/internal/ledger"
	"github.com/kabureco/kabureco/internal/mcp"
	"github.com/kabureco/kabureco/internal/storage"
)

// App holds all application components and dependencies.
type App struct {
	Config  *config.Config
	Logger  *common.Logger
	Storage interfaces.StorageManager
	Ledger  *ledger.Ledger

	// HTTP handlers
	HoldingsHandler *handlers.HoldingsHandler
	SellHandler     *handlers.SellHandler
	APIHandler      *handlers.APIHandler
	HealthHandler   *handlers.HealthHandler
	VersionHandler  *handlers.VersionHandler
	MCPHandler      *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	manager, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, err
	}
	a.Storage = manager
	a.Ledger = ledger.New(manager.KeyValueStorage(), logger)

	a.initHandlers()

	logger.Info().
		Str("driver", cfg.Storage.Driver).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	templates := handlers.NewTemplates()

	a.HoldingsHandler = handlers.NewHoldingsHandler(a.Logger, a.Ledger, templates)
	a.SellHandler = handlers.NewSellHandler(a.Logger, a.Ledger, templates)
	a.APIHandler = handlers.NewAPIHandler(a.Logger, a.Ledger)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.MCPHandler = mcp.NewHandler(a.Ledger, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
