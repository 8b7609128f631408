package api

import (
	"log/slog"

	"github.com/ludoteca/server/internal/catalog"
	"github.com/ludoteca/server/internal/config"
	"github.com/ludoteca/server/internal/friend"
	"github.com/ludoteca/server/internal/game"
	"github.com/ludoteca/server/internal/loan"
	"github.com/ludoteca/server/internal/repository"
	"github.com/ludoteca/server/internal/storage"
)

// App holds all application dependencies
type App struct {
	Config  *config.Config
	DB      *storage.DB
	Friends *friend.Service
	Games   *game.Service
	Loans   *loan.Service

	// ImportJob is nil when no catalog URL is configured.
	ImportJob *catalog.Job
}

// AppConfig holds configuration for application initialization
type AppConfig struct {
	Config *config.Config
	DB     *storage.DB

	// LoanEvents and CatalogEvents may be nil; events are then dropped.
	LoanEvents    loan.EventPublisher
	CatalogEvents catalog.EventPublisher
}

// NewApp creates a new application instance with all dependencies wired
func NewApp(cfg AppConfig) (*App, error) {
	app := &App{
		Config: cfg.Config,
		DB:     cfg.DB,
	}

	uow := repository.NewSQLUnitOfWork(cfg.DB)

	app.Friends = friend.NewService(uow)
	app.Games = game.NewService(uow)
	app.Loans = loan.NewService(uow, cfg.LoanEvents)

	if cfg.Config.CatalogURL != "" {
		source := catalog.NewResilientSource(
			catalog.NewHTTPSource(cfg.Config.CatalogURL),
			slog.Default(),
		)
		reconciler := catalog.NewReconciler(uow.Games())
		app.ImportJob = catalog.NewJob(source, reconciler, cfg.CatalogEvents)
	}

	return app, nil
}

// Close cleans up application resources
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
