// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "fortinat-shop/internal/api"
	"fortinat-shop/internal/api/handler"
	"fortinat-shop/internal/catalog"
	"fortinat-shop/internal/config"
	"fortinat-shop/internal/domain"
	"fortinat-shop/internal/repository"
	"fortinat-shop/internal/repository/migrations"
	"fortinat-shop/internal/repository/sqlstore"
	"fortinat-shop/internal/service"
	"fortinat-shop/internal/util"
	"fortinat-shop/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository        repository.UserRepository
	InventoryRepository   repository.InventoryRepository
	TransactionRepository repository.TransactionRepository

	// Catalog provider, cached
	Catalog *catalog.Cache

	// Services
	AccountService service.AccountService
	LedgerService  service.LedgerService
	CatalogService service.CatalogService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger is not configured yet; report through the default one.
		app.Logger = util.GetLogger()
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.Env)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "env", cfg.Env, "storage", cfg.Storage.Driver)

	// 3. Connect to Database
	database, err := db.Open(cfg.Storage.DB())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if cfg.Storage.AutoMigrate {
		changed, err := migrations.Up(app.DB, cfg.Storage.Driver)
		if err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		app.Logger.Info("Database schema is up to date.", "migrated", changed)
	}

	// 4. Initialize Repositories
	app.UserRepository = sqlstore.NewUserRepository(app.DB)
	app.InventoryRepository = sqlstore.NewInventoryRepository(app.DB)
	app.TransactionRepository = sqlstore.NewTransactionRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Catalog and Services
	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, app.Logger)
	app.Catalog = catalog.NewCache(client, cfg.Catalog.CacheTTL, app.Logger)

	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.AccountService = service.NewAccountService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.InventoryRepository,
		app.TransactionRepository,
		cfg.BcryptCost,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.LedgerService = service.NewLedgerService(
		app.DB,
		app.DB,
		app.UserRepository,
		app.InventoryRepository,
		app.TransactionRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.CatalogService = service.NewCatalogService(app.Catalog, app.Logger)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	app.HTTPHandler = router.NewRouter(router.Handlers{
		Account: handler.NewAccountHandler(app.AccountService, app.Logger),
		Ledger:  handler.NewLedgerHandler(app.LedgerService, app.Logger),
		Catalog: handler.NewCatalogHandler(app.CatalogService, app.AccountService, app.Logger),
	}, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// WarmCatalog fetches every catalog list once so the first browse request is
// served from the cache. Failures are logged; requests retry on their own.
func (app *Application) WarmCatalog(ctx context.Context) {
	fetches := map[string]func(context.Context) ([]domain.Cosmetic, error){
		"all":  app.Catalog.FetchAll,
		"new":  app.Catalog.FetchNew,
		"shop": app.Catalog.FetchShop,
	}
	for list, fetch := range fetches {
		cosmetics, err := fetch(ctx)
		if err != nil {
			app.Logger.Warn("Catalog warm-up failed", "list", list, "error", err)
			continue
		}
		app.Logger.Debug("Catalog list cached", "list", list, "count", len(cosmetics))
	}
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
