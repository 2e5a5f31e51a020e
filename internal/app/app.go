// Package app wires configuration to concrete stores and services.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MrJamesThe3rd/bankimport/internal/config"
	"github.com/MrJamesThe3rd/bankimport/internal/database"
	"github.com/MrJamesThe3rd/bankimport/internal/importer"
	"github.com/MrJamesThe3rd/bankimport/internal/logging"
	"github.com/MrJamesThe3rd/bankimport/internal/profile"
	"github.com/MrJamesThe3rd/bankimport/internal/profile/filestore"
	profileStore "github.com/MrJamesThe3rd/bankimport/internal/profile/store"
	"github.com/MrJamesThe3rd/bankimport/internal/transaction"
	"github.com/MrJamesThe3rd/bankimport/internal/transaction/mongostore"
	txStore "github.com/MrJamesThe3rd/bankimport/internal/transaction/store"
)

// App holds the services a command needs. Close releases every connection.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Profiles *profile.Service
	Ledger   *transaction.Service

	closers []func() error
}

// New connects the stores selected by cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}
	ctx = logging.WithLogger(ctx, logger)

	var db *sql.DB

	if cfg.NeedsPostgres() {
		var err error

		db, err = database.New(cfg.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}

		a.closers = append(a.closers, db.Close)
	}

	var profiles profile.Repository

	switch cfg.Profiles.Source {
	case config.ProfilesFile:
		fs, err := filestore.Open(cfg.Profiles.File)
		if err != nil {
			a.Close()
			return nil, err
		}

		profiles = fs
	default:
		profiles = profileStore.New(db)
	}

	var ledger transaction.Repository

	switch cfg.Ledger.Driver {
	case config.LedgerMongo:
		client, err := database.NewMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			a.Close()
			return nil, err
		}

		a.closers = append(a.closers, disconnect(client))
		ledger = mongostore.New(client.Database(cfg.Mongo.Database))
	default:
		ledger = txStore.New(db)
	}

	a.Profiles = profile.NewService(profiles)
	a.Ledger = transaction.NewService(ledger)

	logger.Debug("stores ready", "profiles", cfg.Profiles.Source, "ledger", cfg.Ledger.Driver)

	return a, nil
}

// NewWithServices builds an App around already constructed services.
func NewWithServices(cfg *config.Config, logger *slog.Logger, profiles *profile.Service, ledger *transaction.Service) *App {
	return &App{Config: cfg, Logger: logger, Profiles: profiles, Ledger: ledger}
}

// Coordinator returns a fresh import coordinator bound to the app's stores.
func (a *App) Coordinator() *importer.Coordinator {
	return importer.New(a.Profiles, a.Ledger,
		importer.WithLogger(a.Logger),
		importer.WithCodePage(a.Config.Import.DefaultCodePage),
	)
}

func (a *App) Close() error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}

	a.closers = nil

	return errors.Join(errs...)
}

func disconnect(client *mongo.Client) func() error {
	return func() error {
		return client.Disconnect(context.Background())
	}
}
