package main

import (
	"fmt"
	"os"

	"github.com/carteira-app/carteira/internal/auth"
	"github.com/carteira-app/carteira/internal/clients/ledger"
	"github.com/carteira-app/carteira/internal/common"
	"github.com/carteira-app/carteira/internal/interfaces"
	"github.com/carteira-app/carteira/internal/services/importer"
	"github.com/carteira-app/carteira/internal/storage"
)

// appContext holds the configured client, service, and optional local
// history store shared by all subcommands.
type appContext struct {
	Config  *common.Config
	Logger  *common.Logger
	Client  *ledger.Client
	Service *importer.Service
	History interfaces.DocumentHistoryStore

	flush func()
}

// newAppContext loads configuration and wires the client and services.
// withHistory controls whether the local BadgerHold history is opened —
// commands that never touch it skip the database entirely.
func newAppContext(withHistory bool) (*appContext, error) {
	config, err := common.LoadConfig(os.Getenv("CARTEIRA_CONFIG"), "carteira.toml")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	flush, err := common.InitReporting(config, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize error reporting")
		flush = func() {}
	}

	var tokens auth.TokenSource
	if config.API.Token != "" {
		tokens = auth.StaticTokenSource(config.API.Token)
	}

	client := ledger.NewClient(tokens,
		ledger.WithBaseURL(config.API.BaseURL),
		ledger.WithLogger(logger),
		ledger.WithTimeout(config.API.GetTimeout()),
		ledger.WithRateLimit(config.API.RateLimit),
	)

	var history interfaces.DocumentHistoryStore
	if withHistory {
		store, err := storage.NewStore(logger, config.Storage.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("Local history unavailable")
		} else {
			history = storage.NewDocumentHistory(store, logger)
		}
	}

	service := importer.NewService(client, history, logger,
		importer.WithPollInterval(config.API.GetPollInterval()),
		importer.WithMaxFileSize(config.Upload.MaxFileSizeBytes()),
	)

	return &appContext{
		Config:  config,
		Logger:  logger,
		Client:  client,
		Service: service,
		History: history,
		flush:   flush,
	}, nil
}

// Close releases the history store and flushes error reporting.
func (a *appContext) Close() {
	if a.History != nil {
		if err := a.History.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close history store")
		}
	}
	a.flush()
}

// fail prints an error for the user and returns false for chaining.
func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
