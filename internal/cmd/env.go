package cmd

import (
	"context"
	"fmt"

	"github.com/Iron-Ham/fintrack/internal/api"
	"github.com/Iron-Ham/fintrack/internal/config"
	"github.com/Iron-Ham/fintrack/internal/errors"
	"github.com/Iron-Ham/fintrack/internal/logging"
	"github.com/Iron-Ham/fintrack/internal/models"
	"github.com/Iron-Ham/fintrack/internal/session"
	"github.com/Iron-Ham/fintrack/internal/tokenstore"
)

// env is what every command runs against: the loaded configuration, the
// token store, the API services and a session controller over them.
type env struct {
	cfg      *config.Config
	logger   *logging.Logger
	store    tokenstore.Store
	auth     *api.AuthAPI
	expenses *api.ExpensesAPI
	session  *session.Controller
}

// newEnv loads the configuration and wires the stack. Callers must Close it.
func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLogger(cfg.Storage.ResolveDataDir(), cfg.Logging.Level, logging.RotationConfig{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open log: %w", err)
		}
	}

	store, err := tokenstore.Open(cfg)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	client := api.NewClient(cfg.API.BaseURL, store,
		api.WithLogger(logger),
		api.WithRefreshOnUnauthorized(cfg.Auth.RefreshOnUnauthorized),
	)

	landing, err := session.ParsePage(cfg.TUI.DefaultPage)
	if err != nil {
		landing = session.PageDashboard
	}

	authAPI := api.NewAuthAPI(client)
	return &env{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		auth:     authAPI,
		expenses: api.NewExpensesAPI(client),
		session: session.New(session.Deps{
			Auth:        authAPI,
			Store:       store,
			Logger:      logger,
			LandingPage: landing,
		}),
	}, nil
}

// Close releases the token store and the log file.
func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("failed to close token store", "error", err.Error())
	}
	_ = e.logger.Close()
}

// requireUser restores the stored session and returns the signed-in user.
func (e *env) requireUser(ctx context.Context) (models.User, error) {
	state := e.session.Boot(ctx)
	s, ok := state.(session.Authenticated)
	if !ok {
		return models.User{}, fmt.Errorf("%w: run 'fintrack login' first", errors.ErrNotAuthenticated)
	}
	return s.User, nil
}

// withEnv runs fn against a fresh env.
func withEnv(fn func(e *env) error) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

// userMessage turns an API error into the text shown to the user.
func userMessage(err error) error {
	if err == nil {
		return nil
	}
	if errors.IsUserFacing(err) {
		return errors.New(errors.Reduce(err))
	}
	return err
}
