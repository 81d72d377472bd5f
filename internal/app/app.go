// Package app wires configuration, storage and HTTP handlers into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AnshRaj112/contact-manager/internal/config"
	"github.com/AnshRaj112/contact-manager/internal/database"
	"github.com/AnshRaj112/contact-manager/internal/handlers"
	"github.com/AnshRaj112/contact-manager/internal/metrics"
	"github.com/AnshRaj112/contact-manager/internal/middleware"
	"github.com/AnshRaj112/contact-manager/internal/routes"
	"github.com/AnshRaj112/contact-manager/internal/services"
	"github.com/AnshRaj112/contact-manager/pkg/utils"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	cfg     *config.Config
	handler http.Handler
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New builds the service graph on top of an open, migrated database and a session store.
func New(cfg *config.Config, db *sqlx.DB, sessions services.SessionStore, logger *slog.Logger) (*App, error) {
	m := metrics.NewDefault()

	// registration and login share one hasher
	hasher := utils.NewBcryptHasher(cfg.BcryptCost)

	userRepo := database.NewUserRepository(db, logger)
	contactRepo := database.NewContactRepository(db, logger)

	users := services.NewUserService(userRepo, hasher, m, logger)
	auth, err := services.NewAuthenticator(userRepo, hasher, logger)
	if err != nil {
		return nil, err
	}
	contacts := services.NewContactService(contactRepo, logger)

	views, err := handlers.NewViews(logger)
	if err != nil {
		return nil, err
	}

	cookie := middleware.SessionCookie{
		Name:   cfg.SessionCookieName,
		TTL:    cfg.SessionTTL,
		Secure: cfg.IsProduction(),
	}

	web := handlers.NewWebHandler(handlers.WebConfig{
		Contacts: contacts,
		Users:    users,
		Auth:     auth,
		Sessions: sessions,
		Cookie:   cookie,
		Views:    views,
		Metrics:  m,
		Logger:   logger,
	})
	api := handlers.NewAPIHandler(contacts, logger)

	// order matters: an /api path must never reach the web chain's login redirect
	chains := []middleware.Chain{
		middleware.APIChain(auth, logger),
		middleware.WebChain(middleware.WebChainConfig{
			Auth:     auth,
			Sessions: sessions,
			Cookie:   cookie,
			Logger:   logger,
		}),
	}

	handler := routes.NewRouter(routes.Deps{
		Web:            web,
		API:            api,
		Chains:         chains,
		Metrics:        m,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
		RequestTimeout: cfg.RequestTimeout,
	})

	return &App{cfg: cfg, handler: handler, metrics: m, logger: logger}, nil
}

func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("contact manager listening", "addr", server.Addr, "env", a.cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}
