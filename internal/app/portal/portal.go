// Package portal собирает приложение портала: хранилище, кеш, шину событий,
// бизнес-логику и HTTP-сервер.
package portal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/eigengram/services-portal/internal/cache"
	"github.com/eigengram/services-portal/internal/config"
	"github.com/eigengram/services-portal/internal/events"
	"github.com/eigengram/services-portal/internal/lib/token"
	"github.com/eigengram/services-portal/internal/migrations"
	"github.com/eigengram/services-portal/internal/services/account"
	"github.com/eigengram/services-portal/internal/services/authgate"
	"github.com/eigengram/services-portal/internal/services/directory"
	"github.com/eigengram/services-portal/internal/services/lifecycle"
	"github.com/eigengram/services-portal/internal/storage"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := events.Connect(cfg.RabbitConnectionString, 5, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := events.SetupChannel(rabbitConn)
	if err != nil {
		return nil, err
	}
	bus := events.NewPublisher(rabbitCh)

	gate := authgate.New(cfg.AdminEmails)
	tokenMaker := token.NewMaker(cfg.SecretKey, cfg.TokenTTL)

	directoryService := directory.New(db, cacheRedis, bus, logger)
	lifecycleManager := lifecycle.New(db, cacheRedis, bus, logger)
	accountService := account.New(db, cacheRedis, bus, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, gate, tokenMaker,
		directoryService, lifecycleManager, accountService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
