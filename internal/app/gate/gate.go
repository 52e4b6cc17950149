// Package gate собирает HTTP-приложение шлюза подписок: хранилище,
// миграции, кэш, брокер уведомлений, сервисы и маршруты.
package gate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/subscription-gate/internal/cache"
	"github.com/magabrotheeeer/subscription-gate/internal/config"
	"github.com/magabrotheeeer/subscription-gate/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-gate/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-gate/internal/metrics"
	"github.com/magabrotheeeer/subscription-gate/internal/migrations"
	"github.com/magabrotheeeer/subscription-gate/internal/notifier"
	"github.com/magabrotheeeer/subscription-gate/internal/rabbitmq"
	gateservice "github.com/magabrotheeeer/subscription-gate/internal/services/gate"
	identityservice "github.com/magabrotheeeer/subscription-gate/internal/services/identity"
	statusservice "github.com/magabrotheeeer/subscription-gate/internal/services/status"
	"github.com/magabrotheeeer/subscription-gate/internal/session"
	"github.com/magabrotheeeer/subscription-gate/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var events notifier.Notifier = notifier.Nop{}
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQURL, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			return nil, err
		}
		events = notifier.New(ch, logger)
	}

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	identityService := identityservice.NewIdentityService(db, jwtMaker)
	sessionStore := session.NewStore()
	gateService := gateservice.NewGateService(
		identityService, db, cacheRedis, sessionStore,
		events, collector, cfg.TrialDuration, logger)
	statusService := statusservice.NewStatusService(db, cfg.StatusRefreshInterval, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, identityService, gateService, statusService)

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
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close database", sl.Err(cerr))
		}
		return err
	}
}
