package gate

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/subscription-gate/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/subscription-gate/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/subscription-gate/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/subscription-gate/internal/http/handlers/health"
	profileread "github.com/magabrotheeeer/subscription-gate/internal/http/handlers/profile/read"
	"github.com/magabrotheeeer/subscription-gate/internal/http/middlewarectx"
	gateservice "github.com/magabrotheeeer/subscription-gate/internal/services/gate"
	identityservice "github.com/magabrotheeeer/subscription-gate/internal/services/identity"
	statusservice "github.com/magabrotheeeer/subscription-gate/internal/services/status"
	"github.com/magabrotheeeer/subscription-gate/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	db *repository.Storage,
	identityService *identityservice.IdentityService,
	gateService *gateservice.GateService,
	statusService *statusservice.StatusService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, gateService).ServeHTTP)
		r.Post("/login", login.New(logger, gateService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(identityService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			// Выход доступен всегда, даже с истекшей подпиской.
			r.Post("/logout", logout.New(logger, gateService).ServeHTTP)
			r.With(middlewarectx.SubscriptionStatusMiddleware(logger, gateService)).
				Get("/profile", profileread.New(logger, statusService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
