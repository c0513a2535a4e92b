// Package portal предоставляет маршруты приложения.
package portal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/eigengram/services-portal/internal/http/handlers/account/onboard"
	accountread "github.com/eigengram/services-portal/internal/http/handlers/account/read"
	accountupdate "github.com/eigengram/services-portal/internal/http/handlers/account/update"
	frcreate "github.com/eigengram/services-portal/internal/http/handlers/featurerequest/create"
	frlist "github.com/eigengram/services-portal/internal/http/handlers/featurerequest/list"
	frupdatestatus "github.com/eigengram/services-portal/internal/http/handlers/featurerequest/updatestatus"
	"github.com/eigengram/services-portal/internal/http/handlers/health"
	servicecreate "github.com/eigengram/services-portal/internal/http/handlers/service/create"
	servicelist "github.com/eigengram/services-portal/internal/http/handlers/service/list"
	servicelistall "github.com/eigengram/services-portal/internal/http/handlers/service/listall"
	serviceread "github.com/eigengram/services-portal/internal/http/handlers/service/read"
	sublist "github.com/eigengram/services-portal/internal/http/handlers/subscription/list"
	sublistall "github.com/eigengram/services-portal/internal/http/handlers/subscription/listall"
	subrequest "github.com/eigengram/services-portal/internal/http/handlers/subscription/request"
	subupdate "github.com/eigengram/services-portal/internal/http/handlers/subscription/update"
	userlist "github.com/eigengram/services-portal/internal/http/handlers/user/list"
	"github.com/eigengram/services-portal/internal/http/middlewarectx"
	"github.com/eigengram/services-portal/internal/services/account"
	"github.com/eigengram/services-portal/internal/services/authgate"
	"github.com/eigengram/services-portal/internal/services/directory"
	"github.com/eigengram/services-portal/internal/services/lifecycle"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	gate *authgate.Gate, tokenParser middlewarectx.TokenParser,
	directoryService *directory.Directory, lifecycleManager *lifecycle.Manager,
	accountService *account.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.ServeHTTP)

		// Группа с сессией identity-провайдера
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(tokenParser, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			// Онбординг доступен до появления локального пользователя
			r.Post("/onboarding", onboard.New(logger, accountService).ServeHTTP)

			// Группа с локальным пользователем
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.UserMiddleware(accountService, logger))
				r.Get("/account", accountread.New(logger, accountService).ServeHTTP)
				r.Put("/account", accountupdate.New(logger, accountService).ServeHTTP)
				r.Get("/services", servicelist.New(logger, directoryService).ServeHTTP)
				r.Get("/services/{id}", serviceread.New(logger, directoryService).ServeHTTP)
				r.Post("/services/{id}/subscribe", subrequest.New(logger, lifecycleManager).ServeHTTP)
				r.Get("/subscriptions", sublist.New(logger, lifecycleManager).ServeHTTP)
				r.Post("/feature-requests", frcreate.New(logger, accountService).ServeHTTP)
			})

			// Админка: allow-list проверяется на каждом запросе
			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(gate, logger))
				r.Post("/services", servicecreate.New(logger, directoryService).ServeHTTP)
				r.Get("/services", servicelistall.New(logger, directoryService).ServeHTTP)
				r.Get("/users", userlist.New(logger, accountService).ServeHTTP)
				r.Get("/subscriptions", sublistall.New(logger, lifecycleManager).ServeHTTP)
				r.Post("/subscriptions/{id}/{action}", subupdate.New(logger, lifecycleManager).ServeHTTP)
				r.Get("/feature-requests", frlist.New(logger, accountService).ServeHTTP)
				r.Patch("/feature-requests/{id}", frupdatestatus.New(logger, accountService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
