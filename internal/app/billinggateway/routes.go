// Package billinggateway собирает HTTP-приложение биллингового шлюза.
package billinggateway

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/foundersignal/billing-gateway/internal/http/handlers/billing/webhook"
	checkoutcreate "github.com/foundersignal/billing-gateway/internal/http/handlers/checkout/create"
	"github.com/foundersignal/billing-gateway/internal/http/handlers/health"
	investmentcreate "github.com/foundersignal/billing-gateway/internal/http/handlers/investment/create"
	notificationlist "github.com/foundersignal/billing-gateway/internal/http/handlers/notification/list"
	"github.com/foundersignal/billing-gateway/internal/http/handlers/notification/markallread"
	"github.com/foundersignal/billing-gateway/internal/http/handlers/notification/markread"
	"github.com/foundersignal/billing-gateway/internal/http/handlers/notification/stream"
	profileget "github.com/foundersignal/billing-gateway/internal/http/handlers/profile/get"
	profileupdate "github.com/foundersignal/billing-gateway/internal/http/handlers/profile/update"
	"github.com/foundersignal/billing-gateway/internal/http/middlewarectx"
	"github.com/foundersignal/billing-gateway/internal/lib/jwt"
	checkoutservice "github.com/foundersignal/billing-gateway/internal/services/checkout"
	investmentservice "github.com/foundersignal/billing-gateway/internal/services/investment"
	notificationservice "github.com/foundersignal/billing-gateway/internal/services/notification"
	profileservice "github.com/foundersignal/billing-gateway/internal/services/profile"
	reconcilerservice "github.com/foundersignal/billing-gateway/internal/services/reconciler"
	"github.com/foundersignal/billing-gateway/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	verifier *jwt.Verifier,
	webhookSecret string,
	db *repository.Storage,
	checkoutService *checkoutservice.Service,
	reconcilerService *reconcilerservice.Service,
	profileService *profileservice.Service,
	notificationService *notificationservice.Service,
	investmentService *investmentservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Webhook endpoint (без аутентификации, защищён подписью)
		r.Post("/webhooks/billing", webhook.New(logger, reconcilerService, webhookSecret).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(verifier, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/create-checkout-session", checkoutcreate.New(logger, checkoutService).ServeHTTP)

			r.Get("/profile", profileget.New(logger, profileService).ServeHTTP)
			r.Put("/profile", profileupdate.New(logger, profileService).ServeHTTP)

			r.Get("/notifications", notificationlist.New(logger, notificationService).ServeHTTP)
			r.Get("/notifications/stream", stream.New(logger, notificationService).ServeHTTP)
			r.Post("/notifications/{id}/read", markread.New(logger, notificationService).ServeHTTP)
			r.Post("/notifications/read-all", markallread.New(logger, notificationService).ServeHTTP)

			// Premium-гейт: доступ только с активной premium-подпиской
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.PremiumRequiredMiddleware(logger, profileService))
				r.Post("/investments", investmentcreate.New(logger, investmentService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
