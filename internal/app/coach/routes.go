// Package coach собирает HTTP API сервиса: прокси-функции, гостевую сессию,
// метрики и документацию.
package coach

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация OpenAPI-описания для /docs/*.
	_ "github.com/magabrotheeeer/executive-coach/docs"
	"github.com/magabrotheeeer/executive-coach/internal/config"
	"github.com/magabrotheeeer/executive-coach/internal/http/handlers/guestsession"
	"github.com/magabrotheeeer/executive-coach/internal/http/handlers/proxy/cancelsubscription"
	"github.com/magabrotheeeer/executive-coach/internal/http/handlers/proxy/deleteaccount"
	"github.com/magabrotheeeer/executive-coach/internal/http/handlers/proxy/demoaccount"
	"github.com/magabrotheeeer/executive-coach/internal/http/handlers/proxy/strategychat"
	"github.com/magabrotheeeer/executive-coach/internal/http/handlers/proxy/texttospeech"
	"github.com/magabrotheeeer/executive-coach/internal/http/middlewarectx"
	"github.com/magabrotheeeer/executive-coach/internal/http/response"
	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/metrics"
	"github.com/magabrotheeeer/executive-coach/internal/services/session"
)

// Services — зависимости обработчиков.
type Services struct {
	Strategy  strategychat.Service
	Speech    texttospeech.Service
	Billing   cancelsubscription.Service
	Demo      demoaccount.Service
	Accounts  deleteaccount.Service
	Profiles  guestsession.Profiles
	Auth      middlewarectx.Authenticator
	Sessions  *session.Store
	Scheduler guestsession.Scheduler
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
}

func unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	response.WithStatus(w, r, http.StatusUnauthorized, apperr.Message(err))
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, limits config.RateLimit, svc Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.CORS,
	)

	// Прокси к платным API ИИ ограничены по частоте
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, limits))
		r.Post("/ai-strategy-chat", strategychat.New(logger, svc.Strategy, svc.Metrics).ServeHTTP)
		r.Post("/text-to-speech", texttospeech.New(logger, svc.Speech, svc.Metrics).ServeHTTP)
	})

	r.Post("/create-demo-account", demoaccount.New(logger, svc.Demo, svc.Metrics).ServeHTTP)
	r.With(middlewarectx.AuthMiddleware(svc.Auth, logger, response.Fail)).
		Post("/cancel-subscription", cancelsubscription.New(logger, svc.Billing, svc.Metrics).ServeHTTP)
	r.With(middlewarectx.AuthMiddleware(svc.Auth, logger, response.FailSoft)).
		Post("/delete-account", deleteaccount.New(logger, svc.Accounts, svc.Metrics).ServeHTTP)

	sessions := guestsession.New(logger, svc.Sessions, svc.Scheduler, svc.Profiles, svc.Metrics)
	r.Route("/session", func(r chi.Router) {
		r.Post("/", sessions.Create)
		r.With(middlewarectx.OptionalGuestSessionMiddleware(svc.Sessions, logger)).Post("/sign-out", sessions.SignOut)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.GuestSessionMiddleware(svc.Sessions, logger))
			r.Get("/", sessions.Get)
			r.Patch("/profile", sessions.UpdateProfile)
			r.Post("/trial", sessions.StartTrial)
			r.Get("/notices", sessions.Notices)
			r.With(middlewarectx.AuthMiddleware(svc.Auth, logger, unauthorized)).Post("/sign-in", sessions.SignIn)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(svc.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
