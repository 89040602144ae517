// Package demoaccount реализует HTTP-обработчик выдачи демо-аккаунта для ревьюеров.
package demoaccount

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/executive-coach/internal/http/response"
	"github.com/magabrotheeeer/executive-coach/internal/identityprovider"
	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/lib/sl"
	"github.com/magabrotheeeer/executive-coach/internal/models"
	"github.com/magabrotheeeer/executive-coach/internal/services/account"
)

const (
	msgCreated = "Demo account created successfully"
	msgExists  = "Demo account already exists"
)

// Response тело ответа.
type Response struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	Credentials models.Credentials `json:"credentials"`
	UserID      string             `json:"user_id,omitempty"`
}

// Service описывает выдачу демо-аккаунта.
type Service interface {
	ProvisionDemo(ctx context.Context) (*account.DemoAccount, error)
}

// Observer учитывает вызовы внешних API.
type Observer interface {
	ObserveUpstream(provider string, err error)
}

// Handler обрабатывает POST /create-demo-account.
type Handler struct {
	log      *slog.Logger
	service  Service
	observer Observer
}

// New создает Handler.
func New(log *slog.Logger, service Service, observer Observer) *Handler {
	return &Handler{log: log, service: service, observer: observer}
}

// ServeHTTP godoc
// @Summary Демо-аккаунт
// @Description Создаёт общий демо-аккаунт при первом вызове; повторные вызовы возвращают те же учётные данные.
// @Tags Proxy
// @Produce  json
// @Success 200 {object} Response
// @Failure 500 {object} response.ErrorResponse
// @Router /create-demo-account [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proxy.demoaccount"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	demo, err := h.service.ProvisionDemo(r.Context())
	h.observer.ObserveUpstream(identityprovider.Provider, err)
	if err != nil {
		log.Error("failed to provision demo account", slog.String("kind", apperr.Kind(err)), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	msg := msgExists
	if demo.Created {
		msg = msgCreated
	}
	log.Info(msg, slog.String("user_id", demo.UserID))
	render.JSON(w, r, Response{
		Success:     true,
		Message:     msg,
		Credentials: demo.Credentials,
		UserID:      demo.UserID,
	})
}
