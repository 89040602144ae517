// Package deleteaccount реализует HTTP-обработчик удаления аккаунта.
//
// Любая ошибка возвращается статусом 200 с success=false.
package deleteaccount

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/executive-coach/internal/http/middlewarectx"
	"github.com/magabrotheeeer/executive-coach/internal/http/response"
	"github.com/magabrotheeeer/executive-coach/internal/identityprovider"
	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/lib/sl"
	"github.com/magabrotheeeer/executive-coach/internal/models"
)

// Service описывает удаление аккаунта.
type Service interface {
	Delete(ctx context.Context, user models.Identity) error
}

// Observer учитывает вызовы внешних API.
type Observer interface {
	ObserveUpstream(provider string, err error)
}

// Handler обрабатывает POST /delete-account.
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
// @Summary Удалить аккаунт
// @Description Удаляет профиль и учётную запись пользователя. Ошибки возвращаются с кодом 200 и success=false.
// @Tags Proxy
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.StatusResponse
// @Router /delete-account [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proxy.deleteaccount"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFrom(r.Context())
	if !ok {
		log.Error("user not found in context")
		response.FailSoft(w, r, apperr.Auth("User not authenticated"))
		return
	}

	err := h.service.Delete(r.Context(), user)
	h.observer.ObserveUpstream(identityprovider.Provider, err)
	if err != nil {
		log.Error("failed to delete account", slog.String("kind", apperr.Kind(err)), sl.Err(err))
		response.FailSoft(w, r, err)
		return
	}

	log.Info("account deleted", slog.String("user_id", user.ID))
	render.JSON(w, r, response.StatusResponse{Success: true, Message: "Account deleted successfully"})
}
