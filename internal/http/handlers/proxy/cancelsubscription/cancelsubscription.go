// Package cancelsubscription реализует HTTP-обработчик отмены подписки.
//
// Пользователь берётся из контекста (см. middlewarectx.AuthMiddleware);
// подписка отменяется только если принадлежит ему.
package cancelsubscription

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/executive-coach/internal/http/middlewarectx"
	"github.com/magabrotheeeer/executive-coach/internal/http/response"
	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/lib/sl"
	"github.com/magabrotheeeer/executive-coach/internal/models"
	"github.com/magabrotheeeer/executive-coach/internal/paymentprovider"
)

// Request тело запроса.
type Request struct {
	SubscriptionID string `json:"subscriptionId" validate:"required" example:"sub_1NXXXX"`
}

// Subscription отменённая подписка.
type Subscription struct {
	ID         string `json:"id"`
	Status     string `json:"status" example:"canceled"`
	CanceledAt *int64 `json:"canceled_at"`
}

// Response тело ответа.
type Response struct {
	Success      bool         `json:"success"`
	Subscription Subscription `json:"subscription"`
}

// Service описывает отмену подписки.
type Service interface {
	Cancel(ctx context.Context, user models.Identity, subscriptionID string) (*paymentprovider.CanceledSubscription, error)
}

// Observer учитывает вызовы внешних API.
type Observer interface {
	ObserveUpstream(provider string, err error)
}

// Handler обрабатывает POST /cancel-subscription.
type Handler struct {
	log      *slog.Logger
	service  Service
	observer Observer
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service, observer Observer) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		observer: observer,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отменить подписку
// @Description Отменяет подписку, если она принадлежит вызывающему пользователю.
// @Tags Proxy
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Идентификатор подписки"
// @Success 200 {object} Response
// @Failure 500 {object} response.ErrorResponse
// @Router /cancel-subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proxy.cancelsubscription"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFrom(r.Context())
	if !ok {
		log.Error("user not found in context")
		response.Fail(w, r, apperr.Auth("User not authenticated"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.Fail(w, r, apperr.InvalidInput("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		response.Fail(w, r, response.ValidationError(err))
		return
	}

	sub, err := h.service.Cancel(r.Context(), user, req.SubscriptionID)
	h.observer.ObserveUpstream(paymentprovider.Provider, err)
	if err != nil {
		log.Error("failed to cancel subscription",
			slog.String("kind", apperr.Kind(err)),
			slog.String("subscription_id", req.SubscriptionID),
			sl.Err(err),
		)
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, Response{
		Success: true,
		Subscription: Subscription{
			ID:         sub.ID,
			Status:     sub.Status,
			CanceledAt: sub.CanceledAt,
		},
	})
}
