// Package strategychat реализует HTTP-обработчик стратегического чата.
//
// Handler принимает вопрос пользователя, его роль, цель и историю диалога,
// передаёт их языковой модели и возвращает ответ модели без изменений.
package strategychat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/executive-coach/internal/http/response"
	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/lib/sl"
	"github.com/magabrotheeeer/executive-coach/internal/llmprovider"
	"github.com/magabrotheeeer/executive-coach/internal/services/strategy"
)

// Request тело запроса.
type Request struct {
	Message             string          `json:"message" validate:"required" example:"How should I prioritise next quarter?"`
	UserRole            string          `json:"userRole" example:"CEO"`
	UserObjective       string          `json:"userObjective" example:"Scale operations"`
	ConversationHistory []strategy.Turn `json:"conversationHistory"`
}

// Response тело ответа.
type Response struct {
	Response string `json:"response"`
	Model    string `json:"model" example:"gpt-4o-mini"`
}

// Service описывает стратегический чат.
type Service interface {
	Ask(ctx context.Context, req strategy.Request) (*strategy.Reply, error)
}

// Observer учитывает вызовы внешних API.
type Observer interface {
	ObserveUpstream(provider string, err error)
}

// Handler обрабатывает POST /ai-strategy-chat.
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
// @Summary Стратегический чат
// @Description Передаёт вопрос и историю диалога языковой модели с системным промптом под роль и цель пользователя.
// @Tags Proxy
// @Accept  json
// @Produce  json
// @Param request body Request true "Вопрос и контекст"
// @Success 200 {object} Response
// @Failure 500 {object} response.ErrorResponse
// @Router /ai-strategy-chat [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proxy.strategychat"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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
	log.Debug("request validated", slog.Int("history", len(req.ConversationHistory)))

	reply, err := h.service.Ask(r.Context(), strategy.Request{
		Message:   req.Message,
		Role:      req.UserRole,
		Objective: req.UserObjective,
		History:   req.ConversationHistory,
	})
	h.observer.ObserveUpstream(llmprovider.Provider, err)
	if err != nil {
		log.Error("strategy chat failed", slog.String("kind", apperr.Kind(err)), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("strategy chat answered", slog.String("model", reply.Model))
	render.JSON(w, r, Response{Response: reply.Response, Model: reply.Model})
}
