// Package texttospeech реализует HTTP-обработчик синтеза речи.
package texttospeech

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
	"github.com/magabrotheeeer/executive-coach/internal/services/speech"
	"github.com/magabrotheeeer/executive-coach/internal/speechprovider"
)

// Request тело запроса.
type Request struct {
	Text  string `json:"text" validate:"required" example:"Welcome to your coaching session."`
	Voice string `json:"voice,omitempty" example:"Aria"`
	Model string `json:"model,omitempty" example:"eleven_multilingual_v2"`
}

// Response тело ответа; AudioContent — MP3 в base64.
type Response struct {
	AudioContent string `json:"audioContent"`
	Voice        string `json:"voice" example:"Aria"`
	Model        string `json:"model" example:"eleven_multilingual_v2"`
}

// Service описывает синтез речи.
type Service interface {
	Speak(ctx context.Context, text, voice, model string) (*speech.Result, error)
}

// Observer учитывает вызовы внешних API.
type Observer interface {
	ObserveUpstream(provider string, err error)
}

// Handler обрабатывает POST /text-to-speech.
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
// @Summary Синтез речи
// @Description Озвучивает текст выбранным голосом. Неизвестный голос заменяется на Aria.
// @Tags Proxy
// @Accept  json
// @Produce  json
// @Param request body Request true "Текст и голос"
// @Success 200 {object} Response
// @Failure 500 {object} response.ErrorResponse
// @Router /text-to-speech [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proxy.texttospeech"
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

	res, err := h.service.Speak(r.Context(), req.Text, req.Voice, req.Model)
	h.observer.ObserveUpstream(speechprovider.Provider, err)
	if err != nil {
		log.Error("speech synthesis failed", slog.String("kind", apperr.Kind(err)), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("speech synthesized", slog.String("voice", res.Voice), slog.Int("text_len", len(req.Text)))
	render.JSON(w, r, Response{AudioContent: res.AudioContent, Voice: res.Voice, Model: res.Model})
}
