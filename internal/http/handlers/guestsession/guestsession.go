// Package guestsession реализует HTTP-обработчики гостевой сессии: создание гостя,
// снимок состояния доступа, обновление профиля, запуск пробного периода,
// уведомления, вход и выход.
package guestsession

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/executive-coach/internal/http/middlewarectx"
	"github.com/magabrotheeeer/executive-coach/internal/http/response"
	"github.com/magabrotheeeer/executive-coach/internal/lib/sl"
	"github.com/magabrotheeeer/executive-coach/internal/lib/trial"
	"github.com/magabrotheeeer/executive-coach/internal/models"
	"github.com/magabrotheeeer/executive-coach/internal/services/access"
	"github.com/magabrotheeeer/executive-coach/internal/services/session"
)

// Store описывает хранилище сессий.
type Store interface {
	NewGuest(ctx context.Context) (*session.Session, string, error)
	Update(ctx context.Context, s *session.Session, patch models.ProfilePatch)
	StartTrial(ctx context.Context, s *session.Session, now time.Time) bool
	SignIn(ctx context.Context, s *session.Session, identity models.Identity, profile models.Profile)
	SignOut(ctx context.Context, s *session.Session) (string, error)
}

// Scheduler выбирает уведомления пробного периода.
type Scheduler interface {
	Due(ctx context.Context, s *session.Session, now time.Time) []models.Notice
}

// Profiles отдаёт сохранённый профиль авторизованного пользователя.
type Profiles interface {
	Profile(ctx context.Context, userID string) (models.Profile, error)
}

// Observer учитывает решения доступа и уведомления.
type Observer interface {
	ObserveGate(state string)
	ObserveNotice(kind string)
}

// Snapshot состояние сессии, которое видит клиент.
type Snapshot struct {
	Identity    models.Identity     `json:"identity"`
	Profile     models.Profile      `json:"profile"`
	Trial       *models.TrialWindow `json:"trial,omitempty"`
	TrialEndsAt *time.Time          `json:"trial_ends_at,omitempty"`
	Access      access.Decision     `json:"access"`
}

// Credentials выданная гостевая сессия. Ключ возвращается один раз.
type Credentials struct {
	GuestID  string   `json:"guest_id"`
	GuestKey string   `json:"guest_key"`
	Session  Snapshot `json:"session"`
}

// Handlers обрабатывают маршруты /session.
type Handlers struct {
	log       *slog.Logger
	store     Store
	scheduler Scheduler
	profiles  Profiles
	observer  Observer
	now       func() time.Time
}

// Option настраивает Handlers.
type Option func(*Handlers)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(h *Handlers) { h.now = now }
}

// New создает Handlers.
func New(log *slog.Logger, store Store, scheduler Scheduler, profiles Profiles, observer Observer, opts ...Option) *Handlers {
	h := &Handlers{
		log:       log,
		store:     store,
		scheduler: scheduler,
		profiles:  profiles,
		observer:  observer,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handlers) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (h *Handlers) snapshot(s *session.Session) Snapshot {
	now := h.now()
	snap := Snapshot{
		Identity: s.Identity,
		Profile:  s.Profile,
		Trial:    s.Trial,
		Access:   access.Evaluate(s.UserProfile, now),
	}
	if s.Trial != nil {
		ends := trial.EndsAt(s.Trial.Start)
		snap.TrialEndsAt = &ends
	}
	h.observer.ObserveGate(string(snap.Access.State))
	return snap
}

func (h *Handlers) sessionFrom(w http.ResponseWriter, r *http.Request, log *slog.Logger) (*session.Session, bool) {
	s, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		log.Error("guest session not found in context")
		response.WithStatus(w, r, http.StatusUnauthorized, "guest session required")
	}
	return s, ok
}

// Create godoc
// @Summary Новая гостевая сессия
// @Description Создаёт гостя без пробного окна. Ключ сессии возвращается только в этом ответе.
// @Tags Session
// @Produce  json
// @Success 201 {object} Credentials
// @Failure 500 {object} response.ErrorResponse
// @Router /session [post]
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.guestsession.Create")

	s, key, err := h.store.NewGuest(r.Context())
	if err != nil {
		log.Error("failed to create guest session", sl.Err(err))
		response.WithStatus(w, r, http.StatusInternalServerError, "could not create guest session")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Credentials{GuestID: s.Identity.ID, GuestKey: key, Session: h.snapshot(s)})
}

// Get godoc
// @Summary Состояние сессии
// @Description Возвращает профиль, окно пробного периода и решение шлюза доступа.
// @Tags Session
// @Produce  json
// @Param X-Guest-Id header string true "Идентификатор гостя"
// @Param X-Guest-Key header string true "Ключ гостевой сессии"
// @Success 200 {object} Snapshot
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /session [get]
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.guestsession.Get")
	s, ok := h.sessionFrom(w, r, log)
	if !ok {
		return
	}
	render.JSON(w, r, h.snapshot(s))
}

// UpdateProfile godoc
// @Summary Обновить профиль гостя
// @Description Сливает переданные поля с профилем; незаданные поля не меняются.
// @Tags Session
// @Accept  json
// @Produce  json
// @Param X-Guest-Id header string true "Идентификатор гостя"
// @Param X-Guest-Key header string true "Ключ гостевой сессии"
// @Param request body models.ProfilePatch true "Поля профиля"
// @Success 200 {object} Snapshot
// @Failure 400 {object} response.ErrorResponse
// @Router /session/profile [patch]
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.guestsession.UpdateProfile")
	s, ok := h.sessionFrom(w, r, log)
	if !ok {
		return
	}

	var patch models.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.WithStatus(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	h.store.Update(r.Context(), s, patch)
	log.Info("guest profile updated", sl.Guest(s.Identity.ID))
	render.JSON(w, r, h.snapshot(s))
}

// StartTrial godoc
// @Summary Запустить пробный период
// @Description Устанавливает окно пробного периода при первом вызове; повторные вызовы его не меняют.
// @Tags Session
// @Produce  json
// @Param X-Guest-Id header string true "Идентификатор гостя"
// @Param X-Guest-Key header string true "Ключ гостевой сессии"
// @Success 200 {object} Snapshot
// @Router /session/trial [post]
func (h *Handlers) StartTrial(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.guestsession.StartTrial")
	s, ok := h.sessionFrom(w, r, log)
	if !ok {
		return
	}

	started := h.store.StartTrial(r.Context(), s, h.now())
	log.Debug("trial requested", sl.Guest(s.Identity.ID), slog.Bool("started", started))
	render.JSON(w, r, h.snapshot(s))
}

// Notices godoc
// @Summary Уведомления пробного периода
// @Description Возвращает уведомления, которые нужно показать сейчас; каждое показывается один раз.
// @Tags Session
// @Produce  json
// @Param X-Guest-Id header string true "Идентификатор гостя"
// @Param X-Guest-Key header string true "Ключ гостевой сессии"
// @Success 200 {array} models.Notice
// @Router /session/notices [get]
func (h *Handlers) Notices(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.guestsession.Notices")
	s, ok := h.sessionFrom(w, r, log)
	if !ok {
		return
	}

	due := h.scheduler.Due(r.Context(), s, h.now())
	for _, n := range due {
		h.observer.ObserveNotice(string(n.Kind))
	}
	if due == nil {
		due = []models.Notice{}
	}
	render.JSON(w, r, due)
}

// SignIn godoc
// @Summary Вход
// @Description Переводит гостевую сессию в авторизованную. Гостевые данные не переносятся.
// @Tags Session
// @Produce  json
// @Security BearerAuth
// @Param X-Guest-Id header string true "Идентификатор гостя"
// @Param X-Guest-Key header string true "Ключ гостевой сессии"
// @Success 200 {object} Snapshot
// @Failure 401 {object} response.ErrorResponse
// @Router /session/sign-in [post]
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.guestsession.SignIn")
	s, ok := h.sessionFrom(w, r, log)
	if !ok {
		return
	}
	user, ok := middlewarectx.UserFrom(r.Context())
	if !ok {
		log.Error("user not found in context")
		response.WithStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.profiles.Profile(r.Context(), user.ID)
	if err != nil {
		log.Warn("failed to load profile, continuing with empty one", sl.Err(err))
		profile = models.Profile{}
	}

	h.store.SignIn(r.Context(), s, user, profile)
	render.JSON(w, r, h.snapshot(s))
}

// SignOut godoc
// @Summary Выход
// @Description Сбрасывает сессию в нового гостя без пробного окна.
// @Tags Session
// @Produce  json
// @Success 200 {object} Credentials
// @Failure 500 {object} response.ErrorResponse
// @Router /session/sign-out [post]
func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.guestsession.SignOut")

	s, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		s = &session.Session{UserProfile: models.UserProfile{
			Identity: models.Identity{Kind: models.KindAuthenticated},
		}}
	}

	key, err := h.store.SignOut(r.Context(), s)
	if err != nil {
		log.Error("failed to reset session", sl.Err(err))
		response.WithStatus(w, r, http.StatusInternalServerError, "could not reset session")
		return
	}

	log.Info("session reset to guest", sl.Guest(s.Identity.ID))
	render.JSON(w, r, Credentials{GuestID: s.Identity.ID, GuestKey: key, Session: h.snapshot(s)})
}
