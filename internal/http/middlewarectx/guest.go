package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/executive-coach/internal/http/response"
	"github.com/magabrotheeeer/executive-coach/internal/lib/sl"
	"github.com/magabrotheeeer/executive-coach/internal/services/session"
)

const (
	// GuestIDHeader заголовок с идентификатором гостя.
	GuestIDHeader = "X-Guest-Id"
	// GuestKeyHeader заголовок с ключом гостевой сессии.
	GuestKeyHeader = "X-Guest-Key"
)

// SessionAuthorizer загружает гостевую сессию по id и ключу.
type SessionAuthorizer interface {
	Authorize(ctx context.Context, guestID, key string) (*session.Session, error)
}

// GuestSessionMiddleware загружает гостевую сессию из заголовков X-Guest-Id и X-Guest-Key.
func GuestSessionMiddleware(store SessionAuthorizer, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.GuestSessionMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			guestID, key := r.Header.Get(GuestIDHeader), r.Header.Get(GuestKeyHeader)
			if guestID == "" || key == "" {
				log.Warn("missing guest session headers")
				response.WithStatus(w, r, http.StatusUnauthorized, "missing guest session headers")
				return
			}

			s, err := store.Authorize(r.Context(), guestID, key)
			switch {
			case errors.Is(err, session.ErrSessionNotFound):
				log.Warn("guest session not found", sl.Guest(guestID))
				response.WithStatus(w, r, http.StatusNotFound, "guest session not found")
				return
			case errors.Is(err, session.ErrInvalidKey):
				log.Warn("invalid guest key", sl.Guest(guestID))
				response.WithStatus(w, r, http.StatusUnauthorized, "invalid guest key")
				return
			case err != nil:
				log.Error("failed to load guest session", sl.Guest(guestID), sl.Err(err))
				response.WithStatus(w, r, http.StatusInternalServerError, "failed to load guest session")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// OptionalGuestSessionMiddleware загружает гостевую сессию, если заголовки переданы и ключ верен.
// В остальных случаях запрос проходит без сессии в контексте.
func OptionalGuestSessionMiddleware(store SessionAuthorizer, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			guestID, key := r.Header.Get(GuestIDHeader), r.Header.Get(GuestKeyHeader)
			if guestID == "" || key == "" {
				next.ServeHTTP(w, r)
				return
			}
			s, err := store.Authorize(r.Context(), guestID, key)
			if err != nil {
				log.Debug("ignoring guest session", sl.Guest(guestID), sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}
