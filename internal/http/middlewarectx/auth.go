package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/lib/sl"
	"github.com/magabrotheeeer/executive-coach/internal/models"
)

// Authenticator определяет пользователя по заголовку Authorization.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (models.Identity, error)
}

// Responder пишет ответ с ошибкой.
type Responder func(w http.ResponseWriter, r *http.Request, err error)

// AuthMiddleware проверяет bearer-токен и кладёт идентичность в контекст.
// Ответ на ошибку формирует fail, так как форматы ошибок у маршрутов разные.
func AuthMiddleware(authn Authenticator, log *slog.Logger, fail Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			id, err := authn.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				log.Error("authentication failed", slog.String("kind", apperr.Kind(err)), sl.Err(err))
				fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), id)))
		})
	}
}
