// Package middlewarectx содержит HTTP middleware сервиса и ключи контекста,
// через которые обработчики получают пользователя и гостевую сессию.
package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/executive-coach/internal/models"
	"github.com/magabrotheeeer/executive-coach/internal/services/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User ключ идентичности авторизованного пользователя
	User Key = "user"
	// Session ключ гостевой сессии
	Session Key = "session"
)

// WithUser кладёт идентичность в контекст.
func WithUser(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, User, id)
}

// UserFrom достаёт идентичность из контекста.
func UserFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(User).(models.Identity)
	return id, ok && id.ID != ""
}

// WithSession кладёт гостевую сессию в контекст.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, Session, s)
}

// SessionFrom достаёт гостевую сессию из контекста.
func SessionFrom(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(Session).(*session.Session)
	return s, ok && s != nil
}
