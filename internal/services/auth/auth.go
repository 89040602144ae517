// Package services содержит проверку bearer-токенов пользователей провайдера идентичности.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/executive-coach/internal/identityprovider"
	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/lib/jwt"
	"github.com/magabrotheeeer/executive-coach/internal/models"
)

// TokenParser проверяет подпись токена локально.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// UserLookup определяет пользователя по токену на стороне провайдера.
type UserLookup interface {
	GetUser(ctx context.Context, accessToken string) (*identityprovider.User, error)
}

// AuthService превращает bearer-токен в идентичность пользователя.
//
// Если задан секрет подписи, токен проверяется локально, иначе
// пользователь запрашивается у провайдера.
type AuthService struct {
	parser    TokenParser
	users     UserLookup
	demoEmail string
}

// NewAuthService создает AuthService. parser может быть nil.
func NewAuthService(parser TokenParser, users UserLookup, demoEmail string) *AuthService {
	return &AuthService{
		parser:    parser,
		users:     users,
		demoEmail: demoEmail,
	}
}

// BearerToken извлекает токен из заголовка Authorization.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", apperr.Auth("No authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", apperr.Auth("Invalid authorization header")
	}
	return strings.TrimSpace(token), nil
}

// Authenticate возвращает идентичность владельца заголовка Authorization.
func (s *AuthService) Authenticate(ctx context.Context, header string) (models.Identity, error) {
	const op = "services.auth.Authenticate"

	token, err := BearerToken(header)
	if err != nil {
		return models.Identity{}, err
	}

	var id, email string
	if s.parser != nil {
		claims, err := s.parser.ParseToken(token)
		if err != nil {
			return models.Identity{}, fmt.Errorf("%s: %w: %w", op, apperr.Auth("Invalid or expired token"), err)
		}
		id, email = claims.Subject, claims.Email
	} else {
		user, err := s.users.GetUser(ctx, token)
		if err != nil {
			return models.Identity{}, fmt.Errorf("%s: %w: %w", op, apperr.ErrAuth, err)
		}
		id, email = user.ID, user.Email
	}
	if id == "" {
		return models.Identity{}, fmt.Errorf("%s: %w", op, apperr.Auth("User not found"))
	}

	return models.Identity{
		Kind:   models.KindAuthenticated,
		ID:     id,
		Email:  email,
		IsDemo: s.demoEmail != "" && strings.EqualFold(email, s.demoEmail),
	}, nil
}
