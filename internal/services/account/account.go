// Package account управляет учётными записями у провайдера идентичности:
// выдаёт общий демо-аккаунт и удаляет аккаунт пользователя вместе с профилем.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/executive-coach/internal/identityprovider"
	"github.com/magabrotheeeer/executive-coach/internal/lib/sl"
	"github.com/magabrotheeeer/executive-coach/internal/models"
	"github.com/magabrotheeeer/executive-coach/internal/storage"
)

// DemoTier тариф демо-аккаунта.
const DemoTier = "premium"

// Identities admin API провайдера идентичности.
type Identities interface {
	FindUserByEmail(ctx context.Context, email string) (*identityprovider.User, error)
	CreateUser(ctx context.Context, req identityprovider.CreateUserRequest) (*identityprovider.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

// Profiles таблица profiles.
type Profiles interface {
	GetProfile(ctx context.Context, userID string) (*models.AccountProfile, error)
	UpsertProfile(ctx context.Context, p models.AccountProfile) error
	DeleteProfile(ctx context.Context, userID string) (bool, error)
}

// DemoAccount результат выдачи демо-аккаунта.
type DemoAccount struct {
	Credentials models.Credentials
	UserID      string
	Created     bool
}

// Service управляет аккаунтами.
type Service struct {
	identities Identities
	profiles   Profiles
	demo       models.Credentials
	log        *slog.Logger
}

// New создаёт Service; demo — учётные данные общего демо-аккаунта.
func New(identities Identities, profiles Profiles, demo models.Credentials, log *slog.Logger) *Service {
	return &Service{
		identities: identities,
		profiles:   profiles,
		demo:       demo,
		log:        log,
	}
}

// ProvisionDemo возвращает демо-аккаунт, создавая его при первом вызове.
// Повторные вызовы отдают те же учётные данные.
func (s *Service) ProvisionDemo(ctx context.Context) (*DemoAccount, error) {
	const op = "services.account.ProvisionDemo"

	existing, err := s.identities.FindUserByEmail(ctx, s.demo.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		return &DemoAccount{Credentials: s.demo, UserID: existing.ID}, nil
	}

	user, err := s.identities.CreateUser(ctx, identityprovider.CreateUserRequest{
		Email:        s.demo.Email,
		Password:     s.demo.Password,
		EmailConfirm: true,
		UserMetadata: map[string]any{"demo_account": true},
	})
	if identityprovider.IsEmailExists(err) {
		// Пользователь появился между поиском и созданием.
		existing, findErr := s.identities.FindUserByEmail(ctx, s.demo.Email)
		if findErr != nil {
			return nil, fmt.Errorf("%s: %w", op, findErr)
		}
		if existing != nil {
			s.log.Info("demo account already registered", slog.String("user_id", existing.ID))
			return &DemoAccount{Credentials: s.demo, UserID: existing.ID}, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.profiles.UpsertProfile(ctx, models.AccountProfile{
		UserID: user.ID,
		Email:  s.demo.Email,
		Tier:   DemoTier,
	}); err != nil {
		s.log.Warn("failed to seed demo profile", slog.String("user_id", user.ID), sl.Err(err))
	}

	s.log.Info("demo account created", slog.String("user_id", user.ID))
	return &DemoAccount{Credentials: s.demo, UserID: user.ID, Created: true}, nil
}

// Delete удаляет профиль пользователя и его учётную запись.
// Ошибка удаления профиля не прерывает операцию; ошибка провайдера возвращается.
func (s *Service) Delete(ctx context.Context, user models.Identity) error {
	const op = "services.account.Delete"
	log := s.log.With(slog.String("user_id", user.ID))

	deleted, err := s.profiles.DeleteProfile(ctx, user.ID)
	switch {
	case err != nil:
		log.Warn("failed to delete profile", sl.Err(err))
	case !deleted:
		log.Debug("profile already absent")
	}

	if err := s.identities.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("account deleted")
	return nil
}

// Profile возвращает сохранённый профиль пользователя; отсутствующий профиль пуст.
func (s *Service) Profile(ctx context.Context, userID string) (models.Profile, error) {
	const op = "services.account.Profile"

	p, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrProfileNotFound) {
		return models.Profile{}, nil
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}
	tier := p.Tier
	return models.Profile{Tier: &tier, Role: p.Role, Objective: p.Objective}, nil
}
