// Package session содержит хранилище пользовательской сессии: текущую идентичность,
// профиль, окно пробного периода и курсор уведомлений.
//
// Сессия — явный объект контекста, который создаётся пустым гостем и сбрасывается
// в нового гостя при выходе. Гостевое состояние зеркалируется в долговременное
// хранилище под фиксированным ключом; ошибки записи логируются и не возвращаются.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/executive-coach/internal/cache"
	"github.com/magabrotheeeer/executive-coach/internal/lib/secret"
	"github.com/magabrotheeeer/executive-coach/internal/lib/sl"
	"github.com/magabrotheeeer/executive-coach/internal/models"
)

var (
	// ErrSessionNotFound гостевая сессия не найдена в хранилище.
	ErrSessionNotFound = errors.New("guest session not found")
	// ErrInvalidKey ключ гостевой сессии не совпал.
	ErrInvalidKey = errors.New("invalid guest key")
)

// Storage описывает долговременное хранилище гостевых сессий.
type Storage interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// MigrateFunc одноразовый хук переноса гостевых данных при входе.
type MigrateFunc func(ctx context.Context, guest models.UserProfile, userID string) error

// Session состояние одного пользователя.
type Session struct {
	models.UserProfile
}

// Store управляет жизненным циклом сессий.
type Store struct {
	storage Storage
	ttl     time.Duration
	log     *slog.Logger
	migrate MigrateFunc
	newID   func() string
}

// Option настраивает Store.
type Option func(*Store)

// WithMigrator подменяет хук переноса гостевых данных.
func WithMigrator(fn MigrateFunc) Option {
	return func(s *Store) { s.migrate = fn }
}

// WithIDGenerator подменяет генератор идентификаторов гостей.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// NewStore создаёт Store поверх хранилища storage; ttl — время жизни гостевого ключа.
func NewStore(storage Storage, ttl time.Duration, log *slog.Logger, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		ttl:     ttl,
		log:     log,
		migrate: DiscardGuestData,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscardGuestData хук по умолчанию: гостевые данные при входе не переносятся.
func DiscardGuestData(_ context.Context, _ models.UserProfile, _ string) error {
	return nil
}

// GuestKey возвращает ключ хранилища для гостя id.
func GuestKey(id string) string {
	return cache.Key("guest", id)
}

// Empty возвращает пустую гостевую сессию без ключа и пробного окна.
func (st *Store) Empty() *Session {
	return &Session{UserProfile: models.UserProfile{
		Identity: models.Identity{Kind: models.KindGuest, ID: st.newID()},
	}}
}

// NewGuest создаёт нового гостя, выпускает ключ сессии и зеркалирует сессию в хранилище.
// Ключ возвращается один раз; хранится только его хеш.
func (st *Store) NewGuest(ctx context.Context) (*Session, string, error) {
	const op = "session.NewGuest"
	s := st.Empty()

	key, err := secret.NewKey()
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	hash, err := secret.Hash(key)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	s.KeyHash = hash

	st.mirror(ctx, s)
	st.log.Info("guest session created", sl.Guest(s.Identity.ID))
	return s, key, nil
}

// Load читает гостевую сессию из хранилища.
func (st *Store) Load(ctx context.Context, guestID string) (*Session, error) {
	const op = "session.Load"
	var p models.UserProfile
	found, err := st.storage.Get(ctx, GuestKey(guestID), &p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}
	return &Session{UserProfile: p}, nil
}

// Authorize загружает гостевую сессию и проверяет её ключ.
func (st *Store) Authorize(ctx context.Context, guestID, key string) (*Session, error) {
	const op = "session.Authorize"
	s, err := st.Load(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if s.KeyHash == "" || secret.Compare(s.KeyHash, key) != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidKey)
	}
	return s, nil
}

// Update сливает патч с профилем. Для гостя полный профиль зеркалируется в хранилище.
func (st *Store) Update(ctx context.Context, s *Session, patch models.ProfilePatch) {
	s.Profile = s.Profile.Merge(patch)
	st.mirror(ctx, s)
}

// StartTrial устанавливает окно пробного периода, если оно ещё не задано.
// Возвращает true, если окно было установлено этим вызовом.
func (st *Store) StartTrial(ctx context.Context, s *Session, now time.Time) bool {
	if !s.Identity.IsGuest() || s.Trial != nil {
		return false
	}
	s.Trial = &models.TrialWindow{Start: now.UTC()}
	st.mirror(ctx, s)
	st.log.Info("trial window started", sl.Guest(s.Identity.ID), slog.Time("start", s.Trial.Start))
	return true
}

// SaveCursor сохраняет курсор уведомлений гостя.
func (st *Store) SaveCursor(ctx context.Context, s *Session) {
	st.mirror(ctx, s)
}

// SignIn переводит сессию из гостя в авторизованного пользователя.
// Хук переноса вызывается один раз; гостевая запись удаляется из хранилища.
func (st *Store) SignIn(ctx context.Context, s *Session, identity models.Identity, profile models.Profile) {
	if s.Identity.IsGuest() {
		guest := s.UserProfile
		if err := st.migrate(ctx, guest, identity.ID); err != nil {
			st.log.Warn("failed to migrate guest data", sl.Guest(guest.Identity.ID), sl.Err(err))
		}
		if err := st.storage.Invalidate(ctx, GuestKey(guest.Identity.ID)); err != nil {
			st.log.Warn("failed to drop guest session", sl.Guest(guest.Identity.ID), sl.Err(err))
		}
	}

	identity.Kind = models.KindAuthenticated
	s.UserProfile = models.UserProfile{
		Identity: identity,
		Profile:  profile,
	}
	st.log.Info("session signed in", slog.String("user_id", identity.ID), slog.Bool("demo", identity.IsDemo))
}

// SignOut сбрасывает сессию в нового гостя без пробного окна и возвращает новый ключ.
func (st *Store) SignOut(ctx context.Context, s *Session) (string, error) {
	if s.Identity.IsGuest() {
		if err := st.storage.Invalidate(ctx, GuestKey(s.Identity.ID)); err != nil {
			st.log.Warn("failed to drop guest session", sl.Guest(s.Identity.ID), sl.Err(err))
		}
	}
	fresh, key, err := st.NewGuest(ctx)
	if err != nil {
		return "", err
	}
	s.UserProfile = fresh.UserProfile
	return key, nil
}

// mirror записывает гостевую сессию в хранилище. Ошибки не возвращаются.
func (st *Store) mirror(ctx context.Context, s *Session) {
	if !s.Identity.IsGuest() {
		return
	}
	if err := st.storage.Set(ctx, GuestKey(s.Identity.ID), s.UserProfile, st.ttl); err != nil {
		st.log.Warn("failed to persist guest session", sl.Guest(s.Identity.ID), sl.Err(err))
	}
}
