// Package storage реализует хранилище профилей авторизованных пользователей
// на основе PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/executive-coach/internal/models"
)

var (
	// ErrProfileNotFound профиль пользователя отсутствует.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrSchemaMissing таблица profiles не создана: миграции не применены.
	ErrSchemaMissing = errors.New("required table profiles missing")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет, что миграции применены и таблица profiles существует.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	const op = "storage.CheckDatabaseReady"
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_schema = 'public' AND table_name = 'profiles'
    )`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, ErrSchemaMissing)
	}
	return nil
}

// Close закрывает соединение.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// GetProfile возвращает профиль пользователя userID.
func (s *Storage) GetProfile(ctx context.Context, userID string) (*models.AccountProfile, error) {
	const op = "storage.GetProfile"

	query := `SELECT user_id, email, tier, role, objective, created_at, updated_at
			  FROM profiles WHERE user_id = $1`
	var p models.AccountProfile
	var role, objective sql.NullString
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.Email, &p.Tier, &role, &objective, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if role.Valid {
		p.Role = &role.String
	}
	if objective.Valid {
		p.Objective = &objective.String
	}
	return &p, nil
}

// UpsertProfile создаёт профиль или обновляет email, тариф, роль и цель существующего.
func (s *Storage) UpsertProfile(ctx context.Context, p models.AccountProfile) error {
	const op = "storage.UpsertProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tier := p.Tier
	if tier == "" {
		tier = "free"
	}
	query := `INSERT INTO profiles (user_id, email, tier, role, objective)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (user_id) DO UPDATE SET
			      email = EXCLUDED.email,
			      tier = EXCLUDED.tier,
			      role = COALESCE(EXCLUDED.role, profiles.role),
			      objective = COALESCE(EXCLUDED.objective, profiles.objective),
			      updated_at = NOW()`
	_, err := s.DB.ExecContext(ctx, query, p.UserID, p.Email, tier, p.Role, p.Objective)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteProfile удаляет профиль. Отсутствие профиля ошибкой не считается.
func (s *Storage) DeleteProfile(ctx context.Context, userID string) (bool, error) {
	const op = "storage.DeleteProfile"

	res, err := s.DB.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}
