package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/executive-coach/internal/migrations"
	"github.com/magabrotheeeer/executive-coach/internal/models"
)

func setupTestDB(t *testing.T) *Storage {
	t.Helper()
	storage := startPostgres(t)

	require.ErrorIs(t, storage.CheckDatabaseReady(context.Background()), ErrSchemaMissing)

	migrationsPath, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))
	require.NoError(t, storage.CheckDatabaseReady(context.Background()))
	return storage
}

func startPostgres(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func strPtr(s string) *string { return &s }

func TestProfiles(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	_, err := storage.GetProfile(ctx, "user-1")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	err = storage.UpsertProfile(ctx, models.AccountProfile{
		UserID: "user-1",
		Email:  "exec@example.com",
		Role:   strPtr("CEO"),
	})
	require.NoError(t, err)

	p, err := storage.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "free", p.Tier)
	require.NotNil(t, p.Role)
	assert.Equal(t, "CEO", *p.Role)
	assert.Nil(t, p.Objective)

	err = storage.UpsertProfile(ctx, models.AccountProfile{
		UserID:    "user-1",
		Email:     "exec@example.com",
		Tier:      "premium",
		Objective: strPtr("Scale"),
	})
	require.NoError(t, err)

	p, err = storage.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "premium", p.Tier)
	assert.Equal(t, "CEO", *p.Role, "nil role must keep the stored value")
	assert.Equal(t, "Scale", *p.Objective)
	assert.False(t, p.UpdatedAt.Before(p.CreatedAt))

	deleted, err := storage.DeleteProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = storage.DeleteProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUpsertProfile_CanceledContext(t *testing.T) {
	storage := &Storage{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := storage.UpsertProfile(ctx, models.AccountProfile{UserID: "u"})
	assert.ErrorIs(t, err, context.Canceled)
}
