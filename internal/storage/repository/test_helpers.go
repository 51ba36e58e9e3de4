package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/foundersignal/billing-gateway/internal/models"
)

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	_, err = storage.DB.Exec(`
        CREATE TABLE profiles (
            id TEXT PRIMARY KEY,
            subscription_status TEXT NOT NULL DEFAULT 'none',
            subscription_plan TEXT NOT NULL DEFAULT 'free',
            subscription_id TEXT,
            full_name TEXT NOT NULL DEFAULT '',
            avatar_url TEXT NOT NULL DEFAULT ''
        );

        CREATE TABLE notifications (
            id UUID PRIMARY KEY,
            user_id TEXT NOT NULL,
            title TEXT NOT NULL,
            message TEXT NOT NULL,
            type TEXT NOT NULL DEFAULT 'info',
            read BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            link TEXT
        );

        CREATE TABLE investments (
            id UUID PRIMARY KEY,
            user_id TEXT NOT NULL,
            project_name TEXT NOT NULL,
            amount_minor BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		storage.DB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateProfile создает тестовый профиль
func (f *TestDataFactory) CreateProfile(t *testing.T, id, status, plan string, subscriptionID *string) {
	_, err := f.storage.DB.Exec(`INSERT INTO profiles (id, subscription_status, subscription_plan, subscription_id)
		VALUES ($1, $2, $3, $4)`,
		id, status, plan, subscriptionID)
	require.NoError(t, err)
}

// CreateNotification создает тестовое уведомление и возвращает его ID
func (f *TestDataFactory) CreateNotification(t *testing.T, userID, title string, read bool, createdAt time.Time) string {
	id := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO notifications (id, user_id, title, message, type, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, userID, title, "message for "+title, models.NotificationTypeInfo, read, createdAt)
	require.NoError(t, err)
	return id
}

// VerifyProfileState проверяет биллинговые поля профиля в БД
func VerifyProfileState(t *testing.T, storage *Storage, id, wantStatus, wantPlan string) {
	var status, plan string
	err := storage.DB.QueryRow(`SELECT subscription_status, subscription_plan FROM profiles WHERE id = $1`, id).
		Scan(&status, &plan)
	require.NoError(t, err)
	require.Equal(t, wantStatus, status)
	require.Equal(t, wantPlan, plan)
}
