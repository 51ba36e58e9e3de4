package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundersignal/billing-gateway/internal/models"
)

func TestStorage_ActivateSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateProfile(t, "user-1", models.SubscriptionStatusNone, models.SubscriptionPlanFree, nil)

	rows, err := storage.ActivateSubscription(context.Background(), "user-1", "sub_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	VerifyProfileState(t, storage, "user-1", models.SubscriptionStatusActive, models.SubscriptionPlanPremium)

	// Повторная доставка того же события: состояние не меняется.
	rows, err = storage.ActivateSubscription(context.Background(), "user-1", "sub_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	VerifyProfileState(t, storage, "user-1", models.SubscriptionStatusActive, models.SubscriptionPlanPremium)

	profile, err := storage.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, profile.SubscriptionID)
	assert.Equal(t, "sub_1", *profile.SubscriptionID)
}

func TestStorage_ActivateSubscription_UnknownUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	rows, err := storage.ActivateSubscription(context.Background(), "ghost", "sub_1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestStorage_CancelSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	subID := "sub_1"
	factory.CreateProfile(t, "user-1", models.SubscriptionStatusActive, models.SubscriptionPlanPremium, &subID)

	userID, err := storage.CancelSubscription(context.Background(), "sub_1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	VerifyProfileState(t, storage, "user-1", models.SubscriptionStatusCancelled, models.SubscriptionPlanFree)
}

func TestStorage_CancelSubscription_UnknownSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	userID, err := storage.CancelSubscription(context.Background(), "sub_ghost")
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestStorage_GetProfile(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateProfile(t, "user-1", models.SubscriptionStatusNone, models.SubscriptionPlanFree, nil)

	profile, err := storage.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.ID)
	assert.Equal(t, models.SubscriptionStatusNone, profile.SubscriptionStatus)
	assert.Nil(t, profile.SubscriptionID)

	_, err = storage.GetProfile(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestStorage_UpdateProfileDisplay(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateProfile(t, "user-1", models.SubscriptionStatusNone, models.SubscriptionPlanFree, nil)

	rows, err := storage.UpdateProfileDisplay(context.Background(), "user-1", "Ada Lovelace", "https://cdn.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	profile, err := storage.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", profile.FullName)
	// Биллинговые поля не тронуты.
	assert.Equal(t, models.SubscriptionStatusNone, profile.SubscriptionStatus)
}
