package sender

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/foundersignal/billing-gateway/internal/models"
)

// MockRepo реализует интерфейс sender.NotificationRepository
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) CreateNotification(ctx context.Context, n models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockPusher реализует интерфейс sender.Pusher
type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) PublishNotification(ctx context.Context, userID string, notification any) error {
	args := m.Called(ctx, userID, notification)
	return args.Error(0)
}

func newTestService() (*Service, *MockRepo, *MockPusher) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	repo := new(MockRepo)
	pusher := new(MockPusher)
	return New(logger, repo, pusher), repo, pusher
}

func noticeBody(t *testing.T, notice models.BillingNotice) []byte {
	t.Helper()
	body, err := json.Marshal(notice)
	require.NoError(t, err)
	return body
}

func TestHandleBillingNotice_Activated(t *testing.T) {
	service, repo, pusher := newTestService()

	var created models.Notification
	repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		created = n
		return n.UserID == "user-1" && n.Type == models.NotificationTypeSuccess
	})).Return(nil)
	pusher.On("PublishNotification", mock.Anything, "user-1", mock.Anything).Return(nil)

	err := service.HandleBillingNotice(noticeBody(t, models.BillingNotice{
		UserID:         "user-1",
		Kind:           models.NoticeSubscriptionActivated,
		SubscriptionID: "sub_1",
	}))

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Read)
	repo.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestHandleBillingNotice_Cancelled(t *testing.T) {
	service, repo, pusher := newTestService()

	repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Type == models.NotificationTypeWarning && n.Link != nil && *n.Link == "/pricing"
	})).Return(nil)
	pusher.On("PublishNotification", mock.Anything, "user-1", mock.Anything).Return(nil)

	err := service.HandleBillingNotice(noticeBody(t, models.BillingNotice{
		UserID: "user-1",
		Kind:   models.NoticeSubscriptionCancelled,
	}))

	require.NoError(t, err)
}

func TestHandleBillingNotice_PersistFailure(t *testing.T) {
	service, repo, pusher := newTestService()
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(errors.New("db error"))

	// Ошибка записи возвращается наверх: сообщение уйдёт в nack
	// и будет доставлено повторно.
	err := service.HandleBillingNotice(noticeBody(t, models.BillingNotice{
		UserID: "user-1",
		Kind:   models.NoticeSubscriptionActivated,
	}))

	require.Error(t, err)
	pusher.AssertNotCalled(t, "PublishNotification", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleBillingNotice_PushFailureAfterPersist(t *testing.T) {
	service, repo, pusher := newTestService()
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)
	pusher.On("PublishNotification", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("redis down"))

	// Запись уже надёжна: сбой живой доставки не приводит к переповтору.
	err := service.HandleBillingNotice(noticeBody(t, models.BillingNotice{
		UserID: "user-1",
		Kind:   models.NoticeSubscriptionActivated,
	}))

	require.NoError(t, err)
}

func TestHandleBillingNotice_UnknownKind(t *testing.T) {
	service, repo, _ := newTestService()

	err := service.HandleBillingNotice(noticeBody(t, models.BillingNotice{
		UserID: "user-1",
		Kind:   "subscription.paused",
	}))

	require.NoError(t, err)
	repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestHandleBillingNotice_BadPayload(t *testing.T) {
	service, _, _ := newTestService()

	err := service.HandleBillingNotice([]byte("not-json"))
	require.Error(t, err)
}
