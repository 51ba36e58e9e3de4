package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/foundersignal/billing-gateway/internal/models"
	"github.com/foundersignal/billing-gateway/internal/paymentprovider"
)

// MockRepo реализует интерфейс reconciler.ProfileRepository
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) ActivateSubscription(ctx context.Context, userID, subscriptionID string) (int64, error) {
	args := m.Called(ctx, userID, subscriptionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) CancelSubscription(ctx context.Context, subscriptionID string) (string, error) {
	args := m.Called(ctx, subscriptionID)
	return args.String(0), args.Error(1)
}

// MockProvider реализует интерфейс reconciler.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetPaymentIntent(ctx context.Context, id string) (*paymentprovider.PaymentIntent, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*paymentprovider.PaymentIntent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) CreateTransfer(ctx context.Context, req paymentprovider.CreateTransferRequest) (*paymentprovider.Transfer, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*paymentprovider.Transfer), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPublisher реализует интерфейс reconciler.NoticePublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(notice models.BillingNotice) error {
	args := m.Called(notice)
	return args.Error(0)
}

// MockCache реализует интерфейс reconciler.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

type mocks struct {
	repo      *MockRepo
	provider  *MockProvider
	publisher *MockPublisher
	cache     *MockCache
}

func newTestService() (*Service, *mocks) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := &mocks{
		repo:      new(MockRepo),
		provider:  new(MockProvider),
		publisher: new(MockPublisher),
		cache:     new(MockCache),
	}
	return New(logger, m.repo, m.provider, m.publisher, m.cache, "acct_platform", 10), m
}

func checkoutEvent() *models.BillingEvent {
	return &models.BillingEvent{
		ID:   "evt_1",
		Kind: models.EventKindCheckoutCompleted,
		Checkout: &models.CheckoutCompletedEvent{
			SessionID:         "cs_1",
			ClientReferenceID: "user-1",
			Subscription:      "sub_1",
		},
	}
}

func TestProcessEvent_CheckoutCompleted(t *testing.T) {
	service, m := newTestService()
	m.repo.On("ActivateSubscription", mock.Anything, "user-1", "sub_1").Return(int64(1), nil)
	m.cache.On("Invalidate", "profile:user-1").Return(nil)
	m.publisher.On("Publish", models.BillingNotice{
		UserID:         "user-1",
		Kind:           models.NoticeSubscriptionActivated,
		SubscriptionID: "sub_1",
	}).Return(nil)

	err := service.ProcessEvent(context.Background(), checkoutEvent())

	require.NoError(t, err)
	m.repo.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
	// Событие не несёт payment_intent: перевод не выполняется.
	m.provider.AssertNotCalled(t, "GetPaymentIntent", mock.Anything, mock.Anything)
}

func TestProcessEvent_CheckoutCompleted_Idempotent(t *testing.T) {
	service, m := newTestService()
	m.repo.On("ActivateSubscription", mock.Anything, "user-1", "sub_1").Return(int64(1), nil).Twice()
	m.cache.On("Invalidate", "profile:user-1").Return(nil)
	m.publisher.On("Publish", mock.Anything).Return(nil)

	// Повторная доставка того же события не является ошибкой:
	// мутация — безусловная перезапись.
	require.NoError(t, service.ProcessEvent(context.Background(), checkoutEvent()))
	require.NoError(t, service.ProcessEvent(context.Background(), checkoutEvent()))
	m.repo.AssertExpectations(t)
}

func TestProcessEvent_CheckoutCompleted_WithTransfer(t *testing.T) {
	service, m := newTestService()
	ev := checkoutEvent()
	ev.Checkout.PaymentIntent = "pi_1"

	m.repo.On("ActivateSubscription", mock.Anything, "user-1", "sub_1").Return(int64(1), nil)
	m.cache.On("Invalidate", mock.Anything).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return(nil)
	m.provider.On("GetPaymentIntent", mock.Anything, "pi_1").
		Return(&paymentprovider.PaymentIntent{ID: "pi_1", Amount: 4900, Currency: "usd"}, nil)
	m.provider.On("CreateTransfer", mock.Anything, paymentprovider.CreateTransferRequest{
		Amount:        4410, // 90% от 4900
		Currency:      "usd",
		Destination:   "acct_platform",
		TransferGroup: "sub_sub_1",
	}).Return(&paymentprovider.Transfer{ID: "tr_1", Amount: 4410}, nil)

	require.NoError(t, service.ProcessEvent(context.Background(), ev))
	m.provider.AssertExpectations(t)
}

func TestProcessEvent_CheckoutCompleted_TransferFailureDoesNotRollback(t *testing.T) {
	service, m := newTestService()
	ev := checkoutEvent()
	ev.Checkout.PaymentIntent = "pi_1"

	m.repo.On("ActivateSubscription", mock.Anything, "user-1", "sub_1").Return(int64(1), nil)
	m.cache.On("Invalidate", mock.Anything).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return(nil)
	m.provider.On("GetPaymentIntent", mock.Anything, "pi_1").
		Return(&paymentprovider.PaymentIntent{ID: "pi_1", Amount: 4900, Currency: "usd"}, nil)
	m.provider.On("CreateTransfer", mock.Anything, mock.Anything).
		Return(nil, errors.New("transfer declined"))

	// Провал перевода не откатывает активацию и не превращается
	// в ошибку обработки события.
	require.NoError(t, service.ProcessEvent(context.Background(), ev))
	m.repo.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestProcessEvent_CheckoutCompleted_NoClientReference(t *testing.T) {
	service, m := newTestService()
	ev := checkoutEvent()
	ev.Checkout.ClientReferenceID = ""

	require.NoError(t, service.ProcessEvent(context.Background(), ev))
	m.repo.AssertNotCalled(t, "ActivateSubscription", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessEvent_CheckoutCompleted_PersistenceFailure(t *testing.T) {
	service, m := newTestService()
	m.repo.On("ActivateSubscription", mock.Anything, "user-1", "sub_1").
		Return(int64(0), errors.New("connection refused"))

	// Ошибка хранилища поднимается наверх: провайдер получит не-2xx
	// и доставит событие повторно.
	err := service.ProcessEvent(context.Background(), checkoutEvent())
	require.Error(t, err)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestProcessEvent_SubscriptionDeleted(t *testing.T) {
	service, m := newTestService()
	m.repo.On("CancelSubscription", mock.Anything, "sub_1").Return("user-1", nil)
	m.cache.On("Invalidate", "profile:user-1").Return(nil)
	m.publisher.On("Publish", models.BillingNotice{
		UserID:         "user-1",
		Kind:           models.NoticeSubscriptionCancelled,
		SubscriptionID: "sub_1",
	}).Return(nil)

	err := service.ProcessEvent(context.Background(), &models.BillingEvent{
		Kind:    models.EventKindSubscriptionDeleted,
		Deleted: &models.SubscriptionDeletedEvent{SubscriptionID: "sub_1"},
	})

	require.NoError(t, err)
	m.repo.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestProcessEvent_SubscriptionDeleted_UnknownSubscription(t *testing.T) {
	service, m := newTestService()
	m.repo.On("CancelSubscription", mock.Anything, "sub_ghost").Return("", nil)

	// Отмена по неизвестной подписке — no-op, не ошибка.
	err := service.ProcessEvent(context.Background(), &models.BillingEvent{
		Kind:    models.EventKindSubscriptionDeleted,
		Deleted: &models.SubscriptionDeletedEvent{SubscriptionID: "sub_ghost"},
	})

	require.NoError(t, err)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything)
	m.cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestProcessEvent_UnknownKind(t *testing.T) {
	service, m := newTestService()

	err := service.ProcessEvent(context.Background(), &models.BillingEvent{Kind: models.EventKindUnknown})

	assert.NoError(t, err)
	m.repo.AssertNotCalled(t, "ActivateSubscription", mock.Anything, mock.Anything, mock.Anything)
	m.repo.AssertNotCalled(t, "CancelSubscription", mock.Anything, mock.Anything)
}
