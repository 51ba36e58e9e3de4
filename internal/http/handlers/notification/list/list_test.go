package list_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/foundersignal/billing-gateway/internal/http/handlers/notification/list"
	"github.com/foundersignal/billing-gateway/internal/http/middlewarectx"
	"github.com/foundersignal/billing-gateway/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestNotificationListHandler_ServeHTTP(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		userUID        string
		setupMocks     func(*MockService)
		expectedStatus int
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:    "success - notifications returned",
			userUID: "user-1",
			setupMocks: func(s *MockService) {
				s.On("List", mock.Anything, "user-1").Return([]models.Notification{
					{
						ID:        "a72b73f3-1fb2-4f44-b7c4-8bc1a613a1a1",
						UserID:    "user-1",
						Title:     "Подписка активирована",
						Type:      models.NotificationTypeSuccess,
						CreatedAt: now,
					},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"list_count":1`)
				assert.Contains(t, body, "Подписка активирована")
			},
		},
		{
			name:    "success - empty list",
			userUID: "user-1",
			setupMocks: func(s *MockService) {
				s.On("List", mock.Anything, "user-1").
					Return([]models.Notification{}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"list_count":0`)
			},
		},
		{
			name:           "missing user UID",
			userUID:        "",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:    "service error",
			userUID: "user-1",
			setupMocks: func(s *MockService) {
				s.On("List", mock.Anything, "user-1").
					Return(nil, errors.New("storage unavailable")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(MockService)
			tt.setupMocks(serviceMock)

			handler := list.New(newNoopLogger(), serviceMock)

			req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
			if tt.userUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
				req = req.WithContext(ctx)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, rec.Body.String())
			}
			serviceMock.AssertExpectations(t)
		})
	}
}
