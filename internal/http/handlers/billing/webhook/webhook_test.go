package webhook_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/foundersignal/billing-gateway/internal/http/handlers/billing/webhook"
	"github.com/foundersignal/billing-gateway/internal/models"
)

const testSecret = "whsec_test"

type MockService struct {
	mock.Mock
}

func (m *MockService) ProcessEvent(ctx context.Context, ev *models.BillingEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookHandler_ServeHTTP(t *testing.T) {
	checkoutBody := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_123",
			"client_reference_id": "user-1",
			"subscription": "sub_1",
			"payment_intent": "pi_1",
			"amount_total": 4900,
			"currency": "usd"
		}}
	}`)

	tests := []struct {
		name           string
		body           []byte
		signature      string
		setupMocks     func(*MockService)
		expectedStatus int
	}{
		{
			name:      "success - checkout completed",
			body:      checkoutBody,
			signature: sign(testSecret, checkoutBody),
			setupMocks: func(s *MockService) {
				s.On("ProcessEvent", mock.Anything, mock.MatchedBy(func(ev *models.BillingEvent) bool {
					return ev.Kind == models.EventKindCheckoutCompleted &&
						ev.Checkout != nil &&
						ev.Checkout.ClientReferenceID == "user-1" &&
						ev.Checkout.Subscription == "sub_1"
				})).Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing signature",
			body:           checkoutBody,
			signature:      "",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong signature",
			body:           checkoutBody,
			signature:      sign("other-secret", checkoutBody),
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed payload",
			body:           []byte("not a json"),
			signature:      sign(testSecret, []byte("not a json")),
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown event passed through",
			body: []byte(`{"id":"evt_2","type":"invoice.paid","data":{"object":{}}}`),
			signature: sign(testSecret,
				[]byte(`{"id":"evt_2","type":"invoice.paid","data":{"object":{}}}`)),
			setupMocks: func(s *MockService) {
				s.On("ProcessEvent", mock.Anything, mock.MatchedBy(func(ev *models.BillingEvent) bool {
					return ev.Kind == models.EventKindUnknown
				})).Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "processing error returns 500",
			body:      checkoutBody,
			signature: sign(testSecret, checkoutBody),
			setupMocks: func(s *MockService) {
				s.On("ProcessEvent", mock.Anything, mock.Anything).
					Return(errors.New("storage unavailable")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(MockService)
			tt.setupMocks(serviceMock)

			handler := webhook.New(newNoopLogger(), serviceMock, testSecret)

			req := httptest.NewRequest(http.MethodPost, "/api/webhooks/billing", bytes.NewReader(tt.body))
			if tt.signature != "" {
				req.Header.Set("X-Api-Signature", tt.signature)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			serviceMock.AssertExpectations(t)
		})
	}
}
