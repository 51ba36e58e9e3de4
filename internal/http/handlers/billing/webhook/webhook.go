// Package webhook реализует HTTP-обработчик входящих вебхуков платёжного провайдера.
//
// Обработчик проверяет HMAC-подпись тела запроса, разбирает событие
// и передаёт его сервису согласования. Ответ 2xx означает, что провайдер
// может считать событие доставленным; 5xx заставляет его повторить доставку.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"

	"github.com/foundersignal/billing-gateway/internal/lib/sl"
	"github.com/foundersignal/billing-gateway/internal/models"
)

// Service описывает интерфейс сервиса согласования событий биллинга.
type Service interface {
	ProcessEvent(ctx context.Context, ev *models.BillingEvent) error
}

// Handler управляет HTTP-запросами вебхуков платёжного провайдера.
type Handler struct {
	log           *slog.Logger // Логгер для записи информации и ошибок
	service       Service
	webhookSecret string // Секрет для проверки подписи
}

// New создает новый Handler с переданными логгером, сервисом и секретом подписи.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// Проверка подписи webhook (X-Api-Signature)
func (h *Handler) verifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

// ServeHTTP godoc
// @Summary Вебхук платёжного провайдера
// @Description Принимает события биллинга, проверяет подпись и применяет их к профилям пользователей.
// @Tags Billing
// @Accept  json
// @Param X-Api-Signature header string true "HMAC-SHA256 подпись тела запроса"
// @Success 200 "Событие принято"
// @Failure 400 "Некорректное тело события"
// @Failure 401 "Отсутствует или неверна подпись"
// @Failure 500 "Ошибка применения события, провайдер повторит доставку"
// @Router /api/webhooks/billing [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Проверка подписи (в заголовке X-Api-Signature)
	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.verifySignature(h.webhookSecret, body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	ev, err := models.ParseBillingEvent(body)
	if err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.service.ProcessEvent(r.Context(), ev); err != nil {
		log.Error("failed to process webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	log.Info("webhook processed successfully",
		slog.String("event_id", ev.ID), sl.Event(ev.Kind))
	w.WriteHeader(http.StatusOK)
}
