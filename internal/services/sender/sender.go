// Package sender содержит обработчик биллинговых извещений из RabbitMQ:
// извещение превращается в уведомление, сохраняется в хранилище
// и публикуется в канал живой доставки подключённым клиентам.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/foundersignal/billing-gateway/internal/lib/sl"
	"github.com/foundersignal/billing-gateway/internal/models"
)

// NotificationRepository определяет запись уведомлений в хранилище.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n models.Notification) error
}

// Pusher публикует уведомление в канал живой доставки пользователя.
type Pusher interface {
	PublishNotification(ctx context.Context, userID string, notification any) error
}

// Service превращает биллинговые извещения в уведомления пользователей.
type Service struct {
	repo   NotificationRepository
	pusher Pusher
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo NotificationRepository, pusher Pusher) *Service {
	return &Service{
		repo:   repo,
		pusher: pusher,
		log:    log,
	}
}

// HandleBillingNotice обрабатывает одно сообщение очереди. Возврат ошибки
// приводит к nack и повторной доставке, поэтому ошибкой считается только
// провал записи в хранилище: сбой живой доставки после успешной записи
// лишь логируется — запись догонит клиента при следующем чтении ленты.
func (s *Service) HandleBillingNotice(body []byte) error {
	const op = "sender.HandleBillingNotice"
	log := s.log.With(slog.String("op", op))

	var notice models.BillingNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		log.Error("failed to unmarshal billing notice", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := notificationFor(notice)
	if err != nil {
		// Неизвестный вид извещения: переповтор не поможет, сообщение
		// подтверждается и отбрасывается.
		log.Warn("unknown billing notice kind, dropped", slog.String("kind", notice.Kind))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.repo.CreateNotification(ctx, n); err != nil {
		log.Error("failed to persist notification", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.pusher.PublishNotification(ctx, notice.UserID, n); err != nil {
		log.Error("failed to push notification", sl.Err(err))
	}

	log.Info("notification delivered",
		slog.String("user_id", notice.UserID), slog.String("kind", notice.Kind))
	return nil
}

func notificationFor(notice models.BillingNotice) (models.Notification, error) {
	n := models.Notification{
		ID:        uuid.New().String(),
		UserID:    notice.UserID,
		CreatedAt: time.Now().UTC(),
	}

	switch notice.Kind {
	case models.NoticeSubscriptionActivated:
		n.Title = "Подписка активирована"
		n.Message = "Оплата прошла успешно, premium-доступ открыт."
		n.Type = models.NotificationTypeSuccess
	case models.NoticeSubscriptionCancelled:
		link := "/pricing"
		n.Title = "Подписка отменена"
		n.Message = "Подписка завершена, тариф переключён на бесплатный."
		n.Type = models.NotificationTypeWarning
		n.Link = &link
	default:
		return models.Notification{}, fmt.Errorf("unknown notice kind: %s", notice.Kind)
	}
	return n, nil
}
