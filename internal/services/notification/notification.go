// Package notification содержит бизнес-логику ленты уведомлений:
// выборка страницы, пометка прочитанным и живая подписка на новые записи.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/foundersignal/billing-gateway/internal/lib/sl"
	"github.com/foundersignal/billing-gateway/internal/models"
)

// NotificationRepository определяет методы хранилища уведомлений.
type NotificationRepository interface {
	ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (int64, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)
}

// Subscriber описывает подписку на канал живой доставки уведомлений.
type Subscriber interface {
	SubscribeNotifications(ctx context.Context, userID string) (<-chan []byte, error)
}

// Service реализует операции над лентой уведомлений пользователя.
type Service struct {
	repo       NotificationRepository
	subscriber Subscriber
	pageSize   int
	log        *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo NotificationRepository, subscriber Subscriber, pageSize int) *Service {
	return &Service{
		repo:       repo,
		subscriber: subscriber,
		pageSize:   pageSize,
		log:        log,
	}
}

// List возвращает страницу уведомлений пользователя, новые первыми.
func (s *Service) List(ctx context.Context, userID string) ([]models.Notification, error) {
	const op = "notification.List"
	result, err := s.repo.ListNotifications(ctx, userID, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkRead помечает уведомление прочитанным. Уже прочитанное
// уведомление — no-op, переход только false -> true.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	const op = "notification.MarkRead"
	if _, err := s.repo.MarkNotificationRead(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkAllRead помечает все уведомления пользователя прочитанными.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	const op = "notification.MarkAllRead"
	count, err := s.repo.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("marked all notifications read",
		slog.String("user_id", userID), slog.Int64("count", count))
	return nil
}

// Subscribe открывает живую подписку на новые уведомления пользователя.
// Каждое сообщение канала — отдельное уведомление; подписка живёт
// до отмены контекста. Сообщения, которые не удалось декодировать,
// пропускаются с записью в лог.
func (s *Service) Subscribe(ctx context.Context, userID string) (<-chan models.Notification, error) {
	const op = "notification.Subscribe"

	raw, err := s.subscriber.SubscribeNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make(chan models.Notification)
	go func() {
		defer close(out)
		for body := range raw {
			var n models.Notification
			if err := json.Unmarshal(body, &n); err != nil {
				s.log.Error("failed to decode pushed notification", sl.Err(err))
				continue
			}
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
