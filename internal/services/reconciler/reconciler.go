// Package reconciler приводит профили пользователей в соответствие
// с событиями платёжного провайдера.
//
// Реконсиляция — идемпотентная перезапись: оба обрабатываемых события
// описывают терминальные состояния, поэтому повторная и запоздавшая
// доставка безопасны. Ошибка записи в хранилище поднимается наверх,
// чтобы webhook-обработчик ответил не-2xx и провайдер доставил событие
// повторно; событие без разрешимой корреляции молча отбрасывается.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foundersignal/billing-gateway/internal/lib/sl"
	"github.com/foundersignal/billing-gateway/internal/metrics"
	"github.com/foundersignal/billing-gateway/internal/models"
	"github.com/foundersignal/billing-gateway/internal/paymentprovider"
)

// ProfileRepository определяет методы мутации профилей в хранилище.
type ProfileRepository interface {
	// ActivateSubscription атомарно выставляет active/premium и id подписки.
	ActivateSubscription(ctx context.Context, userID, subscriptionID string) (int64, error)
	// CancelSubscription выставляет cancelled/free по id подписки
	// и возвращает id пользователя; пустая строка — профиль не найден.
	CancelSubscription(ctx context.Context, subscriptionID string) (string, error)
}

// Provider описывает операции платёжного провайдера для перевода средств.
type Provider interface {
	GetPaymentIntent(ctx context.Context, id string) (*paymentprovider.PaymentIntent, error)
	CreateTransfer(ctx context.Context, req paymentprovider.CreateTransferRequest) (*paymentprovider.Transfer, error)
}

// NoticePublisher публикует биллинговые извещения для notification-sender.
type NoticePublisher interface {
	Publish(notice models.BillingNotice) error
}

// Cache описывает инвалидацию кеша профилей.
type Cache interface {
	Invalidate(key string) error
}

// Service реализует реконсиляцию профилей по событиям провайдера.
type Service struct {
	repo               ProfileRepository
	provider           Provider
	publisher          NoticePublisher
	cache              Cache
	destinationAccount string
	platformFeePercent int64
	log                *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo ProfileRepository, provider Provider, publisher NoticePublisher,
	cache Cache, destinationAccount string, platformFeePercent int64) *Service {
	return &Service{
		repo:               repo,
		provider:           provider,
		publisher:          publisher,
		cache:              cache,
		destinationAccount: destinationAccount,
		platformFeePercent: platformFeePercent,
		log:                log,
	}
}

// ProcessEvent применяет событие провайдера к хранилищу профилей.
// Неизвестные виды событий игнорируются. Возвращённая ошибка означает,
// что мутация не применена надёжно и событие нужно доставить повторно.
func (s *Service) ProcessEvent(ctx context.Context, ev *models.BillingEvent) error {
	const op = "reconciler.ProcessEvent"
	log := s.log.With(slog.String("op", op), sl.Event(ev.Kind))

	switch ev.Kind {
	case models.EventKindCheckoutCompleted:
		if err := s.applyCheckoutCompleted(ctx, log, ev.Checkout); err != nil {
			metrics.WebhookEventsTotal.WithLabelValues(ev.Kind, metrics.ResultError).Inc()
			return fmt.Errorf("%s: %w", op, err)
		}
		metrics.WebhookEventsTotal.WithLabelValues(ev.Kind, metrics.ResultOK).Inc()
	case models.EventKindSubscriptionDeleted:
		if err := s.applySubscriptionDeleted(ctx, log, ev.Deleted); err != nil {
			metrics.WebhookEventsTotal.WithLabelValues(ev.Kind, metrics.ResultError).Inc()
			return fmt.Errorf("%s: %w", op, err)
		}
		metrics.WebhookEventsTotal.WithLabelValues(ev.Kind, metrics.ResultOK).Inc()
	default:
		log.Info("ignored billing event")
		metrics.WebhookEventsTotal.WithLabelValues(models.EventKindUnknown, metrics.ResultIgnored).Inc()
	}
	return nil
}

func (s *Service) applyCheckoutCompleted(ctx context.Context, log *slog.Logger, ev *models.CheckoutCompletedEvent) error {
	if ev.ClientReferenceID == "" {
		// Покупателя определить нельзя, восстановление неизвестно:
		// логируем и отбрасываем без ошибки.
		log.Warn("checkout completed without client reference, event dropped",
			slog.String("session_id", ev.SessionID))
		return nil
	}

	rows, err := s.repo.ActivateSubscription(ctx, ev.ClientReferenceID, ev.Subscription)
	if err != nil {
		return err
	}
	if rows == 0 {
		log.Warn("checkout completed for unknown profile, event dropped",
			slog.String("user_id", ev.ClientReferenceID))
		return nil
	}

	log.Info("subscription activated",
		slog.String("user_id", ev.ClientReferenceID),
		slog.String("subscription_id", ev.Subscription))

	if err := s.cache.Invalidate("profile:" + ev.ClientReferenceID); err != nil {
		log.Warn("failed to invalidate profile cache", sl.Err(err))
	}

	// Перевод доли платформы — независимый побочный эффект. Его провал
	// не откатывает активацию и не превращается в ошибку обработки.
	if ev.PaymentIntent != "" {
		s.transferFunds(ctx, log, ev)
	}

	s.publishNotice(log, models.BillingNotice{
		UserID:         ev.ClientReferenceID,
		Kind:           models.NoticeSubscriptionActivated,
		SubscriptionID: ev.Subscription,
	})
	return nil
}

func (s *Service) applySubscriptionDeleted(ctx context.Context, log *slog.Logger, ev *models.SubscriptionDeletedEvent) error {
	userID, err := s.repo.CancelSubscription(ctx, ev.SubscriptionID)
	if err != nil {
		return err
	}
	if userID == "" {
		log.Info("subscription deleted for unknown subscription id, no-op",
			slog.String("subscription_id", ev.SubscriptionID))
		return nil
	}

	log.Info("subscription cancelled",
		slog.String("user_id", userID),
		slog.String("subscription_id", ev.SubscriptionID))

	if err := s.cache.Invalidate("profile:" + userID); err != nil {
		log.Warn("failed to invalidate profile cache", sl.Err(err))
	}

	s.publishNotice(log, models.BillingNotice{
		UserID:         userID,
		Kind:           models.NoticeSubscriptionCancelled,
		SubscriptionID: ev.SubscriptionID,
	})
	return nil
}

func (s *Service) transferFunds(ctx context.Context, log *slog.Logger, ev *models.CheckoutCompletedEvent) {
	intent, err := s.provider.GetPaymentIntent(ctx, ev.PaymentIntent)
	if err != nil {
		log.Error("failed to retrieve payment intent, transfer skipped", sl.Err(err))
		metrics.TransferFailuresTotal.Inc()
		return
	}

	amount := intent.Amount * (100 - s.platformFeePercent) / 100
	_, err = s.provider.CreateTransfer(ctx, paymentprovider.CreateTransferRequest{
		Amount:        amount,
		Currency:      intent.Currency,
		Destination:   s.destinationAccount,
		TransferGroup: "sub_" + ev.Subscription,
	})
	if err != nil {
		log.Error("failed to transfer funds", sl.Err(err),
			slog.Int64("amount", amount))
		metrics.TransferFailuresTotal.Inc()
		return
	}

	log.Info("funds transferred", slog.Int64("amount", amount))
}

func (s *Service) publishNotice(log *slog.Logger, notice models.BillingNotice) {
	if err := s.publisher.Publish(notice); err != nil {
		log.Error("failed to publish billing notice", sl.Err(err))
	}
}
