package models

import (
	"encoding/json"
	"fmt"
)

// Виды событий платёжного провайдера, которые обрабатывает сервис.
// Остальные виды декодируются в EventKindUnknown и игнорируются.
const (
	EventKindCheckoutCompleted   = "checkout.session.completed"
	EventKindSubscriptionDeleted = "customer.subscription.deleted"
	EventKindUnknown             = "unknown"
)

// CheckoutCompletedEvent — полезная нагрузка события завершённой
// платёжной сессии. ClientReferenceID содержит идентификатор
// пользователя, переданный при создании сессии.
type CheckoutCompletedEvent struct {
	SessionID         string            `json:"id"`
	ClientReferenceID string            `json:"client_reference_id"`
	Subscription      string            `json:"subscription"`
	PaymentIntent     string            `json:"payment_intent"`
	AmountTotal       int64             `json:"amount_total"` // сумма в минимальных единицах валюты
	Currency          string            `json:"currency"`
	Metadata          map[string]string `json:"metadata"`
}

// SubscriptionDeletedEvent — полезная нагрузка события отмены подписки.
type SubscriptionDeletedEvent struct {
	SubscriptionID string `json:"id"`
}

// BillingEvent — закрытое объединение входящих событий провайдера.
// Заполнено ровно одно из полей полезной нагрузки в соответствии с Kind.
type BillingEvent struct {
	ID       string
	Kind     string
	Checkout *CheckoutCompletedEvent
	Deleted  *SubscriptionDeletedEvent
}

type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ParseBillingEvent декодирует конверт события провайдера в BillingEvent.
// Неизвестный вид события не является ошибкой: возвращается событие
// с Kind = EventKindUnknown, которое обработчик должен проигнорировать.
func ParseBillingEvent(body []byte) (*BillingEvent, error) {
	const op = "models.ParseBillingEvent"

	var env eventEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ev := &BillingEvent{ID: env.ID}
	switch env.Type {
	case EventKindCheckoutCompleted:
		var payload CheckoutCompletedEvent
		if err := json.Unmarshal(env.Data.Object, &payload); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ev.Kind = EventKindCheckoutCompleted
		ev.Checkout = &payload
	case EventKindSubscriptionDeleted:
		var payload SubscriptionDeletedEvent
		if err := json.Unmarshal(env.Data.Object, &payload); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ev.Kind = EventKindSubscriptionDeleted
		ev.Deleted = &payload
	default:
		ev.Kind = EventKindUnknown
	}
	return ev, nil
}

// Виды внутренних биллинговых извещений, публикуемых в RabbitMQ
// после успешной реконсиляции профиля.
const (
	NoticeSubscriptionActivated = "subscription.activated"
	NoticeSubscriptionCancelled = "subscription.cancelled"
)

// BillingNotice — сообщение для notification-sender о смене
// состояния подписки пользователя.
type BillingNotice struct {
	UserID         string `json:"user_id"`
	Kind           string `json:"kind"`
	SubscriptionID string `json:"subscription_id"`
}
