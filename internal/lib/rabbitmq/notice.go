package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/foundersignal/billing-gateway/internal/models"
)

// NoticePublisher публикует биллинговые извещения в обменник billing.
type NoticePublisher struct {
	ch *amqp.Channel
}

// NewNoticePublisher создает новый NoticePublisher поверх открытого канала.
func NewNoticePublisher(ch *amqp.Channel) *NoticePublisher {
	return &NoticePublisher{ch: ch}
}

// Publish отправляет извещение с ключом маршрутизации subscription.
func (p *NoticePublisher) Publish(notice models.BillingNotice) error {
	return PublishMessage(p.ch, BillingExchange, BillingRoutingKey, notice)
}
