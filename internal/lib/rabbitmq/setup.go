package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Имена объектов топологии биллинговых извещений.
const (
	BillingExchange   = "billing"
	BillingQueue      = "billing.events"
	BillingRoutingKey = "subscription"
)

// SetupChannel открывает канал и объявляет обменник, очередь и привязку
// для биллинговых извещений. Объявления идемпотентны.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		BillingExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = ch.QueueDeclare(
		BillingQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, BillingQueue, err)
	}

	err = ch.QueueBind(BillingQueue, BillingRoutingKey, BillingExchange, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, BillingQueue, err)
	}

	return ch, nil
}
