// Package sender собирает worker-приложение notification-sender:
// потребителя биллинговых извещений из RabbitMQ, который сохраняет
// уведомления и доставляет их в живые ленты через Redis.
package sender

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/foundersignal/billing-gateway/internal/cache"
	"github.com/foundersignal/billing-gateway/internal/config"
	"github.com/foundersignal/billing-gateway/internal/lib/rabbitmq"
	senderservice "github.com/foundersignal/billing-gateway/internal/services/sender"
	"github.com/foundersignal/billing-gateway/internal/storage/repository"
)

// App инкапсулирует потребителя извещений и его внешние соединения.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New собирает приложение: хранилище, Redis, RabbitMQ и сервис отправки.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitConnectionString, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	senderService := senderservice.New(logger, db, cacheRedis)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди извещений и блокируется
// до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.BillingQueue, a.senderService.HandleBillingNotice)
	if err != nil {
		a.logger.Error("failed to start billing notices consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notification-sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
