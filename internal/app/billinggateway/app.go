package billinggateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/foundersignal/billing-gateway/internal/cache"
	"github.com/foundersignal/billing-gateway/internal/config"
	"github.com/foundersignal/billing-gateway/internal/lib/jwt"
	"github.com/foundersignal/billing-gateway/internal/lib/rabbitmq"
	"github.com/foundersignal/billing-gateway/internal/migrations"
	"github.com/foundersignal/billing-gateway/internal/paymentprovider"
	checkoutservice "github.com/foundersignal/billing-gateway/internal/services/checkout"
	investmentservice "github.com/foundersignal/billing-gateway/internal/services/investment"
	notificationservice "github.com/foundersignal/billing-gateway/internal/services/notification"
	profileservice "github.com/foundersignal/billing-gateway/internal/services/profile"
	reconcilerservice "github.com/foundersignal/billing-gateway/internal/services/reconciler"
	"github.com/foundersignal/billing-gateway/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер шлюза и его внешние соединения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New собирает приложение: хранилище, миграции, кеш, RabbitMQ,
// клиент платёжного провайдера, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
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

	providerClient := paymentprovider.NewClient(cfg.PaymentProvider.APIURL, cfg.PaymentProvider.SecretKey)
	verifier := jwt.NewVerifier(cfg.JWTToken.JWTSecretKey)

	checkoutService := checkoutservice.New(logger, providerClient, cfg.PaymentProvider, cfg.Plans)
	reconcilerService := reconcilerservice.New(logger, db, providerClient,
		rabbitmq.NewNoticePublisher(ch), cacheRedis,
		cfg.PaymentProvider.DestinationAccount, cfg.PaymentProvider.PlatformFeePercent)
	profileService := profileservice.New(logger, db, cacheRedis)
	notificationService := notificationservice.New(logger, db, cacheRedis, cfg.NotificationsPageSize)
	investmentService := investmentservice.New(logger, db)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, verifier, cfg.PaymentProvider.WebhookSecret, db,
		checkoutService, reconcilerService, profileService, notificationService, investmentService)

	srv := &http.Server{
		Addr:        cfg.AddressHTTP,
		Handler:     router,
		ReadTimeout: cfg.TimeoutHTTP,
		// WriteTimeout не задаётся: /api/notifications/stream держит
		// SSE-соединение открытым дольше любого разумного таймаута.
		IdleTimeout: cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbitmq channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbitmq connection", slog.Any("err", closeErr))
		}
		a.db.DB.Close()
		return err
	}
}
