// Package checkout содержит бизнес-логику создания платёжных сессий.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/foundersignal/billing-gateway/internal/config"
	"github.com/foundersignal/billing-gateway/internal/models"
	"github.com/foundersignal/billing-gateway/internal/paymentprovider"
)

// ErrInvalidPlan возвращается, когда запрошенный priceId не входит
// в каталог тарифов. Проверяется до любого обращения к провайдеру.
var ErrInvalidPlan = errors.New("unknown price id")

// Provider описывает интерфейс платёжного провайдера для создания сессий.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req paymentprovider.CreateCheckoutSessionRequest) (*paymentprovider.CreateCheckoutSessionResponse, error)
}

// Service реализует создание платёжных сессий подписочного режима.
type Service struct {
	provider Provider
	cfg      config.PaymentProvider
	plans    []config.Plan
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, provider Provider, cfg config.PaymentProvider, plans []config.Plan) *Service {
	return &Service{
		provider: provider,
		cfg:      cfg,
		plans:    plans,
		log:      log,
	}
}

func (s *Service) knownPlan(priceID string) bool {
	for _, p := range s.plans {
		if p.PriceID == priceID {
			return true
		}
	}
	return false
}

// Create создаёт платёжную сессию для пользователя и возвращает её
// дескриптор. Сессия помечается идентификатором пользователя
// (client_reference_id), чтобы webhook мог определить покупателя без
// участия клиента. Повторы при ошибке не выполняются: повтор — это
// новый клик пользователя по кнопке подписки.
func (s *Service) Create(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	const op = "checkout.Create"

	if !s.knownPlan(req.PriceID) {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrInvalidPlan, req.PriceID)
	}

	resp, err := s.provider.CreateCheckoutSession(ctx, paymentprovider.CreateCheckoutSessionRequest{
		Mode: "subscription",
		LineItems: []paymentprovider.LineItem{
			{Price: req.PriceID, Quantity: 1},
		},
		SuccessURL:         s.cfg.SuccessURL,
		CancelURL:          s.cfg.CancelURL,
		CustomerEmail:      req.UserEmail,
		ClientReferenceID:  req.UserID,
		PaymentMethodTypes: []string{"card"},
		Metadata: map[string]string{
			"userId": req.UserID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created checkout session",
		slog.String("session_id", resp.ID),
		slog.String("user_id", req.UserID))

	return &models.CheckoutSession{
		SessionID: resp.ID,
		UserID:    req.UserID,
		PriceID:   req.PriceID,
	}, nil
}
