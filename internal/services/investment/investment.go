// Package investment содержит бизнес-логику создания инвестиционных заявок.
// Доступ к операции ограничен premium-пользователями на уровне HTTP.
package investment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/foundersignal/billing-gateway/internal/models"
)

// InvestmentRepository определяет методы хранилища инвестиционных заявок.
type InvestmentRepository interface {
	CreateInvestment(ctx context.Context, inv models.Investment) error
}

// Service реализует создание инвестиционных заявок.
type Service struct {
	repo InvestmentRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo InvestmentRepository) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create создаёт инвестиционную заявку пользователя и возвращает её ID.
func (s *Service) Create(ctx context.Context, userID string, req models.DummyInvestment) (string, error) {
	const op = "investment.Create"

	inv := models.Investment{
		ID:          uuid.New().String(),
		UserID:      userID,
		ProjectName: req.ProjectName,
		AmountMinor: req.AmountMinor,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateInvestment(ctx, inv); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("investment created",
		slog.String("id", inv.ID),
		slog.String("user_id", userID),
		slog.Int64("amount_minor", inv.AmountMinor))
	return inv.ID, nil
}
