package repository

import (
	"context"
	"fmt"

	"github.com/foundersignal/billing-gateway/internal/models"
)

// CreateInvestment вставляет новую инвестиционную заявку.
func (s *Storage) CreateInvestment(ctx context.Context, inv models.Investment) error {
	const op = "storage.CreateInvestment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO investments (id, user_id, project_name, amount_minor, created_at)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query,
		inv.ID, inv.UserID, inv.ProjectName, inv.AmountMinor, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
