package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/foundersignal/billing-gateway/internal/models"
)

// ErrProfileNotFound возвращается, когда профиль с указанным
// идентификатором отсутствует в хранилище.
var ErrProfileNotFound = errors.New("profile not found")

// GetProfile возвращает профиль пользователя по его идентификатору.
func (s *Storage) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscription_status, subscription_plan, subscription_id, full_name, avatar_url
			  FROM profiles WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Profile
	var subscriptionID sql.NullString
	err := row.Scan(&result.ID, &result.SubscriptionStatus, &result.SubscriptionPlan,
		&subscriptionID, &result.FullName, &result.AvatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if subscriptionID.Valid {
		result.SubscriptionID = &subscriptionID.String
	}
	return &result, nil
}

// ActivateSubscription переводит профиль в состояние premium/active одним
// запросом: статус, тариф и идентификатор подписки меняются атомарно.
// Запрос — безусловная перезапись, поэтому повторная доставка того же
// события провайдера безопасна. Возвращает количество изменённых строк.
func (s *Storage) ActivateSubscription(ctx context.Context, userID, subscriptionID string) (int64, error) {
	const op = "storage.ActivateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles
			  SET subscription_status = $1, subscription_plan = $2, subscription_id = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query,
		models.SubscriptionStatusActive, models.SubscriptionPlanPremium, subscriptionID, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// CancelSubscription переводит профиль, сопоставленный по идентификатору
// подписки, в состояние free/cancelled и возвращает идентификатор
// пользователя. Отсутствие совпавшего профиля не является ошибкой:
// возвращается пустая строка.
func (s *Storage) CancelSubscription(ctx context.Context, subscriptionID string) (string, error) {
	const op = "storage.CancelSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles
			  SET subscription_status = $1, subscription_plan = $2
			  WHERE subscription_id = $3
			  RETURNING id`
	var userID string
	err := s.DB.QueryRowContext(ctx, query,
		models.SubscriptionStatusCancelled, models.SubscriptionPlanFree, subscriptionID).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return userID, nil
}

// UpdateProfileDisplay обновляет отображаемые поля профиля.
// Биллинговых полей не касается. Возвращает количество изменённых строк.
func (s *Storage) UpdateProfileDisplay(ctx context.Context, id, fullName, avatarURL string) (int64, error) {
	const op = "storage.UpdateProfileDisplay"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles SET full_name = $1, avatar_url = $2 WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, fullName, avatarURL, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}
