// Package profile содержит бизнес-логику чтения и обновления профилей
// с кешированием.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/foundersignal/billing-gateway/internal/lib/sl"
	"github.com/foundersignal/billing-gateway/internal/models"
)

// ProfileRepository определяет методы для работы с профилями в хранилище.
type ProfileRepository interface {
	// GetProfile возвращает профиль по идентификатору пользователя.
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	// UpdateProfileDisplay обновляет отображаемые поля профиля.
	UpdateProfileDisplay(ctx context.Context, id, fullName, avatarURL string) (int64, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует работу с профилями, включая кеширование чтений.
// Кеш инвалидируется реконсилятором при каждой мутации биллинговых
// полей, поэтому premium-предикат всегда считается по свежему профилю.
type Service struct {
	repo  ProfileRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo ProfileRepository, cache Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(id string) string {
	return "profile:" + id
}

// Get возвращает профиль пользователя, используя кеш или репозиторий.
func (s *Service) Get(ctx context.Context, id string) (*models.Profile, error) {
	var cached models.Profile
	found, err := s.cache.Get(cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read profile cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	result, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey(id), result, time.Hour); err != nil {
		s.log.Warn("failed to cache profile", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	return result, nil
}

// UpdateDisplay обновляет отображаемые поля профиля и инвалидирует кеш.
func (s *Service) UpdateDisplay(ctx context.Context, id, fullName, avatarURL string) error {
	const op = "profile.UpdateDisplay"

	rows, err := s.repo.UpdateProfileDisplay(ctx, id, fullName, avatarURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: profile not found", op)
	}

	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate profile cache", sl.Err(err))
	}
	return nil
}
