// Package models содержит доменные структуры биллингового ядра:
// профиль пользователя с данными подписки, уведомления, инвестиции,
// а также типы входящих событий платёжного провайдера.
package models

// Возможные значения статуса подписки в профиле.
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusNone      = "none"
)

// Возможные значения тарифного плана в профиле.
const (
	SubscriptionPlanFree    = "free"
	SubscriptionPlanPremium = "premium"
)

// Profile представляет профиль пользователя с данными подписки.
// Идентификатор выдаётся внешним сервисом аутентификации.
// Поля SubscriptionStatus и SubscriptionPlan всегда меняются вместе,
// одним запросом к хранилищу.
type Profile struct {
	ID                 string  `json:"id"`
	SubscriptionStatus string  `json:"subscription_status"` // active, cancelled или none
	SubscriptionPlan   string  `json:"subscription_plan"`   // free или premium
	SubscriptionID     *string `json:"subscription_id"`     // идентификатор подписки у платёжного провайдера
	FullName           string  `json:"full_name"`
	AvatarURL          string  `json:"avatar_url"`
}

// CheckoutRequest используется для приёма данных из JSON-запроса
// на создание платёжной сессии.
type CheckoutRequest struct {
	PriceID   string `json:"priceId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
	UserEmail string `json:"userEmail" validate:"required,email"`
}

// CheckoutSession — эфемерный дескриптор платёжной сессии.
// Нигде не сохраняется: выдаётся клиенту для редиректа и дальше
// живёт только на стороне платёжного провайдера.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	PriceID   string `json:"priceId"`
}
