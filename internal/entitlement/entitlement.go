// Package entitlement содержит чистый предикат premium-доступа.
//
// Предикат не делает I/O и не кеширует: решение принимается только по
// переданному значению профиля. Вызывающая сторона обязана пересчитывать
// его после каждого перечитывания профиля — это единственный источник
// истины для всех premium-действий.
package entitlement

import "github.com/foundersignal/billing-gateway/internal/models"

// IsPremium сообщает, открыт ли пользователю premium-доступ.
// Истина тогда и только тогда, когда подписка активна и тариф premium.
func IsPremium(p models.Profile) bool {
	return p.SubscriptionStatus == models.SubscriptionStatusActive &&
		p.SubscriptionPlan == models.SubscriptionPlanPremium
}
