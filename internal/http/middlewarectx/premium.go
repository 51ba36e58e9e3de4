package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/foundersignal/billing-gateway/internal/entitlement"
	"github.com/foundersignal/billing-gateway/internal/http/response"
	"github.com/foundersignal/billing-gateway/internal/lib/sl"
	"github.com/foundersignal/billing-gateway/internal/models"
)

// ProfileProvider определяет интерфейс для получения профиля пользователя.
type ProfileProvider interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
}

// PremiumRequiredMiddleware создает middleware, пропускающий только пользователей
// с активной premium-подпиской. Правом доступа владеет сохранённый профиль,
// а не токен: отмена подписки действует сразу после обработки вебхука.
func PremiumRequiredMiddleware(log *slog.Logger, profiles ProfileProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			profile, err := profiles.Get(r.Context(), userUID)
			if err != nil {
				log.Error("failed to get profile", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if !entitlement.IsPremium(*profile) {
				log.Info("premium subscription required, access denied",
					slog.String("user_id", userUID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("premium subscription required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
