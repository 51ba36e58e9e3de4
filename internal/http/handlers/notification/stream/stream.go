// Package stream реализует HTTP-обработчик живой ленты уведомлений
// поверх Server-Sent Events.
//
// Обработчик подписывается на канал доставки текущего пользователя
// и пишет каждое новое уведомление отдельным SSE-событием. Соединение
// живёт до разрыва со стороны клиента.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/foundersignal/billing-gateway/internal/http/middlewarectx"
	"github.com/foundersignal/billing-gateway/internal/http/response"
	"github.com/foundersignal/billing-gateway/internal/lib/sl"
	"github.com/foundersignal/billing-gateway/internal/models"
)

// Service описывает интерфейс живой подписки на уведомления.
type Service interface {
	Subscribe(ctx context.Context, userID string) (<-chan models.Notification, error)
}

// Handler управляет SSE-соединениями живой ленты уведомлений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Живая лента уведомлений
// @Description Открывает SSE-поток, по которому доставляются новые уведомления текущего пользователя.
// @Tags Notifications
// @Produce  text/event-stream
// @Security BearerAuth
// @Success 200 "SSE-поток уведомлений"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка открытия подписки"
// @Router /api/notifications/stream [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.stream"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("response writer does not support streaming")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("streaming unsupported"))
		return
	}

	notifications, err := h.service.Subscribe(r.Context(), userUID)
	if err != nil {
		log.Error("failed to subscribe to notifications", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to open stream"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	log.Info("notification stream opened", slog.String("user_id", userUID))

	for {
		select {
		case <-r.Context().Done():
			log.Info("notification stream closed", slog.String("user_id", userUID))
			return
		case n, open := <-notifications:
			if !open {
				log.Info("notification source closed", slog.String("user_id", userUID))
				return
			}
			data, err := json.Marshal(n)
			if err != nil {
				log.Error("failed to marshal notification", sl.Err(err))
				continue
			}
			fmt.Fprintf(w, "event: notification\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
