// Package create реализует HTTP-обработчик для создания checkout-сессий оплаты.
//
// Handler принимает JSON-запрос с идентификатором тарифа и данными пользователя,
// валидирует их и создает сессию оплаты у платёжного провайдера через сервис.
// В ответе возвращается ID сессии, по которому фронтенд выполняет редирект.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/foundersignal/billing-gateway/internal/http/middlewarectx"
	"github.com/foundersignal/billing-gateway/internal/http/response"
	"github.com/foundersignal/billing-gateway/internal/lib/sl"
	"github.com/foundersignal/billing-gateway/internal/models"
	"github.com/foundersignal/billing-gateway/internal/paymentprovider"
	"github.com/foundersignal/billing-gateway/internal/services/checkout"
)

// Handler управляет HTTP-запросами на создание checkout-сессий.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики создания сессий
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания checkout-сессии.
type Service interface {
	Create(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать checkout-сессию
// @Description Создает сессию оплаты подписки у платёжного провайдера. Возвращает ID сессии для редиректа.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.CheckoutRequest true "Тариф и данные пользователя"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или неизвестный тариф"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/create-checkout-session [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	req.UserID = userUID
	if req.UserEmail == "" {
		if email, ok := r.Context().Value(middlewarectx.UserEmail).(string); ok {
			req.UserEmail = email
		}
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	session, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrInvalidPlan):
			log.Error("unknown price id", slog.String("price_id", req.PriceID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown price id"))
		case errors.Is(err, paymentprovider.ErrUpstreamUnavailable):
			log.Error("payment provider unavailable", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to create checkout session"))
		default:
			log.Error("failed to create checkout session", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to create checkout session"))
		}
		return
	}

	log.Info("checkout session created",
		slog.String("session_id", session.SessionID),
		slog.String("user_id", userUID))
	render.JSON(w, r, map[string]string{"id": session.SessionID})
}
