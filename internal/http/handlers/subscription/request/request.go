// Package request реализует HTTP-обработчик запроса подписки на сервис.
//
// Подписка создаётся в статусе PENDING; одобряет или отклоняет её
// администратор. При неуспехе пользователю возвращается общая причина
// без деталей хранилища.
package request

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/eigengram/services-portal/internal/http/middlewarectx"
	"github.com/eigengram/services-portal/internal/http/response"
	"github.com/eigengram/services-portal/internal/models"
	"github.com/eigengram/services-portal/internal/services/lifecycle"
)

// Handler управляет HTTP-запросами на создание подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики запроса подписки.
type Service interface {
	Request(ctx context.Context, userUID, serviceID string) (*models.Subscription, lifecycle.Result)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Запросить подписку на сервис
// @Description Создает заявку на подписку в статусе PENDING для текущего пользователя.
// @Tags Subscriptions
// @Produce json
// @Param id path string true "ID сервиса"
// @Success 200 {object} response.Response "Созданная заявка"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Подписка уже существует"
// @Failure 500 {object} response.ErrorResponse "Не удалось отправить заявку"
// @Router /services/{id}/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.request"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	serviceID := chi.URLParam(r, "id")
	if serviceID == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sub, res := h.service.Request(r.Context(), userUID, serviceID)
	if !res.OK {
		log.Error("subscription request failed", slog.String("reason", res.Reason))
		if res.Reason == "subscription for this service already exists" {
			w.WriteHeader(http.StatusConflict)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		render.JSON(w, r, response.Error(res.Reason))
		return
	}

	log.Info("subscription requested", slog.String("id", sub.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":     sub.ID,
		"status": sub.Status,
	}))
}
