// Package update реализует HTTP-обработчик решений администратора по заявке:
// approve (PENDING -> ACTIVE), reject (PENDING -> CANCELLED)
// и deactivate (ACTIVE -> INACTIVE).
//
// Действие берётся из URL; недопустимый переход возвращается как осмысленная
// причина, а не ошибка сервера.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/eigengram/services-portal/internal/http/response"
	"github.com/eigengram/services-portal/internal/services/lifecycle"
)

// Действия администратора над заявкой.
const (
	ActionApprove    = "approve"
	ActionReject     = "reject"
	ActionDeactivate = "deactivate"
)

// Handler управляет HTTP-запросами на смену статуса подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс машины состояний подписки.
type Service interface {
	Approve(ctx context.Context, id string) lifecycle.Result
	Reject(ctx context.Context, id string) lifecycle.Result
	Deactivate(ctx context.Context, id string) lifecycle.Result
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Решение по заявке на подписку
// @Description Переводит подписку по действию: approve, reject или deactivate.
// @Tags Admin
// @Produce json
// @Param id path string true "ID подписки"
// @Param action path string true "Действие: approve, reject, deactivate"
// @Success 200 {object} response.Response "Итог перехода"
// @Failure 400 {object} response.ErrorResponse "Неизвестное действие"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 409 {object} response.ErrorResponse "Недопустимый переход"
// @Router /admin/subscriptions/{id}/{action} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	var res lifecycle.Result
	action := chi.URLParam(r, "action")
	switch action {
	case ActionApprove:
		res = h.service.Approve(r.Context(), id)
	case ActionReject:
		res = h.service.Reject(r.Context(), id)
	case ActionDeactivate:
		res = h.service.Deactivate(r.Context(), id)
	default:
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown action"))
		return
	}

	if !res.OK {
		log.Error("subscription update failed",
			slog.String("id", id), slog.String("action", action), slog.String("reason", res.Reason))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error(res.Reason))
		return
	}

	log.Info("subscription updated", slog.String("id", id), slog.String("action", action))
	render.JSON(w, r, response.OK())
}
