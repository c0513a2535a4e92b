// Package list реализует HTTP-обработчик списка доступных сервисов
// для дашборда пользователя.
//
// Возвращаются активные сервисы без тех, на которые у пользователя уже есть
// подписка. Параметр q фильтрует уже выбранный список подстрокой в памяти,
// без дополнительного похода в хранилище.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/eigengram/services-portal/internal/http/middlewarectx"
	"github.com/eigengram/services-portal/internal/http/response"
	"github.com/eigengram/services-portal/internal/lib/sl"
	"github.com/eigengram/services-portal/internal/models"
	"github.com/eigengram/services-portal/internal/services/directory"
)

// Handler управляет HTTP-запросами на список доступных сервисов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка сервисов.
type Service interface {
	ListActive(ctx context.Context, excludeSubscriberUID string) ([]*models.Service, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список доступных сервисов
// @Description Активные сервисы без уже запрошенных пользователем. Параметр q — поиск подстрокой по имени и описанию.
// @Tags Services
// @Produce json
// @Param q query string false "Поисковый запрос"
// @Success 200 {object} response.Response "Список сервисов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /services [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.service.list"
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

	services, err := h.service.ListActive(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list services", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list services"))
		return
	}

	services = directory.Search(services, r.URL.Query().Get("q"))
	render.JSON(w, r, response.OKWithData(models.NewServiceViews(services)))
}
