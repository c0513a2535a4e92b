// Package list реализует HTTP-обработчик списка пожеланий
// для экрана администратора.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/eigengram/services-portal/internal/http/response"
	"github.com/eigengram/services-portal/internal/lib/sl"
	"github.com/eigengram/services-portal/internal/models"
)

// Handler управляет HTTP-запросами на список пожеланий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка пожеланий.
type Service interface {
	ListFeatureRequests(ctx context.Context) ([]*models.FeatureRequest, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// featureRequestView — представление пожелания для JSON-ответа.
type featureRequestView struct {
	ID          string    `json:"id"`
	UserUID     string    `json:"user_uid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ServeHTTP godoc
// @Summary Все пожелания (админка)
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response "Список пожеланий"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/feature-requests [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.featurerequest.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.ListFeatureRequests(r.Context())
	if err != nil {
		log.Error("failed to list feature requests", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list feature requests"))
		return
	}

	views := make([]featureRequestView, 0, len(items))
	for _, fr := range items {
		views = append(views, featureRequestView{
			ID:          fr.ID,
			UserUID:     fr.UserUID,
			Title:       fr.Title,
			Description: fr.Description,
			Status:      fr.Status,
			CreatedAt:   fr.CreatedAt,
		})
	}
	render.JSON(w, r, response.OKWithData(views))
}
