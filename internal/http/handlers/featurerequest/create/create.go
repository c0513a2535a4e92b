// Package create реализует HTTP-обработчик отправки пожелания новой функции.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/eigengram/services-portal/internal/http/middlewarectx"
	"github.com/eigengram/services-portal/internal/http/response"
	"github.com/eigengram/services-portal/internal/lib/sl"
	"github.com/eigengram/services-portal/internal/models"
	"github.com/eigengram/services-portal/internal/services/account"
)

// Handler управляет HTTP-запросами на создание пожелания.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики пожеланий.
type Service interface {
	CreateFeatureRequest(ctx context.Context, userUID string, req models.DummyFeatureRequest) account.Result
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отправить пожелание новой функции
// @Tags FeatureRequests
// @Accept json
// @Produce json
// @Param request body models.DummyFeatureRequest true "Заголовок и описание"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Не удалось сохранить пожелание"
// @Router /feature-requests [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.featurerequest.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyFeatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res := h.service.CreateFeatureRequest(r.Context(), userUID, req)
	if !res.OK {
		log.Error("feature request failed", slog.String("reason", res.Reason))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(res.Reason))
		return
	}

	log.Info("feature request created", sl.UID(userUID))
	render.JSON(w, r, response.OK())
}
