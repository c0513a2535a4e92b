// Package onboard реализует HTTP-обработчик формы онбординга после
// первого входа через identity-провайдер.
//
// Пользователь создаётся при первом сабмите и обновляется при повторном:
// upsert по внешнему идентификатору из сессии.
package onboard

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
)

// Handler управляет HTTP-запросами онбординга.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики онбординга.
type Service interface {
	Onboard(ctx context.Context, externalID string, req models.DummyOnboarding) (*models.User, error)
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
// @Summary Онбординг пользователя
// @Description Создает или обновляет профиль пользователя по данным формы онбординга.
// @Tags Account
// @Accept json
// @Produce json
// @Param request body models.DummyOnboarding true "Данные профиля"
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Не удалось сохранить данные"
// @Router /onboarding [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.onboard"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyOnboarding
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

	externalID, ok := r.Context().Value(middlewarectx.ExternalID).(string)
	if !ok || externalID == "" {
		log.Error("external id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, err := h.service.Onboard(r.Context(), externalID, req)
	if err != nil {
		log.Error("failed to save user data", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to save user data"))
		return
	}

	log.Info("user onboarded", sl.UID(user.UID))
	render.JSON(w, r, response.OKWithData(models.NewUserView(user)))
}
