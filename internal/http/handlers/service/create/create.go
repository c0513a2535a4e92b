// Package create реализует HTTP-обработчик создания нового сервиса
// администратором.
//
// Handler принимает JSON-запрос с данными сервиса, валидирует их до любого
// обращения к хранилищу, вызывает бизнес-логику каталога и возвращает
// созданный сервис в JSON-формате.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/eigengram/services-portal/internal/http/response"
	"github.com/eigengram/services-portal/internal/lib/money"
	"github.com/eigengram/services-portal/internal/lib/sl"
	"github.com/eigengram/services-portal/internal/models"
)

// Handler управляет HTTP-запросами на создание сервисов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Бизнес-логика каталога сервисов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания сервиса.
type Service interface {
	Create(ctx context.Context, req models.DummyService) (*models.Service, error)
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
// @Summary Создать новый сервис
// @Description Публикует новый медицинский сервис. Доступно только администратору.
// @Tags Services
// @Accept json
// @Produce json
// @Param request body models.DummyService true "Данные нового сервиса"
// @Success 200 {object} response.Response "Созданный сервис"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании сервиса"
// @Router /admin/services [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.service.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyService
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	if _, err := money.ParseCents(req.Price); err != nil {
		log.Error("invalid price", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("field Price must match format 99.99"))
		return
	}

	service, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create service", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create service"))
		return
	}

	log.Info("service created", slog.String("id", service.ID))
	render.JSON(w, r, response.OKWithData(models.NewServiceView(service)))
}
