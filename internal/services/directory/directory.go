// Package directory содержит бизнес-логику каталога сервисов:
// создание сервиса администратором, списки для дашборда и админки,
// страница сервиса и поиск по уже выбранному списку.
package directory

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/eigengram/services-portal/internal/cache"
	"github.com/eigengram/services-portal/internal/events"
	"github.com/eigengram/services-portal/internal/lib/money"
	"github.com/eigengram/services-portal/internal/models"
)

// ServiceRepository определяет методы для работы с сервисами в хранилище.
type ServiceRepository interface {
	// CreateService добавляет новый сервис и возвращает его ID.
	CreateService(ctx context.Context, service models.Service) (string, error)
	// GetService возвращает сервис по ID.
	GetService(ctx context.Context, id string) (*models.Service, error)
	// ListActiveServices возвращает активные сервисы, при непустом uid —
	// без сервисов, на которые у пользователя уже есть подписка.
	ListActiveServices(ctx context.Context, excludeSubscriberUID string) ([]*models.Service, error)
	// ListAllServices возвращает все сервисы.
	ListAllServices(ctx context.Context) ([]*models.Service, error)
}

// Cache описывает методы для кэширования представлений.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(keys ...string) error
}

// EventBus описывает публикацию событий об изменении сущностей.
type EventBus interface {
	Publish(event events.EntityChanged) error
}

// Directory реализует бизнес-логику каталога сервисов.
type Directory struct {
	repo  ServiceRepository
	cache Cache
	bus   EventBus
	log   *slog.Logger
}

// New создает новый Directory.
func New(repo ServiceRepository, cache Cache, bus EventBus, log *slog.Logger) *Directory {
	return &Directory{
		repo:  repo,
		cache: cache,
		bus:   bus,
		log:   log,
	}
}

// Create валидирует данные формы, сохраняет новый сервис с is_active=true
// и возвращает его. Валидация структуры выполняется в обработчике,
// здесь парсится только цена.
func (d *Directory) Create(ctx context.Context, req models.DummyService) (*models.Service, error) {
	cents, err := money.ParseCents(req.Price)
	if err != nil {
		return nil, err
	}

	service := models.Service{
		Name:          req.Name,
		Description:   req.Description,
		ModelEndpoint: req.ModelEndpoint,
		PriceCents:    cents,
		ImageURL:      req.ImageURL,
		IsActive:      true,
	}
	id, err := d.repo.CreateService(ctx, service)
	if err != nil {
		return nil, err
	}
	service.ID = id
	d.log.Info("created new service", slog.String("id", id), slog.String("name", service.Name))

	if err := d.cache.Invalidate(cache.KeyAdminServices()); err != nil {
		d.log.Warn("failed to invalidate services view", slog.Any("err", err))
	}
	if err := d.bus.Publish(events.EntityChanged{
		Entity: events.EntityService,
		ID:     id,
		Action: events.ActionCreated,
	}); err != nil {
		d.log.Warn("failed to publish service event", slog.Any("err", err))
	}

	return &service, nil
}

// Get возвращает сервис по ID, используя кеш страницы сервиса.
func (d *Directory) Get(ctx context.Context, id string) (*models.Service, error) {
	var result *models.Service
	cacheKey := cache.KeyServiceDetail(id)
	found, err := d.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = d.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.cache.Set(cacheKey, result, time.Hour); err != nil {
		d.log.Warn("failed to cache service", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// ListActive возвращает активные сервисы для пользователя, исключая
// сервисы с любой существующей строкой подписки этого пользователя.
func (d *Directory) ListActive(ctx context.Context, excludeSubscriberUID string) ([]*models.Service, error) {
	var result []*models.Service
	cacheKey := cache.KeyActiveServices(excludeSubscriberUID)
	found, err := d.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = d.repo.ListActiveServices(ctx, excludeSubscriberUID)
	if err != nil {
		return nil, err
	}

	if err := d.cache.Set(cacheKey, result, time.Hour); err != nil {
		d.log.Warn("failed to cache active services", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// ListAll возвращает все сервисы для экрана администратора.
func (d *Directory) ListAll(ctx context.Context) ([]*models.Service, error) {
	return d.repo.ListAllServices(ctx)
}

// Search фильтрует уже выбранный список сервисов подстрокой без учёта
// регистра по имени и описанию. Пустой запрос возвращает список без изменений.
// Дополнительного похода в хранилище нет.
func Search(corpus []*models.Service, term string) []*models.Service {
	if term == "" {
		return corpus
	}
	needle := strings.ToLower(term)
	var result []*models.Service
	for _, svc := range corpus {
		if strings.Contains(strings.ToLower(svc.Name), needle) ||
			strings.Contains(strings.ToLower(svc.Description), needle) {
			result = append(result, svc)
		}
	}
	return result
}
