// Package account содержит бизнес-логику учётных записей:
// онбординг после входа через identity-провайдер, настройки аккаунта,
// список пользователей для админки и пожелания новых функций.
package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/eigengram/services-portal/internal/cache"
	"github.com/eigengram/services-portal/internal/events"
	"github.com/eigengram/services-portal/internal/lib/sl"
	"github.com/eigengram/services-portal/internal/models"
	"github.com/eigengram/services-portal/internal/storage"
)

// Result — итог мутации аккаунта с человеко-читаемой причиной при неуспехе.
type Result struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func ok() Result                { return Result{OK: true} }
func fail(reason string) Result { return Result{OK: false, Reason: reason} }

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	UpdateUserByExternalID(ctx context.Context, externalID, name, email, phoneNumber string) error
	UpdateUser(ctx context.Context, userUID, name, email, phoneNumber string) error
	GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	CreateFeatureRequest(ctx context.Context, fr models.FeatureRequest) (string, error)
	ListFeatureRequests(ctx context.Context) ([]*models.FeatureRequest, error)
	UpdateFeatureRequestStatus(ctx context.Context, id, status string) error
}

// Cache описывает методы для инвалидации кешированных представлений.
type Cache interface {
	Invalidate(keys ...string) error
}

// EventBus описывает публикацию событий об изменении сущностей.
type EventBus interface {
	Publish(event events.EntityChanged) error
}

// Service реализует бизнес-логику учётных записей.
type Service struct {
	repo  UserRepository
	cache Cache
	bus   EventBus
	log   *slog.Logger
}

// New создает новый Service.
func New(repo UserRepository, cache Cache, bus EventBus, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		bus:   bus,
		log:   log,
	}
}

// Onboard создает пользователя при первом онбординге либо обновляет профиль
// существующего: upsert по внешнему идентификатору identity-провайдера.
func (s *Service) Onboard(ctx context.Context, externalID string, req models.DummyOnboarding) (*models.User, error) {
	existing, err := s.repo.GetUserByExternalID(ctx, externalID)
	switch {
	case err == nil:
		if err := s.repo.UpdateUserByExternalID(ctx, externalID,
			req.Name, req.Email, req.PhoneNumber); err != nil {
			return nil, err
		}
		existing.Name = req.Name
		existing.Email = req.Email
		existing.PhoneNumber = req.PhoneNumber
		s.log.Info("updated user on onboarding", sl.UID(existing.UID))
	case errors.Is(err, storage.ErrNotFound):
		user := models.User{
			ExternalID:  externalID,
			Name:        req.Name,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			Role:        models.RoleUser,
		}
		uid, err := s.repo.CreateUser(ctx, user)
		if err != nil {
			return nil, err
		}
		user.UID = uid
		existing = &user
		s.log.Info("created user on onboarding", sl.UID(uid))
	default:
		return nil, err
	}

	if err := s.cache.Invalidate(cache.KeyUserDashboard(existing.UID)); err != nil {
		s.log.Warn("failed to invalidate dashboard view", slog.Any("err", err))
	}
	s.publish(events.EntityUser, existing.UID, events.ActionUpdated)
	return existing, nil
}

// Update обновляет имя, почту и телефон пользователя из настроек аккаунта.
func (s *Service) Update(ctx context.Context, userUID string, req models.DummyAccountUpdate) Result {
	if err := s.repo.UpdateUser(ctx, userUID, req.Name, req.Email, req.PhoneNumber); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fail("user not found")
		}
		s.log.Error("failed to update user account", sl.Err(err), sl.UID(userUID))
		return fail("failed to update user account")
	}
	s.log.Info("updated user account", sl.UID(userUID))

	if err := s.cache.Invalidate(cache.KeyUserDashboard(userUID)); err != nil {
		s.log.Warn("failed to invalidate dashboard view", slog.Any("err", err))
	}
	s.publish(events.EntityUser, userUID, events.ActionUpdated)
	return ok()
}

// GetByExternalID возвращает локального пользователя по внешнему идентификатору
// сессии. storage.ErrNotFound означает, что онбординг ещё не пройден.
func (s *Service) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.repo.GetUserByExternalID(ctx, externalID)
}

// Get возвращает пользователя по его UID.
func (s *Service) Get(ctx context.Context, userUID string) (*models.User, error) {
	return s.repo.GetUser(ctx, userUID)
}

// ListUsers возвращает всех пользователей для экрана администратора.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// CreateFeatureRequest сохраняет пожелание пользователя со статусом NEW.
func (s *Service) CreateFeatureRequest(ctx context.Context, userUID string, req models.DummyFeatureRequest) Result {
	fr := models.FeatureRequest{
		UserUID:     userUID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.FeatureStatusNew,
	}
	id, err := s.repo.CreateFeatureRequest(ctx, fr)
	if err != nil {
		s.log.Error("failed to create feature request", sl.Err(err), sl.UID(userUID))
		return fail("failed to create feature request")
	}
	s.log.Info("created feature request", slog.String("id", id), sl.UID(userUID))

	s.publish(events.EntityFeatureRequest, id, events.ActionCreated)
	return ok()
}

// ListFeatureRequests возвращает все пожелания для экрана администратора.
func (s *Service) ListFeatureRequests(ctx context.Context) ([]*models.FeatureRequest, error) {
	return s.repo.ListFeatureRequests(ctx)
}

// UpdateFeatureRequestStatus меняет статус пожелания (действие администратора).
func (s *Service) UpdateFeatureRequestStatus(ctx context.Context, id, status string) Result {
	if err := s.repo.UpdateFeatureRequestStatus(ctx, id, status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fail("feature request not found")
		}
		s.log.Error("failed to update feature request", sl.Err(err), slog.String("id", id))
		return fail("failed to update feature request")
	}
	s.publish(events.EntityFeatureRequest, id, events.ActionUpdated)
	return ok()
}

func (s *Service) publish(entity, id, action string) {
	err := s.bus.Publish(events.EntityChanged{
		Entity: entity,
		ID:     id,
		Action: action,
	})
	if err != nil {
		s.log.Warn("failed to publish account event", slog.Any("err", err))
	}
}
