// Package lifecycle реализует машину состояний подписки и мутации,
// которые её двигают: запрос, одобрение, отклонение и деактивация.
//
// Допустимые переходы: PENDING -> ACTIVE | CANCELLED, ACTIVE -> INACTIVE.
// CANCELLED и INACTIVE терминальны.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/eigengram/services-portal/internal/cache"
	"github.com/eigengram/services-portal/internal/events"
	"github.com/eigengram/services-portal/internal/lib/sl"
	"github.com/eigengram/services-portal/internal/models"
	"github.com/eigengram/services-portal/internal/storage"
)

// Result — итог мутации подписки. Мутации не паникуют и не пробрасывают
// ошибку хранилища наружу: при неуспехе Reason содержит причину,
// пригодную для показа человеку.
type Result struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func ok() Result                { return Result{OK: true} }
func fail(reason string) Result { return Result{OK: false, Reason: reason} }

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
	GetSubscription(ctx context.Context, id string) (*models.Subscription, error)
	HasLiveSubscription(ctx context.Context, userUID, serviceID string) (bool, error)
	UpdateSubscriptionStatus(ctx context.Context, id, from, to string, resetStartDate bool) error
	ListSubscriptionsForUser(ctx context.Context, userUID, status string) ([]*models.SubscriptionEntry, error)
	ListAllSubscriptions(ctx context.Context) ([]*models.SubscriptionEntry, error)
}

// Cache описывает методы для инвалидации кешированных представлений.
type Cache interface {
	Invalidate(keys ...string) error
}

// EventBus описывает публикацию событий об изменении сущностей.
type EventBus interface {
	Publish(event events.EntityChanged) error
}

// Manager реализует жизненный цикл подписок.
type Manager struct {
	repo  SubscriptionRepository
	cache Cache
	bus   EventBus
	log   *slog.Logger
}

// New создает новый Manager.
func New(repo SubscriptionRepository, cache Cache, bus EventBus, log *slog.Logger) *Manager {
	return &Manager{
		repo:  repo,
		cache: cache,
		bus:   bus,
		log:   log,
	}
}

// Request создает подписку в статусе PENDING с датой начала "сейчас".
// Повторный запрос при живой (неотменённой) подписке на тот же сервис
// отклоняется; отменённые подписки новый запрос не блокируют.
func (m *Manager) Request(ctx context.Context, userUID, serviceID string) (*models.Subscription, Result) {
	exists, err := m.repo.HasLiveSubscription(ctx, userUID, serviceID)
	if err != nil {
		m.log.Error("failed to check existing subscription", sl.Err(err), sl.UID(userUID))
		return nil, fail("failed to submit subscription request")
	}
	if exists {
		return nil, fail("subscription for this service already exists")
	}

	sub := models.Subscription{
		UserUID:   userUID,
		ServiceID: serviceID,
		Status:    models.StatusPending,
		StartDate: time.Now(),
	}
	id, err := m.repo.CreateSubscription(ctx, sub)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, fail("subscription for this service already exists")
		}
		m.log.Error("failed to create subscription", sl.Err(err), sl.UID(userUID))
		return nil, fail("failed to submit subscription request")
	}
	sub.ID = id
	m.log.Info("subscription requested", slog.String("id", id), sl.UID(userUID))

	m.invalidateViews(userUID, serviceID)
	m.publish(id, events.ActionRequested)
	return &sub, ok()
}

// Approve переводит подписку PENDING -> ACTIVE и перезаписывает дату начала
// моментом одобрения: период подписки отсчитывается от активации,
// а не от запроса.
func (m *Manager) Approve(ctx context.Context, id string) Result {
	return m.transition(ctx, id, models.StatusActive, true)
}

// Reject переводит подписку PENDING -> CANCELLED, дата начала не меняется.
func (m *Manager) Reject(ctx context.Context, id string) Result {
	return m.transition(ctx, id, models.StatusCancelled, false)
}

// Deactivate переводит подписку ACTIVE -> INACTIVE, дата начала не меняется.
func (m *Manager) Deactivate(ctx context.Context, id string) Result {
	return m.transition(ctx, id, models.StatusInactive, false)
}

func (m *Manager) transition(ctx context.Context, id, to string, resetStartDate bool) Result {
	sub, err := m.repo.GetSubscription(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fail("subscription not found")
		}
		m.log.Error("failed to read subscription", sl.Err(err), slog.String("id", id))
		return fail("failed to update subscription")
	}

	if !models.CanTransition(sub.Status, to) {
		return fail("subscription is " + sub.Status + ", cannot become " + to)
	}

	if err := m.repo.UpdateSubscriptionStatus(ctx, id, sub.Status, to, resetStartDate); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Статус сменился между чтением и записью.
			return fail("subscription status has changed, refresh and retry")
		}
		m.log.Error("failed to update subscription", sl.Err(err), slog.String("id", id))
		return fail("failed to update subscription")
	}
	m.log.Info("subscription status updated",
		slog.String("id", id), slog.String("from", sub.Status), slog.String("to", to))

	m.invalidateViews(sub.UserUID, sub.ServiceID)
	m.publish(id, events.ActionUpdated)
	return ok()
}

// ListForUser возвращает подписки пользователя с данными сервиса.
// Пустой status означает все статусы.
func (m *Manager) ListForUser(ctx context.Context, userUID, status string) ([]*models.SubscriptionEntry, error) {
	return m.repo.ListSubscriptionsForUser(ctx, userUID, status)
}

// ListAll возвращает все подписки для экрана администратора.
func (m *Manager) ListAll(ctx context.Context) ([]*models.SubscriptionEntry, error) {
	return m.repo.ListAllSubscriptions(ctx)
}

// invalidateViews сбрасывает представления, на которых видна подписка:
// список в админке, дашборд пользователя, страницу сервиса и список
// доступных пользователю сервисов.
func (m *Manager) invalidateViews(userUID, serviceID string) {
	err := m.cache.Invalidate(
		cache.KeyAdminSubscriptions(),
		cache.KeyUserDashboard(userUID),
		cache.KeyServiceDetail(serviceID),
		cache.KeyActiveServices(userUID),
	)
	if err != nil {
		m.log.Warn("failed to invalidate subscription views", slog.Any("err", err))
	}
}

func (m *Manager) publish(id, action string) {
	err := m.bus.Publish(events.EntityChanged{
		Entity: events.EntitySubscription,
		ID:     id,
		Action: action,
	})
	if err != nil {
		m.log.Warn("failed to publish subscription event", slog.Any("err", err))
	}
}
