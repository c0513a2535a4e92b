package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eigengram/services-portal/internal/events"
	"github.com/eigengram/services-portal/internal/models"
	"github.com/eigengram/services-portal/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) HasLiveSubscription(ctx context.Context, userUID, serviceID string) (bool, error) {
	args := m.Called(ctx, userUID, serviceID)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) UpdateSubscriptionStatus(ctx context.Context, id, from, to string, resetStartDate bool) error {
	args := m.Called(ctx, id, from, to, resetStartDate)
	return args.Error(0)
}
func (m *RepoMock) ListSubscriptionsForUser(ctx context.Context, userUID, status string) ([]*models.SubscriptionEntry, error) {
	args := m.Called(ctx, userUID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionEntry), args.Error(1)
}
func (m *RepoMock) ListAllSubscriptions(ctx context.Context) ([]*models.SubscriptionEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionEntry), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Invalidate(keys ...string) error {
	args := m.Called(keys)
	return args.Error(0)
}

type BusMock struct{ mock.Mock }

func (m *BusMock) Publish(event events.EntityChanged) error {
	args := m.Called(event)
	return args.Error(0)
}

func newTestManager(repo *RepoMock, cacheMock *CacheMock, bus *BusMock) *Manager {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(repo, cacheMock, bus, logger)
}

func TestManager_Request(t *testing.T) {
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	bus := new(BusMock)
	mgr := newTestManager(repo, cacheMock, bus)

	// Отменённая подписка на тот же сервис не блокирует новый запрос:
	// HasLiveSubscription не учитывает CANCELLED.
	repo.On("HasLiveSubscription", mock.Anything, "user-1", "svc-1").Return(false, nil)
	repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
		return s.UserUID == "user-1" && s.ServiceID == "svc-1" &&
			s.Status == models.StatusPending && !s.StartDate.IsZero()
	})).Return("sub-1", nil)
	cacheMock.On("Invalidate", mock.Anything).Return(nil)
	bus.On("Publish", mock.MatchedBy(func(e events.EntityChanged) bool {
		return e.Entity == events.EntitySubscription && e.Action == events.ActionRequested && e.ID == "sub-1"
	})).Return(nil)

	sub, res := mgr.Request(context.Background(), "user-1", "svc-1")

	require.True(t, res.OK)
	assert.Equal(t, "sub-1", sub.ID)
	assert.Equal(t, models.StatusPending, sub.Status)
	repo.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestManager_Request_AlreadyExists(t *testing.T) {
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	bus := new(BusMock)
	mgr := newTestManager(repo, cacheMock, bus)

	repo.On("HasLiveSubscription", mock.Anything, "user-1", "svc-1").Return(true, nil)

	sub, res := mgr.Request(context.Background(), "user-1", "svc-1")

	assert.False(t, res.OK)
	assert.Equal(t, "subscription for this service already exists", res.Reason)
	assert.Nil(t, sub)
	repo.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
}

func TestManager_Request_DuplicateRace(t *testing.T) {
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	bus := new(BusMock)
	mgr := newTestManager(repo, cacheMock, bus)

	// Проверка прошла, но конкурентный запрос успел вставить строку раньше.
	repo.On("HasLiveSubscription", mock.Anything, "user-1", "svc-1").Return(false, nil)
	repo.On("CreateSubscription", mock.Anything, mock.Anything).Return("", storage.ErrDuplicate)

	sub, res := mgr.Request(context.Background(), "user-1", "svc-1")

	assert.False(t, res.OK)
	assert.Equal(t, "subscription for this service already exists", res.Reason)
	assert.Nil(t, sub)
	bus.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestManager_Transitions(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		call       func(mgr *Manager) Result
		wantTo     string
		wantReset  bool
		wantOK     bool
		wantReason string
	}{
		{
			name:      "одобрение PENDING переводит в ACTIVE и сдвигает дату начала",
			current:   models.StatusPending,
			call:      func(mgr *Manager) Result { return mgr.Approve(context.Background(), "sub-1") },
			wantTo:    models.StatusActive,
			wantReset: true,
			wantOK:    true,
		},
		{
			name:      "отклонение PENDING переводит в CANCELLED",
			current:   models.StatusPending,
			call:      func(mgr *Manager) Result { return mgr.Reject(context.Background(), "sub-1") },
			wantTo:    models.StatusCancelled,
			wantReset: false,
			wantOK:    true,
		},
		{
			name:      "деактивация ACTIVE переводит в INACTIVE",
			current:   models.StatusActive,
			call:      func(mgr *Manager) Result { return mgr.Deactivate(context.Background(), "sub-1") },
			wantTo:    models.StatusInactive,
			wantReset: false,
			wantOK:    true,
		},
		{
			name:       "одобрение уже активной подписки отклоняется",
			current:    models.StatusActive,
			call:       func(mgr *Manager) Result { return mgr.Approve(context.Background(), "sub-1") },
			wantOK:     false,
			wantReason: "subscription is ACTIVE, cannot become ACTIVE",
		},
		{
			name:       "деактивация PENDING отклоняется",
			current:    models.StatusPending,
			call:       func(mgr *Manager) Result { return mgr.Deactivate(context.Background(), "sub-1") },
			wantOK:     false,
			wantReason: "subscription is PENDING, cannot become INACTIVE",
		},
		{
			name:       "отменённая подписка терминальна",
			current:    models.StatusCancelled,
			call:       func(mgr *Manager) Result { return mgr.Approve(context.Background(), "sub-1") },
			wantOK:     false,
			wantReason: "subscription is CANCELLED, cannot become ACTIVE",
		},
		{
			name:       "неактивная подписка терминальна",
			current:    models.StatusInactive,
			call:       func(mgr *Manager) Result { return mgr.Approve(context.Background(), "sub-1") },
			wantOK:     false,
			wantReason: "subscription is INACTIVE, cannot become ACTIVE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cacheMock := new(CacheMock)
			bus := new(BusMock)
			mgr := newTestManager(repo, cacheMock, bus)

			repo.On("GetSubscription", mock.Anything, "sub-1").Return(&models.Subscription{
				ID:        "sub-1",
				UserUID:   "user-1",
				ServiceID: "svc-1",
				Status:    tt.current,
			}, nil)
			if tt.wantOK {
				repo.On("UpdateSubscriptionStatus", mock.Anything, "sub-1", tt.current, tt.wantTo, tt.wantReset).
					Return(nil)
				cacheMock.On("Invalidate", mock.Anything).Return(nil)
				bus.On("Publish", mock.Anything).Return(nil)
			}

			res := tt.call(mgr)

			assert.Equal(t, tt.wantOK, res.OK)
			if !tt.wantOK {
				assert.Equal(t, tt.wantReason, res.Reason)
				repo.AssertNotCalled(t, "UpdateSubscriptionStatus",
					mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestManager_Transition_NotFound(t *testing.T) {
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	bus := new(BusMock)
	mgr := newTestManager(repo, cacheMock, bus)

	repo.On("GetSubscription", mock.Anything, "missing").Return(nil, storage.ErrNotFound)

	res := mgr.Approve(context.Background(), "missing")

	assert.False(t, res.OK)
	assert.Equal(t, "subscription not found", res.Reason)
}

func TestManager_Transition_ConcurrentChange(t *testing.T) {
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	bus := new(BusMock)
	mgr := newTestManager(repo, cacheMock, bus)

	// Другой администратор сменил статус между чтением и записью:
	// условное обновление не находит строку в прежнем статусе.
	repo.On("GetSubscription", mock.Anything, "sub-1").Return(&models.Subscription{
		ID:     "sub-1",
		Status: models.StatusPending,
	}, nil)
	repo.On("UpdateSubscriptionStatus", mock.Anything, "sub-1", models.StatusPending, models.StatusActive, true).
		Return(storage.ErrNotFound)

	res := mgr.Approve(context.Background(), "sub-1")

	assert.False(t, res.OK)
	assert.Equal(t, "subscription status has changed, refresh and retry", res.Reason)
	bus.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestManager_Request_RepoError(t *testing.T) {
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	bus := new(BusMock)
	mgr := newTestManager(repo, cacheMock, bus)

	repo.On("HasLiveSubscription", mock.Anything, "user-1", "svc-1").Return(false, errors.New("db down"))

	sub, res := mgr.Request(context.Background(), "user-1", "svc-1")

	assert.False(t, res.OK)
	assert.Equal(t, "failed to submit subscription request", res.Reason)
	assert.Nil(t, sub)
}
