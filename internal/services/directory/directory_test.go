package directory

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eigengram/services-portal/internal/events"
	"github.com/eigengram/services-portal/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateService(ctx context.Context, service models.Service) (string, error) {
	args := m.Called(ctx, service)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetService(ctx context.Context, id string) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}
func (m *RepoMock) ListActiveServices(ctx context.Context, excludeSubscriberUID string) ([]*models.Service, error) {
	args := m.Called(ctx, excludeSubscriberUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}
func (m *RepoMock) ListAllServices(ctx context.Context) ([]*models.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}
func (m *CacheMock) Invalidate(keys ...string) error {
	args := m.Called(keys)
	return args.Error(0)
}

type BusMock struct{ mock.Mock }

func (m *BusMock) Publish(event events.EntityChanged) error {
	args := m.Called(event)
	return args.Error(0)
}

func newTestDirectory(repo *RepoMock, cacheMock *CacheMock, bus *BusMock) *Directory {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(repo, cacheMock, bus, logger)
}

func TestDirectory_Create(t *testing.T) {
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	bus := new(BusMock)
	svc := newTestDirectory(repo, cacheMock, bus)

	repo.On("CreateService", mock.Anything, mock.MatchedBy(func(s models.Service) bool {
		return s.IsActive && s.PriceCents == 14999 && s.Name == "MRI Analysis"
	})).Return("svc-1", nil)
	cacheMock.On("Invalidate", mock.Anything).Return(nil)
	bus.On("Publish", mock.MatchedBy(func(e events.EntityChanged) bool {
		return e.Entity == events.EntityService && e.Action == events.ActionCreated && e.ID == "svc-1"
	})).Return(nil)

	service, err := svc.Create(context.Background(), models.DummyService{
		Name:          "MRI Analysis",
		Description:   "Automated MRI scan analysis",
		ModelEndpoint: "https://models.example.com/mri",
		Price:         "149.99",
	})

	require.NoError(t, err)
	assert.Equal(t, "svc-1", service.ID)
	assert.True(t, service.IsActive)
	assert.Equal(t, int64(14999), service.PriceCents)
	repo.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestDirectory_Create_InvalidPrice(t *testing.T) {
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	bus := new(BusMock)
	svc := newTestDirectory(repo, cacheMock, bus)

	_, err := svc.Create(context.Background(), models.DummyService{
		Name:          "MRI Analysis",
		Description:   "Automated MRI scan analysis",
		ModelEndpoint: "https://models.example.com/mri",
		Price:         "abc",
	})

	require.Error(t, err)
	// Валидация отклоняет запрос до любого обращения к хранилищу.
	repo.AssertNotCalled(t, "CreateService", mock.Anything, mock.Anything)
}

func TestDirectory_Create_RepoError(t *testing.T) {
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	bus := new(BusMock)
	svc := newTestDirectory(repo, cacheMock, bus)

	repo.On("CreateService", mock.Anything, mock.Anything).Return("", errors.New("db error"))

	_, err := svc.Create(context.Background(), models.DummyService{
		Name:          "MRI Analysis",
		Description:   "Automated MRI scan analysis",
		ModelEndpoint: "https://models.example.com/mri",
		Price:         "149.99",
	})

	require.Error(t, err)
	bus.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestDirectory_ListActive_CacheMiss(t *testing.T) {
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	bus := new(BusMock)
	svc := newTestDirectory(repo, cacheMock, bus)

	services := []*models.Service{{ID: "svc-1", Name: "MRI Analysis", IsActive: true}}
	cacheMock.On("Get", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("ListActiveServices", mock.Anything, "user-1").Return(services, nil)
	cacheMock.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	got, err := svc.ListActive(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertExpectations(t)
}

func TestSearch_TableTests(t *testing.T) {
	corpus := []*models.Service{
		{ID: "1", Name: "MRI Analysis", Description: "Automated MRI scan analysis"},
		{ID: "2", Name: "X-Ray Triage", Description: "Chest x-ray prioritisation"},
		{ID: "3", Name: "Dermatology", Description: "Skin lesion classification with mri fallback"},
	}

	tests := []struct {
		name    string
		term    string
		wantIDs []string
	}{
		{name: "пустой запрос возвращает весь список", term: "", wantIDs: []string{"1", "2", "3"}},
		{name: "поиск по имени без учёта регистра", term: "MRI", wantIDs: []string{"1", "3"}},
		{name: "поиск по описанию", term: "x-ray", wantIDs: []string{"2"}},
		{name: "нет совпадений", term: "ultrasound", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(corpus, tt.term)
			var gotIDs []string
			for _, s := range got {
				gotIDs = append(gotIDs, s.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}
