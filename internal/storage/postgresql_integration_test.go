package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigengram/services-portal/internal/models"
)

func TestStorage_Users(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	uid, err := storage.CreateUser(ctx, models.User{
		ExternalID:  "kp_123",
		Name:        "Ivan Petrov",
		Email:       "ivan@example.com",
		PhoneNumber: "+79991234567",
		Role:        models.RoleUser,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	t.Run("поиск по внешнему идентификатору", func(t *testing.T) {
		got, err := storage.GetUserByExternalID(ctx, "kp_123")
		require.NoError(t, err)
		assert.Equal(t, uid, got.UID)
		assert.Equal(t, "ivan@example.com", got.Email)
		assert.Equal(t, models.RoleUser, got.Role)
	})

	t.Run("несуществующий внешний идентификатор", func(t *testing.T) {
		_, err := storage.GetUserByExternalID(ctx, "kp_missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("повторный внешний идентификатор", func(t *testing.T) {
		_, err := storage.CreateUser(ctx, models.User{
			ExternalID:  "kp_123",
			Email:       "other@example.com",
			PhoneNumber: "+79990000000",
			Role:        models.RoleUser,
		})
		require.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("обновление профиля", func(t *testing.T) {
		err := storage.UpdateUser(ctx, uid, "Ivan P.", "ivan.p@example.com", "+79991112233")
		require.NoError(t, err)

		got, err := storage.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "Ivan P.", got.Name)
		assert.Equal(t, "ivan.p@example.com", got.Email)
	})

	t.Run("список пользователей", func(t *testing.T) {
		users, err := storage.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}

func TestStorage_Services(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	id, err := storage.CreateService(ctx, models.Service{
		Name:          "MRI Analysis",
		Description:   "Automated MRI scan analysis",
		ModelEndpoint: "https://models.example.com/mri",
		PriceCents:    14999,
		IsActive:      true,
	})
	require.NoError(t, err)

	inactiveID := factory.CreateService(t, "Legacy Service", "Retired analysis pipeline",
		"https://models.example.com/legacy", 999, false)

	t.Run("чтение сервиса по id", func(t *testing.T) {
		got, err := storage.GetService(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "MRI Analysis", got.Name)
		assert.Equal(t, int64(14999), got.PriceCents)
		assert.True(t, got.IsActive)
	})

	t.Run("несуществующий сервис", func(t *testing.T) {
		_, err := storage.GetService(ctx, "00000000-0000-0000-0000-000000000000")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("активные сервисы без фильтра по подписчику", func(t *testing.T) {
		got, err := storage.ListActiveServices(ctx, "")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, id, got[0].ID)
	})

	t.Run("все сервисы включают неактивные", func(t *testing.T) {
		got, err := storage.ListAllServices(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)

		var ids []string
		for _, svc := range got {
			ids = append(ids, svc.ID)
		}
		assert.Contains(t, ids, inactiveID)
	})
}

func TestStorage_Subscriptions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)

	userUID := factory.CreateUser(t, "kp_123", "Ivan Petrov", "ivan@example.com", "+79991234567", models.RoleUser)
	serviceID := factory.CreateService(t, "MRI Analysis", "Automated MRI scan analysis",
		"https://models.example.com/mri", 14999, true)

	t.Run("создание и чтение подписки", func(t *testing.T) {
		id, err := storage.CreateSubscription(ctx, models.Subscription{
			UserUID:   userUID,
			ServiceID: serviceID,
			Status:    models.StatusPending,
			StartDate: time.Now(),
		})
		require.NoError(t, err)

		got, err := storage.GetSubscription(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, got.Status)
		assert.Equal(t, userUID, got.UserUID)

		// Вторая неотменённая подписка на ту же пару нарушает частичный
		// уникальный индекс.
		_, err = storage.CreateSubscription(ctx, models.Subscription{
			UserUID:   userUID,
			ServiceID: serviceID,
			Status:    models.StatusPending,
			StartDate: time.Now(),
		})
		require.ErrorIs(t, err, ErrDuplicate)

		exists, err := storage.HasLiveSubscription(ctx, userUID, serviceID)
		require.NoError(t, err)
		assert.True(t, exists)

		// Перевод PENDING -> ACTIVE со сдвигом даты начала.
		err = storage.UpdateSubscriptionStatus(ctx, id, models.StatusPending, models.StatusActive, true)
		require.NoError(t, err)
		verification.VerifySubscriptionStatus(t, id, models.StatusActive)

		// Повторный перевод из PENDING не находит строку в прежнем статусе.
		err = storage.UpdateSubscriptionStatus(ctx, id, models.StatusPending, models.StatusActive, true)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("отменённая подписка не считается живой", func(t *testing.T) {
		otherService := factory.CreateService(t, "X-Ray Triage", "Chest x-ray prioritisation",
			"https://models.example.com/xray", 9999, true)
		factory.CreateSubscription(t, userUID, otherService, models.StatusCancelled, time.Now())

		exists, err := storage.HasLiveSubscription(ctx, userUID, otherService)
		require.NoError(t, err)
		assert.False(t, exists)

		// И частичный индекс пропускает новую строку для той же пары.
		_, err = storage.CreateSubscription(ctx, models.Subscription{
			UserUID:   userUID,
			ServiceID: otherService,
			Status:    models.StatusPending,
			StartDate: time.Now(),
		})
		require.NoError(t, err)
	})

	t.Run("списки подписок с данными пользователя и сервиса", func(t *testing.T) {
		all, err := storage.ListAllSubscriptions(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, all)
		assert.Equal(t, "ivan@example.com", all[0].UserEmail)
		assert.NotEmpty(t, all[0].ServiceName)

		active, err := storage.ListSubscriptionsForUser(ctx, userUID, models.StatusActive)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "MRI Analysis", active[0].ServiceName)
		assert.Equal(t, int64(14999), active[0].ServicePrice)
	})
}

func TestStorage_FeatureRequests(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	userUID := factory.CreateUser(t, "kp_123", "Ivan Petrov", "ivan@example.com", "+79991234567", models.RoleUser)

	id, err := storage.CreateFeatureRequest(ctx, models.FeatureRequest{
		UserUID:     userUID,
		Title:       "Export report as PDF",
		Description: "Allow downloading the analysis report as a PDF document",
		Status:      models.FeatureStatusNew,
	})
	require.NoError(t, err)

	t.Run("список пожеланий", func(t *testing.T) {
		got, err := storage.ListFeatureRequests(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, models.FeatureStatusNew, got[0].Status)
	})

	t.Run("смена статуса", func(t *testing.T) {
		err := storage.UpdateFeatureRequestStatus(ctx, id, models.FeatureStatusInProgress)
		require.NoError(t, err)

		got, err := storage.ListFeatureRequests(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.FeatureStatusInProgress, got[0].Status)
	})

	t.Run("несуществующее пожелание", func(t *testing.T) {
		err := storage.UpdateFeatureRequestStatus(ctx, "00000000-0000-0000-0000-000000000000",
			models.FeatureStatusClosed)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

// TestStorage_SubscriptionFlow проходит путь заявки целиком: пользователь
// запрашивает подписку, администратор одобряет её, сервис пропадает из списка
// доступных и появляется в активных подписках пользователя.
func TestStorage_SubscriptionFlow(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	userUID := factory.CreateUser(t, "kp_123", "Ivan Petrov", "ivan@example.com", "+79991234567", models.RoleUser)
	mriID := factory.CreateService(t, "MRI Analysis", "Automated MRI scan analysis",
		"https://models.example.com/mri", 14999, true)
	factory.CreateService(t, "X-Ray Triage", "Chest x-ray prioritisation",
		"https://models.example.com/xray", 9999, true)

	// До заявки пользователю доступны оба сервиса.
	available, err := storage.ListActiveServices(ctx, userUID)
	require.NoError(t, err)
	require.Len(t, available, 2)

	subID, err := storage.CreateSubscription(ctx, models.Subscription{
		UserUID:   userUID,
		ServiceID: mriID,
		Status:    models.StatusPending,
		StartDate: time.Now(),
	})
	require.NoError(t, err)

	// Заявка в ожидании уже убирает сервис из доступных.
	available, err = storage.ListActiveServices(ctx, userUID)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "X-Ray Triage", available[0].Name)

	err = storage.UpdateSubscriptionStatus(ctx, subID, models.StatusPending, models.StatusActive, true)
	require.NoError(t, err)

	active, err := storage.ListSubscriptionsForUser(ctx, userUID, models.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, subID, active[0].ID)
	assert.Equal(t, "MRI Analysis", active[0].ServiceName)
	// Дата начала перезаписана моментом одобрения.
	assert.WithinDuration(t, time.Now(), active[0].StartDate, time.Minute)
}
