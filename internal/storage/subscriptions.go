package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eigengram/services-portal/internal/models"
)

// CreateSubscription вставляет новую подписку и возвращает её ID.
// Частичный уникальный индекс по (user_uid, service_id) для неотменённых
// строк превращает повторный запрос в ErrDuplicate.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	id := uuid.New().String()
	query := `INSERT INTO subscriptions (id, user_uid, service_id, status, start_date)
			  VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.DB.ExecContext(ctx, query,
		id, sub.UserUID, sub.ServiceID, sub.Status, sub.StartDate); err != nil {
		if IsUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetSubscription возвращает подписку по ID.
func (s *Storage) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, service_id, status, start_date, created_at, updated_at
			  FROM subscriptions
			  WHERE id = $1`
	sub := &models.Subscription{}
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&sub.ID, &sub.UserUID,
		&sub.ServiceID, &sub.Status, &sub.StartDate, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// HasLiveSubscription сообщает, есть ли у пользователя неотменённая
// подписка (PENDING, ACTIVE или INACTIVE) на сервис.
func (s *Storage) HasLiveSubscription(ctx context.Context, userUID, serviceID string) (bool, error) {
	const op = "storage.HasLiveSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM subscriptions
			      WHERE user_uid = $1 AND service_id = $2 AND status <> $3)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, serviceID, models.StatusCancelled).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// UpdateSubscriptionStatus переводит подписку из статуса from в статус to.
// Условие по текущему статусу делает перевод однострочной атомарной операцией:
// конкурирующий перевод той же подписки получит ErrNotFound.
// При resetStartDate дата начала перезаписывается текущим временем.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, id, from, to string, resetStartDate bool) error {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		res sql.Result
		err error
	)
	if resetStartDate {
		query := `UPDATE subscriptions
				  SET status = $1, start_date = $2, updated_at = now()
				  WHERE id = $3 AND status = $4`
		res, err = s.DB.ExecContext(ctx, query, to, time.Now(), id, from)
	} else {
		query := `UPDATE subscriptions
				  SET status = $1, updated_at = now()
				  WHERE id = $2 AND status = $3`
		res, err = s.DB.ExecContext(ctx, query, to, id, from)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListSubscriptionsForUser возвращает подписки пользователя вместе с данными
// сервиса. Пустой status означает все статусы.
func (s *Storage) ListSubscriptionsForUser(ctx context.Context, userUID, status string) ([]*models.SubscriptionEntry, error) {
	const op = "storage.ListSubscriptionsForUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT sub.id, sub.user_uid, sub.service_id, sub.status, sub.start_date,
			      sub.created_at, sub.updated_at,
			      u.name, u.email, svc.name, svc.price_cents
			  FROM subscriptions sub
			  JOIN users u ON u.uid = sub.user_uid
			  JOIN services svc ON svc.id = sub.service_id
			  WHERE sub.user_uid = $1 AND ($2 = '' OR sub.status = $2)
			  ORDER BY sub.created_at DESC`
	return s.querySubscriptionEntries(ctx, op, query, userUID, status)
}

// ListAllSubscriptions возвращает все подписки с данными пользователя и
// сервиса для экрана администратора, новые сверху.
func (s *Storage) ListAllSubscriptions(ctx context.Context) ([]*models.SubscriptionEntry, error) {
	const op = "storage.ListAllSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT sub.id, sub.user_uid, sub.service_id, sub.status, sub.start_date,
			      sub.created_at, sub.updated_at,
			      u.name, u.email, svc.name, svc.price_cents
			  FROM subscriptions sub
			  JOIN users u ON u.uid = sub.user_uid
			  JOIN services svc ON svc.id = sub.service_id
			  ORDER BY sub.created_at DESC`
	return s.querySubscriptionEntries(ctx, op, query)
}

func (s *Storage) querySubscriptionEntries(ctx context.Context, op, query string, args ...any) ([]*models.SubscriptionEntry, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionEntry
	for rows.Next() {
		var e models.SubscriptionEntry
		var userName sql.NullString
		if err = rows.Scan(&e.ID, &e.UserUID, &e.ServiceID, &e.Status, &e.StartDate,
			&e.CreatedAt, &e.UpdatedAt,
			&userName, &e.UserEmail, &e.ServiceName, &e.ServicePrice); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		e.UserName = userName.String
		result = append(result, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
