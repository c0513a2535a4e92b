package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/eigengram/services-portal/internal/models"
)

// CreateService вставляет новый сервис и возвращает его ID.
func (s *Storage) CreateService(ctx context.Context, service models.Service) (string, error) {
	const op = "storage.CreateService"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	id := uuid.New().String()
	query := `INSERT INTO services (id, name, description, model_endpoint, price_cents, image_url, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := s.DB.ExecContext(ctx, query,
		id, service.Name, service.Description, service.ModelEndpoint,
		service.PriceCents, service.ImageURL, service.IsActive); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetService возвращает сервис по ID.
func (s *Storage) GetService(ctx context.Context, id string) (*models.Service, error) {
	const op = "storage.GetService"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, model_endpoint, price_cents, image_url,
			      is_active, created_at, updated_at
			  FROM services
			  WHERE id = $1`
	svc := &models.Service{}
	var imageURL sql.NullString
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&svc.ID, &svc.Name,
		&svc.Description, &svc.ModelEndpoint, &svc.PriceCents, &imageURL,
		&svc.IsActive, &svc.CreatedAt, &svc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	svc.ImageURL = imageURL.String
	return svc, nil
}

// ListActiveServices возвращает активные сервисы. Если передан excludeSubscriberUID,
// исключаются сервисы, на которые у пользователя уже есть любая строка подписки
// независимо от её статуса.
func (s *Storage) ListActiveServices(ctx context.Context, excludeSubscriberUID string) ([]*models.Service, error) {
	const op = "storage.ListActiveServices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, model_endpoint, price_cents, image_url,
			      is_active, created_at, updated_at
			  FROM services
			  WHERE is_active = true
			    AND ($1 = '' OR NOT EXISTS (
			        SELECT 1 FROM subscriptions
			        WHERE subscriptions.service_id = services.id
			          AND subscriptions.user_uid = $1))`
	return s.queryServices(ctx, op, query, excludeSubscriberUID)
}

// ListAllServices возвращает все сервисы для экрана администратора.
func (s *Storage) ListAllServices(ctx context.Context) ([]*models.Service, error) {
	const op = "storage.ListAllServices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, model_endpoint, price_cents, image_url,
			      is_active, created_at, updated_at
			  FROM services`
	return s.queryServices(ctx, op, query)
}

func (s *Storage) queryServices(ctx context.Context, op, query string, args ...any) ([]*models.Service, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Service
	for rows.Next() {
		var svc models.Service
		var imageURL sql.NullString
		if err = rows.Scan(&svc.ID, &svc.Name, &svc.Description, &svc.ModelEndpoint,
			&svc.PriceCents, &imageURL, &svc.IsActive, &svc.CreatedAt, &svc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		svc.ImageURL = imageURL.String
		result = append(result, &svc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
