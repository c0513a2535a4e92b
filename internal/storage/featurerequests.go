package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eigengram/services-portal/internal/models"
)

// CreateFeatureRequest сохраняет новое пожелание пользователя и возвращает его ID.
func (s *Storage) CreateFeatureRequest(ctx context.Context, fr models.FeatureRequest) (string, error) {
	const op = "storage.CreateFeatureRequest"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	id := uuid.New().String()
	query := `INSERT INTO feature_requests (id, user_uid, title, description, status)
			  VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.DB.ExecContext(ctx, query,
		id, fr.UserUID, fr.Title, fr.Description, fr.Status); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListFeatureRequests возвращает все пожелания для экрана администратора,
// новые сверху.
func (s *Storage) ListFeatureRequests(ctx context.Context) ([]*models.FeatureRequest, error) {
	const op = "storage.ListFeatureRequests"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, title, description, status, created_at
			  FROM feature_requests
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.FeatureRequest
	for rows.Next() {
		var fr models.FeatureRequest
		if err = rows.Scan(&fr.ID, &fr.UserUID, &fr.Title, &fr.Description,
			&fr.Status, &fr.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &fr)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateFeatureRequestStatus меняет статус пожелания.
func (s *Storage) UpdateFeatureRequestStatus(ctx context.Context, id, status string) error {
	const op = "storage.UpdateFeatureRequestStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE feature_requests SET status = $1 WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
