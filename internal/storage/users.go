package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/eigengram/services-portal/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его UID.
// ExternalID задаётся ровно один раз и далее не меняется.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	uid := uuid.New().String()
	query := `INSERT INTO users (uid, external_id, name, email, phone_number, role)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.DB.ExecContext(ctx, query,
		uid, user.ExternalID, user.Name, user.Email, user.PhoneNumber, user.Role); err != nil {
		if IsUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// UpdateUserByExternalID обновляет профиль пользователя по внешнему идентификатору.
func (s *Storage) UpdateUserByExternalID(ctx context.Context, externalID string, name, email, phoneNumber string) error {
	const op = "storage.UpdateUserByExternalID"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = $1, email = $2, phone_number = $3, updated_at = now()
			  WHERE external_id = $4`
	res, err := s.DB.ExecContext(ctx, query, name, email, phoneNumber, externalID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// UpdateUser обновляет профиль пользователя по его UID (настройки аккаунта).
func (s *Storage) UpdateUser(ctx context.Context, userUID string, name, email, phoneNumber string) error {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = $1, email = $2, phone_number = $3, updated_at = now()
			  WHERE uid = $4`
	res, err := s.DB.ExecContext(ctx, query, name, email, phoneNumber, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// GetUserByExternalID возвращает пользователя по внешнему идентификатору
// identity-провайдера.
func (s *Storage) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	const op = "storage.GetUserByExternalID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, external_id, name, email, phone_number, role, created_at, updated_at
			  FROM users
			  WHERE external_id = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, externalID), op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, external_id, name, email, phone_number, role, created_at, updated_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// ListUsers возвращает всех пользователей для экрана администратора.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, external_id, name, email, phone_number, role, created_at, updated_at
			  FROM users
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		var name sql.NullString
		if err = rows.Scan(&u.UID, &u.ExternalID, &name, &u.Email, &u.PhoneNumber,
			&u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		u.Name = name.String
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var name sql.NullString
	if err := row.Scan(&u.UID, &u.ExternalID, &name, &u.Email, &u.PhoneNumber,
		&u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.Name = name.String
	return u, nil
}
