package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/bakudeals/deal-scout/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// GetOrCreateUserByDevice looks up a user by device id, creating one when
// absent. Returns the user and whether it was just created.
func (db *DB) GetOrCreateUserByDevice(ctx context.Context, deviceID string) (*models.User, bool, error) {
	user := &models.User{}

	err := db.Pool.QueryRow(ctx, `
		SELECT id, device_id, email, phone, created_at, updated_at
		FROM users WHERE device_id = $1
	`, deviceID).Scan(
		&user.ID, &user.DeviceID, &user.Email, &user.Phone,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// Concurrent first logins race here; ON CONFLICT makes the insert
	// idempotent and both callers converge on the same row.
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO users (device_id) VALUES ($1)
		ON CONFLICT (device_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, device_id, email, phone, created_at, updated_at
	`, deviceID).Scan(
		&user.ID, &user.DeviceID, &user.Email, &user.Phone,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, false, err
	}

	return user, true, nil
}

// UpdateUserProfile applies a partial email/phone update, keeping stored
// values for nil fields.
func (db *DB) UpdateUserProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.User, error) {
	user := &models.User{}

	err := db.Pool.QueryRow(ctx, `
		UPDATE users
		SET email = COALESCE($2, email),
		    phone = COALESCE($3, phone),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, device_id, email, phone, created_at, updated_at
	`, req.UserID, req.Email, req.Phone).Scan(
		&user.ID, &user.DeviceID, &user.Email, &user.Phone,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}
