package db

import (
	"context"
	"errors"
	"fmt"

	"fintrack-server/src/models"
	"fintrack-server/src/services"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, first_name, last_name, password_hash, default_currency, theme, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.DefaultCurrency, &u.Theme, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func GetUserByID(ctx context.Context, db DBTX, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_active`
	return scanUser(db.QueryRow(ctx, query, id))
}

func GetUserByEmail(ctx context.Context, db DBTX, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active`
	return scanUser(db.QueryRow(ctx, query, email))
}

func CreateUser(ctx context.Context, db DBTX, req models.RegisterRequest, hashedPassword string) (*models.RegisterResponse, error) {
	query := `
		INSERT INTO users (email, first_name, last_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	var userID int64
	err := db.QueryRow(ctx, query, req.Email, req.FirstName, req.LastName, hashedPassword).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.RegisterResponse{
		ID:        userID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, nil
}

func UpdateUserProfile(ctx context.Context, db DBTX, userID int64, email, firstName, lastName, defaultCurrency, theme string) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, default_currency = $4, theme = $5, updated_at = NOW()
		WHERE id = $6 AND is_active`
	cmd, err := db.Exec(ctx, query, email, firstName, lastName, defaultCurrency, theme, userID)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return services.ErrNotFound
	}
	return nil
}

func UpdateUserPassword(ctx context.Context, db DBTX, userID int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2 AND is_active`
	cmd, err := db.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return services.ErrNotFound
	}
	return nil
}

// DeactivateUser soft deletes; user rows are never hard-deleted.
func DeactivateUser(ctx context.Context, db DBTX, userID int64) error {
	query := `UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active`
	cmd, err := db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return services.ErrNotFound
	}
	return nil
}
