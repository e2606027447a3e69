package db

import (
	"context"
	"errors"
	"fmt"

	"fintrack-server/src/models"
	"fintrack-server/src/services"

	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, user_id, name, kind, icon, color, description, is_active, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Kind, &c.Icon, &c.Color,
		&c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return &c, nil
}

func CreateCategory(ctx context.Context, db DBTX, c *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, kind, icon, color, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + categoryColumns
	return scanCategory(db.QueryRow(ctx, query, c.UserID, c.Name, c.Kind, c.Icon, c.Color, c.Description))
}

func GetCategoryByID(ctx context.Context, db DBTX, userID, id int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`
	return scanCategory(db.QueryRow(ctx, query, id, userID))
}

func GetActiveCategoriesForUser(ctx context.Context, db DBTX, userID int64) ([]models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories WHERE user_id = $1 AND is_active
		ORDER BY name`
	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Kind, &c.Icon, &c.Color,
			&c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func UpdateCategory(ctx context.Context, db DBTX, c *models.Category) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, kind = $2, icon = $3, color = $4, description = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING ` + categoryColumns
	return scanCategory(db.QueryRow(ctx, query, c.Name, c.Kind, c.Icon, c.Color, c.Description, c.ID, c.UserID))
}

// DeactivateCategory soft deletes, preserving referential integrity with
// existing transactions.
func DeactivateCategory(ctx context.Context, db DBTX, userID, id int64) error {
	query := `UPDATE categories SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	cmd, err := db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deactivate category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return services.ErrNotFound
	}
	return nil
}

func CategoryNameExists(ctx context.Context, db DBTX, userID int64, name string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE user_id = $1 AND name = $2 AND id <> $3)`
	var exists bool
	if err := db.QueryRow(ctx, query, userID, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return exists, nil
}

func (s *Store) GetCategoryByID(ctx context.Context, userID, id int64) (*models.Category, error) {
	return GetCategoryByID(ctx, s.db, userID, id)
}
