package db

import (
	"context"
	"errors"
	"fmt"

	"fintrack-server/src/models"
	"fintrack-server/src/services"

	"github.com/jackc/pgx/v5"
)

const budgetColumns = `id, user_id, category_id, amount, period, start_date, end_date, alert_threshold, notes, is_active, created_at, updated_at`

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period, &b.StartDate,
		&b.EndDate, &b.AlertThreshold, &b.Notes, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("scan budget: %w", err)
	}
	return &b, nil
}

func (s *Store) InsertBudget(ctx context.Context, b *models.Budget) error {
	query := `
		INSERT INTO budgets (user_id, category_id, amount, period, start_date, end_date, alert_threshold, notes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := s.db.QueryRow(ctx, query, b.UserID, b.CategoryID, b.Amount, b.Period,
		b.StartDate, b.EndDate, b.AlertThreshold, b.Notes, b.IsActive).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (s *Store) GetBudgetByID(ctx context.Context, userID, id int64) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1 AND user_id = $2`
	return scanBudget(s.db.QueryRow(ctx, query, id, userID))
}

func (s *Store) UpdateBudget(ctx context.Context, b *models.Budget) error {
	query := `
		UPDATE budgets
		SET category_id = $1, amount = $2, period = $3, start_date = $4, end_date = $5,
		    alert_threshold = $6, notes = $7, is_active = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10`
	cmd, err := s.db.Exec(ctx, query, b.CategoryID, b.Amount, b.Period, b.StartDate,
		b.EndDate, b.AlertThreshold, b.Notes, b.IsActive, b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *Store) DeactivateBudget(ctx context.Context, userID, id int64) error {
	query := `UPDATE budgets SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	cmd, err := s.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deactivate budget: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *Store) ListActiveBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets WHERE user_id = $1 AND is_active
		ORDER BY created_at DESC`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period, &b.StartDate,
			&b.EndDate, &b.AlertThreshold, &b.Notes, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (s *Store) HasActiveBudget(ctx context.Context, userID, categoryID, excludeBudgetID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM budgets
			WHERE user_id = $1 AND category_id = $2 AND is_active AND id <> $3
		)`
	var exists bool
	if err := s.db.QueryRow(ctx, query, userID, categoryID, excludeBudgetID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active budget: %w", err)
	}
	return exists, nil
}
