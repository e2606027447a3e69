package db

import (
	"context"
	"errors"
	"fmt"

	"fintrack-server/src/models"
	"fintrack-server/src/services"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, user_id, description, amount, kind, category_id, account_id, date, notes, created_at, updated_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Description, &t.Amount, &t.Kind,
		&t.CategoryID, &t.AccountID, &t.Date, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return &t, nil
}

func (s *Store) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, description, amount, kind, category_id, account_id, date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	err := s.db.QueryRow(ctx, query, t.UserID, t.Description, t.Amount, t.Kind,
		t.CategoryID, t.AccountID, t.Date, t.Notes).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *Store) GetTransactionByID(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	return scanTransaction(s.db.QueryRow(ctx, query, id, userID))
}

func (s *Store) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	query := `
		UPDATE transactions
		SET description = $1, amount = $2, kind = $3, category_id = $4, account_id = $5,
		    date = $6, notes = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9`
	cmd, err := s.db.Exec(ctx, query, t.Description, t.Amount, t.Kind, t.CategoryID,
		t.AccountID, t.Date, t.Notes, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id int64) error {
	cmd, err := s.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions WHERE user_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := s.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Description, &t.Amount, &t.Kind,
			&t.CategoryID, &t.AccountID, &t.Date, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (s *Store) SumAmountByCategoryKindAndDateRange(ctx context.Context, userID, categoryID int64, kind string, start, end models.Date) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND kind = $3 AND date BETWEEN $4 AND $5`
	var sum decimal.Decimal
	if err := s.db.QueryRow(ctx, query, userID, categoryID, kind, start, end).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	return sum, nil
}
