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

const accountColumns = `id, user_id, name, kind, balance, currency, description, is_active, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Kind, &a.Balance, &a.Currency,
		&a.Description, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}

func CreateAccount(ctx context.Context, db DBTX, a *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (user_id, name, kind, balance, currency, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accountColumns
	return scanAccount(db.QueryRow(ctx, query, a.UserID, a.Name, a.Kind, a.Balance, a.Currency, a.Description))
}

func GetAccountByID(ctx context.Context, db DBTX, userID, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2`
	return scanAccount(db.QueryRow(ctx, query, id, userID))
}

func GetActiveAccountsForUser(ctx context.Context, db DBTX, userID int64) ([]models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts WHERE user_id = $1 AND is_active
		ORDER BY name`
	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Kind, &a.Balance, &a.Currency,
			&a.Description, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// UpdateAccountMetadata edits name, kind, currency and description. Balance
// is deliberately not in the column list: only the ledger service moves it.
func UpdateAccountMetadata(ctx context.Context, db DBTX, a *models.Account) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET name = $1, kind = $2, currency = $3, description = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING ` + accountColumns
	return scanAccount(db.QueryRow(ctx, query, a.Name, a.Kind, a.Currency, a.Description, a.ID, a.UserID))
}

// DeactivateAccount soft deletes; the frozen balance stays on the row.
func DeactivateAccount(ctx context.Context, db DBTX, userID, id int64) error {
	query := `UPDATE accounts SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	cmd, err := db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deactivate account: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return services.ErrNotFound
	}
	return nil
}

func AccountNameExists(ctx context.Context, db DBTX, userID int64, name string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE user_id = $1 AND name = $2 AND id <> $3)`
	var exists bool
	if err := db.QueryRow(ctx, query, userID, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check account name: %w", err)
	}
	return exists, nil
}

// GetAccountByID on the store locks the row for the rest of the enclosing
// transaction, serializing concurrent balance mutations per account.
func (s *Store) GetAccountByID(ctx context.Context, userID, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2 FOR UPDATE`
	return scanAccount(s.db.QueryRow(ctx, query, id, userID))
}

func (s *Store) AddToAccountBalance(ctx context.Context, id int64, delta decimal.Decimal) error {
	query := `UPDATE accounts SET balance = balance + $1, updated_at = NOW() WHERE id = $2`
	cmd, err := s.db.Exec(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return services.ErrNotFound
	}
	return nil
}
