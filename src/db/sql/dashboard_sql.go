package db

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

func SumAmountByKind(ctx context.Context, db DBTX, userID int64, kind string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1 AND kind = $2`
	var sum decimal.Decimal
	if err := db.QueryRow(ctx, query, userID, kind).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum by kind: %w", err)
	}
	return sum, nil
}

func CountTransactions(ctx context.Context, db DBTX, userID int64) (int64, error) {
	var count int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}
