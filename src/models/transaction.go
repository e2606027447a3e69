package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
	CategoryID  int64           `json:"category_id"`
	AccountID   *int64          `json:"account_id"`
	Date        Date            `json:"date"`
	Notes       *string         `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type TransactionRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
	CategoryID  int64           `json:"category_id"`
	AccountID   *int64          `json:"account_id"`
	Date        Date            `json:"date"`
	Notes       *string         `json:"notes"`
}
