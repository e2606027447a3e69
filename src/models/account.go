package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Name        string          `json:"name"`
	Kind        string          `json:"kind"` // "checking", "savings", "credit", "investment", "cash"
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency"`
	Description *string         `json:"description"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AccountRequest carries account metadata. Balance is only honored at
// creation; updates never touch it, the ledger service owns it after that.
type AccountRequest struct {
	Name        string          `json:"name"`
	Kind        string          `json:"kind"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency"`
	Description *string         `json:"description"`
}
