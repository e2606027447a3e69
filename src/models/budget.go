package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	CategoryID     int64           `json:"category_id"`
	Amount         decimal.Decimal `json:"amount"`
	Period         string          `json:"period"` // "monthly", "weekly", "yearly"
	StartDate      Date            `json:"start_date"`
	EndDate        *Date           `json:"end_date"`
	AlertThreshold int             `json:"alert_threshold"`
	Notes          *string         `json:"notes"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type BudgetRequest struct {
	CategoryID     int64           `json:"category_id"`
	Amount         decimal.Decimal `json:"amount"`
	Period         string          `json:"period"`
	StartDate      Date            `json:"start_date"`
	EndDate        *Date           `json:"end_date"`
	AlertThreshold int             `json:"alert_threshold"`
	Notes          *string         `json:"notes"`
	IsActive       *bool           `json:"is_active"`
}

// BudgetView is a budget plus the figures derived from the transaction
// history on every read. None of the derived fields are ever persisted.
type BudgetView struct {
	Budget
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	PercentSpent decimal.Decimal `json:"percent_spent"`
	IsOverBudget bool            `json:"is_over_budget"`
	ShouldAlert  bool            `json:"should_alert"`
}
