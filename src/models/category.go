package models

import "time"

// Transaction and category kinds. Anything outside these two values is
// treated as an expense by the balance path.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

type Category struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	Icon        *string   `json:"icon"`
	Color       *string   `json:"color"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CategoryRequest struct {
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}
