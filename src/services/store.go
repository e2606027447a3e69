package services

import (
	"context"

	"fintrack-server/src/models"

	"github.com/shopspring/decimal"
)

// Store is the persistence surface the ledger and budget services depend on.
// Every Get* returns ErrNotFound when the entity is absent or belongs to a
// different user.
//
// Atomic runs fn against a store bound to a single database transaction:
// either everything fn did commits, or none of it does. Inside an atomic
// unit GetAccountByID locks the account row, so concurrent mutations against
// the same account serialize their read-modify-write sequences.
type Store interface {
	Atomic(ctx context.Context, fn func(Store) error) error

	GetCategoryByID(ctx context.Context, userID, id int64) (*models.Category, error)

	GetAccountByID(ctx context.Context, userID, id int64) (*models.Account, error)
	AddToAccountBalance(ctx context.Context, id int64, delta decimal.Decimal) error

	InsertTransaction(ctx context.Context, t *models.Transaction) error
	GetTransactionByID(ctx context.Context, userID, id int64) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64) error
	ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]models.Transaction, error)

	InsertBudget(ctx context.Context, b *models.Budget) error
	GetBudgetByID(ctx context.Context, userID, id int64) (*models.Budget, error)
	UpdateBudget(ctx context.Context, b *models.Budget) error
	DeactivateBudget(ctx context.Context, userID, id int64) error
	ListActiveBudgets(ctx context.Context, userID int64) ([]models.Budget, error)
	HasActiveBudget(ctx context.Context, userID, categoryID, excludeBudgetID int64) (bool, error)

	SumAmountByCategoryKindAndDateRange(ctx context.Context, userID, categoryID int64, kind string, start, end models.Date) (decimal.Decimal, error)
}
