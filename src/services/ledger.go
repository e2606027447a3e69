package services

import (
	"context"
	"errors"
	"strings"

	"fintrack-server/src/models"

	"github.com/shopspring/decimal"
)

// LedgerService coordinates the transaction lifecycle: it validates the
// referenced category and account, keeps the linked account's cached balance
// in step with every mutation, and persists the transaction. All three
// effects of a mutation commit or roll back together.
type LedgerService struct {
	store Store
}

func NewLedgerService(store Store) *LedgerService {
	return &LedgerService{store: store}
}

// signedDelta is the balance effect of a transaction: +amount for income,
// -amount otherwise. Unrecognized kinds fall through to the expense sign.
func signedDelta(kind string, amount decimal.Decimal) decimal.Decimal {
	if strings.EqualFold(kind, models.KindIncome) {
		return amount
	}
	return amount.Neg()
}

// applyToAccount adds delta to the account's balance. A nil account reference
// is a no-op: transactions without an account never touch any balance.
func applyToAccount(ctx context.Context, s Store, accountID *int64, delta decimal.Decimal) error {
	if accountID == nil {
		return nil
	}
	return s.AddToAccountBalance(ctx, *accountID, delta)
}

// resolveRefs checks that the requested category, and account if present,
// exist and belong to userID. Inside an atomic unit the account fetch also
// locks the account row for the remainder of the transaction.
func resolveRefs(ctx context.Context, s Store, userID int64, req models.TransactionRequest) error {
	if _, err := s.GetCategoryByID(ctx, userID, req.CategoryID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return invalidCategory()
		}
		return err
	}
	if req.AccountID != nil {
		if _, err := s.GetAccountByID(ctx, userID, *req.AccountID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return invalidAccount()
			}
			return err
		}
	}
	return nil
}

func (l *LedgerService) Create(ctx context.Context, userID int64, req models.TransactionRequest) (*models.Transaction, error) {
	if req.Amount.Sign() <= 0 {
		return nil, &ValidationError{Code: CodeInvalidAmount, Message: "amount must be greater than zero"}
	}

	var created *models.Transaction
	err := l.store.Atomic(ctx, func(s Store) error {
		if err := resolveRefs(ctx, s, userID, req); err != nil {
			return err
		}

		t := &models.Transaction{
			UserID:      userID,
			Description: req.Description,
			Amount:      req.Amount,
			Kind:        req.Kind,
			CategoryID:  req.CategoryID,
			AccountID:   req.AccountID,
			Date:        req.Date,
			Notes:       req.Notes,
		}
		if err := s.InsertTransaction(ctx, t); err != nil {
			return err
		}
		if err := applyToAccount(ctx, s, t.AccountID, signedDelta(t.Kind, t.Amount)); err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (l *LedgerService) Update(ctx context.Context, userID, id int64, req models.TransactionRequest) (*models.Transaction, error) {
	if req.Amount.Sign() <= 0 {
		return nil, &ValidationError{Code: CodeInvalidAmount, Message: "amount must be greater than zero"}
	}

	var updated *models.Transaction
	err := l.store.Atomic(ctx, func(s Store) error {
		old, err := s.GetTransactionByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := resolveRefs(ctx, s, userID, req); err != nil {
			return err
		}

		// Reverse the old state's effect on the old account, then apply the
		// new state's effect on the new account. Both steps always run, even
		// when old and new account are the same row.
		if err := applyToAccount(ctx, s, old.AccountID, signedDelta(old.Kind, old.Amount).Neg()); err != nil {
			return err
		}

		next := *old
		next.Description = req.Description
		next.Amount = req.Amount
		next.Kind = req.Kind
		next.CategoryID = req.CategoryID
		next.AccountID = req.AccountID
		next.Date = req.Date
		next.Notes = req.Notes
		if err := s.UpdateTransaction(ctx, &next); err != nil {
			return err
		}

		if err := applyToAccount(ctx, s, next.AccountID, signedDelta(next.Kind, next.Amount)); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (l *LedgerService) Delete(ctx context.Context, userID, id int64) error {
	return l.store.Atomic(ctx, func(s Store) error {
		t, err := s.GetTransactionByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := applyToAccount(ctx, s, t.AccountID, signedDelta(t.Kind, t.Amount).Neg()); err != nil {
			return err
		}
		return s.DeleteTransaction(ctx, userID, id)
	})
}

func (l *LedgerService) Get(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	return l.store.GetTransactionByID(ctx, userID, id)
}

// List returns the user's transactions ordered by date descending.
func (l *LedgerService) List(ctx context.Context, userID int64, page, size int) ([]models.Transaction, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	return l.store.ListTransactions(ctx, userID, size, page*size)
}
