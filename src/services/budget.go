package services

import (
	"context"
	"errors"

	"fintrack-server/src/models"

	"github.com/shopspring/decimal"
)

var validPeriods = map[string]bool{
	"weekly":  true,
	"monthly": true,
	"yearly":  true,
}

var oneHundred = decimal.NewFromInt(100)

// BudgetService owns budget CRUD and the spend aggregation that turns a
// stored budget into a BudgetView on every read.
type BudgetService struct {
	store Store
	clock Clock
}

func NewBudgetService(store Store, clock Clock) *BudgetService {
	return &BudgetService{store: store, clock: clock}
}

// render derives the spend figures for a budget. Spent sums the owner's
// expense transactions in the budget's category between start date and end
// date, defaulting the open end to today.
func (b *BudgetService) render(ctx context.Context, s Store, budget *models.Budget) (*models.BudgetView, error) {
	end := b.clock.Today()
	if budget.EndDate != nil {
		end = *budget.EndDate
	}
	spent, err := s.SumAmountByCategoryKindAndDateRange(
		ctx, budget.UserID, budget.CategoryID, models.KindExpense, budget.StartDate, end)
	if err != nil {
		return nil, err
	}

	percent := decimal.Zero
	if !budget.Amount.IsZero() {
		percent = spent.Mul(oneHundred).DivRound(budget.Amount, 2)
	}
	threshold := decimal.NewFromInt(int64(budget.AlertThreshold))

	return &models.BudgetView{
		Budget:       *budget,
		Spent:        spent,
		Remaining:    budget.Amount.Sub(spent),
		PercentSpent: percent,
		IsOverBudget: spent.GreaterThan(budget.Amount),
		ShouldAlert:  percent.GreaterThanOrEqual(threshold),
	}, nil
}

func validateBudgetRequest(req models.BudgetRequest) error {
	if req.Amount.Sign() < 0 {
		return &ValidationError{Code: CodeInvalidAmount, Message: "amount must not be negative"}
	}
	if !validPeriods[req.Period] {
		return &ValidationError{Code: CodeInvalidPeriod, Message: "period must be weekly, monthly or yearly"}
	}
	if req.StartDate.IsZero() {
		return &ValidationError{Code: CodeInvalidField, Message: "start date is required"}
	}
	return nil
}

func (b *BudgetService) Create(ctx context.Context, userID int64, req models.BudgetRequest) (*models.BudgetView, error) {
	if err := validateBudgetRequest(req); err != nil {
		return nil, err
	}

	var view *models.BudgetView
	err := b.store.Atomic(ctx, func(s Store) error {
		if _, err := s.GetCategoryByID(ctx, userID, req.CategoryID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return invalidCategory()
			}
			return err
		}
		exists, err := s.HasActiveBudget(ctx, userID, req.CategoryID, 0)
		if err != nil {
			return err
		}
		if exists {
			return &ConflictError{Message: "an active budget already exists for this category"}
		}

		budget := &models.Budget{
			UserID:         userID,
			CategoryID:     req.CategoryID,
			Amount:         req.Amount,
			Period:         req.Period,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
			AlertThreshold: req.AlertThreshold,
			Notes:          req.Notes,
			IsActive:       true,
		}
		if req.IsActive != nil {
			budget.IsActive = *req.IsActive
		}
		if err := s.InsertBudget(ctx, budget); err != nil {
			return err
		}
		view, err = b.render(ctx, s, budget)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (b *BudgetService) Update(ctx context.Context, userID, id int64, req models.BudgetRequest) (*models.BudgetView, error) {
	if err := validateBudgetRequest(req); err != nil {
		return nil, err
	}

	var view *models.BudgetView
	err := b.store.Atomic(ctx, func(s Store) error {
		budget, err := s.GetBudgetByID(ctx, userID, id)
		if err != nil {
			return err
		}

		if req.CategoryID != budget.CategoryID {
			if _, err := s.GetCategoryByID(ctx, userID, req.CategoryID); err != nil {
				if errors.Is(err, ErrNotFound) {
					return invalidCategory()
				}
				return err
			}
		}
		// A budget keeping its own category never conflicts with itself.
		exists, err := s.HasActiveBudget(ctx, userID, req.CategoryID, budget.ID)
		if err != nil {
			return err
		}
		if exists {
			return &ConflictError{Message: "an active budget already exists for this category"}
		}

		budget.CategoryID = req.CategoryID
		budget.Amount = req.Amount
		budget.Period = req.Period
		budget.StartDate = req.StartDate
		budget.EndDate = req.EndDate
		budget.AlertThreshold = req.AlertThreshold
		budget.Notes = req.Notes
		if req.IsActive != nil {
			budget.IsActive = *req.IsActive
		}
		if err := s.UpdateBudget(ctx, budget); err != nil {
			return err
		}
		view, err = b.render(ctx, s, budget)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Delete soft-deletes: the budget is deactivated, never removed, so history
// stays intact.
func (b *BudgetService) Delete(ctx context.Context, userID, id int64) error {
	return b.store.Atomic(ctx, func(s Store) error {
		if _, err := s.GetBudgetByID(ctx, userID, id); err != nil {
			return err
		}
		return s.DeactivateBudget(ctx, userID, id)
	})
}

func (b *BudgetService) Get(ctx context.Context, userID, id int64) (*models.BudgetView, error) {
	budget, err := b.store.GetBudgetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return b.render(ctx, b.store, budget)
}

func (b *BudgetService) List(ctx context.Context, userID int64) ([]models.BudgetView, error) {
	budgets, err := b.store.ListActiveBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]models.BudgetView, 0, len(budgets))
	for i := range budgets {
		view, err := b.render(ctx, b.store, &budgets[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}
