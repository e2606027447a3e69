package services_test

import (
	"context"
	"errors"
	"testing"

	"fintrack-server/src/db/memory"
	"fintrack-server/src/models"
	"fintrack-server/src/services"
)

func newBudgetFixture(t *testing.T) (*memory.Store, *services.LedgerService, *services.BudgetService, models.Category) {
	t.Helper()
	store := memory.NewStore()
	ledger := services.NewLedgerService(store)
	clock := services.FixedClock{Date: models.NewDate(2025, 3, 15)}
	budgets := services.NewBudgetService(store, clock)
	cat := store.PutCategory(models.Category{UserID: 1, Name: "Groceries", Kind: models.KindExpense, IsActive: true})
	return store, ledger, budgets, cat
}

func spend(t *testing.T, ledger *services.LedgerService, cat models.Category, kind, amount, date string) {
	t.Helper()
	_, err := ledger.Create(context.Background(), 1, models.TransactionRequest{
		Description: "spend", Amount: dec(amount), Kind: kind,
		CategoryID: cat.ID, Date: mustDate(t, date),
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
}

func TestBudgetViewAggregatesExpenses(t *testing.T) {
	ctx := context.Background()
	_, ledger, budgets, cat := newBudgetFixture(t)

	view, err := budgets.Create(ctx, 1, models.BudgetRequest{
		CategoryID: cat.ID, Amount: dec("200"), Period: "monthly",
		StartDate: mustDate(t, "2025-03-01"), AlertThreshold: 70,
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	if !view.Spent.IsZero() || !view.Remaining.Equal(dec("200")) {
		t.Fatalf("fresh budget: spent = %s, remaining = %s", view.Spent, view.Remaining)
	}

	spend(t, ledger, cat, "expense", "100", "2025-03-05")
	spend(t, ledger, cat, "expense", "50", "2025-03-10")
	spend(t, ledger, cat, "income", "500", "2025-03-11")   // income never counts as spend
	spend(t, ledger, cat, "expense", "75", "2025-02-20")   // before the window
	spend(t, ledger, cat, "expense", "60", "2025-04-01")   // after today, open-ended window

	view, err = budgets.Get(ctx, 1, view.ID)
	if err != nil {
		t.Fatalf("get budget: %v", err)
	}
	if !view.Spent.Equal(dec("150")) {
		t.Fatalf("spent = %s, want 150", view.Spent)
	}
	if !view.Remaining.Equal(dec("50")) {
		t.Fatalf("remaining = %s, want 50", view.Remaining)
	}
	if !view.PercentSpent.Equal(dec("75")) {
		t.Fatalf("percent spent = %s, want 75", view.PercentSpent)
	}
	if view.IsOverBudget {
		t.Fatalf("75%% spent must not read as over budget")
	}
	if !view.ShouldAlert {
		t.Fatalf("75%% spent crosses the 70%% threshold, should alert")
	}
}

func TestBudgetOverspendAndZeroAmount(t *testing.T) {
	ctx := context.Background()
	_, ledger, budgets, cat := newBudgetFixture(t)

	view, err := budgets.Create(ctx, 1, models.BudgetRequest{
		CategoryID: cat.ID, Amount: dec("100"), Period: "monthly",
		StartDate: mustDate(t, "2025-03-01"), AlertThreshold: 80,
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	spend(t, ledger, cat, "expense", "120", "2025-03-02")

	view, err = budgets.Get(ctx, 1, view.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !view.IsOverBudget {
		t.Fatalf("120 spent of 100 must be over budget")
	}
	if !view.Remaining.Equal(dec("-20")) {
		t.Fatalf("remaining = %s, want -20", view.Remaining)
	}

	// A zero-amount budget reports zero percent instead of dividing by zero.
	zero, err := budgets.Update(ctx, 1, view.ID, models.BudgetRequest{
		CategoryID: cat.ID, Amount: dec("0"), Period: "monthly",
		StartDate: mustDate(t, "2025-03-01"), AlertThreshold: 80,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !zero.PercentSpent.IsZero() {
		t.Fatalf("percent spent = %s for zero amount, want 0", zero.PercentSpent)
	}
}

func TestBudgetClosedWindowIgnoresClock(t *testing.T) {
	ctx := context.Background()
	_, ledger, budgets, cat := newBudgetFixture(t)

	end := mustDate(t, "2025-03-10")
	view, err := budgets.Create(ctx, 1, models.BudgetRequest{
		CategoryID: cat.ID, Amount: dec("100"), Period: "weekly",
		StartDate: mustDate(t, "2025-03-01"), EndDate: &end, AlertThreshold: 90,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	spend(t, ledger, cat, "expense", "30", "2025-03-05")
	spend(t, ledger, cat, "expense", "40", "2025-03-12") // past the explicit end

	view, err = budgets.Get(ctx, 1, view.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !view.Spent.Equal(dec("30")) {
		t.Fatalf("spent = %s, want 30 inside closed window", view.Spent)
	}
}

func TestBudgetValidation(t *testing.T) {
	ctx := context.Background()
	_, _, budgets, cat := newBudgetFixture(t)

	var ve *services.ValidationError

	_, err := budgets.Create(ctx, 1, models.BudgetRequest{
		CategoryID: cat.ID, Amount: dec("100"), Period: "daily",
		StartDate: mustDate(t, "2025-03-01"),
	})
	if !errors.As(err, &ve) || ve.Code != services.CodeInvalidPeriod {
		t.Fatalf("bad period: err = %v, want invalid_period", err)
	}

	_, err = budgets.Create(ctx, 1, models.BudgetRequest{
		CategoryID: cat.ID, Amount: dec("-1"), Period: "monthly",
		StartDate: mustDate(t, "2025-03-01"),
	})
	if !errors.As(err, &ve) || ve.Code != services.CodeInvalidAmount {
		t.Fatalf("negative amount: err = %v, want invalid_amount", err)
	}

	_, err = budgets.Create(ctx, 1, models.BudgetRequest{
		CategoryID: cat.ID, Amount: dec("100"), Period: "monthly",
	})
	if !errors.As(err, &ve) || ve.Code != services.CodeInvalidField {
		t.Fatalf("missing start date: err = %v, want invalid_field", err)
	}

	_, err = budgets.Create(ctx, 1, models.BudgetRequest{
		CategoryID: 9999, Amount: dec("100"), Period: "monthly",
		StartDate: mustDate(t, "2025-03-01"),
	})
	if !errors.As(err, &ve) || ve.Code != services.CodeInvalidCategory {
		t.Fatalf("unknown category: err = %v, want invalid_category", err)
	}
}

func TestDuplicateActiveBudgetConflicts(t *testing.T) {
	ctx := context.Background()
	_, _, budgets, cat := newBudgetFixture(t)

	first, err := budgets.Create(ctx, 1, models.BudgetRequest{
		CategoryID: cat.ID, Amount: dec("100"), Period: "monthly",
		StartDate: mustDate(t, "2025-03-01"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var ce *services.ConflictError
	_, err = budgets.Create(ctx, 1, models.BudgetRequest{
		CategoryID: cat.ID, Amount: dec("300"), Period: "monthly",
		StartDate: mustDate(t, "2025-03-01"),
	})
	if !errors.As(err, &ce) {
		t.Fatalf("second active budget: err = %v, want conflict", err)
	}

	// Updating the budget without changing its category is never a conflict
	// with itself.
	if _, err := budgets.Update(ctx, 1, first.ID, models.BudgetRequest{
		CategoryID: cat.ID, Amount: dec("250"), Period: "monthly",
		StartDate: mustDate(t, "2025-03-01"),
	}); err != nil {
		t.Fatalf("update keeping own category: %v", err)
	}

	// Deactivating frees the category for a new budget.
	if err := budgets.Delete(ctx, 1, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := budgets.Get(ctx, 1, first.ID); err != nil {
		t.Fatalf("soft-deleted budget must stay readable: %v", err)
	}
	if _, err := budgets.Create(ctx, 1, models.BudgetRequest{
		CategoryID: cat.ID, Amount: dec("300"), Period: "monthly",
		StartDate: mustDate(t, "2025-04-01"),
	}); err != nil {
		t.Fatalf("create after deactivate: %v", err)
	}
}

func TestListBudgetsSkipsInactive(t *testing.T) {
	ctx := context.Background()
	store, _, budgets, cat := newBudgetFixture(t)
	other := store.PutCategory(models.Category{UserID: 1, Name: "Fuel", Kind: models.KindExpense, IsActive: true})

	first, err := budgets.Create(ctx, 1, models.BudgetRequest{
		CategoryID: cat.ID, Amount: dec("100"), Period: "monthly",
		StartDate: mustDate(t, "2025-03-01"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := budgets.Create(ctx, 1, models.BudgetRequest{
		CategoryID: other.ID, Amount: dec("60"), Period: "weekly",
		StartDate: mustDate(t, "2025-03-01"),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := budgets.Delete(ctx, 1, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	views, err := budgets.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || views[0].CategoryID != other.ID {
		t.Fatalf("list = %+v, want only the remaining active budget", views)
	}
}

func TestBudgetCrossUserAccessIsNotFound(t *testing.T) {
	ctx := context.Background()
	_, _, budgets, cat := newBudgetFixture(t)

	view, err := budgets.Create(ctx, 1, models.BudgetRequest{
		CategoryID: cat.ID, Amount: dec("100"), Period: "monthly",
		StartDate: mustDate(t, "2025-03-01"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := budgets.Get(ctx, 2, view.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("get as other user: err = %v, want ErrNotFound", err)
	}
	if err := budgets.Delete(ctx, 2, view.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("delete as other user: err = %v, want ErrNotFound", err)
	}
}
