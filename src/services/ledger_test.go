package services_test

import (
	"context"
	"errors"
	"testing"

	"fintrack-server/src/db/memory"
	"fintrack-server/src/models"
	"fintrack-server/src/services"

	"github.com/shopspring/decimal"
)

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedUser(t *testing.T, store *memory.Store, userID int64, balance string) (models.Category, models.Account) {
	t.Helper()
	cat := store.PutCategory(models.Category{UserID: userID, Name: "Groceries", Kind: models.KindExpense, IsActive: true})
	acct := store.PutAccount(models.Account{UserID: userID, Name: "Checking", Kind: "checking", Balance: dec(balance), IsActive: true})
	return cat, acct
}

func TestCreateAdjustsBalanceBySign(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := services.NewLedgerService(store)
	cat, acct := seedUser(t, store, 1, "1000")

	cases := []struct {
		kind string
		want string
	}{
		{"expense", "950"},
		{"income", "1150"},
		{"transfer", "1100"}, // unknown kinds subtract, same as expense
	}
	for _, tc := range cases {
		req := models.TransactionRequest{
			Description: "t", Amount: dec("50"), Kind: tc.kind,
			CategoryID: cat.ID, AccountID: &acct.ID, Date: mustDate(t, "2025-03-01"),
		}
		if _, err := ledger.Create(ctx, 1, req); err != nil {
			t.Fatalf("create %s: %v", tc.kind, err)
		}
		if got := store.Account(acct.ID).Balance; !got.Equal(dec(tc.want)) {
			t.Fatalf("after %s: balance = %s, want %s", tc.kind, got, tc.want)
		}
	}
}

func TestCreateWithoutAccountLeavesBalancesAlone(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := services.NewLedgerService(store)
	cat, acct := seedUser(t, store, 1, "1000")

	req := models.TransactionRequest{
		Description: "cash", Amount: dec("25"), Kind: models.KindExpense,
		CategoryID: cat.ID, Date: mustDate(t, "2025-03-01"),
	}
	if _, err := ledger.Create(ctx, 1, req); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := store.Account(acct.ID).Balance; !got.Equal(dec("1000")) {
		t.Fatalf("balance = %s, want 1000", got)
	}
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := services.NewLedgerService(store)
	cat, acct := seedUser(t, store, 1, "1000")

	for _, amount := range []string{"0", "-5"} {
		req := models.TransactionRequest{
			Description: "bad", Amount: dec(amount), Kind: models.KindExpense,
			CategoryID: cat.ID, AccountID: &acct.ID, Date: mustDate(t, "2025-03-01"),
		}
		_, err := ledger.Create(ctx, 1, req)
		var ve *services.ValidationError
		if !errors.As(err, &ve) || ve.Code != services.CodeInvalidAmount {
			t.Fatalf("amount %s: err = %v, want invalid_amount validation error", amount, err)
		}
	}
	if store.TransactionCount() != 0 {
		t.Fatalf("rejected creates must not persist transactions")
	}
}

func TestCreateRejectsForeignRefs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := services.NewLedgerService(store)
	cat, acct := seedUser(t, store, 1, "1000")
	otherCat, otherAcct := seedUser(t, store, 2, "500")

	var ve *services.ValidationError

	// Another user's category.
	req := models.TransactionRequest{
		Description: "x", Amount: dec("10"), Kind: models.KindExpense,
		CategoryID: otherCat.ID, AccountID: &acct.ID, Date: mustDate(t, "2025-03-01"),
	}
	if _, err := ledger.Create(ctx, 1, req); !errors.As(err, &ve) || ve.Code != services.CodeInvalidCategory {
		t.Fatalf("foreign category: err = %v, want invalid_category", err)
	}

	// Another user's account.
	req.CategoryID = cat.ID
	req.AccountID = &otherAcct.ID
	if _, err := ledger.Create(ctx, 1, req); !errors.As(err, &ve) || ve.Code != services.CodeInvalidAccount {
		t.Fatalf("foreign account: err = %v, want invalid_account", err)
	}

	if store.TransactionCount() != 0 {
		t.Fatalf("failed creates must roll back entirely")
	}
	if got := store.Account(acct.ID).Balance; !got.Equal(dec("1000")) {
		t.Fatalf("balance drifted to %s on failed create", got)
	}
}

func TestUpdateReversesOldAndAppliesNew(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := services.NewLedgerService(store)
	cat, acct := seedUser(t, store, 1, "1000")

	created, err := ledger.Create(ctx, 1, models.TransactionRequest{
		Description: "groceries", Amount: dec("50"), Kind: models.KindExpense,
		CategoryID: cat.ID, AccountID: &acct.ID, Date: mustDate(t, "2025-03-01"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := store.Account(acct.ID).Balance; !got.Equal(dec("950")) {
		t.Fatalf("after create: balance = %s, want 950", got)
	}

	// 1000 - 50 = 950, then the edit to 70 lands at 930.
	if _, err := ledger.Update(ctx, 1, created.ID, models.TransactionRequest{
		Description: "groceries", Amount: dec("70"), Kind: models.KindExpense,
		CategoryID: cat.ID, AccountID: &acct.ID, Date: mustDate(t, "2025-03-01"),
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := store.Account(acct.ID).Balance; !got.Equal(dec("930")) {
		t.Fatalf("after update: balance = %s, want 930", got)
	}

	// Deleting restores the original balance exactly.
	if err := ledger.Delete(ctx, 1, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := store.Account(acct.ID).Balance; !got.Equal(dec("1000")) {
		t.Fatalf("after delete: balance = %s, want 1000", got)
	}
}

func TestUpdateWithNoChangesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := services.NewLedgerService(store)
	cat, acct := seedUser(t, store, 1, "1000")

	req := models.TransactionRequest{
		Description: "rent", Amount: dec("300"), Kind: models.KindExpense,
		CategoryID: cat.ID, AccountID: &acct.ID, Date: mustDate(t, "2025-03-01"),
	}
	created, err := ledger.Create(ctx, 1, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ledger.Update(ctx, 1, created.ID, req); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := store.Account(acct.ID).Balance; !got.Equal(dec("700")) {
		t.Fatalf("no-op update moved balance to %s, want 700", got)
	}
}

func TestUpdateMovesEffectBetweenAccounts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := services.NewLedgerService(store)
	cat, first := seedUser(t, store, 1, "1000")
	second := store.PutAccount(models.Account{UserID: 1, Name: "Savings", Kind: "savings", Balance: dec("200"), IsActive: true})

	created, err := ledger.Create(ctx, 1, models.TransactionRequest{
		Description: "gift", Amount: dec("100"), Kind: models.KindIncome,
		CategoryID: cat.ID, AccountID: &first.ID, Date: mustDate(t, "2025-03-01"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := ledger.Update(ctx, 1, created.ID, models.TransactionRequest{
		Description: "gift", Amount: dec("100"), Kind: models.KindIncome,
		CategoryID: cat.ID, AccountID: &second.ID, Date: mustDate(t, "2025-03-01"),
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := store.Account(first.ID).Balance; !got.Equal(dec("1000")) {
		t.Fatalf("old account balance = %s, want 1000", got)
	}
	if got := store.Account(second.ID).Balance; !got.Equal(dec("300")) {
		t.Fatalf("new account balance = %s, want 300", got)
	}
}

func TestUpdateFailureRollsBackEverything(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := services.NewLedgerService(store)
	cat, acct := seedUser(t, store, 1, "1000")

	created, err := ledger.Create(ctx, 1, models.TransactionRequest{
		Description: "bill", Amount: dec("40"), Kind: models.KindExpense,
		CategoryID: cat.ID, AccountID: &acct.ID, Date: mustDate(t, "2025-03-01"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Updating to a category that does not exist must leave both the
	// transaction and the balance untouched.
	if _, err := ledger.Update(ctx, 1, created.ID, models.TransactionRequest{
		Description: "bill", Amount: dec("500"), Kind: models.KindExpense,
		CategoryID: 9999, AccountID: &acct.ID, Date: mustDate(t, "2025-03-01"),
	}); err == nil {
		t.Fatalf("update with bad category succeeded")
	}

	if got := store.Account(acct.ID).Balance; !got.Equal(dec("960")) {
		t.Fatalf("balance = %s after failed update, want 960", got)
	}
	current, err := ledger.Get(ctx, 1, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !current.Amount.Equal(dec("40")) {
		t.Fatalf("transaction amount mutated to %s by failed update", current.Amount)
	}
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := services.NewLedgerService(store)
	cat, acct := seedUser(t, store, 1, "1000")

	created, err := ledger.Create(ctx, 1, models.TransactionRequest{
		Description: "private", Amount: dec("10"), Kind: models.KindExpense,
		CategoryID: cat.ID, AccountID: &acct.ID, Date: mustDate(t, "2025-03-01"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := ledger.Get(ctx, 2, created.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("get as other user: err = %v, want ErrNotFound", err)
	}
	if err := ledger.Delete(ctx, 2, created.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("delete as other user: err = %v, want ErrNotFound", err)
	}
	if got := store.Account(acct.ID).Balance; !got.Equal(dec("990")) {
		t.Fatalf("balance = %s after denied delete, want 990", got)
	}
}

func TestBalanceMatchesTransactionHistory(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := services.NewLedgerService(store)
	cat, acct := seedUser(t, store, 1, "0")

	steps := []struct {
		kind   string
		amount string
	}{
		{"income", "2500"},
		{"expense", "42.75"},
		{"expense", "130"},
		{"income", "12.25"},
		{"expense", "999.99"},
	}
	want := decimal.Zero
	for _, step := range steps {
		if _, err := ledger.Create(ctx, 1, models.TransactionRequest{
			Description: step.kind, Amount: dec(step.amount), Kind: step.kind,
			CategoryID: cat.ID, AccountID: &acct.ID, Date: mustDate(t, "2025-03-01"),
		}); err != nil {
			t.Fatalf("create %s %s: %v", step.kind, step.amount, err)
		}
		if step.kind == models.KindIncome {
			want = want.Add(dec(step.amount))
		} else {
			want = want.Sub(dec(step.amount))
		}
	}
	if got := store.Account(acct.ID).Balance; !got.Equal(want) {
		t.Fatalf("balance = %s, want %s", got, want)
	}
}

func TestListOrdersAndPaginates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := services.NewLedgerService(store)
	cat, acct := seedUser(t, store, 1, "1000")

	dates := []string{"2025-01-05", "2025-01-20", "2025-01-10"}
	for _, d := range dates {
		if _, err := ledger.Create(ctx, 1, models.TransactionRequest{
			Description: d, Amount: dec("1"), Kind: models.KindExpense,
			CategoryID: cat.ID, AccountID: &acct.ID, Date: mustDate(t, d),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := ledger.List(ctx, 1, 0, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].Description != "2025-01-20" || page[1].Description != "2025-01-10" {
		t.Fatalf("first page = %+v, want newest two by date desc", page)
	}

	page, err = ledger.List(ctx, 1, 1, 2)
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if len(page) != 1 || page[0].Description != "2025-01-05" {
		t.Fatalf("second page = %+v, want oldest entry", page)
	}
}
