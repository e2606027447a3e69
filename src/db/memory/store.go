// Package memory holds an in-memory implementation of the services store,
// used for deterministic service tests without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"fintrack-server/src/models"
	"fintrack-server/src/services"

	"github.com/shopspring/decimal"
)

type Store struct {
	mu           sync.Mutex
	nextID       int64
	categories   map[int64]models.Category
	accounts     map[int64]models.Account
	transactions map[int64]models.Transaction
	budgets      map[int64]models.Budget
}

func NewStore() *Store {
	return &Store{
		categories:   make(map[int64]models.Category),
		accounts:     make(map[int64]models.Account),
		transactions: make(map[int64]models.Transaction),
		budgets:      make(map[int64]models.Budget),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func cloneMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) cloneLocked() *Store {
	return &Store{
		nextID:       s.nextID,
		categories:   cloneMap(s.categories),
		accounts:     cloneMap(s.accounts),
		transactions: cloneMap(s.transactions),
		budgets:      cloneMap(s.budgets),
	}
}

// Atomic runs fn against a scratch copy of the state and adopts the copy
// only when fn succeeds, so a failure partway leaves nothing behind. The
// store-wide mutex doubles as the per-account serialization guarantee.
func (s *Store) Atomic(ctx context.Context, fn func(services.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scratch := s.cloneLocked()
	if err := fn(scratch); err != nil {
		return err
	}
	s.nextID = scratch.nextID
	s.categories = scratch.categories
	s.accounts = scratch.accounts
	s.transactions = scratch.transactions
	s.budgets = scratch.budgets
	return nil
}

func (s *Store) GetCategoryByID(ctx context.Context, userID, id int64) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok || c.UserID != userID {
		return nil, services.ErrNotFound
	}
	return &c, nil
}

func (s *Store) GetAccountByID(ctx context.Context, userID, id int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.UserID != userID {
		return nil, services.ErrNotFound
	}
	return &a, nil
}

func (s *Store) AddToAccountBalance(ctx context.Context, id int64, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return services.ErrNotFound
	}
	a.Balance = a.Balance.Add(delta)
	s.accounts[id] = a
	return nil
}

func (s *Store) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	s.transactions[t.ID] = *t
	return nil
}

func (s *Store) GetTransactionByID(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return nil, services.ErrNotFound
	}
	return &t, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.transactions[t.ID]
	if !ok || existing.UserID != t.UserID {
		return services.ErrNotFound
	}
	s.transactions[t.ID] = *t
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return services.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, t := range s.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) InsertBudget(ctx context.Context, b *models.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id()
	s.budgets[b.ID] = *b
	return nil
}

func (s *Store) GetBudgetByID(ctx context.Context, userID, id int64) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return nil, services.ErrNotFound
	}
	return &b, nil
}

func (s *Store) UpdateBudget(ctx context.Context, b *models.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.budgets[b.ID]
	if !ok || existing.UserID != b.UserID {
		return services.ErrNotFound
	}
	s.budgets[b.ID] = *b
	return nil
}

func (s *Store) DeactivateBudget(ctx context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return services.ErrNotFound
	}
	b.IsActive = false
	s.budgets[id] = b
	return nil
}

func (s *Store) ListActiveBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Budget
	for _, b := range s.budgets {
		if b.UserID == userID && b.IsActive {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) HasActiveBudget(ctx context.Context, userID, categoryID, excludeBudgetID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.budgets {
		if b.UserID == userID && b.CategoryID == categoryID && b.IsActive && b.ID != excludeBudgetID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SumAmountByCategoryKindAndDateRange(ctx context.Context, userID, categoryID int64, kind string, start, end models.Date) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := decimal.Zero
	for _, t := range s.transactions {
		if t.UserID != userID || t.CategoryID != categoryID || t.Kind != kind {
			continue
		}
		if t.Date.Before(start.Time) || t.Date.After(end.Time) {
			continue
		}
		sum = sum.Add(t.Amount)
	}
	return sum, nil
}

// Seed helpers for tests.

func (s *Store) PutCategory(c models.Category) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.categories[c.ID] = c
	return c
}

func (s *Store) PutAccount(a models.Account) models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.id()
	}
	s.accounts[a.ID] = a
	return a
}

// Account returns the current state of an account row.
func (s *Store) Account(id int64) models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[id]
}

// TransactionCount reports how many transactions are stored, across users.
func (s *Store) TransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}
