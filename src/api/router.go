package api

import (
	"fintrack-server/src/config"
	"fintrack-server/src/handlers"
	"fintrack-server/src/middleware"
	"fintrack-server/src/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRouter(pool *pgxpool.Pool, ledger *services.LedgerService, budgets *services.BudgetService, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.DemoModeMiddleware(cfg.DemoMode))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handlers.Register(pool))
		r.Post("/auth/login", handlers.Login(pool))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware).Group(func(r chi.Router) {
			// User
			r.Get("/user/profile", handlers.GetProfile(pool))
			r.Put("/user/profile", handlers.UpdateProfile(pool))
			r.Post("/user/change-password", handlers.ChangePassword(pool))
			r.Delete("/user", handlers.DeactivateUser(pool))

			// Categories
			r.Post("/categories", handlers.CreateCategory(pool))
			r.Get("/categories", handlers.GetCategories(pool))
			r.Get("/categories/{category_id}", handlers.GetCategoryByID(pool))
			r.Put("/categories/{category_id}", handlers.UpdateCategory(pool))
			r.Delete("/categories/{category_id}", handlers.DeleteCategory(pool))

			// Accounts
			r.Post("/accounts", handlers.CreateAccount(pool))
			r.Get("/accounts", handlers.GetAccounts(pool))
			r.Get("/accounts/{account_id}", handlers.GetAccountByID(pool))
			r.Put("/accounts/{account_id}", handlers.UpdateAccount(pool))
			r.Delete("/accounts/{account_id}", handlers.DeleteAccount(pool))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(ledger))
			r.Get("/transactions", handlers.GetTransactions(ledger))
			r.Get("/transactions/{transaction_id}", handlers.GetTransactionByID(ledger))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(ledger))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(ledger))

			// Budgets
			r.Post("/budgets", handlers.CreateBudget(budgets, cfg))
			r.Get("/budgets", handlers.GetBudgets(budgets))
			r.Get("/budgets/{budget_id}", handlers.GetBudgetByID(budgets))
			r.Put("/budgets/{budget_id}", handlers.UpdateBudget(budgets, cfg))
			r.Delete("/budgets/{budget_id}", handlers.DeleteBudget(budgets))

			// Dashboard
			r.Get("/dashboard/summary", handlers.GetDashboardSummary(pool))
			r.Get("/dashboard/recent-transactions", handlers.GetRecentTransactions(ledger))
		})
	})

	return r
}
