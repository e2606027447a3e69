package handlers

import (
	cache "fintrack-server/src/db"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/services"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type dashboardSummary struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	NetBalance       decimal.Decimal `json:"net_balance"`
	TransactionCount int64           `json:"transaction_count"`
}

func GetDashboardSummary(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		cacheKey := fmt.Sprintf("dashboard:%d", userID)
		if cached, found := cache.Cache.Get(cacheKey); found {
			writeJSON(w, http.StatusOK, cached)
			return
		}

		income, err := db.SumAmountByKind(r.Context(), pool, userID, models.KindIncome)
		if err != nil {
			log.Printf("ERROR: Failed to sum income for user %d: %v", userID, err)
			http.Error(w, "failed to get dashboard summary", http.StatusInternalServerError)
			return
		}
		expenses, err := db.SumAmountByKind(r.Context(), pool, userID, models.KindExpense)
		if err != nil {
			log.Printf("ERROR: Failed to sum expenses for user %d: %v", userID, err)
			http.Error(w, "failed to get dashboard summary", http.StatusInternalServerError)
			return
		}
		count, err := db.CountTransactions(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to count transactions for user %d: %v", userID, err)
			http.Error(w, "failed to get dashboard summary", http.StatusInternalServerError)
			return
		}

		summary := dashboardSummary{
			TotalIncome:      income,
			TotalExpenses:    expenses,
			NetBalance:       income.Sub(expenses),
			TransactionCount: count,
		}

		cache.SetDashboardCache(cacheKey, summary)
		writeJSON(w, http.StatusOK, summary)
	}
}

func GetRecentTransactions(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 5
		}

		transactions, err := ledger.List(r.Context(), userID, 0, limit)
		if err != nil {
			log.Printf("ERROR: Failed to get recent transactions for user %d: %v", userID, err)
			http.Error(w, "failed to get recent transactions", http.StatusInternalServerError)
			return
		}
		if transactions == nil {
			transactions = []models.Transaction{}
		}
		writeJSON(w, http.StatusOK, transactions)
	}
}
