package handlers

import (
	cache "fintrack-server/src/db"
	"fintrack-server/src/models"
	"fintrack-server/src/services"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func CreateTransaction(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req models.TransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		created, err := ledger.Create(r.Context(), userID, req)
		if err != nil {
			log.Printf("ERROR: Failed to create transaction for user %d: %v", userID, err)
			respondServiceError(w, err)
			return
		}

		cache.ClearAllTransactionCaches()
		cache.ClearAllDashboardCaches()

		log.Printf("INFO: Created transaction id %d for user %d", created.ID, userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetTransactions(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))

		cacheKey := fmt.Sprintf("transactions:%d:p%d:s%d", userID, page, size)
		if cached, found := cache.Cache.Get(cacheKey); found {
			writeJSON(w, http.StatusOK, cached)
			return
		}

		transactions, err := ledger.List(r.Context(), userID, page, size)
		if err != nil {
			log.Printf("ERROR: Failed to list transactions for user %d: %v", userID, err)
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}
		if transactions == nil {
			transactions = []models.Transaction{}
		}

		cache.SetTransactionCache(cacheKey, transactions)
		writeJSON(w, http.StatusOK, transactions)
	}
}

func GetTransactionByID(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		idStr := chi.URLParam(r, "transaction_id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		transaction, err := ledger.Get(r.Context(), userID, id)
		if err != nil {
			log.Printf("ERROR: Transaction id %d not found for user %d: %v", id, userID, err)
			respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, transaction)
	}
}

func UpdateTransaction(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		idStr := chi.URLParam(r, "transaction_id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		var req models.TransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		updated, err := ledger.Update(r.Context(), userID, id, req)
		if err != nil {
			log.Printf("ERROR: Failed to update transaction id %d for user %d: %v", id, userID, err)
			respondServiceError(w, err)
			return
		}

		cache.ClearAllTransactionCaches()
		cache.ClearAllDashboardCaches()

		log.Printf("INFO: Updated transaction id %d for user %d", updated.ID, userID)
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteTransaction(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		idStr := chi.URLParam(r, "transaction_id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		if err := ledger.Delete(r.Context(), userID, id); err != nil {
			log.Printf("ERROR: Failed to delete transaction id %d for user %d: %v", id, userID, err)
			respondServiceError(w, err)
			return
		}

		cache.ClearAllTransactionCaches()
		cache.ClearAllDashboardCaches()

		log.Printf("INFO: Deleted transaction id %d for user %d", id, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
	}
}
