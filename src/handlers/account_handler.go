package handlers

import (
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req models.AccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create account request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if !util.ValidateName(req.Name, 2, 100) {
			http.Error(w, "account name must be between 2 and 100 characters", http.StatusBadRequest)
			return
		}
		if req.Kind == "" {
			http.Error(w, "account kind is required", http.StatusBadRequest)
			return
		}

		exists, err := db.AccountNameExists(r.Context(), pool, userID, req.Name, 0)
		if err != nil {
			log.Printf("ERROR: Failed to check account name for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if exists {
			http.Error(w, "account with this name already exists", http.StatusBadRequest)
			return
		}

		if req.Currency == "" {
			req.Currency = "USD"
		}

		account := &models.Account{
			UserID:      userID,
			Name:        req.Name,
			Kind:        req.Kind,
			Balance:     req.Balance,
			Currency:    req.Currency,
			Description: req.Description,
		}
		created, err := db.CreateAccount(r.Context(), pool, account)
		if err != nil {
			log.Printf("ERROR: Failed to create account for user %d: %v", userID, err)
			http.Error(w, "failed to create account", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Created account id %d for user %d", created.ID, userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetAccounts(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		accounts, err := db.GetActiveAccountsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get accounts for user %d: %v", userID, err)
			http.Error(w, "failed to get accounts", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, accounts)
	}
}

func GetAccountByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		idStr := chi.URLParam(r, "account_id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		account, err := db.GetAccountByID(r.Context(), pool, userID, id)
		if err != nil {
			log.Printf("ERROR: Account id %d not found for user %d: %v", id, userID, err)
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, account)
	}
}

// UpdateAccount edits metadata only. The cached balance is owned by the
// ledger service and is never writable through this endpoint.
func UpdateAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		idStr := chi.URLParam(r, "account_id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		var req models.AccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update account request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if !util.ValidateName(req.Name, 2, 100) {
			http.Error(w, "account name must be between 2 and 100 characters", http.StatusBadRequest)
			return
		}

		exists, err := db.AccountNameExists(r.Context(), pool, userID, req.Name, id)
		if err != nil {
			log.Printf("ERROR: Failed to check account name for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if exists {
			http.Error(w, "account with this name already exists", http.StatusBadRequest)
			return
		}

		account := &models.Account{
			ID:          id,
			UserID:      userID,
			Name:        req.Name,
			Kind:        req.Kind,
			Currency:    req.Currency,
			Description: req.Description,
		}
		updated, err := db.UpdateAccountMetadata(r.Context(), pool, account)
		if err != nil {
			log.Printf("ERROR: Failed to update account id %d for user %d: %v", id, userID, err)
			respondServiceError(w, err)
			return
		}

		log.Printf("INFO: Updated account id %d for user %d", updated.ID, userID)
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		idStr := chi.URLParam(r, "account_id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		if err := db.DeactivateAccount(r.Context(), pool, userID, id); err != nil {
			log.Printf("ERROR: Failed to delete account id %d for user %d: %v", id, userID, err)
			respondServiceError(w, err)
			return
		}

		log.Printf("INFO: Deleted account id %d for user %d", id, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
	}
}
