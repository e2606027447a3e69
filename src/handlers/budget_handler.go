package handlers

import (
	"fintrack-server/src/config"
	"fintrack-server/src/models"
	"fintrack-server/src/services"
	"fintrack-server/src/util"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// notifyIfOverThreshold fires the alert webhook when a budget view crosses its
// alert threshold. Delivery is best effort and never fails the request.
func notifyIfOverThreshold(cfg config.Config, view *models.BudgetView) {
	if !view.ShouldAlert || cfg.AlertWebhookURL == "" {
		return
	}
	msg := fmt.Sprintf("Budget %d is at %s%% of its %s limit (%s spent of %s)",
		view.ID, view.PercentSpent.String(), view.Period, view.Spent.String(), view.Amount.String())
	if err := util.SendAlertWebhook(cfg.AlertWebhookURL, msg); err != nil {
		log.Printf("ERROR: Failed to send budget alert webhook for budget %d: %v", view.ID, err)
	}
}

func CreateBudget(budgets *services.BudgetService, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req models.BudgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create budget request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		view, err := budgets.Create(r.Context(), userID, req)
		if err != nil {
			log.Printf("ERROR: Failed to create budget for user %d: %v", userID, err)
			respondServiceError(w, err)
			return
		}

		notifyIfOverThreshold(cfg, view)

		log.Printf("INFO: Created budget id %d for user %d", view.ID, userID)
		writeJSON(w, http.StatusCreated, view)
	}
}

func GetBudgets(budgets *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		views, err := budgets.List(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to list budgets for user %d: %v", userID, err)
			http.Error(w, "failed to get budgets", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func GetBudgetByID(budgets *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		idStr := chi.URLParam(r, "budget_id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}

		view, err := budgets.Get(r.Context(), userID, id)
		if err != nil {
			log.Printf("ERROR: Budget id %d not found for user %d: %v", id, userID, err)
			respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func UpdateBudget(budgets *services.BudgetService, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		idStr := chi.URLParam(r, "budget_id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}

		var req models.BudgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update budget request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		view, err := budgets.Update(r.Context(), userID, id, req)
		if err != nil {
			log.Printf("ERROR: Failed to update budget id %d for user %d: %v", id, userID, err)
			respondServiceError(w, err)
			return
		}

		notifyIfOverThreshold(cfg, view)

		log.Printf("INFO: Updated budget id %d for user %d", view.ID, userID)
		writeJSON(w, http.StatusOK, view)
	}
}

func DeleteBudget(budgets *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		idStr := chi.URLParam(r, "budget_id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}

		if err := budgets.Delete(r.Context(), userID, id); err != nil {
			log.Printf("ERROR: Failed to delete budget id %d for user %d: %v", id, userID, err)
			respondServiceError(w, err)
			return
		}

		log.Printf("INFO: Deleted budget id %d for user %d", id, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "budget deleted"})
	}
}
