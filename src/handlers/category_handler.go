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

func CreateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req models.CategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create category request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if !util.ValidateName(req.Name, 2, 50) {
			http.Error(w, "category name must be between 2 and 50 characters", http.StatusBadRequest)
			return
		}
		if req.Kind == "" {
			http.Error(w, "category kind is required", http.StatusBadRequest)
			return
		}

		exists, err := db.CategoryNameExists(r.Context(), pool, userID, req.Name, 0)
		if err != nil {
			log.Printf("ERROR: Failed to check category name for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if exists {
			http.Error(w, "category with this name already exists", http.StatusBadRequest)
			return
		}

		category := &models.Category{
			UserID:      userID,
			Name:        req.Name,
			Kind:        req.Kind,
			Icon:        req.Icon,
			Color:       req.Color,
			Description: req.Description,
		}
		created, err := db.CreateCategory(r.Context(), pool, category)
		if err != nil {
			log.Printf("ERROR: Failed to create category for user %d: %v", userID, err)
			http.Error(w, "failed to create category", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Created category id %d for user %d", created.ID, userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetCategories(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		categories, err := db.GetActiveCategoriesForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get categories for user %d: %v", userID, err)
			http.Error(w, "failed to get categories", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

func GetCategoryByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		idStr := chi.URLParam(r, "category_id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		category, err := db.GetCategoryByID(r.Context(), pool, userID, id)
		if err != nil {
			log.Printf("ERROR: Category id %d not found for user %d: %v", id, userID, err)
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, category)
	}
}

func UpdateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		idStr := chi.URLParam(r, "category_id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		var req models.CategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update category request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if !util.ValidateName(req.Name, 2, 50) {
			http.Error(w, "category name must be between 2 and 50 characters", http.StatusBadRequest)
			return
		}

		exists, err := db.CategoryNameExists(r.Context(), pool, userID, req.Name, id)
		if err != nil {
			log.Printf("ERROR: Failed to check category name for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if exists {
			http.Error(w, "category with this name already exists", http.StatusBadRequest)
			return
		}

		category := &models.Category{
			ID:          id,
			UserID:      userID,
			Name:        req.Name,
			Kind:        req.Kind,
			Icon:        req.Icon,
			Color:       req.Color,
			Description: req.Description,
		}
		updated, err := db.UpdateCategory(r.Context(), pool, category)
		if err != nil {
			log.Printf("ERROR: Failed to update category id %d for user %d: %v", id, userID, err)
			respondServiceError(w, err)
			return
		}

		log.Printf("INFO: Updated category id %d for user %d", updated.ID, userID)
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		idStr := chi.URLParam(r, "category_id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		if err := db.DeactivateCategory(r.Context(), pool, userID, id); err != nil {
			log.Printf("ERROR: Failed to delete category id %d for user %d: %v", id, userID, err)
			respondServiceError(w, err)
			return
		}

		log.Printf("INFO: Deleted category id %d for user %d", id, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
	}
}
