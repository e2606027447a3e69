package handlers

import (
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/util"
	"encoding/json"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func GetProfile(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get user - user_id: %d: %v", userID, err)
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

func UpdateProfile(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			Email           string `json:"email"`
			FirstName       string `json:"first_name"`
			LastName        string `json:"last_name"`
			DefaultCurrency string `json:"default_currency"`
			Theme           string `json:"theme"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update profile request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if !util.ValidateEmail(req.Email) {
			log.Printf("ERROR: Email validation failed during profile update - Email: %s, User: %d", req.Email, userID)
			http.Error(w, "invalid email format", http.StatusBadRequest)
			return
		}

		err := db.UpdateUserProfile(r.Context(), pool, userID, req.Email, req.FirstName, req.LastName, req.DefaultCurrency, req.Theme)
		if err != nil {
			log.Printf("ERROR: Failed to update profile - user_id: %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: User profile updated - User: %d", userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "profile updated successfully"})
	}
}

func ChangePassword(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode change password request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get user for password change - user_id: %d: %v", userID, err)
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			log.Printf("ERROR: Wrong current password during password change - User: %d", userID)
			http.Error(w, "current password is incorrect", http.StatusUnauthorized)
			return
		}

		if !util.ValidatePassword(req.NewPassword) {
			http.Error(w, "password must be at least 8 characters with uppercase, lowercase, digit, and special character", http.StatusBadRequest)
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash new password - User: %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := db.UpdateUserPassword(r.Context(), pool, userID, string(hashed)); err != nil {
			log.Printf("ERROR: Failed to update password - User: %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Password changed - User: %d", userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "password updated successfully"})
	}
}

func DeactivateUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		if err := db.DeactivateUser(r.Context(), pool, userID); err != nil {
			log.Printf("ERROR: Failed to deactivate user - user_id: %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: User deactivated - User: %d", userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "account deactivated"})
	}
}
