package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"drivaBack/internal/models"
)

var validate = validator.New()

// actorFromContext reads the identity the auth middleware stored.
func actorFromContext(r *http.Request) (int, string) {
	userID, _ := r.Context().Value("user_id").(int)
	role, _ := r.Context().Value("role").(string)
	return userID, role
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(r.URL.Query().Get(":id"))
}

func queryInt(r *http.Request, key, fallback string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		v = fallback
	}
	n, _ := strconv.Atoi(v)
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the service error taxonomy to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNotAllowed):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, models.ErrInvalidState):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, models.ErrDateConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrCarNotFound),
		errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrChatNotFound),
		errors.Is(err, models.ErrMessageNotFound),
		errors.Is(err, models.ErrReviewNotFound),
		errors.Is(err, models.ErrNoRecord):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrInvalidCredentials):
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrDuplicatePhone):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
