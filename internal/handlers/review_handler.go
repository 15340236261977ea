package handlers

import (
	"encoding/json"
	"net/http"

	"drivaBack/internal/models"
	"drivaBack/internal/services"
)

type ReviewHandler struct {
	Service *services.ReviewService
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	actorID, _ := actorFromContext(r)
	review, err := h.Service.CreateReview(r.Context(), actorID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// ReviewsForCar lists a car's reviews. Public.
func (h *ReviewHandler) ReviewsForCar(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid car ID", http.StatusBadRequest)
		return
	}

	reviews, err := h.Service.GetReviewsByCarID(r.Context(), carID)
	if err != nil {
		writeError(w, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	writeJSON(w, http.StatusOK, reviews)
}

// DeleteReview removes a review. Admin only.
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid review ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteReview(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
