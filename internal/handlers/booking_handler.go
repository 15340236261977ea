package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"drivaBack/internal/models"
	"drivaBack/internal/services"
)

type BookingHandler struct {
	Service *services.BookingService
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	renterID, _ := actorFromContext(r)
	booking, err := h.Service.CreateBooking(r.Context(), services.CreateBookingInput{
		CarID:          req.CarID,
		RenterID:       renterID,
		StartDate:      start,
		EndDate:        end,
		PickupLocation: req.PickupLocation,
		Note:           req.Note,
	}, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) TransitionBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	var req models.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	actorID, role := actorFromContext(r)
	booking, err := h.Service.TransitionBooking(r.Context(), id, actorID, role, req, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	actorID, role := actorFromContext(r)
	booking, err := h.Service.GetBooking(r.Context(), id, actorID, role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// MyBookings returns the caller's bookings as a renter.
func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r)
	bookings, err := h.Service.ListForRenter(r.Context(), actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}

// OwnerBookings returns bookings of the caller's cars.
func (h *BookingHandler) OwnerBookings(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r)
	bookings, err := h.Service.ListForOwner(r.Context(), actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}

// CarAvailability returns the busy date ranges of a car. Public.
func (h *BookingHandler) CarAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid car ID", http.StatusBadRequest)
		return
	}

	ranges, err := h.Service.Availability(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if ranges == nil {
		ranges = []models.DateRange{}
	}

	writeJSON(w, http.StatusOK, ranges)
}
