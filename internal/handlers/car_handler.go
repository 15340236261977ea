package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"drivaBack/internal/models"
	"drivaBack/internal/services"
	"drivaBack/utils"
)

type CarHandler struct {
	Service *services.CarService
	Storage *utils.Storage
}

func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(32 << 20) // 32MB
	if err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	ownerID, _ := actorFromContext(r)

	var car models.Car
	car.OwnerID = ownerID
	car.Make = r.FormValue("make")
	car.Model = r.FormValue("model")
	car.Year, _ = strconv.Atoi(r.FormValue("year"))
	car.Description = r.FormValue("description")
	car.City = r.FormValue("city")
	car.PricePerDay, _ = strconv.ParseFloat(r.FormValue("price_per_day"), 64)
	car.SecurityDeposit, _ = strconv.ParseFloat(r.FormValue("security_deposit"), 64)
	car.MinRentalDays, _ = strconv.Atoi(r.FormValue("min_rental_days"))
	car.MaxRentalDays, _ = strconv.Atoi(r.FormValue("max_rental_days"))
	car.IsInstantBook = r.FormValue("is_instant_book") == "true"

	if car.Make == "" || car.Model == "" || car.City == "" || car.PricePerDay <= 0 {
		http.Error(w, "make, model, city and a positive price_per_day are required", http.StatusBadRequest)
		return
	}

	var images []models.CarImage
	if r.MultipartForm != nil {
		for _, fileHeader := range r.MultipartForm.File["images"] {
			file, err := fileHeader.Open()
			if err != nil {
				http.Error(w, "Failed to open file", http.StatusInternalServerError)
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				http.Error(w, "Failed to read file", http.StatusInternalServerError)
				return
			}

			url, err := h.Storage.UploadFile(data, fileHeader.Filename, "cars")
			if err != nil {
				http.Error(w, "Failed to upload image", http.StatusInternalServerError)
				return
			}
			images = append(images, models.CarImage{Name: fileHeader.Filename, Path: url})
		}
	}
	car.Images = images

	created, err := h.Service.CreateCar(r.Context(), car)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *CarHandler) GetCarByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid car ID", http.StatusBadRequest)
		return
	}

	car, err := h.Service.GetCarByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, car)
}

func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid car ID", http.StatusBadRequest)
		return
	}

	var car models.Car
	if err := json.NewDecoder(r.Body).Decode(&car); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	car.ID = id

	actorID, role := actorFromContext(r)
	updated, err := h.Service.UpdateCar(r.Context(), car, actorID, role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid car ID", http.StatusBadRequest)
		return
	}

	actorID, role := actorFromContext(r)
	if err := h.Service.DeleteCar(r.Context(), id, actorID, role); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchCars filters the approved catalogue. Public.
func (h *CarHandler) SearchCars(w http.ResponseWriter, r *http.Request) {
	var filter models.CarFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	result, err := h.Service.GetFilteredCars(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// MyCars lists the caller's own listings regardless of moderation status.
func (h *CarHandler) MyCars(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := actorFromContext(r)
	cars, err := h.Service.GetCarsByOwnerID(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cars)
}

// ModerateCar approves or rejects a pending listing. Admin only.
func (h *CarHandler) ModerateCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid car ID", http.StatusBadRequest)
		return
	}

	var req models.ModerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.Moderate(r.Context(), id, req); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PendingCars lists the moderation queue. Admin only.
func (h *CarHandler) PendingCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.Service.ListPendingModeration(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cars)
}
