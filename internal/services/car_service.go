package services

import (
	"context"
	"fmt"
	"time"

	"drivaBack/internal/models"
	"drivaBack/internal/repositories"
)

type CarService struct {
	CarRepo  *repositories.CarRepository
	Notifier Notifier
}

// CreateCar registers a listing; it stays invisible to renters until an
// admin approves it.
func (s *CarService) CreateCar(ctx context.Context, car models.Car) (models.Car, error) {
	if car.MinRentalDays < 1 {
		car.MinRentalDays = 1
	}
	if car.MaxRentalDays < car.MinRentalDays {
		return models.Car{}, fmt.Errorf("%w: max rental days below minimum", models.ErrValidation)
	}
	car.Status = models.CarStatusPending
	car.IsActive = true
	car.CreatedAt = time.Now()
	return s.CarRepo.CreateCar(ctx, car)
}

func (s *CarService) GetCarByID(ctx context.Context, id int) (models.Car, error) {
	return s.CarRepo.GetCarByID(ctx, id)
}

// UpdateCar lets the owner edit a listing. Edits to an approved car send
// it back to moderation.
func (s *CarService) UpdateCar(ctx context.Context, car models.Car, actorID int, role string) (models.Car, error) {
	existing, err := s.CarRepo.GetCarByID(ctx, car.ID)
	if err != nil {
		return models.Car{}, err
	}
	if existing.OwnerID != actorID && role != "admin" {
		return models.Car{}, fmt.Errorf("%w: only the owner may edit a listing", models.ErrNotAllowed)
	}
	car.OwnerID = existing.OwnerID

	updated, err := s.CarRepo.UpdateCar(ctx, car)
	if err != nil {
		return models.Car{}, err
	}
	if existing.Status == models.CarStatusApproved && role != "admin" {
		if err := s.CarRepo.UpdateModeration(ctx, car.ID, models.CarStatusPending, nil); err != nil {
			return models.Car{}, err
		}
		updated.Status = models.CarStatusPending
	} else {
		updated.Status = existing.Status
	}
	return updated, nil
}

func (s *CarService) DeleteCar(ctx context.Context, id, actorID int, role string) error {
	existing, err := s.CarRepo.GetCarByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != actorID && role != "admin" {
		return fmt.Errorf("%w: only the owner may delete a listing", models.ErrNotAllowed)
	}
	return s.CarRepo.DeleteCar(ctx, id)
}

func (s *CarService) GetCarsByOwnerID(ctx context.Context, ownerID int) ([]models.Car, error) {
	return s.CarRepo.GetCarsByOwnerID(ctx, ownerID)
}

func (s *CarService) GetFilteredCars(ctx context.Context, filter models.CarFilterRequest) (models.CarListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	offset := (filter.Page - 1) * filter.Limit

	cars, minPrice, maxPrice, err := s.CarRepo.GetCarsWithFilters(ctx, filter, filter.Limit, offset)
	if err != nil {
		return models.CarListResponse{}, err
	}
	return models.CarListResponse{
		Cars:     cars,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}, nil
}

// Moderate records the admin decision and tells the owner.
func (s *CarService) Moderate(ctx context.Context, carID int, req models.ModerationRequest) error {
	car, err := s.CarRepo.GetCarByID(ctx, carID)
	if err != nil {
		return err
	}
	if car.Status != models.CarStatusPending {
		return fmt.Errorf("%w: car is not awaiting moderation", models.ErrInvalidState)
	}

	var reason *string
	if req.Status == models.CarStatusRejected {
		reason = &req.Reason
	}
	if err := s.CarRepo.UpdateModeration(ctx, carID, req.Status, reason); err != nil {
		return err
	}

	carName := fmt.Sprintf("%s %s", car.Make, car.Model)
	if req.Status == models.CarStatusApproved {
		s.Notifier.Notify(ctx, car.OwnerID, models.NotifCarApproved,
			"Listing approved", fmt.Sprintf("Your %s is now visible to renters", carName),
			map[string]string{"car_id": fmt.Sprint(carID)})
	} else {
		s.Notifier.Notify(ctx, car.OwnerID, models.NotifCarRejected,
			"Listing rejected", fmt.Sprintf("Your %s was rejected: %s", carName, req.Reason),
			map[string]string{"car_id": fmt.Sprint(carID)})
	}
	return nil
}

func (s *CarService) ListPendingModeration(ctx context.Context) ([]models.Car, error) {
	return s.CarRepo.GetCarsByStatus(ctx, models.CarStatusPending)
}
