package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drivaBack/internal/booking"
	"drivaBack/internal/models"
	"drivaBack/internal/repositories"
)

type ReviewService struct {
	ReviewRepo  *repositories.ReviewRepository
	BookingRepo BookingStore
	CarRepo     *repositories.CarRepository
	Notifier    Notifier
}

// CreateReview accepts one review per completed booking, written by the
// renter who held it.
func (s *ReviewService) CreateReview(ctx context.Context, reviewerID int, req models.CreateReviewRequest) (models.Review, error) {
	b, err := s.BookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return models.Review{}, err
	}
	if b.RenterID != reviewerID {
		return models.Review{}, fmt.Errorf("%w: only the renter may review this booking", models.ErrNotAllowed)
	}
	if b.Status != booking.StatusCompleted {
		return models.Review{}, fmt.Errorf("%w: booking is not completed yet", models.ErrInvalidState)
	}
	if _, err := s.ReviewRepo.GetByBookingID(ctx, req.BookingID); err == nil {
		return models.Review{}, fmt.Errorf("%w: booking already reviewed", models.ErrInvalidState)
	} else if !errors.Is(err, models.ErrReviewNotFound) {
		return models.Review{}, err
	}

	review := models.Review{
		CarID:      b.CarID,
		BookingID:  b.ID,
		ReviewerID: reviewerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  time.Now(),
	}
	created, err := s.ReviewRepo.Create(ctx, review)
	if err != nil {
		return models.Review{}, err
	}

	if err := s.CarRepo.UpdateRating(ctx, b.CarID); err != nil {
		return models.Review{}, err
	}

	if s.Notifier != nil {
		car, err := s.CarRepo.GetCarByID(ctx, b.CarID)
		if err == nil {
			s.Notifier.Notify(ctx, car.OwnerID, models.NotifNewReview,
				"New review", fmt.Sprintf("Your %s %s received a %d-star review", car.Make, car.Model, req.Rating),
				map[string]string{"car_id": fmt.Sprint(b.CarID), "review_id": fmt.Sprint(created.ID)})
		}
	}
	return created, nil
}

func (s *ReviewService) GetReviewsByCarID(ctx context.Context, carID int) ([]models.Review, error) {
	return s.ReviewRepo.GetReviewsByCarID(ctx, carID)
}

func (s *ReviewService) DeleteReview(ctx context.Context, id int) error {
	return s.ReviewRepo.Delete(ctx, id)
}
