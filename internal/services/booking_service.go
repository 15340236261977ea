package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"drivaBack/internal/booking"
	"drivaBack/internal/models"
)

// CarStore is the slice of the car repository the booking engine needs.
type CarStore interface {
	GetCarByID(ctx context.Context, id int) (models.Car, error)
}

// BookingStore persists bookings. CreateExclusive must re-verify the
// calendar atomically with the insert.
type BookingStore interface {
	CreateExclusive(ctx context.Context, b models.Booking) (models.Booking, error)
	GetByID(ctx context.Context, id int) (models.Booking, error)
	ApplyTransition(ctx context.Context, b models.Booking, fromStatus string) error
	ListByRenter(ctx context.Context, renterID int) ([]models.Booking, error)
	ListByOwner(ctx context.Context, ownerID int) ([]models.Booking, error)
	ListByCar(ctx context.Context, carID int) ([]models.Booking, error)
	ActiveRangesForCar(ctx context.Context, carID int) ([]models.DateRange, error)
}

// Notifier records a notification for a user. Implementations must not
// fail the calling operation; delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, userID int, ntype, title, message string, payload map[string]string)
}

// CalendarCache caches busy ranges per car.
type CalendarCache interface {
	GetRanges(ctx context.Context, carID int) ([]models.DateRange, error)
	SetRanges(ctx context.Context, carID int, ranges []models.DateRange) error
	Invalidate(ctx context.Context, carID int) error
}

type BookingService struct {
	Bookings BookingStore
	Cars     CarStore
	Notifier Notifier
	Calendar CalendarCache
}

// CreateBookingInput is the parsed, validated request.
type CreateBookingInput struct {
	CarID          int
	RenterID       int
	StartDate      time.Time
	EndDate        time.Time
	PickupLocation *string
	Note           *string
}

func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput, now time.Time) (models.Booking, error) {
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return models.Booking{}, fmt.Errorf("%w: start and end dates are required", models.ErrValidation)
	}
	if !in.StartDate.Before(in.EndDate) {
		return models.Booking{}, fmt.Errorf("%w: start date must be before end date", models.ErrValidation)
	}

	car, err := s.Cars.GetCarByID(ctx, in.CarID)
	if err != nil {
		return models.Booking{}, err
	}
	if car.Status != models.CarStatusApproved || !car.IsActive {
		return models.Booking{}, fmt.Errorf("%w: car is not available for booking", models.ErrInvalidState)
	}
	if in.RenterID == car.OwnerID {
		return models.Booking{}, fmt.Errorf("%w: owners cannot book their own car", models.ErrNotAllowed)
	}

	ranges, err := s.Bookings.ActiveRangesForCar(ctx, in.CarID)
	if err != nil {
		return models.Booking{}, err
	}
	for _, dr := range ranges {
		if booking.Overlaps(in.StartDate, in.EndDate, dr.Start, dr.End) {
			return models.Booking{}, models.ErrDateConflict
		}
	}

	quote := booking.ComputeQuote(in.StartDate, in.EndDate, car.PricePerDay)
	if quote.TotalDays < car.MinRentalDays {
		return models.Booking{}, fmt.Errorf("%w: minimum rental is %d days", models.ErrValidation, car.MinRentalDays)
	}
	if quote.TotalDays > car.MaxRentalDays {
		return models.Booking{}, fmt.Errorf("%w: maximum rental is %d days", models.ErrValidation, car.MaxRentalDays)
	}

	status := booking.StatusPending
	if car.IsInstantBook {
		status = booking.StatusConfirmed
	}

	b := models.Booking{
		CarID:           in.CarID,
		RenterID:        in.RenterID,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		DailyRate:       car.PricePerDay,
		TotalDays:       quote.TotalDays,
		Subtotal:        quote.Subtotal,
		ServiceFee:      quote.ServiceFee,
		TotalAmount:     quote.TotalAmount,
		SecurityDeposit: car.SecurityDeposit,
		Status:          status,
		PickupLocation:  in.PickupLocation,
		Note:            in.Note,
		CreatedAt:       now,
	}

	// Second overlap check runs inside the insert transaction; this is the
	// one that holds under concurrent requests.
	created, err := s.Bookings.CreateExclusive(ctx, b)
	if err != nil {
		return models.Booking{}, err
	}

	if car.IsInstantBook {
		s.Notifier.Notify(ctx, car.OwnerID, models.NotifBookingConfirmed,
			"New confirmed booking",
			fmt.Sprintf("Your %s %s was booked for %d days", car.Make, car.Model, created.TotalDays),
			bookingPayload(created))
	} else {
		s.Notifier.Notify(ctx, car.OwnerID, models.NotifBookingRequest,
			"New booking request",
			fmt.Sprintf("A renter requested your %s %s for %d days", car.Make, car.Model, created.TotalDays),
			bookingPayload(created))
	}

	if s.Calendar != nil {
		_ = s.Calendar.Invalidate(ctx, created.CarID)
	}
	return created, nil
}

func (s *BookingService) TransitionBooking(ctx context.Context, bookingID, actorID int, role string, req models.TransitionRequest, now time.Time) (models.Booking, error) {
	to, ok := booking.TargetStatus(req.Action)
	if !ok {
		return models.Booking{}, fmt.Errorf("%w: unknown action %q", models.ErrValidation, req.Action)
	}

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	car, err := s.Cars.GetCarByID(ctx, b.CarID)
	if err != nil {
		return models.Booking{}, err
	}

	if booking.IsTerminal(b.Status) {
		return models.Booking{}, fmt.Errorf("%w: booking is already %s", models.ErrInvalidState, b.Status)
	}

	isAdmin := role == "admin"
	isOwner := actorID == car.OwnerID
	isRenter := actorID == b.RenterID
	switch req.Action {
	case booking.ActionConfirm, booking.ActionStart, booking.ActionComplete:
		if !isOwner && !isAdmin {
			return models.Booking{}, fmt.Errorf("%w: only the owner may %s a booking", models.ErrNotAllowed, req.Action)
		}
	case booking.ActionCancel:
		if !isRenter && !isOwner && !isAdmin {
			return models.Booking{}, fmt.Errorf("%w: only the renter or owner may cancel", models.ErrNotAllowed)
		}
	}

	if !booking.CanTransition(b.Status, to) {
		return models.Booking{}, fmt.Errorf("%w: cannot %s a %s booking", models.ErrInvalidState, req.Action, b.Status)
	}

	from := b.Status
	b.Status = to
	switch to {
	case booking.StatusActive:
		b.ActualStartDate = &now
		b.StartMileage = req.StartMileage
	case booking.StatusCompleted:
		b.ActualEndDate = &now
		b.EndMileage = req.EndMileage
	case booking.StatusCancelled:
		b.CancelledAt = &now
		b.CancelledBy = &actorID
		if req.Reason != "" {
			reason := req.Reason
			b.CancellationReason = &reason
		}
	}

	if err := s.Bookings.ApplyTransition(ctx, b, from); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// someone else moved the booking first
			return models.Booking{}, fmt.Errorf("%w: booking status changed concurrently", models.ErrInvalidState)
		}
		return models.Booking{}, err
	}

	s.notifyTransition(ctx, b, car, actorID)

	if to == booking.StatusCancelled && s.Calendar != nil {
		_ = s.Calendar.Invalidate(ctx, b.CarID)
	}
	return b, nil
}

func (s *BookingService) notifyTransition(ctx context.Context, b models.Booking, car models.Car, actorID int) {
	carName := fmt.Sprintf("%s %s", car.Make, car.Model)
	switch b.Status {
	case booking.StatusConfirmed:
		s.Notifier.Notify(ctx, b.RenterID, models.NotifBookingConfirmed,
			"Booking confirmed", fmt.Sprintf("The owner confirmed your booking of %s", carName), bookingPayload(b))
	case booking.StatusActive:
		s.Notifier.Notify(ctx, b.RenterID, models.NotifBookingStarted,
			"Rental started", fmt.Sprintf("Your rental of %s has started", carName), bookingPayload(b))
	case booking.StatusCompleted:
		s.Notifier.Notify(ctx, b.RenterID, models.NotifBookingCompleted,
			"Rental completed", fmt.Sprintf("Your rental of %s is complete, you can now leave a review", carName), bookingPayload(b))
	case booking.StatusCancelled:
		counterparty := b.RenterID
		if actorID == b.RenterID {
			counterparty = car.OwnerID
		}
		s.Notifier.Notify(ctx, counterparty, models.NotifBookingCancelled,
			"Booking cancelled", fmt.Sprintf("The booking of %s was cancelled", carName), bookingPayload(b))
	}
}

// GetBooking enforces that only participants and admins can read a booking.
func (s *BookingService) GetBooking(ctx context.Context, id, actorID int, role string) (models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if role != "admin" && actorID != b.RenterID {
		car, err := s.Cars.GetCarByID(ctx, b.CarID)
		if err != nil {
			return models.Booking{}, err
		}
		if actorID != car.OwnerID {
			return models.Booking{}, fmt.Errorf("%w: not a participant of this booking", models.ErrNotAllowed)
		}
	}
	return b, nil
}

func (s *BookingService) ListForRenter(ctx context.Context, renterID int) ([]models.Booking, error) {
	return s.Bookings.ListByRenter(ctx, renterID)
}

func (s *BookingService) ListForOwner(ctx context.Context, ownerID int) ([]models.Booking, error) {
	return s.Bookings.ListByOwner(ctx, ownerID)
}

// Availability returns the busy calendar of a car, cached in Redis.
func (s *BookingService) Availability(ctx context.Context, carID int) ([]models.DateRange, error) {
	if s.Calendar != nil {
		if ranges, err := s.Calendar.GetRanges(ctx, carID); err == nil {
			return ranges, nil
		}
	}
	ranges, err := s.Bookings.ActiveRangesForCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	if s.Calendar != nil {
		_ = s.Calendar.SetRanges(ctx, carID, ranges)
	}
	return ranges, nil
}

func bookingPayload(b models.Booking) map[string]string {
	return map[string]string{
		"booking_id": fmt.Sprint(b.ID),
		"car_id":     fmt.Sprint(b.CarID),
		"status":     b.Status,
	}
}
