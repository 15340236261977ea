package models

import (
	"time"
)

type Booking struct {
	ID                 int        `json:"id"`
	CarID              int        `json:"car_id"`
	RenterID           int        `json:"renter_id"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            time.Time  `json:"end_date"`
	DailyRate          float64    `json:"daily_rate"`
	TotalDays          int        `json:"total_days"`
	Subtotal           float64    `json:"subtotal"`
	ServiceFee         float64    `json:"service_fee"`
	TotalAmount        float64    `json:"total_amount"`
	SecurityDeposit    float64    `json:"security_deposit"`
	Status             string     `json:"status"`
	PickupLocation     *string    `json:"pickup_location,omitempty"`
	Note               *string    `json:"note,omitempty"`
	ActualStartDate    *time.Time `json:"actual_start_date,omitempty"`
	ActualEndDate      *time.Time `json:"actual_end_date,omitempty"`
	StartMileage       *int       `json:"start_mileage,omitempty"`
	EndMileage         *int       `json:"end_mileage,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        *int       `json:"cancelled_by,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

// CreateBookingRequest is the renter's booking payload. Dates are
// calendar days, "2006-01-02".
type CreateBookingRequest struct {
	CarID          int     `json:"car_id" validate:"required,gt=0"`
	StartDate      string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	PickupLocation *string `json:"pickup_location,omitempty" validate:"omitempty,max=255"`
	Note           *string `json:"note,omitempty" validate:"omitempty,max=1000"`
}

// TransitionRequest mutates booking status. Exactly one action per call;
// the optional fields only apply to the action that reads them.
type TransitionRequest struct {
	Action       string `json:"action" validate:"required,oneof=confirm start complete cancel"`
	Reason       string `json:"reason,omitempty" validate:"omitempty,max=500"`
	StartMileage *int   `json:"start_mileage,omitempty" validate:"omitempty,gte=0"`
	EndMileage   *int   `json:"end_mileage,omitempty" validate:"omitempty,gte=0"`
}

// DateRange is one busy interval in a car's availability calendar.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
