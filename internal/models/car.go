package models

import (
	"time"
)

// Moderation statuses for a car listing.
const (
	CarStatusPending  = "pending"
	CarStatusApproved = "approved"
	CarStatusRejected = "rejected"
)

type Car struct {
	ID      int    `json:"id"`
	OwnerID int    `json:"owner_id"`
	Owner   struct {
		ID           int     `json:"id"`
		Name         string  `json:"name"`
		Surname      string  `json:"surname"`
		ReviewRating float64 `json:"review_rating"`
		ReviewsCount int     `json:"reviews_count"`
		AvatarPath   *string `json:"avatar_path,omitempty"`
	} `json:"owner"`
	Make            string     `json:"make"`
	Model           string     `json:"model"`
	Year            int        `json:"year"`
	Description     string     `json:"description"`
	City            string     `json:"city"`
	PricePerDay     float64    `json:"price_per_day"`
	SecurityDeposit float64    `json:"security_deposit"`
	MinRentalDays   int        `json:"min_rental_days"`
	MaxRentalDays   int        `json:"max_rental_days"`
	IsInstantBook   bool       `json:"is_instant_book"`
	IsActive        bool       `json:"is_active"`
	Status          string     `json:"status"`
	Images          []CarImage `json:"images"`
	AvgRating       float64    `json:"avg_rating"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

type CarImage struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type CarFilterRequest struct {
	City        string  `json:"city"`
	PriceFrom   float64 `json:"price_from"`
	PriceTo     float64 `json:"price_to"`
	InstantOnly bool    `json:"instant_only"`
	MinYear     int     `json:"min_year"`
	SortOption  int     `json:"sort"` // 1 - by rating, 2 - price desc, 3 - price asc
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
}

type CarListResponse struct {
	Cars     []Car   `json:"cars"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
}

// ModerationRequest is the admin approve/reject payload.
type ModerationRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Reason string `json:"reason" validate:"required_if=Status rejected,max=500"`
}
