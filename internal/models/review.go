package models

import "time"

type Review struct {
	ID         int    `json:"id"`
	CarID      int    `json:"car_id"`
	BookingID  int    `json:"booking_id"`
	ReviewerID int    `json:"reviewer_id"`
	Reviewer   struct {
		Name       string  `json:"name"`
		Surname    string  `json:"surname"`
		AvatarPath *string `json:"avatar_path,omitempty"`
	} `json:"reviewer"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateReviewRequest struct {
	BookingID int    `json:"booking_id" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}
