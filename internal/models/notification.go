package models

import "time"

// Notification type tags.
const (
	NotifBookingRequest   = "booking_request"
	NotifBookingConfirmed = "booking_confirmed"
	NotifBookingStarted   = "booking_started"
	NotifBookingCompleted = "booking_completed"
	NotifBookingCancelled = "booking_cancelled"
	NotifCarApproved      = "car_approved"
	NotifCarRejected      = "car_rejected"
	NotifNewMessage       = "new_message"
	NotifNewReview        = "new_review"
)

type Notification struct {
	ID        int               `json:"id"`
	UserID    int               `json:"user_id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Payload   map[string]string `json:"payload,omitempty"`
	IsRead    bool              `json:"is_read"`
	CreatedAt time.Time         `json:"created_at"`
}
