package services

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/messaging"

	"drivaBack/internal/models"
	"drivaBack/internal/repositories"
)

// NotificationService persists notification rows and pushes them over FCM.
// Push and counter updates are best effort; the triggering operation never
// fails because of them.
type NotificationService struct {
	NotificationRepo *repositories.NotificationRepository
	UserRepo         *repositories.UserRepository
	Cache            *repositories.AvailabilityCache
	FCM              *messaging.Client
	ErrorLog         *log.Logger
}

func (s *NotificationService) Notify(ctx context.Context, userID int, ntype, title, message string, payload map[string]string) {
	n := models.Notification{
		UserID:    userID,
		Type:      ntype,
		Title:     title,
		Message:   message,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	created, err := s.NotificationRepo.Create(ctx, n)
	if err != nil {
		s.logf("failed to persist notification for user %d: %v", userID, err)
		return
	}

	if s.Cache != nil {
		if err := s.Cache.BumpUnread(ctx, userID); err != nil {
			s.logf("failed to bump unread counter for user %d: %v", userID, err)
		}
	}

	s.push(ctx, created)
}

func (s *NotificationService) push(ctx context.Context, n models.Notification) {
	if s.FCM == nil {
		return
	}
	user, err := s.UserRepo.GetUserByID(ctx, n.UserID)
	if err != nil || user.FCMToken == nil || *user.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: *user.FCMToken,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: n.Payload,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: n.Title,
						Body:  n.Message,
					},
					Sound: "default",
				},
			},
		},
	}
	if _, err := s.FCM.Send(ctx, msg); err != nil {
		s.logf("failed to push notification %d: %v", n.ID, err)
	}
}

func (s *NotificationService) ListForUser(ctx context.Context, userID, page, limit int) ([]models.Notification, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.NotificationRepo.ListByUser(ctx, userID, limit, (page-1)*limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID int) error {
	if err := s.NotificationRepo.MarkRead(ctx, id, userID); err != nil {
		return err
	}
	if s.Cache != nil {
		if err := s.Cache.ResetUnread(ctx, userID); err != nil {
			s.logf("failed to reset unread counter for user %d: %v", userID, err)
		}
	}
	return nil
}

// CountUnread serves the badge counter, preferring the Redis cache.
func (s *NotificationService) CountUnread(ctx context.Context, userID int) (int, error) {
	if s.Cache != nil {
		if n, err := s.Cache.GetUnread(ctx, userID); err == nil {
			return n, nil
		}
	}
	count, err := s.NotificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.Cache != nil {
		if err := s.Cache.SetUnread(ctx, userID, count); err != nil {
			s.logf("failed to prime unread counter for user %d: %v", userID, err)
		}
	}
	return count, nil
}

func (s *NotificationService) logf(format string, args ...interface{}) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
