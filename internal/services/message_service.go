package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"drivaBack/internal/models"
	"drivaBack/internal/repositories"
)

type MessageService struct {
	MessageRepo *repositories.MessageRepository
	ChatRepo    *repositories.ChatRepository
	Notifier    Notifier
}

// SendMessage stores a message, opening the chat on first contact, and
// notifies the receiver.
func (s *MessageService) SendMessage(ctx context.Context, senderID, receiverID int, text string, carID *int) (models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, fmt.Errorf("%w: message text is empty", models.ErrValidation)
	}
	if senderID == receiverID {
		return models.Message{}, fmt.Errorf("%w: cannot message yourself", models.ErrValidation)
	}

	chatID, err := s.ChatRepo.GetOrCreate(ctx, senderID, receiverID, carID)
	if err != nil {
		return models.Message{}, err
	}

	msg := models.Message{
		ID:         uuid.New().String(),
		ChatID:     chatID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  time.Now(),
	}
	if err := s.MessageRepo.Create(ctx, msg); err != nil {
		return models.Message{}, err
	}

	if s.Notifier != nil {
		s.Notifier.Notify(ctx, receiverID, models.NotifNewMessage,
			"New message", text,
			map[string]string{"chat_id": fmt.Sprint(chatID), "sender_id": fmt.Sprint(senderID)})
	}
	return msg, nil
}

func (s *MessageService) GetMessagesForChat(ctx context.Context, chatID, actorID, page, limit int) ([]models.Message, error) {
	chat, err := s.ChatRepo.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.User1ID != actorID && chat.User2ID != actorID {
		return nil, fmt.Errorf("%w: not a participant of this chat", models.ErrNotAllowed)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	return s.MessageRepo.GetMessagesForChat(ctx, chatID, limit, (page-1)*limit)
}

func (s *MessageService) DeleteMessage(ctx context.Context, id string, senderID int) error {
	return s.MessageRepo.Delete(ctx, id, senderID)
}
