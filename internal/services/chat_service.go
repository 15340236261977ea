package services

import (
	"context"
	"fmt"

	"drivaBack/internal/models"
	"drivaBack/internal/repositories"
)

type ChatService struct {
	ChatRepo *repositories.ChatRepository
}

func (s *ChatService) GetOrCreateChat(ctx context.Context, user1ID, user2ID int, carID *int) (models.Chat, error) {
	if user1ID == user2ID {
		return models.Chat{}, fmt.Errorf("%w: cannot open a chat with yourself", models.ErrValidation)
	}
	chatID, err := s.ChatRepo.GetOrCreate(ctx, user1ID, user2ID, carID)
	if err != nil {
		return models.Chat{}, err
	}
	return s.ChatRepo.GetChatByID(ctx, chatID)
}

func (s *ChatService) GetChatByID(ctx context.Context, id, actorID int) (models.Chat, error) {
	chat, err := s.ChatRepo.GetChatByID(ctx, id)
	if err != nil {
		return models.Chat{}, err
	}
	if chat.User1ID != actorID && chat.User2ID != actorID {
		return models.Chat{}, fmt.Errorf("%w: not a participant of this chat", models.ErrNotAllowed)
	}
	return chat, nil
}

func (s *ChatService) GetChatsForUser(ctx context.Context, userID int) ([]models.Chat, error) {
	return s.ChatRepo.GetChatsForUser(ctx, userID)
}

func (s *ChatService) DeleteChat(ctx context.Context, id, actorID int) error {
	if _, err := s.GetChatByID(ctx, id, actorID); err != nil {
		return err
	}
	return s.ChatRepo.DeleteChat(ctx, id)
}
