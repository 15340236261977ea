package repositories

import (
	"context"
	"database/sql"
	"errors"

	"drivaBack/internal/models"
)

type ChatRepository struct {
	DB *sql.DB
}

// GetOrCreate returns the chat between two users, creating it on first
// contact. Pair order does not matter.
func (r *ChatRepository) GetOrCreate(ctx context.Context, user1ID, user2ID int, carID *int) (int, error) {
	var chatID int
	err := r.DB.QueryRowContext(ctx, `
        SELECT id FROM chats
        WHERE (user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)`,
		user1ID, user2ID, user2ID, user1ID).Scan(&chatID)
	if err == nil {
		return chatID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	res, err := r.DB.ExecContext(ctx, `
        INSERT INTO chats (user1_id, user2_id, car_id, created_at)
        VALUES (?, ?, ?, NOW())`, user1ID, user2ID, carID)
	if err != nil {
		return 0, err
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(lastID), nil
}

func (r *ChatRepository) GetChatByID(ctx context.Context, id int) (models.Chat, error) {
	query := `
        SELECT c.id, c.user1_id, c.user2_id,
               u1.name, u1.surname, u1.avatar_path,
               u2.name, u2.surname, u2.avatar_path,
               c.car_id, c.created_at
        FROM chats c
        JOIN users u1 ON c.user1_id = u1.id
        JOIN users u2 ON c.user2_id = u2.id
        WHERE c.id = ?
    `
	var chat models.Chat
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&chat.ID, &chat.User1ID, &chat.User2ID,
		&chat.User1.Name, &chat.User1.Surname, &chat.User1.AvatarPath,
		&chat.User2.Name, &chat.User2.Surname, &chat.User2.AvatarPath,
		&chat.CarID, &chat.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, models.ErrChatNotFound
	}
	return chat, err
}

func (r *ChatRepository) GetChatsForUser(ctx context.Context, userID int) ([]models.Chat, error) {
	query := `
        SELECT c.id, c.user1_id, c.user2_id,
               u1.name, u1.surname, u1.avatar_path,
               u2.name, u2.surname, u2.avatar_path,
               c.car_id, c.created_at
        FROM chats c
        JOIN users u1 ON c.user1_id = u1.id
        JOIN users u2 ON c.user2_id = u2.id
        WHERE c.user1_id = ? OR c.user2_id = ?
        ORDER BY c.created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		if err := rows.Scan(
			&chat.ID, &chat.User1ID, &chat.User2ID,
			&chat.User1.Name, &chat.User1.Surname, &chat.User1.AvatarPath,
			&chat.User2.Name, &chat.User2.Surname, &chat.User2.AvatarPath,
			&chat.CarID, &chat.CreatedAt,
		); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (r *ChatRepository) DeleteChat(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrChatNotFound
	}
	return nil
}
