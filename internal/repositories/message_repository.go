package repositories

import (
	"context"
	"database/sql"

	"drivaBack/internal/models"
)

type MessageRepository struct {
	DB *sql.DB
}

func (r *MessageRepository) Create(ctx context.Context, msg models.Message) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO messages (id, chat_id, sender_id, receiver_id, text, created_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ChatID, msg.SenderID, msg.ReceiverID, msg.Text, msg.CreatedAt,
	)
	return err
}

func (r *MessageRepository) GetMessagesForChat(ctx context.Context, chatID, limit, offset int) ([]models.Message, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, chat_id, sender_id, receiver_id, text, created_at
        FROM messages WHERE chat_id = ?
        ORDER BY created_at DESC
        LIMIT ? OFFSET ?`, chatID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.ReceiverID, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *MessageRepository) Delete(ctx context.Context, id string, senderID int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM messages WHERE id = ? AND sender_id = ?`, id, senderID)
	if err != nil {
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrMessageNotFound
	}
	return nil
}
