package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"drivaBack/internal/models"
)

type NotificationRepository struct {
	DB *sql.DB
}

func (r *NotificationRepository) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	payloadJSON, err := json.Marshal(n.Payload)
	if err != nil {
		return models.Notification{}, err
	}

	res, err := r.DB.ExecContext(ctx, `
        INSERT INTO notifications (user_id, type, title, message, payload, is_read, created_at)
        VALUES (?, ?, ?, ?, ?, FALSE, ?)`,
		n.UserID, n.Type, n.Title, n.Message, string(payloadJSON), n.CreatedAt,
	)
	if err != nil {
		return models.Notification{}, err
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.Notification{}, err
	}
	n.ID = int(lastID)
	return n, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID, limit, offset int) ([]models.Notification, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, user_id, type, title, message, payload, is_read, created_at
        FROM notifications WHERE user_id = ?
        ORDER BY created_at DESC
        LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Notification
	for rows.Next() {
		var n models.Notification
		var payloadJSON []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &payloadJSON, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		if len(payloadJSON) > 0 {
			if err := json.Unmarshal(payloadJSON, &n.Payload); err != nil {
				return nil, err
			}
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// MarkRead flips the read flag; only the recipient's own rows match.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrNoRecord
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE`, userID).Scan(&count)
	return count, err
}
