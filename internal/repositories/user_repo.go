package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"drivaBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
    INSERT INTO users (name, surname, email, phone, password, role, avatar_path, created_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	result, err := r.DB.ExecContext(ctx, query,
		user.Name, user.Surname, user.Email, user.Phone, user.Password, user.Role, user.AvatarPath, user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			if strings.Contains(err.Error(), "email") {
				return models.User{}, models.ErrDuplicateEmail
			}
			return models.User{}, models.ErrDuplicatePhone
		}
		return models.User{}, err
	}
	lastID, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(lastID)
	user.Password = ""
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	query := `
        SELECT id, name, surname, email, phone, role, avatar_path, fcm_token, review_rating, reviews_count, created_at, updated_at
        FROM users WHERE id = ?
    `
	var u models.User
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Surname, &u.Email, &u.Phone, &u.Role, &u.AvatarPath, &u.FCMToken, &u.ReviewRating, &u.ReviewsCount, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	return u, err
}

// GetUserByEmail returns the row including the password hash, for sign in.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `
        SELECT id, name, surname, email, phone, password, role, avatar_path, fcm_token, review_rating, reviews_count, created_at, updated_at
        FROM users WHERE email = ?
    `
	var u models.User
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Surname, &u.Email, &u.Phone, &u.Password, &u.Role, &u.AvatarPath, &u.FCMToken, &u.ReviewRating, &u.ReviewsCount, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now()
	res, err := r.DB.ExecContext(ctx, `
        UPDATE users SET name = ?, surname = ?, phone = ?, avatar_path = ?, updated_at = ? WHERE id = ?`,
		user.Name, user.Surname, user.Phone, user.AvatarPath, now, user.ID,
	)
	if err != nil {
		return models.User{}, err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return models.User{}, err
	}
	if rowsAffected == 0 {
		return models.User{}, models.ErrUserNotFound
	}
	user.UpdatedAt = &now
	return user, nil
}

func (r *UserRepository) UpdateFCMToken(ctx context.Context, userID int, token string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET fcm_token = ? WHERE id = ?`, token, userID)
	return err
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, name, surname, email, phone, role, avatar_path, review_rating, reviews_count, created_at, updated_at
        FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.Phone, &u.Role, &u.AvatarPath, &u.ReviewRating, &u.ReviewsCount, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) SaveSession(ctx context.Context, session models.Session) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO sessions (user_id, refresh_token, role, expires_at)
        VALUES (?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE refresh_token = VALUES(refresh_token), role = VALUES(role), expires_at = VALUES(expires_at)`,
		session.UserID, session.RefreshToken, session.Role, session.ExpiresAt,
	)
	return err
}

func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error) {
	var s models.Session
	err := r.DB.QueryRowContext(ctx, `
        SELECT user_id, refresh_token, role, expires_at FROM sessions WHERE refresh_token = ?`, refreshToken).
		Scan(&s.UserID, &s.RefreshToken, &s.Role, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, nil
	}
	return s, err
}

func (r *UserRepository) DeleteSession(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}
