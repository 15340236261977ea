package repositories

import (
	"context"
	"database/sql"
	"errors"

	"drivaBack/internal/models"
)

type ReviewRepository struct {
	DB *sql.DB
}

func (r *ReviewRepository) Create(ctx context.Context, review models.Review) (models.Review, error) {
	res, err := r.DB.ExecContext(ctx, `
        INSERT INTO reviews (car_id, booking_id, reviewer_id, rating, comment, created_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		review.CarID, review.BookingID, review.ReviewerID, review.Rating, review.Comment, review.CreatedAt,
	)
	if err != nil {
		return models.Review{}, err
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.Review{}, err
	}
	review.ID = int(lastID)
	return review, nil
}

func (r *ReviewRepository) GetByBookingID(ctx context.Context, bookingID int) (models.Review, error) {
	var review models.Review
	err := r.DB.QueryRowContext(ctx, `
        SELECT id, car_id, booking_id, reviewer_id, rating, comment, created_at
        FROM reviews WHERE booking_id = ?`, bookingID).
		Scan(&review.ID, &review.CarID, &review.BookingID, &review.ReviewerID, &review.Rating, &review.Comment, &review.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, models.ErrReviewNotFound
	}
	return review, err
}

func (r *ReviewRepository) GetReviewsByCarID(ctx context.Context, carID int) ([]models.Review, error) {
	query := `
        SELECT r.id, r.car_id, r.booking_id, r.reviewer_id, u.name, u.surname, u.avatar_path, r.rating, r.comment, r.created_at
        FROM reviews r
        JOIN users u ON r.reviewer_id = u.id
        WHERE r.car_id = ?
        ORDER BY r.created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(
			&review.ID, &review.CarID, &review.BookingID, &review.ReviewerID,
			&review.Reviewer.Name, &review.Reviewer.Surname, &review.Reviewer.AvatarPath,
			&review.Rating, &review.Comment, &review.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrReviewNotFound
	}
	return nil
}
