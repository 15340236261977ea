package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"drivaBack/internal/models"
)

type CarRepository struct {
	DB *sql.DB
}

func (r *CarRepository) CreateCar(ctx context.Context, car models.Car) (models.Car, error) {
	imagesJSON, err := json.Marshal(car.Images)
	if err != nil {
		return models.Car{}, err
	}

	query := `
    INSERT INTO cars (owner_id, make, model, year, description, city, price_per_day, security_deposit, min_rental_days, max_rental_days, is_instant_book, is_active, status, images, avg_rating, created_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	result, err := r.DB.ExecContext(ctx, query,
		car.OwnerID,
		car.Make,
		car.Model,
		car.Year,
		car.Description,
		car.City,
		car.PricePerDay,
		car.SecurityDeposit,
		car.MinRentalDays,
		car.MaxRentalDays,
		car.IsInstantBook,
		car.IsActive,
		car.Status,
		string(imagesJSON),
		car.AvgRating,
		car.CreatedAt,
	)
	if err != nil {
		return models.Car{}, err
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return models.Car{}, err
	}
	car.ID = int(lastID)
	return car, nil
}

func (r *CarRepository) GetCarByID(ctx context.Context, id int) (models.Car, error) {
	query := `
        SELECT c.id, c.owner_id, u.id, u.name, u.surname, u.review_rating, u.reviews_count, u.avatar_path,
               c.make, c.model, c.year, c.description, c.city, c.price_per_day, c.security_deposit,
               c.min_rental_days, c.max_rental_days, c.is_instant_book, c.is_active, c.status,
               c.images, c.avg_rating, c.rejection_reason, c.created_at, c.updated_at
        FROM cars c
        JOIN users u ON c.owner_id = u.id
        WHERE c.id = ?
    `
	var car models.Car
	var imagesJSON []byte

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&car.ID, &car.OwnerID, &car.Owner.ID, &car.Owner.Name, &car.Owner.Surname, &car.Owner.ReviewRating, &car.Owner.ReviewsCount, &car.Owner.AvatarPath,
		&car.Make, &car.Model, &car.Year, &car.Description, &car.City, &car.PricePerDay, &car.SecurityDeposit,
		&car.MinRentalDays, &car.MaxRentalDays, &car.IsInstantBook, &car.IsActive, &car.Status,
		&imagesJSON, &car.AvgRating, &car.RejectionReason, &car.CreatedAt, &car.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Car{}, models.ErrCarNotFound
	}
	if err != nil {
		return models.Car{}, err
	}

	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &car.Images); err != nil {
			return models.Car{}, err
		}
	}
	return car, nil
}

func (r *CarRepository) UpdateCar(ctx context.Context, car models.Car) (models.Car, error) {
	imagesJSON, err := json.Marshal(car.Images)
	if err != nil {
		return models.Car{}, err
	}

	query := `
        UPDATE cars
        SET make = ?, model = ?, year = ?, description = ?, city = ?, price_per_day = ?, security_deposit = ?,
            min_rental_days = ?, max_rental_days = ?, is_instant_book = ?, is_active = ?, images = ?, updated_at = ?
        WHERE id = ?
    `
	now := time.Now()
	res, err := r.DB.ExecContext(ctx, query,
		car.Make, car.Model, car.Year, car.Description, car.City, car.PricePerDay, car.SecurityDeposit,
		car.MinRentalDays, car.MaxRentalDays, car.IsInstantBook, car.IsActive, string(imagesJSON), now,
		car.ID,
	)
	if err != nil {
		return models.Car{}, err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return models.Car{}, err
	}
	if rowsAffected == 0 {
		return models.Car{}, models.ErrCarNotFound
	}
	car.UpdatedAt = &now
	return car, nil
}

func (r *CarRepository) DeleteCar(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrCarNotFound
	}
	return nil
}

// UpdateModeration sets the admin decision on a listing.
func (r *CarRepository) UpdateModeration(ctx context.Context, id int, status string, reason *string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE cars SET status = ?, rejection_reason = ?, updated_at = NOW() WHERE id = ?`, status, reason, id)
	if err != nil {
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrCarNotFound
	}
	return nil
}

func (r *CarRepository) GetCarsByOwnerID(ctx context.Context, ownerID int) ([]models.Car, error) {
	query := `
        SELECT c.id, c.owner_id, c.make, c.model, c.year, c.description, c.city, c.price_per_day, c.security_deposit,
               c.min_rental_days, c.max_rental_days, c.is_instant_book, c.is_active, c.status,
               c.images, c.avg_rating, c.rejection_reason, c.created_at, c.updated_at
        FROM cars c
        WHERE c.owner_id = ?
        ORDER BY c.created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCars(rows)
}

func (r *CarRepository) GetCarsByStatus(ctx context.Context, status string) ([]models.Car, error) {
	query := `
        SELECT c.id, c.owner_id, c.make, c.model, c.year, c.description, c.city, c.price_per_day, c.security_deposit,
               c.min_rental_days, c.max_rental_days, c.is_instant_book, c.is_active, c.status,
               c.images, c.avg_rating, c.rejection_reason, c.created_at, c.updated_at
        FROM cars c
        WHERE c.status = ?
        ORDER BY c.created_at
    `
	rows, err := r.DB.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCars(rows)
}

// GetCarsWithFilters returns approved active cars matching the filter plus
// the min/max daily price across the matched set.
func (r *CarRepository) GetCarsWithFilters(ctx context.Context, filter models.CarFilterRequest, limit, offset int) ([]models.Car, float64, float64, error) {
	var conditions []string
	var args []interface{}

	conditions = append(conditions, "c.status = ?", "c.is_active = TRUE")
	args = append(args, models.CarStatusApproved)

	if filter.City != "" {
		conditions = append(conditions, "c.city = ?")
		args = append(args, filter.City)
	}
	if filter.PriceFrom > 0 {
		conditions = append(conditions, "c.price_per_day >= ?")
		args = append(args, filter.PriceFrom)
	}
	if filter.PriceTo > 0 {
		conditions = append(conditions, "c.price_per_day <= ?")
		args = append(args, filter.PriceTo)
	}
	if filter.InstantOnly {
		conditions = append(conditions, "c.is_instant_book = TRUE")
	}
	if filter.MinYear > 0 {
		conditions = append(conditions, "c.year >= ?")
		args = append(args, filter.MinYear)
	}

	where := strings.Join(conditions, " AND ")

	orderBy := "c.created_at DESC"
	switch filter.SortOption {
	case 1:
		orderBy = "c.avg_rating DESC"
	case 2:
		orderBy = "c.price_per_day DESC"
	case 3:
		orderBy = "c.price_per_day ASC"
	}

	query := fmt.Sprintf(`
        SELECT c.id, c.owner_id, u.id, u.name, u.surname, u.review_rating, u.reviews_count, u.avatar_path,
               c.make, c.model, c.year, c.description, c.city, c.price_per_day, c.security_deposit,
               c.min_rental_days, c.max_rental_days, c.is_instant_book, c.is_active, c.status,
               c.images, c.avg_rating, c.rejection_reason, c.created_at, c.updated_at
        FROM cars c
        JOIN users u ON c.owner_id = u.id
        WHERE %s
        ORDER BY %s
        LIMIT ? OFFSET ?`, where, orderBy)

	rows, err := r.DB.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var cars []models.Car
	for rows.Next() {
		var car models.Car
		var imagesJSON []byte
		if err := rows.Scan(
			&car.ID, &car.OwnerID, &car.Owner.ID, &car.Owner.Name, &car.Owner.Surname, &car.Owner.ReviewRating, &car.Owner.ReviewsCount, &car.Owner.AvatarPath,
			&car.Make, &car.Model, &car.Year, &car.Description, &car.City, &car.PricePerDay, &car.SecurityDeposit,
			&car.MinRentalDays, &car.MaxRentalDays, &car.IsInstantBook, &car.IsActive, &car.Status,
			&imagesJSON, &car.AvgRating, &car.RejectionReason, &car.CreatedAt, &car.UpdatedAt,
		); err != nil {
			return nil, 0, 0, err
		}
		if len(imagesJSON) > 0 {
			if err := json.Unmarshal(imagesJSON, &car.Images); err != nil {
				return nil, 0, 0, err
			}
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	priceQuery := fmt.Sprintf(`SELECT COALESCE(MIN(c.price_per_day), 0), COALESCE(MAX(c.price_per_day), 0) FROM cars c WHERE %s`, where)
	var minPrice, maxPrice float64
	if err := r.DB.QueryRowContext(ctx, priceQuery, args...).Scan(&minPrice, &maxPrice); err != nil {
		return nil, 0, 0, err
	}

	return cars, minPrice, maxPrice, nil
}

// UpdateRating refreshes the denormalized review aggregate on the car row.
func (r *CarRepository) UpdateRating(ctx context.Context, carID int) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE cars
        SET avg_rating = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE car_id = ?)
        WHERE id = ?`, carID, carID)
	return err
}

func collectCars(rows *sql.Rows) ([]models.Car, error) {
	var cars []models.Car
	for rows.Next() {
		var car models.Car
		var imagesJSON []byte
		if err := rows.Scan(
			&car.ID, &car.OwnerID, &car.Make, &car.Model, &car.Year, &car.Description, &car.City, &car.PricePerDay, &car.SecurityDeposit,
			&car.MinRentalDays, &car.MaxRentalDays, &car.IsInstantBook, &car.IsActive, &car.Status,
			&imagesJSON, &car.AvgRating, &car.RejectionReason, &car.CreatedAt, &car.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(imagesJSON) > 0 {
			if err := json.Unmarshal(imagesJSON, &car.Images); err != nil {
				return nil, err
			}
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}
