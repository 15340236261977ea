package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"drivaBack/internal/booking"
	"drivaBack/internal/models"
)

type BookingRepository struct {
	DB *sql.DB
}

const bookingColumns = `id, car_id, renter_id, start_date, end_date, daily_rate, total_days, subtotal, service_fee, total_amount, security_deposit, status, pickup_location, note, actual_start_date, actual_end_date, start_mileage, end_mileage, cancelled_at, cancelled_by, cancellation_reason, created_at, updated_at`

// CreateExclusive inserts a booking after re-checking the car's calendar
// inside one transaction. The row scan takes locks (FOR UPDATE) so two
// concurrent requests for the same car serialize instead of double-booking.
func (r *BookingRepository) CreateExclusive(ctx context.Context, b models.Booking) (models.Booking, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Booking{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	statuses := booking.NonTerminalStatuses()
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	query := fmt.Sprintf(`SELECT start_date, end_date FROM bookings WHERE car_id = ? AND status IN (%s) FOR UPDATE`, placeholders)

	args := make([]interface{}, 0, len(statuses)+1)
	args = append(args, b.CarID)
	for _, s := range statuses {
		args = append(args, s)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return models.Booking{}, err
	}
	for rows.Next() {
		var start, end time.Time
		if err = rows.Scan(&start, &end); err != nil {
			rows.Close()
			return models.Booking{}, err
		}
		if booking.Overlaps(b.StartDate, b.EndDate, start, end) {
			rows.Close()
			err = models.ErrDateConflict
			return models.Booking{}, err
		}
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return models.Booking{}, err
	}
	rows.Close()

	res, err := tx.ExecContext(ctx, `
        INSERT INTO bookings (car_id, renter_id, start_date, end_date, daily_rate, total_days, subtotal, service_fee, total_amount, security_deposit, status, pickup_location, note, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.CarID, b.RenterID, b.StartDate, b.EndDate, b.DailyRate, b.TotalDays, b.Subtotal, b.ServiceFee, b.TotalAmount, b.SecurityDeposit, b.Status, b.PickupLocation, b.Note, b.CreatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.Booking{}, err
	}
	if err = tx.Commit(); err != nil {
		return models.Booking{}, err
	}
	b.ID = int(lastID)
	return b, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int) (models.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, models.ErrBookingNotFound
	}
	return b, err
}

// ApplyTransition persists a status change plus the fields the action sets.
// The status update is optimistic: it only succeeds while the booking is
// still in fromStatus, so a lost race surfaces as sql.ErrNoRows.
func (r *BookingRepository) ApplyTransition(ctx context.Context, b models.Booking, fromStatus string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = booking.Apply(ctx, tx, b.ID, fromStatus, b.Status); err != nil {
		return err
	}

	switch b.Status {
	case booking.StatusActive:
		_, err = tx.ExecContext(ctx, `UPDATE bookings SET actual_start_date = ?, start_mileage = ? WHERE id = ?`,
			b.ActualStartDate, b.StartMileage, b.ID)
	case booking.StatusCompleted:
		_, err = tx.ExecContext(ctx, `UPDATE bookings SET actual_end_date = ?, end_mileage = ? WHERE id = ?`,
			b.ActualEndDate, b.EndMileage, b.ID)
	case booking.StatusCancelled:
		_, err = tx.ExecContext(ctx, `UPDATE bookings SET cancelled_at = ?, cancelled_by = ?, cancellation_reason = ? WHERE id = ?`,
			b.CancelledAt, b.CancelledBy, b.CancellationReason, b.ID)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID int) ([]models.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE renter_id = ? ORDER BY created_at DESC`, renterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID int) ([]models.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT b.id, b.car_id, b.renter_id, b.start_date, b.end_date, b.daily_rate, b.total_days, b.subtotal, b.service_fee, b.total_amount, b.security_deposit, b.status, b.pickup_location, b.note, b.actual_start_date, b.actual_end_date, b.start_mileage, b.end_mileage, b.cancelled_at, b.cancelled_by, b.cancellation_reason, b.created_at, b.updated_at
        FROM bookings b
        JOIN cars c ON b.car_id = c.id
        WHERE c.owner_id = ?
        ORDER BY b.created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *BookingRepository) ListByCar(ctx context.Context, carID int) ([]models.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE car_id = ? ORDER BY start_date`, carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ActiveRangesForCar returns the busy intervals that block new bookings.
func (r *BookingRepository) ActiveRangesForCar(ctx context.Context, carID int) ([]models.DateRange, error) {
	statuses := booking.NonTerminalStatuses()
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	query := fmt.Sprintf(`SELECT start_date, end_date FROM bookings WHERE car_id = ? AND status IN (%s) ORDER BY start_date`, placeholders)

	args := make([]interface{}, 0, len(statuses)+1)
	args = append(args, carID)
	for _, s := range statuses {
		args = append(args, s)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranges []models.DateRange
	for rows.Next() {
		var dr models.DateRange
		if err := rows.Scan(&dr.Start, &dr.End); err != nil {
			return nil, err
		}
		ranges = append(ranges, dr)
	}
	return ranges, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.CarID, &b.RenterID, &b.StartDate, &b.EndDate, &b.DailyRate, &b.TotalDays, &b.Subtotal, &b.ServiceFee, &b.TotalAmount, &b.SecurityDeposit, &b.Status, &b.PickupLocation, &b.Note, &b.ActualStartDate, &b.ActualEndDate, &b.StartMileage, &b.EndMileage, &b.CancelledAt, &b.CancelledBy, &b.CancellationReason, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
