package booking

import (
	"context"
	"database/sql"
	"errors"
)

// Status constants used by the booking state machine.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Actions a caller may request against a booking.
const (
	ActionConfirm  = "confirm"
	ActionStart    = "start"
	ActionComplete = "complete"
	ActionCancel   = "cancel"
)

var transitions = map[string]map[string]struct{}{
	StatusPending:   {StatusConfirmed: {}, StatusCancelled: {}},
	StatusConfirmed: {StatusActive: {}, StatusCancelled: {}},
	StatusActive:    {StatusCompleted: {}, StatusCancelled: {}},
	StatusCompleted: {},
	StatusCancelled: {},
}

// actionTargets maps a requested action to the status it produces.
var actionTargets = map[string]string{
	ActionConfirm:  StatusConfirmed,
	ActionStart:    StatusActive,
	ActionComplete: StatusCompleted,
	ActionCancel:   StatusCancelled,
}

// TargetStatus resolves an action name to its resulting status.
func TargetStatus(action string) (string, bool) {
	to, ok := actionTargets[action]
	return to, ok
}

// CanTransition returns whether a booking can move from one status to another.
func CanTransition(from, to string) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// IsTerminal reports whether no further transition is permitted.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// NonTerminalStatuses are the statuses that hold a car's dates.
func NonTerminalStatuses() []string {
	return []string{StatusPending, StatusConfirmed, StatusActive}
}

// Apply updates a booking status using optimistic validation.
func Apply(ctx context.Context, tx *sql.Tx, bookingID int, fromStatus, toStatus string) error {
	if !CanTransition(fromStatus, toStatus) {
		return errors.New("invalid status transition")
	}
	res, err := tx.ExecContext(ctx, `UPDATE bookings SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`, toStatus, bookingID, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
