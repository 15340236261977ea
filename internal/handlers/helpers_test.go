package handlers

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"drivaBack/internal/models"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", fmt.Errorf("%w: bad dates", models.ErrValidation), 400},
		{"not allowed", fmt.Errorf("%w: not yours", models.ErrNotAllowed), 403},
		{"invalid state", fmt.Errorf("%w: already cancelled", models.ErrInvalidState), 422},
		{"date conflict", models.ErrDateConflict, 409},
		{"car not found", models.ErrCarNotFound, 404},
		{"booking not found", models.ErrBookingNotFound, 404},
		{"bad credentials", models.ErrInvalidCredentials, 401},
		{"duplicate email", models.ErrDuplicateEmail, 409},
		{"unknown", fmt.Errorf("connection reset"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tt.err)
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rr.Code)
			}
		})
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, fmt.Errorf("dial tcp 10.0.0.5:3306: connection refused"))
	if rr.Body.String() == "" {
		t.Fatal("expected a response body")
	}
	if got := rr.Body.String(); got != "internal server error\n" {
		t.Fatalf("internal error leaked to the client: %q", got)
	}
}
