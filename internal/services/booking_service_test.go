package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"drivaBack/internal/booking"
	"drivaBack/internal/models"
)

type fakeCarStore struct {
	cars map[int]models.Car
}

func (f *fakeCarStore) GetCarByID(_ context.Context, id int) (models.Car, error) {
	car, ok := f.cars[id]
	if !ok {
		return models.Car{}, models.ErrCarNotFound
	}
	return car, nil
}

type fakeBookingStore struct {
	bookings map[int]models.Booking
	nextID   int
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[int]models.Booking), nextID: 1}
}

func (f *fakeBookingStore) CreateExclusive(_ context.Context, b models.Booking) (models.Booking, error) {
	for _, existing := range f.bookings {
		if existing.CarID != b.CarID || booking.IsTerminal(existing.Status) {
			continue
		}
		if booking.Overlaps(b.StartDate, b.EndDate, existing.StartDate, existing.EndDate) {
			return models.Booking{}, models.ErrDateConflict
		}
	}
	b.ID = f.nextID
	f.nextID++
	f.bookings[b.ID] = b
	return b, nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id int) (models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return models.Booking{}, models.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingStore) ApplyTransition(_ context.Context, b models.Booking, fromStatus string) error {
	existing, ok := f.bookings[b.ID]
	if !ok || existing.Status != fromStatus {
		return sql.ErrNoRows
	}
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingStore) ListByRenter(_ context.Context, renterID int) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.RenterID == renterID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ListByOwner(_ context.Context, _ int) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeBookingStore) ListByCar(_ context.Context, carID int) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.CarID == carID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ActiveRangesForCar(_ context.Context, carID int) ([]models.DateRange, error) {
	var out []models.DateRange
	for _, b := range f.bookings {
		if b.CarID == carID && !booking.IsTerminal(b.Status) {
			out = append(out, models.DateRange{Start: b.StartDate, End: b.EndDate})
		}
	}
	return out, nil
}

type sentNote struct {
	UserID int
	Type   string
}

type fakeNotifier struct {
	sent []sentNote
}

func (f *fakeNotifier) Notify(_ context.Context, userID int, ntype, _, _ string, _ map[string]string) {
	f.sent = append(f.sent, sentNote{UserID: userID, Type: ntype})
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const (
	ownerID  = 10
	renterID = 20
)

func testCar() models.Car {
	return models.Car{
		ID:              1,
		OwnerID:         ownerID,
		Make:            "Toyota",
		Model:           "Camry",
		PricePerDay:     100,
		SecurityDeposit: 500,
		MinRentalDays:   1,
		MaxRentalDays:   30,
		IsActive:        true,
		Status:          models.CarStatusApproved,
	}
}

func newService(car models.Car) (*BookingService, *fakeBookingStore, *fakeNotifier) {
	store := newFakeBookingStore()
	notifier := &fakeNotifier{}
	svc := &BookingService{
		Bookings: store,
		Cars:     &fakeCarStore{cars: map[int]models.Car{car.ID: car}},
		Notifier: notifier,
	}
	return svc, store, notifier
}

func TestCreateBookingPricing(t *testing.T) {
	svc, _, notifier := newService(testCar())

	b, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CarID:     1,
		RenterID:  renterID,
		StartDate: date(2024, 6, 1),
		EndDate:   date(2024, 6, 4),
	}, date(2024, 5, 1))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.TotalDays != 3 {
		t.Fatalf("expected 3 days, got %d", b.TotalDays)
	}
	if b.Subtotal != 300 || b.ServiceFee != 45 || b.TotalAmount != 345 {
		t.Fatalf("unexpected pricing %v/%v/%v", b.Subtotal, b.ServiceFee, b.TotalAmount)
	}
	if b.SecurityDeposit != 500 {
		t.Fatalf("expected deposit copied from car, got %v", b.SecurityDeposit)
	}
	if b.Status != booking.StatusPending {
		t.Fatalf("expected pending status, got %s", b.Status)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].UserID != ownerID || notifier.sent[0].Type != models.NotifBookingRequest {
		t.Fatalf("expected a booking_request notification to the owner, got %+v", notifier.sent)
	}
}

func TestCreateBookingInstantBook(t *testing.T) {
	car := testCar()
	car.IsInstantBook = true
	svc, _, notifier := newService(car)

	b, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CarID:     1,
		RenterID:  renterID,
		StartDate: date(2024, 6, 1),
		EndDate:   date(2024, 6, 4),
	}, date(2024, 5, 1))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.Status != booking.StatusConfirmed {
		t.Fatalf("expected confirmed status on instant book, got %s", b.Status)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Type != models.NotifBookingConfirmed {
		t.Fatalf("expected a booking_confirmed notification, got %+v", notifier.sent)
	}
}

func TestCreateBookingRejectsSelfBooking(t *testing.T) {
	svc, _, _ := newService(testCar())

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CarID:     1,
		RenterID:  ownerID,
		StartDate: date(2024, 6, 1),
		EndDate:   date(2024, 6, 4),
	}, date(2024, 5, 1))
	if !errors.Is(err, models.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
}

func TestCreateBookingInvalidRange(t *testing.T) {
	svc, _, _ := newService(testCar())

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CarID:     1,
		RenterID:  renterID,
		StartDate: date(2024, 6, 4),
		EndDate:   date(2024, 6, 1),
	}, date(2024, 5, 1))
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateBookingDurationBounds(t *testing.T) {
	car := testCar()
	car.MinRentalDays = 3
	car.MaxRentalDays = 7
	svc, _, _ := newService(car)

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CarID:     1,
		RenterID:  renterID,
		StartDate: date(2024, 6, 1),
		EndDate:   date(2024, 6, 3),
	}, date(2024, 5, 1))
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("below minimum: expected ErrValidation, got %v", err)
	}

	_, err = svc.CreateBooking(context.Background(), CreateBookingInput{
		CarID:     1,
		RenterID:  renterID,
		StartDate: date(2024, 6, 1),
		EndDate:   date(2024, 6, 10),
	}, date(2024, 5, 1))
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("above maximum: expected ErrValidation, got %v", err)
	}
}

func TestCreateBookingBoundaryConflict(t *testing.T) {
	svc, _, _ := newService(testCar())

	if _, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CarID:     1,
		RenterID:  renterID,
		StartDate: date(2024, 6, 1),
		EndDate:   date(2024, 6, 5),
	}, date(2024, 5, 1)); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// touches the existing range only at the 06-04/06-05 boundary
	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CarID:     1,
		RenterID:  30,
		StartDate: date(2024, 6, 4),
		EndDate:   date(2024, 6, 6),
	}, date(2024, 5, 1))
	if !errors.Is(err, models.ErrDateConflict) {
		t.Fatalf("expected ErrDateConflict, got %v", err)
	}

	// a range clear of the booked one goes through
	if _, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CarID:     1,
		RenterID:  30,
		StartDate: date(2024, 6, 6),
		EndDate:   date(2024, 6, 8),
	}, date(2024, 5, 1)); err != nil {
		t.Fatalf("non-overlapping booking: %v", err)
	}
}

func TestCreateBookingCancelledDatesFree(t *testing.T) {
	svc, store, _ := newService(testCar())

	first, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CarID:     1,
		RenterID:  renterID,
		StartDate: date(2024, 6, 1),
		EndDate:   date(2024, 6, 5),
	}, date(2024, 5, 1))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	if _, err := svc.TransitionBooking(context.Background(), first.ID, renterID, "user",
		models.TransitionRequest{Action: booking.ActionCancel, Reason: "plans changed"}, date(2024, 5, 2)); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CarID:     1,
		RenterID:  30,
		StartDate: date(2024, 6, 2),
		EndDate:   date(2024, 6, 4),
	}, date(2024, 5, 3)); err != nil {
		t.Fatalf("expected cancelled dates to be bookable again: %v", err)
	}
	_ = store
}

func TestCreateBookingUnapprovedCar(t *testing.T) {
	car := testCar()
	car.Status = models.CarStatusPending
	svc, _, _ := newService(car)

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CarID:     1,
		RenterID:  renterID,
		StartDate: date(2024, 6, 1),
		EndDate:   date(2024, 6, 4),
	}, date(2024, 5, 1))
	if !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestCreateBookingMissingCar(t *testing.T) {
	svc, _, _ := newService(testCar())

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CarID:     99,
		RenterID:  renterID,
		StartDate: date(2024, 6, 1),
		EndDate:   date(2024, 6, 4),
	}, date(2024, 5, 1))
	if !errors.Is(err, models.ErrCarNotFound) {
		t.Fatalf("expected ErrCarNotFound, got %v", err)
	}
}

func makeBooking(t *testing.T, svc *BookingService) models.Booking {
	t.Helper()
	b, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CarID:     1,
		RenterID:  renterID,
		StartDate: date(2024, 6, 1),
		EndDate:   date(2024, 6, 4),
	}, date(2024, 5, 1))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	return b
}

func TestTransitionHappyPath(t *testing.T) {
	svc, _, notifier := newService(testCar())
	b := makeBooking(t, svc)

	confirmAt := date(2024, 5, 2)
	b, err := svc.TransitionBooking(context.Background(), b.ID, ownerID, "user",
		models.TransitionRequest{Action: booking.ActionConfirm}, confirmAt)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if b.Status != booking.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", b.Status)
	}

	startAt := date(2024, 6, 1)
	mileage := 42000
	b, err = svc.TransitionBooking(context.Background(), b.ID, ownerID, "user",
		models.TransitionRequest{Action: booking.ActionStart, StartMileage: &mileage}, startAt)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if b.Status != booking.StatusActive {
		t.Fatalf("expected active, got %s", b.Status)
	}
	if b.ActualStartDate == nil || !b.ActualStartDate.Equal(startAt) {
		t.Fatalf("actual start date not recorded")
	}
	if b.StartMileage == nil || *b.StartMileage != 42000 {
		t.Fatalf("start mileage not recorded")
	}

	endAt := date(2024, 6, 4)
	endMileage := 42350
	b, err = svc.TransitionBooking(context.Background(), b.ID, ownerID, "user",
		models.TransitionRequest{Action: booking.ActionComplete, EndMileage: &endMileage}, endAt)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if b.Status != booking.StatusCompleted {
		t.Fatalf("expected completed, got %s", b.Status)
	}
	if b.ActualEndDate == nil || !b.ActualEndDate.Equal(endAt) {
		t.Fatalf("actual end date not recorded")
	}

	// request + confirmed + started + completed
	if len(notifier.sent) != 4 {
		t.Fatalf("expected 4 notifications, got %d", len(notifier.sent))
	}
	last := notifier.sent[len(notifier.sent)-1]
	if last.UserID != renterID || last.Type != models.NotifBookingCompleted {
		t.Fatalf("expected completion notification to renter, got %+v", last)
	}
}

func TestTransitionCancelOnCompletedFails(t *testing.T) {
	svc, _, _ := newService(testCar())
	b := makeBooking(t, svc)

	for _, action := range []string{booking.ActionConfirm, booking.ActionStart, booking.ActionComplete} {
		var err error
		b, err = svc.TransitionBooking(context.Background(), b.ID, ownerID, "user",
			models.TransitionRequest{Action: action}, date(2024, 6, 1))
		if err != nil {
			t.Fatalf("%s: %v", action, err)
		}
	}

	_, err := svc.TransitionBooking(context.Background(), b.ID, renterID, "user",
		models.TransitionRequest{Action: booking.ActionCancel}, date(2024, 6, 5))
	if !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestTransitionRenterCannotConfirm(t *testing.T) {
	svc, _, _ := newService(testCar())
	b := makeBooking(t, svc)

	_, err := svc.TransitionBooking(context.Background(), b.ID, renterID, "user",
		models.TransitionRequest{Action: booking.ActionConfirm}, date(2024, 5, 2))
	if !errors.Is(err, models.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
}

func TestTransitionAdminMayConfirm(t *testing.T) {
	svc, _, _ := newService(testCar())
	b := makeBooking(t, svc)

	got, err := svc.TransitionBooking(context.Background(), b.ID, 999, "admin",
		models.TransitionRequest{Action: booking.ActionConfirm}, date(2024, 5, 2))
	if err != nil {
		t.Fatalf("admin confirm: %v", err)
	}
	if got.Status != booking.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", got.Status)
	}
}

func TestTransitionCancelMetadata(t *testing.T) {
	svc, _, notifier := newService(testCar())
	b := makeBooking(t, svc)

	cancelAt := date(2024, 5, 3)
	got, err := svc.TransitionBooking(context.Background(), b.ID, renterID, "user",
		models.TransitionRequest{Action: booking.ActionCancel, Reason: "found another car"}, cancelAt)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != booking.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
	if got.CancelledAt == nil || !got.CancelledAt.Equal(cancelAt) {
		t.Fatalf("cancelled_at not recorded")
	}
	if got.CancelledBy == nil || *got.CancelledBy != renterID {
		t.Fatalf("cancelled_by not recorded")
	}
	if got.CancellationReason == nil || *got.CancellationReason != "found another car" {
		t.Fatalf("cancellation reason not recorded")
	}
	// renter cancelled, so the owner is told
	last := notifier.sent[len(notifier.sent)-1]
	if last.UserID != ownerID || last.Type != models.NotifBookingCancelled {
		t.Fatalf("expected cancellation notification to owner, got %+v", last)
	}
}

func TestTransitionUnknownAction(t *testing.T) {
	svc, _, _ := newService(testCar())
	b := makeBooking(t, svc)

	_, err := svc.TransitionBooking(context.Background(), b.ID, ownerID, "user",
		models.TransitionRequest{Action: "reschedule"}, date(2024, 5, 2))
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTransitionSkippingStatesFails(t *testing.T) {
	svc, _, _ := newService(testCar())
	b := makeBooking(t, svc)

	_, err := svc.TransitionBooking(context.Background(), b.ID, ownerID, "user",
		models.TransitionRequest{Action: booking.ActionComplete}, date(2024, 6, 5))
	if !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestGetBookingAuthorization(t *testing.T) {
	svc, _, _ := newService(testCar())
	b := makeBooking(t, svc)

	if _, err := svc.GetBooking(context.Background(), b.ID, renterID, "user"); err != nil {
		t.Fatalf("renter read: %v", err)
	}
	if _, err := svc.GetBooking(context.Background(), b.ID, ownerID, "user"); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.GetBooking(context.Background(), b.ID, 999, "admin"); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if _, err := svc.GetBooking(context.Background(), b.ID, 999, "user"); !errors.Is(err, models.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed for stranger, got %v", err)
	}
}

// Invariant check: however bookings are produced, the non-terminal set per
// car stays overlap-free.
func TestNoOverlappingNonTerminalBookings(t *testing.T) {
	svc, store, _ := newService(testCar())
	base := date(2024, 7, 1)

	for i := 0; i < 40; i++ {
		start := base.AddDate(0, 0, (i*3)%30)
		end := start.AddDate(0, 0, 1+i%4)
		_, _ = svc.CreateBooking(context.Background(), CreateBookingInput{
			CarID:     1,
			RenterID:  renterID + i%5,
			StartDate: start,
			EndDate:   end,
		}, base)
	}

	all, err := store.ListByCar(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByCar: %v", err)
	}
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			if booking.IsTerminal(a.Status) || booking.IsTerminal(b.Status) {
				continue
			}
			if booking.Overlaps(a.StartDate, a.EndDate, b.StartDate, b.EndDate) {
				t.Fatalf("overlap between bookings %d and %d", a.ID, b.ID)
			}
		}
	}
}
