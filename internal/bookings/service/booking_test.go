package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "hms/internal/bookings/errors"
	"hms/internal/bookings/validator"
	"hms/pkg/config"
	mongotx "hms/pkg/db/mongo"
	apperrors "hms/pkg/errors"
	"hms/pkg/events"
	"hms/pkg/logger"
	"hms/pkg/model"
)

// Mock repository for testing
type mockBookingRepository struct {
	createFunc                   func(ctx context.Context, booking *model.Booking) error
	findByIDFunc                 func(ctx context.Context, id string) (*model.Booking, error)
	findAllFunc                  func(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, error)
	countFunc                    func(ctx context.Context, filter *model.BookingFilter) (int64, error)
	updateStatusFunc             func(ctx context.Context, id string, status model.BookingStatus) error
	updatePaymentFunc            func(ctx context.Context, id string, payment model.PaymentStatus, method model.PaymentMethod, transactionID string) error
	findConfirmedOverlappingFunc func(ctx context.Context, roomNumber int, bedNumber string, checkin, checkout time.Time) ([]*model.Booking, error)
	hasActiveConfirmedFunc       func(ctx context.Context, roomNumber int, bedNumber string, at time.Time) (bool, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "generated-id"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrBookingNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, filter)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context, filter *model.BookingFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) UpdatePayment(ctx context.Context, id string, payment model.PaymentStatus, method model.PaymentMethod, transactionID string) error {
	if m.updatePaymentFunc != nil {
		return m.updatePaymentFunc(ctx, id, payment, method, transactionID)
	}
	return nil
}

func (m *mockBookingRepository) FindConfirmedOverlapping(ctx context.Context, roomNumber int, bedNumber string, checkin, checkout time.Time) ([]*model.Booking, error) {
	if m.findConfirmedOverlappingFunc != nil {
		return m.findConfirmedOverlappingFunc(ctx, roomNumber, bedNumber, checkin, checkout)
	}
	return nil, nil
}

func (m *mockBookingRepository) HasActiveConfirmed(ctx context.Context, roomNumber int, bedNumber string, at time.Time) (bool, error) {
	if m.hasActiveConfirmedFunc != nil {
		return m.hasActiveConfirmedFunc(ctx, roomNumber, bedNumber, at)
	}
	return false, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

// mockBedLockRepository serializes acquisitions with a real mutex so the
// concurrency test exercises genuine one-winner behavior.
type mockBedLockRepository struct {
	mu    sync.Mutex
	held  map[string]bool
	fails bool
}

func newMockBedLockRepository() *mockBedLockRepository {
	return &mockBedLockRepository{held: make(map[string]bool)}
}

func (m *mockBedLockRepository) Acquire(ctx context.Context, roomNumber int, bedNumber string, ttl time.Duration) (*model.BedLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := model.BedLockID(roomNumber, bedNumber)
	if m.held[id] {
		return nil, bookingserrors.ErrBedLocked
	}
	m.held[id] = true
	return &model.BedLock{ID: id, ExpiresAt: time.Now().Add(ttl)}, nil
}

func (m *mockBedLockRepository) Release(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, lockID)
	return nil
}

type mockBedResolver struct {
	getBedFunc       func(ctx context.Context, roomNumber int, bedNumber string) (*model.Bed, error)
	setBedStatusFunc func(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error
}

func (m *mockBedResolver) GetBed(ctx context.Context, roomNumber int, bedNumber string) (*model.Bed, error) {
	if m.getBedFunc != nil {
		return m.getBedFunc(ctx, roomNumber, bedNumber)
	}
	return &model.Bed{BedNumber: bedNumber, Status: model.BedAvailable, PricePerBed: 500}, nil
}

func (m *mockBedResolver) SetBedStatus(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error {
	if m.setBedStatusFunc != nil {
		return m.setBedStatusFunc(ctx, roomNumber, bedNumber, status)
	}
	return nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
}

func (p *capturingPublisher) Publish(_ context.Context, ev events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Type
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatText,
		Service: "test",
	})
	return &config.Config{
		Log:         log,
		BedLockTTL:  10 * time.Second,
		ReadTimeout: 5 * time.Second,
	}
}

func newTestService(repo *mockBookingRepository, locks *mockBedLockRepository, beds *mockBedResolver, pub events.Publisher, now time.Time) *bookingService {
	cfg := testConfig()
	return &bookingService{
		repo:      repo,
		lockRepo:  locks,
		beds:      beds,
		validator: validator.NewBookingValidator(cfg.Log),
		publisher: pub,
		cfg:       cfg,
		now:       func() time.Time { return now },
	}
}

func day(yy, mm, dd int) time.Time {
	return time.Date(yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
}

func validBooking(checkin, checkout time.Time) *model.Booking {
	return &model.Booking{
		RoomNumber: 101,
		BedNumber:  "A",
		Guest: model.GuestDetails{
			Name:  "Dana Levi",
			Email: "dana@example.com",
			Phone: "+972501234567",
		},
		CheckinDate:  checkin,
		CheckoutDate: checkout,
	}
}

func TestCreate_StaffBookingConfirmedWithTotalPrice(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	pub := &capturingPublisher{}
	svc := newTestService(&mockBookingRepository{}, newMockBedLockRepository(), &mockBedResolver{}, pub, now)

	booking := validBooking(day(2026, 9, 10), day(2026, 9, 13))
	if err := svc.Create(context.Background(), booking, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.BookingConfirmed {
		t.Errorf("expected status confirmed, got %s", booking.Status)
	}
	if booking.PricePerBed != 500 {
		t.Errorf("expected price_per_bed 500 from inventory, got %v", booking.PricePerBed)
	}
	if booking.TotalPrice != 1500 {
		t.Errorf("expected total_price 1500 for 3 nights at 500, got %v", booking.TotalPrice)
	}
	if booking.PaymentStatus != model.PaymentPending {
		t.Errorf("expected payment_status pending, got %s", booking.PaymentStatus)
	}
	if got := pub.types(); len(got) != 1 || got[0] != events.BookingCreated {
		t.Errorf("expected one booking.created event, got %v", got)
	}
}

func TestCreate_SelfServiceLandsPending(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	var occupied bool
	beds := &mockBedResolver{
		setBedStatusFunc: func(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error {
			if status == model.BedOccupied {
				occupied = true
			}
			return nil
		},
	}
	svc := newTestService(&mockBookingRepository{}, newMockBedLockRepository(), beds, &capturingPublisher{}, now)

	booking := validBooking(day(2026, 8, 30), day(2026, 9, 5))
	booking.Status = model.BookingConfirmed // client cannot smuggle a confirmed status
	if err := svc.Create(context.Background(), booking, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.BookingPending {
		t.Errorf("expected self-service booking to be pending, got %s", booking.Status)
	}
	if occupied {
		t.Error("pending booking must not occupy the bed, even when the stay covers today")
	}
}

func TestCreate_ConfirmedStayCoveringTodayOccupiesBed(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	var setTo model.BedStatus
	beds := &mockBedResolver{
		setBedStatusFunc: func(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error {
			setTo = status
			return nil
		},
	}
	svc := newTestService(&mockBookingRepository{}, newMockBedLockRepository(), beds, &capturingPublisher{}, now)

	booking := validBooking(day(2026, 8, 30), day(2026, 9, 5))
	if err := svc.Create(context.Background(), booking, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if setTo != model.BedOccupied {
		t.Errorf("expected bed marked occupied, got %q", setTo)
	}
}

func TestCreate_FutureStayLeavesBedAlone(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	var touched bool
	beds := &mockBedResolver{
		setBedStatusFunc: func(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error {
			touched = true
			return nil
		},
	}
	svc := newTestService(&mockBookingRepository{}, newMockBedLockRepository(), beds, &capturingPublisher{}, now)

	booking := validBooking(day(2026, 9, 20), day(2026, 9, 22))
	if err := svc.Create(context.Background(), booking, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if touched {
		t.Error("future stay must not touch the bed status")
	}
}

func TestCreate_OverlapRejected(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockBookingRepository{
		findConfirmedOverlappingFunc: func(ctx context.Context, roomNumber int, bedNumber string, checkin, checkout time.Time) ([]*model.Booking, error) {
			existing := validBooking(day(2026, 9, 11), day(2026, 9, 14))
			existing.ID = "other"
			existing.Status = model.BookingConfirmed
			if existing.Overlaps(checkin, checkout) {
				return []*model.Booking{existing}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(repo, newMockBedLockRepository(), &mockBedResolver{}, &capturingPublisher{}, now)

	booking := validBooking(day(2026, 9, 10), day(2026, 9, 12))
	err := svc.Create(context.Background(), booking, false)
	if err == nil {
		t.Fatal("expected overlap conflict, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", appErr.Code)
	}
	if got := appErr.Details["conflicting_booking_id"]; got != "other" {
		t.Errorf("conflict must reference the conflicting booking, got details %v", appErr.Details)
	}
}

// Same nights, different bed: neither the overlap query nor the advisory
// lock may bleed across beds.
func TestCreate_SameRangeDifferentBedSucceeds(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockBookingRepository{
		findConfirmedOverlappingFunc: func(ctx context.Context, roomNumber int, bedNumber string, checkin, checkout time.Time) ([]*model.Booking, error) {
			existing := validBooking(day(2026, 9, 10), day(2026, 9, 13))
			existing.ID = "bed-1-booking"
			existing.BedNumber = "1"
			existing.Status = model.BookingConfirmed
			if existing.BedNumber == bedNumber && existing.Overlaps(checkin, checkout) {
				return []*model.Booking{existing}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(repo, newMockBedLockRepository(), &mockBedResolver{}, &capturingPublisher{}, now)

	rejected := validBooking(day(2026, 9, 10), day(2026, 9, 13))
	rejected.BedNumber = "1"
	err := svc.Create(context.Background(), rejected, false)
	if err == nil {
		t.Fatal("expected conflict on the already-booked bed, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", apperrors.AsAppError(err).Code)
	}

	accepted := validBooking(day(2026, 9, 10), day(2026, 9, 13))
	accepted.BedNumber = "2"
	if err := svc.Create(context.Background(), accepted, false); err != nil {
		t.Fatalf("identical range on another bed should succeed: %v", err)
	}
	if accepted.Status != model.BookingConfirmed {
		t.Errorf("expected confirmed booking on bed 2, got %s", accepted.Status)
	}
}

func TestCreate_BackToBackStaysAllowed(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockBookingRepository{
		findConfirmedOverlappingFunc: func(ctx context.Context, roomNumber int, bedNumber string, checkin, checkout time.Time) ([]*model.Booking, error) {
			existing := validBooking(day(2026, 9, 7), day(2026, 9, 10))
			existing.ID = "other"
			existing.Status = model.BookingConfirmed
			if existing.Overlaps(checkin, checkout) {
				return []*model.Booking{existing}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(repo, newMockBedLockRepository(), &mockBedResolver{}, &capturingPublisher{}, now)

	// Checks in on the previous guest's checkout day.
	booking := validBooking(day(2026, 9, 10), day(2026, 9, 12))
	if err := svc.Create(context.Background(), booking, false); err != nil {
		t.Fatalf("back-to-back stay should be accepted: %v", err)
	}
}

func TestCreate_MaintenanceBedRejected(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	beds := &mockBedResolver{
		getBedFunc: func(ctx context.Context, roomNumber int, bedNumber string) (*model.Bed, error) {
			return &model.Bed{BedNumber: bedNumber, Status: model.BedMaintenance, PricePerBed: 500}, nil
		},
	}
	svc := newTestService(&mockBookingRepository{}, newMockBedLockRepository(), beds, &capturingPublisher{}, now)

	err := svc.Create(context.Background(), validBooking(day(2026, 9, 10), day(2026, 9, 12)), false)
	if err == nil {
		t.Fatal("expected conflict for maintenance bed, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestCreate_CheckoutNotAfterCheckinRejected(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(&mockBookingRepository{}, newMockBedLockRepository(), &mockBedResolver{}, &capturingPublisher{}, now)

	err := svc.Create(context.Background(), validBooking(day(2026, 9, 10), day(2026, 9, 10)), false)
	if err == nil {
		t.Fatal("expected rejection of zero-night stay, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if appErr.HTTPStatus != 400 {
		t.Errorf("expected HTTP 400, got %d", appErr.HTTPStatus)
	}
}

func TestCreate_AdminSuppliedCanceledStatusRejected(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(&mockBookingRepository{}, newMockBedLockRepository(), &mockBedResolver{}, &capturingPublisher{}, now)

	booking := validBooking(day(2026, 9, 10), day(2026, 9, 12))
	booking.Status = model.BookingCanceled
	err := svc.Create(context.Background(), booking, false)
	if err == nil {
		t.Fatal("expected rejection of a booking born canceled, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", apperrors.AsAppError(err).Code)
	}
}

// Two goroutines race for the same bed and nights; the advisory lock must
// let exactly one through. The loser sees either CONFLICT from the lock
// or CONFLICT from the overlap check, depending on timing.
func TestCreate_ConcurrentSameBedOneWinner(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	var mu sync.Mutex
	var stored []*model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			mu.Lock()
			defer mu.Unlock()
			booking.ID = "id-" + booking.Guest.Name
			stored = append(stored, booking)
			return nil
		},
		findConfirmedOverlappingFunc: func(ctx context.Context, roomNumber int, bedNumber string, checkin, checkout time.Time) ([]*model.Booking, error) {
			mu.Lock()
			defer mu.Unlock()
			var out []*model.Booking
			for _, b := range stored {
				if b.Status == model.BookingConfirmed && b.Overlaps(checkin, checkout) {
					out = append(out, b)
				}
			}
			return out, nil
		},
	}
	svc := newTestService(repo, newMockBedLockRepository(), &mockBedResolver{}, &capturingPublisher{}, now)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := validBooking(day(2026, 9, 10), day(2026, 9, 13))
			b.Guest.Name = []string{"Alice Cohen", "Bob Mizrahi"}[i]
			errs[i] = svc.Create(context.Background(), b, false)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
			t.Errorf("loser should fail with CONFLICT, got %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly one winner, got %d", winners)
	}
}

func TestUpdateStatus_PendingToConfirmedRechecksOverlap(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	pending := validBooking(day(2026, 9, 10), day(2026, 9, 12))
	pending.ID = "b1"
	pending.Status = model.BookingPending

	conflicting := validBooking(day(2026, 9, 11), day(2026, 9, 14))
	conflicting.ID = "b2"
	conflicting.Status = model.BookingConfirmed

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return pending, nil
		},
		findConfirmedOverlappingFunc: func(ctx context.Context, roomNumber int, bedNumber string, checkin, checkout time.Time) ([]*model.Booking, error) {
			return []*model.Booking{conflicting}, nil
		},
	}
	svc := newTestService(repo, newMockBedLockRepository(), &mockBedResolver{}, &capturingPublisher{}, now)

	err := svc.UpdateStatus(context.Background(), "b1", model.BookingConfirmed)
	if err == nil {
		t.Fatal("expected conflict when another booking was confirmed meanwhile")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestUpdateStatus_InvalidTransitions(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		from model.BookingStatus
		to   model.BookingStatus
	}{
		{"confirmed to pending", model.BookingConfirmed, model.BookingPending},
		{"canceled to confirmed", model.BookingCanceled, model.BookingConfirmed},
		{"canceled to pending", model.BookingCanceled, model.BookingPending},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			booking := validBooking(day(2026, 9, 10), day(2026, 9, 12))
			booking.ID = "b1"
			booking.Status = tc.from

			repo := &mockBookingRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					return booking, nil
				},
			}
			svc := newTestService(repo, newMockBedLockRepository(), &mockBedResolver{}, &capturingPublisher{}, now)

			err := svc.UpdateStatus(context.Background(), "b1", tc.to)
			if err == nil {
				t.Fatal("expected invalid transition error")
			}
			if apperrors.AsAppError(err).Code != apperrors.CodeInvalidTransition {
				t.Errorf("expected INVALID_TRANSITION, got %s", apperrors.AsAppError(err).Code)
			}
		})
	}
}

func TestUpdateStatus_SameStatusIsNoOp(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	booking := validBooking(day(2026, 9, 10), day(2026, 9, 12))
	booking.ID = "b1"
	booking.Status = model.BookingConfirmed

	var updated bool
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, status model.BookingStatus) error {
			updated = true
			return nil
		},
	}
	svc := newTestService(repo, newMockBedLockRepository(), &mockBedResolver{}, &capturingPublisher{}, now)

	if err := svc.UpdateStatus(context.Background(), "b1", model.BookingConfirmed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated {
		t.Error("same-status update should not hit storage")
	}
}

func TestCancel_ReleasesOccupiedBed(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	booking := validBooking(day(2026, 8, 30), day(2026, 9, 5))
	booking.ID = "b1"
	booking.Status = model.BookingConfirmed

	var setTo model.BedStatus
	beds := &mockBedResolver{
		getBedFunc: func(ctx context.Context, roomNumber int, bedNumber string) (*model.Bed, error) {
			return &model.Bed{BedNumber: bedNumber, Status: model.BedOccupied, PricePerBed: 500}, nil
		},
		setBedStatusFunc: func(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error {
			setTo = status
			return nil
		},
	}
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestService(repo, newMockBedLockRepository(), beds, pub, now)

	if err := svc.UpdateStatus(context.Background(), "b1", model.BookingCanceled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if setTo != model.BedAvailable {
		t.Errorf("expected bed released to available, got %q", setTo)
	}
	if got := pub.types(); len(got) != 1 || got[0] != events.BookingCanceled {
		t.Errorf("expected one booking.canceled event, got %v", got)
	}
}

func TestCancel_LeavesMaintenanceBedAlone(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	booking := validBooking(day(2026, 8, 30), day(2026, 9, 5))
	booking.ID = "b1"
	booking.Status = model.BookingConfirmed

	var touched bool
	beds := &mockBedResolver{
		getBedFunc: func(ctx context.Context, roomNumber int, bedNumber string) (*model.Bed, error) {
			return &model.Bed{BedNumber: bedNumber, Status: model.BedMaintenance, PricePerBed: 500}, nil
		},
		setBedStatusFunc: func(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error {
			touched = true
			return nil
		},
	}
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	svc := newTestService(repo, newMockBedLockRepository(), beds, &capturingPublisher{}, now)

	if err := svc.UpdateStatus(context.Background(), "b1", model.BookingCanceled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if touched {
		t.Error("cancel must not override a maintenance flag")
	}
}

func TestCancel_KeepsBedWhenAnotherConfirmedStayCoversToday(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	booking := validBooking(day(2026, 8, 30), day(2026, 9, 5))
	booking.ID = "b1"
	booking.Status = model.BookingConfirmed

	var touched bool
	beds := &mockBedResolver{
		setBedStatusFunc: func(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error {
			touched = true
			return nil
		},
	}
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		hasActiveConfirmedFunc: func(ctx context.Context, roomNumber int, bedNumber string, at time.Time) (bool, error) {
			return true, nil
		},
	}
	svc := newTestService(repo, newMockBedLockRepository(), beds, &capturingPublisher{}, now)

	if err := svc.UpdateStatus(context.Background(), "b1", model.BookingCanceled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if touched {
		t.Error("bed must stay occupied while another confirmed stay covers today")
	}
}

func TestCancel_PendingBookingNeverTouchesBed(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	booking := validBooking(day(2026, 8, 30), day(2026, 9, 5))
	booking.ID = "b1"
	booking.Status = model.BookingPending

	var touched bool
	beds := &mockBedResolver{
		setBedStatusFunc: func(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error {
			touched = true
			return nil
		},
	}
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	svc := newTestService(repo, newMockBedLockRepository(), beds, &capturingPublisher{}, now)

	if err := svc.UpdateStatus(context.Background(), "b1", model.BookingCanceled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if touched {
		t.Error("canceling a pending booking must not touch the bed")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(&mockBookingRepository{}, newMockBedLockRepository(), &mockBedResolver{}, &capturingPublisher{}, now)

	_, err := svc.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected not found error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", apperrors.AsAppError(err).Code)
	}
}
