package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "hms/internal/bookings/errors"
	"hms/internal/bookings/repository"
	"hms/internal/bookings/validator"
	"hms/pkg/config"
	apperrors "hms/pkg/errors"
	"hms/pkg/events"
	"hms/pkg/model"
	"hms/pkg/sanitizer"
)

// BedResolver is the slice of the inventory service the booking side
// needs: looking a bed up and flipping its cached status.
type BedResolver interface {
	GetBed(ctx context.Context, roomNumber int, bedNumber string) (*model.Bed, error)
	SetBedStatus(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking, selfService bool) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BedLockRepository
	beds      BedResolver
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config

	// now is swappable so occupancy decisions can be pinned in tests.
	now func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BedLockRepository,
	beds BedResolver,
	v *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		beds:      beds,
		validator: v,
		publisher: publisher,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create books a bed for a stay. Staff bookings land confirmed, guest
// self-service bookings land pending until staff confirm them. The
// overlap check and the insert run inside one advisory lock per bed, so
// two requests racing for the same nights cannot both win.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking, selfService bool) error {
	if !selfService && booking.Status != "" &&
		booking.Status != model.BookingPending && booking.Status != model.BookingConfirmed {
		return apperrors.InvalidInput(fmt.Sprintf("a booking cannot be created as %s", booking.Status))
	}

	s.applyDefaults(booking, selfService)
	s.sanitize(booking)

	bed, err := s.beds.GetBed(ctx, booking.RoomNumber, booking.BedNumber)
	if err != nil {
		return err
	}
	if !booking.CheckoutDate.After(booking.CheckinDate) {
		return apperrors.InvalidInput("checkout_date must be after checkin_date")
	}
	if bed.Status == model.BedMaintenance {
		return apperrors.Conflict(fmt.Sprintf("bed %s in room %d is under maintenance", booking.BedNumber, booking.RoomNumber))
	}

	if booking.PricePerBed == 0 {
		booking.PricePerBed = bed.PricePerBed
	}

	if err := s.validate(booking); err != nil {
		return err
	}
	booking.TotalPrice = float64(booking.Nights()) * booking.PricePerBed

	lockID, err := s.acquireBedLock(ctx, booking.RoomNumber, booking.BedNumber)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release bed lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	if booking.Status == model.BookingConfirmed && booking.Covers(s.now()) {
		s.occupyBed(ctx, booking)
	}

	s.publish(ctx, events.BookingCreated, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room_number", booking.RoomNumber,
		"bed_number", booking.BedNumber,
		"status", booking.Status,
		"nights", booking.Nights(),
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrBookingNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, filter)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// UpdateStatus drives the booking state machine. Confirming a pending
// booking re-checks overlap under the bed lock, since other bookings may
// have been confirmed for the same nights while this one sat pending.
func (s *bookingService) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status == status {
		return nil
	}
	if !booking.Status.CanTransitionTo(status) {
		return apperrors.InvalidTransition(string(booking.Status), string(status))
	}

	switch status {
	case model.BookingConfirmed:
		return s.confirm(ctx, booking)
	case model.BookingCanceled:
		return s.cancel(ctx, booking)
	}
	return apperrors.InvalidInput(fmt.Sprintf("unknown booking status: %s", status))
}

func (s *bookingService) confirm(ctx context.Context, booking *model.Booking) error {
	lockID, err := s.acquireBedLock(ctx, booking.RoomNumber, booking.BedNumber)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release bed lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.UpdateStatus(sessCtx, booking.ID, model.BookingConfirmed); err != nil {
			return apperrors.Internal("Failed to confirm booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to confirm booking", "id", booking.ID, "error", err)
		return err
	}

	booking.Status = model.BookingConfirmed
	if booking.Covers(s.now()) {
		s.occupyBed(ctx, booking)
	}

	s.publish(ctx, events.BookingConfirmed, booking)

	s.cfg.Log.Info("Booking confirmed", "id", booking.ID)
	return nil
}

func (s *bookingService) cancel(ctx context.Context, booking *model.Booking) error {
	wasConfirmed := booking.Status == model.BookingConfirmed

	if err := s.repo.UpdateStatus(ctx, booking.ID, model.BookingCanceled); err != nil {
		if errors.Is(err, bookingserrors.ErrBookingNotFound) {
			return apperrors.NotFoundWithID("Booking", booking.ID)
		}
		return apperrors.Internal("Failed to cancel booking", err)
	}
	booking.Status = model.BookingCanceled

	if wasConfirmed {
		s.releaseBedIfIdle(ctx, booking)
	}

	s.publish(ctx, events.BookingCanceled, booking)

	s.cfg.Log.Info("Booking canceled", "id", booking.ID)
	return nil
}

// releaseBedIfIdle flips an occupied bed back to available after a
// cancellation, unless another confirmed stay still covers today or the
// bed was moved to maintenance in the meantime.
func (s *bookingService) releaseBedIfIdle(ctx context.Context, booking *model.Booking) {
	active, err := s.repo.HasActiveConfirmed(ctx, booking.RoomNumber, booking.BedNumber, s.now())
	if err != nil {
		s.cfg.Log.Warn("Failed to check active bookings on cancel",
			"id", booking.ID, "error", err)
		return
	}
	if active {
		return
	}

	bed, err := s.beds.GetBed(ctx, booking.RoomNumber, booking.BedNumber)
	if err != nil {
		s.cfg.Log.Warn("Failed to load bed on cancel", "id", booking.ID, "error", err)
		return
	}
	if bed.Status != model.BedOccupied {
		return
	}

	if err := s.beds.SetBedStatus(ctx, booking.RoomNumber, booking.BedNumber, model.BedAvailable); err != nil {
		s.cfg.Log.Warn("Failed to release bed on cancel",
			"room_number", booking.RoomNumber,
			"bed_number", booking.BedNumber,
			"error", err,
		)
	}
}

func (s *bookingService) occupyBed(ctx context.Context, booking *model.Booking) {
	if err := s.beds.SetBedStatus(ctx, booking.RoomNumber, booking.BedNumber, model.BedOccupied); err != nil {
		s.cfg.Log.Warn("Failed to mark bed occupied",
			"room_number", booking.RoomNumber,
			"bed_number", booking.BedNumber,
			"error", err,
		)
	}
}

func (s *bookingService) acquireBedLock(ctx context.Context, roomNumber int, bedNumber string) (string, error) {
	lock, err := s.lockRepo.Acquire(ctx, roomNumber, bedNumber, s.cfg.BedLockTTL)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrBedLocked) {
			return "", apperrors.Conflict(fmt.Sprintf("bed %s in room %d is being booked by another request", bedNumber, roomNumber))
		}
		return "", apperrors.Unavailable("storage", err)
	}
	return lock.ID, nil
}

// verifyNoOverlap runs inside the transaction, after the advisory lock is
// held, so the read it does cannot race another writer for the same bed.
func (s *bookingService) verifyNoOverlap(ctx context.Context, booking *model.Booking) error {
	overlapping, err := s.repo.FindConfirmedOverlapping(ctx, booking.RoomNumber, booking.BedNumber, booking.CheckinDate, booking.CheckoutDate)
	if err != nil {
		return apperrors.Internal("Failed to check overlapping bookings", err)
	}
	for _, other := range overlapping {
		if other.ID == booking.ID {
			continue
		}
		return apperrors.Conflict(fmt.Sprintf(
			"bed %s in room %d is already booked from %s to %s",
			booking.BedNumber,
			booking.RoomNumber,
			other.CheckinDate.Format("2006-01-02"),
			other.CheckoutDate.Format("2006-01-02"),
		)).WithDetails(map[string]any{"conflicting_booking_id": other.ID})
	}
	return nil
}

func (s *bookingService) publish(ctx context.Context, eventType events.Type, booking *model.Booking) {
	ev := events.BookingEvent{
		Type:         eventType,
		BookingID:    booking.ID,
		RoomNumber:   booking.RoomNumber,
		BedNumber:    booking.BedNumber,
		CheckinDate:  booking.CheckinDate,
		CheckoutDate: booking.CheckoutDate,
		OccurredAt:   s.now(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.Guest.Name = sanitizer.NormalizeName(b.Guest.Name)
	b.Guest.Email = sanitizer.NormalizeEmail(b.Guest.Email)
	b.Guest.Phone = sanitizer.NormalizePhone(b.Guest.Phone)
}

func (s *bookingService) applyDefaults(b *model.Booking, selfService bool) {
	if selfService {
		b.Status = model.BookingPending
	} else if b.Status == "" {
		b.Status = model.BookingConfirmed
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = model.PaymentPending
	}
	b.CheckinDate = b.CheckinDate.UTC()
	b.CheckoutDate = b.CheckoutDate.UTC()
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Invalid booking input", map[string]any{"error": err.Error()})
	}
	return nil
}
