package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	bookingserrors "hms/internal/bookings/errors"
	"hms/internal/bookings/repository"
	"hms/pkg/config"
	apperrors "hms/pkg/errors"
	"hms/pkg/events"
	"hms/pkg/model"
)

// RoomFetcher supplies the room details a receipt needs; the inventory
// service satisfies it.
type RoomFetcher interface {
	GetRoom(ctx context.Context, roomNumber int) (*model.Room, error)
}

type LifecycleService interface {
	UpdatePayment(ctx context.Context, id string, status model.PaymentStatus, method model.PaymentMethod, transactionID string) error
	GenerateReceipt(ctx context.Context, id string) (*model.Receipt, error)
}

type lifecycleService struct {
	repo      repository.BookingRepository
	rooms     RoomFetcher
	publisher events.Publisher
	cfg       *config.Config

	now func() time.Time
}

func NewLifecycleService(repo repository.BookingRepository, rooms RoomFetcher, publisher events.Publisher, cfg *config.Config) LifecycleService {
	return &lifecycleService{
		repo:      repo,
		rooms:     rooms,
		publisher: publisher,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// UpdatePayment records a payment state change. Completing a payment
// requires a payment method, either on the request or already stored on
// the booking from a previous attempt.
func (s *lifecycleService) UpdatePayment(ctx context.Context, id string, status model.PaymentStatus, method model.PaymentMethod, transactionID string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if !status.Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("unknown payment status: %s", status))
	}
	if method != "" && method != model.PaymentCash && method != model.PaymentOnline {
		return apperrors.InvalidInput(fmt.Sprintf("unknown payment method: %s", method))
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}
	if booking.Status == model.BookingCanceled {
		return apperrors.Conflict("cannot update payment on a canceled booking")
	}

	if status == model.PaymentCompleted && method == "" && booking.PaymentMethod == "" {
		return apperrors.MissingPaymentMethod()
	}

	if err := s.repo.UpdatePayment(ctx, id, status, method, transactionID); err != nil {
		if errors.Is(err, bookingserrors.ErrBookingNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to update payment", err)
	}

	if status == model.PaymentCompleted {
		ev := events.BookingEvent{
			Type:         events.PaymentCompleted,
			BookingID:    booking.ID,
			RoomNumber:   booking.RoomNumber,
			BedNumber:    booking.BedNumber,
			CheckinDate:  booking.CheckinDate,
			CheckoutDate: booking.CheckoutDate,
			OccurredAt:   s.now(),
		}
		if pubErr := s.publisher.Publish(ctx, ev); pubErr != nil {
			s.cfg.Log.Warn("Failed to publish payment event", "booking_id", id, "error", pubErr)
		}
	}

	s.cfg.Log.Info("Payment updated", "id", id, "payment_status", status)
	return nil
}

// GenerateReceipt assembles a printable receipt for a booking. The
// receipt is built on demand and never stored; each call issues a fresh
// receipt number reflecting the booking as it stands.
func (s *lifecycleService) GenerateReceipt(ctx context.Context, id string) (*model.Receipt, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.GetRoom(ctx, booking.RoomNumber)
	if err != nil {
		return nil, err
	}

	return &model.Receipt{
		ReceiptNumber: fmt.Sprintf("RCP-%s", uuid.NewString()),
		BookingID:     booking.ID,
		Guest:         booking.Guest,
		RoomNumber:    booking.RoomNumber,
		RoomType:      room.Type,
		BedNumber:     booking.BedNumber,
		CheckinDate:   booking.CheckinDate,
		CheckoutDate:  booking.CheckoutDate,
		Nights:        booking.Nights(),
		PricePerBed:   booking.PricePerBed,
		TotalPrice:    booking.TotalPrice,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		PaymentMethod: booking.PaymentMethod,
		TransactionID: booking.TransactionID,
		GeneratedAt:   s.now(),
	}, nil
}

func (s *lifecycleService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
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
