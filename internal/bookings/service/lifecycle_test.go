package service

import (
	"context"
	"strings"
	"testing"
	"time"

	apperrors "hms/pkg/errors"
	"hms/pkg/events"
	"hms/pkg/model"
)

type mockRoomFetcher struct {
	getRoomFunc func(ctx context.Context, roomNumber int) (*model.Room, error)
}

func (m *mockRoomFetcher) GetRoom(ctx context.Context, roomNumber int) (*model.Room, error) {
	if m.getRoomFunc != nil {
		return m.getRoomFunc(ctx, roomNumber)
	}
	return &model.Room{RoomNumber: roomNumber, Type: model.RoomStandard}, nil
}

func newTestLifecycle(repo *mockBookingRepository, pub events.Publisher, now time.Time) *lifecycleService {
	return &lifecycleService{
		repo:      repo,
		rooms:     &mockRoomFetcher{},
		publisher: pub,
		cfg:       testConfig(),
		now:       func() time.Time { return now },
	}
}

func paidBooking() *model.Booking {
	b := validBooking(day(2026, 9, 10), day(2026, 9, 13))
	b.ID = "b1"
	b.Status = model.BookingConfirmed
	b.PricePerBed = 500
	b.TotalPrice = 1500
	return b
}

func TestUpdatePayment_CompletedWithoutMethodRejected(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	booking := paidBooking()
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	svc := newTestLifecycle(repo, &capturingPublisher{}, now)

	err := svc.UpdatePayment(context.Background(), "b1", model.PaymentCompleted, "", "")
	if err == nil {
		t.Fatal("expected missing payment method error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeMissingPaymentMethod {
		t.Errorf("expected MISSING_PAYMENT_METHOD, got %s", appErr.Code)
	}
	if appErr.HTTPStatus != 422 {
		t.Errorf("expected HTTP 422, got %d", appErr.HTTPStatus)
	}
}

func TestUpdatePayment_CompletedWithMethodSucceeds(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	booking := paidBooking()

	var gotMethod model.PaymentMethod
	var gotTx string
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		updatePaymentFunc: func(ctx context.Context, id string, payment model.PaymentStatus, method model.PaymentMethod, transactionID string) error {
			gotMethod = method
			gotTx = transactionID
			return nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestLifecycle(repo, pub, now)

	err := svc.UpdatePayment(context.Background(), "b1", model.PaymentCompleted, model.PaymentOnline, "tx-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != model.PaymentOnline || gotTx != "tx-42" {
		t.Errorf("payment fields not persisted: method=%s tx=%s", gotMethod, gotTx)
	}
	if got := pub.types(); len(got) != 1 || got[0] != events.PaymentCompleted {
		t.Errorf("expected one payment.completed event, got %v", got)
	}
}

func TestUpdatePayment_CompletedWithStoredMethodSucceeds(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	booking := paidBooking()
	booking.PaymentMethod = model.PaymentCash

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	svc := newTestLifecycle(repo, &capturingPublisher{}, now)

	if err := svc.UpdatePayment(context.Background(), "b1", model.PaymentCompleted, "", ""); err != nil {
		t.Fatalf("method stored on booking should satisfy completion: %v", err)
	}
}

func TestUpdatePayment_CanceledBookingRejected(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	booking := paidBooking()
	booking.Status = model.BookingCanceled

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	svc := newTestLifecycle(repo, &capturingPublisher{}, now)

	err := svc.UpdatePayment(context.Background(), "b1", model.PaymentCompleted, model.PaymentCash, "")
	if err == nil {
		t.Fatal("expected conflict for canceled booking")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestUpdatePayment_FailedDoesNotPublish(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	booking := paidBooking()
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestLifecycle(repo, pub, now)

	if err := svc.UpdatePayment(context.Background(), "b1", model.PaymentFailed, "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.types()) != 0 {
		t.Errorf("failed payment must not publish events, got %v", pub.types())
	}
}

func TestGenerateReceipt_PendingPaymentReflected(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	booking := paidBooking()
	booking.PaymentStatus = model.PaymentPending

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	svc := newTestLifecycle(repo, &capturingPublisher{}, now)

	receipt, err := svc.GenerateReceipt(context.Background(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.PaymentStatus != model.PaymentPending {
		t.Errorf("receipt must reflect the stored payment status, got %s", receipt.PaymentStatus)
	}
}

func TestGenerateReceipt_Fields(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	booking := paidBooking()
	booking.PaymentStatus = model.PaymentCompleted
	booking.PaymentMethod = model.PaymentOnline
	booking.TransactionID = "tx-42"

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	svc := newTestLifecycle(repo, &capturingPublisher{}, now)
	svc.rooms = &mockRoomFetcher{
		getRoomFunc: func(ctx context.Context, roomNumber int) (*model.Room, error) {
			return &model.Room{RoomNumber: roomNumber, Type: model.RoomDeluxe}, nil
		},
	}

	receipt, err := svc.GenerateReceipt(context.Background(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(receipt.ReceiptNumber, "RCP-") {
		t.Errorf("unexpected receipt number format: %s", receipt.ReceiptNumber)
	}
	if receipt.Nights != 3 {
		t.Errorf("expected 3 nights, got %d", receipt.Nights)
	}
	if receipt.TotalPrice != 1500 {
		t.Errorf("expected total 1500, got %v", receipt.TotalPrice)
	}
	if receipt.RoomType != model.RoomDeluxe {
		t.Errorf("expected room type from inventory, got %s", receipt.RoomType)
	}
	if receipt.PaymentMethod != model.PaymentOnline || receipt.TransactionID != "tx-42" {
		t.Errorf("payment details missing from receipt: %+v", receipt)
	}
	if !receipt.GeneratedAt.Equal(now) {
		t.Errorf("expected generated_at pinned to now, got %s", receipt.GeneratedAt)
	}

	second, err := svc.GenerateReceipt(context.Background(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ReceiptNumber == receipt.ReceiptNumber {
		t.Error("each generation must issue a fresh receipt number")
	}
}
