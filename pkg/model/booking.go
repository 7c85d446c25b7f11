package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCanceled  BookingStatus = "canceled"
)

// CanTransitionTo encodes the booking state machine: pending may confirm
// or cancel, confirmed may only cancel, canceled is terminal.
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	switch s {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCanceled
	case BookingConfirmed:
		return to == BookingCanceled
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

type GuestDetails struct {
	Name  string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" bson:"email" validate:"required,email"`
	Phone string `json:"phone" bson:"phone" validate:"required,min=7,max=20"`
}

type Booking struct {
	ID            string        `json:"id,omitempty" bson:"_id,omitempty"`
	RoomNumber    int           `json:"room_number" bson:"room_number" validate:"required,gt=0"`
	BedNumber     string        `json:"bed_number" bson:"bed_number" validate:"required,min=1,max=16"`
	Guest         GuestDetails  `json:"guest" bson:"guest"`
	CheckinDate   time.Time     `json:"checkin_date" bson:"checkin_date" validate:"required"`
	CheckoutDate  time.Time     `json:"checkout_date" bson:"checkout_date" validate:"required"`
	PricePerBed   float64       `json:"price_per_bed" bson:"price_per_bed" validate:"gte=0"`
	TotalPrice    float64       `json:"total_price" bson:"total_price"`
	Status        BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed canceled"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status" validate:"required,oneof=pending completed failed"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty" bson:"payment_method,omitempty" validate:"omitempty,oneof=cash online"`
	TransactionID string        `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
}

// Nights counts whole nights in the half-open stay [checkin, checkout).
func (b *Booking) Nights() int {
	return int(b.CheckoutDate.Sub(b.CheckinDate).Hours() / 24)
}

// Covers reports whether the stay contains t under half-open semantics:
// checkin day inclusive, checkout day exclusive.
func (b *Booking) Covers(t time.Time) bool {
	return !t.Before(b.CheckinDate) && t.Before(b.CheckoutDate)
}

// Overlaps tests the half-open ranges for intersection. Back-to-back
// stays sharing a changeover day do not overlap.
func (b *Booking) Overlaps(checkin, checkout time.Time) bool {
	return b.CheckinDate.Before(checkout) && checkin.Before(b.CheckoutDate)
}

// BookingFilter narrows dashboard listings; zero values mean "no filter".
type BookingFilter struct {
	Status BookingStatus
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int64
}
