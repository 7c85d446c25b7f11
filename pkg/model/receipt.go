package model

import "time"

// Receipt is a read-only projection of a booking for display or printing.
// It is assembled on demand and never persisted; the receipt number is
// fresh per generation.
type Receipt struct {
	ReceiptNumber string        `json:"receipt_number"`
	BookingID     string        `json:"booking_id"`
	Guest         GuestDetails  `json:"guest"`
	RoomNumber    int           `json:"room_number"`
	RoomType      RoomType      `json:"room_type"`
	BedNumber     string        `json:"bed_number"`
	CheckinDate   time.Time     `json:"checkin_date"`
	CheckoutDate  time.Time     `json:"checkout_date"`
	Nights        int           `json:"nights"`
	PricePerBed   float64       `json:"price_per_bed"`
	TotalPrice    float64       `json:"total_price"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	TransactionID string        `json:"transaction_id,omitempty"`
	GeneratedAt   time.Time     `json:"generated_at"`
}
