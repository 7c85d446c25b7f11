package model

import (
	"testing"
	"time"
)

func d(day int) time.Time {
	return time.Date(2026, 9, day, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	booking := &Booking{CheckinDate: d(10), CheckoutDate: d(13)}

	cases := []struct {
		name     string
		checkin  time.Time
		checkout time.Time
		want     bool
	}{
		{"identical range", d(10), d(13), true},
		{"contained", d(11), d(12), true},
		{"containing", d(9), d(14), true},
		{"overlap at start", d(9), d(11), true},
		{"overlap at end", d(12), d(15), true},
		{"single shared night", d(12), d(13), true},
		{"checkin on checkout day", d(13), d(15), false},
		{"checkout on checkin day", d(8), d(10), false},
		{"fully before", d(5), d(8), false},
		{"fully after", d(14), d(16), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := booking.Overlaps(tc.checkin, tc.checkout); got != tc.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v",
					tc.checkin.Format("2006-01-02"), tc.checkout.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestCovers(t *testing.T) {
	booking := &Booking{CheckinDate: d(10), CheckoutDate: d(13)}

	if !booking.Covers(d(10)) {
		t.Error("checkin day must be covered")
	}
	if !booking.Covers(time.Date(2026, 9, 12, 23, 59, 0, 0, time.UTC)) {
		t.Error("last night must be covered")
	}
	if booking.Covers(d(13)) {
		t.Error("checkout day must not be covered")
	}
	if booking.Covers(d(9)) {
		t.Error("day before checkin must not be covered")
	}
}

func TestNights(t *testing.T) {
	booking := &Booking{CheckinDate: d(10), CheckoutDate: d(13)}
	if got := booking.Nights(); got != 3 {
		t.Errorf("expected 3 nights, got %d", got)
	}

	single := &Booking{CheckinDate: d(10), CheckoutDate: d(11)}
	if got := single.Nights(); got != 1 {
		t.Errorf("expected 1 night, got %d", got)
	}
}

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCanceled, true},
		{BookingConfirmed, BookingCanceled, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCanceled, BookingPending, false},
		{BookingCanceled, BookingConfirmed, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
