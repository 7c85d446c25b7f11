// Package events carries booking lifecycle notifications between the
// reservation side and the housekeeping scheduler. Publishing is
// best-effort: a failed publish is logged, never surfaced to the guest.
package events

import (
	"context"
	"fmt"
	"time"

	"hms/pkg/kafka"
	"hms/pkg/logger"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingConfirmed Type = "booking.confirmed"
	BookingCanceled  Type = "booking.canceled"
	PaymentCompleted Type = "payment.completed"
)

type BookingEvent struct {
	Type         Type      `json:"type"`
	BookingID    string    `json:"booking_id"`
	RoomNumber   int       `json:"room_number"`
	BedNumber    string    `json:"bed_number"`
	CheckinDate  time.Time `json:"checkin_date"`
	CheckoutDate time.Time `json:"checkout_date"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// BedKey is the partition key: all events for one bed stay ordered.
func (e BookingEvent) BedKey() string {
	return fmt.Sprintf("room:%d:bed:%s", e.RoomNumber, e.BedNumber)
}

type Publisher interface {
	Publish(ctx context.Context, ev BookingEvent) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) Publisher {
	return &kafkaPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, ev BookingEvent) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	msg, err := kafka.NewMessage().
		WithKey(ev.BedKey()).
		WithValue(ev).
		WithEventType(string(ev.Type)).
		WithSource(p.source).
		Build()
	if err != nil {
		return err
	}

	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// nopPublisher is used when no brokers are configured; deployments without
// Kafka keep working, housekeeping just has to be invoked directly.
type nopPublisher struct {
	log *logger.Logger
}

func NewNopPublisher(log *logger.Logger) Publisher {
	return &nopPublisher{log: log}
}

func (p *nopPublisher) Publish(_ context.Context, ev BookingEvent) error {
	p.log.Debug("Event publishing disabled, dropping event",
		"type", ev.Type,
		"booking_id", ev.BookingID,
	)
	return nil
}

func (p *nopPublisher) Close() error {
	return nil
}
