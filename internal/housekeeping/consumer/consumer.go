package consumer

import (
	"context"

	"hms/internal/housekeeping/service"
	"hms/pkg/events"
	"hms/pkg/kafka"
	kafka_config "hms/pkg/kafka/config"
	"hms/pkg/logger"
)

// BookingEventConsumer listens on the booking events topic and queues a
// cleaning task whenever a stay is canceled, so the bed is turned over
// before the next guest.
type BookingEventConsumer struct {
	consumer *kafka.Consumer
	log      *logger.Logger
}

func NewBookingEventConsumer(kcfg *kafka_config.Config, topic, groupID string, tasks service.TaskService, log *logger.Logger) (*BookingEventConsumer, error) {
	handler := func(ctx context.Context, msg kafka.Message) error {
		if msg.EventType() != string(events.BookingCanceled) {
			return nil
		}

		var ev events.BookingEvent
		if err := msg.Decode(&ev); err != nil {
			log.Error("Failed to decode booking event", "error", err)
			return nil
		}

		if err := tasks.QueueCleaning(ctx, ev.RoomNumber, ev.BedNumber); err != nil {
			log.Error("Failed to queue cleaning task from event",
				"booking_id", ev.BookingID,
				"room_number", ev.RoomNumber,
				"bed_number", ev.BedNumber,
				"error", err,
			)
			return err
		}

		log.Info("Cleaning task queued from cancellation",
			"booking_id", ev.BookingID,
			"room_number", ev.RoomNumber,
			"bed_number", ev.BedNumber,
		)
		return nil
	}

	consumer, err := kafka.NewConsumer(kcfg, topic, groupID, handler, log)
	if err != nil {
		return nil, err
	}

	return &BookingEventConsumer{
		consumer: consumer,
		log:      log,
	}, nil
}

func (c *BookingEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

func (c *BookingEventConsumer) Close() error {
	return c.consumer.Close()
}
