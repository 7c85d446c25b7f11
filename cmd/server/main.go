package main

import (
	"context"
	"errors"

	bookingshandler "hms/internal/bookings/handler"
	bookingsrepo "hms/internal/bookings/repository"
	bookingssvc "hms/internal/bookings/service"
	bookingsvalidator "hms/internal/bookings/validator"
	hkconsumer "hms/internal/housekeeping/consumer"
	hkhandler "hms/internal/housekeeping/handler"
	hkrepo "hms/internal/housekeeping/repository"
	hksvc "hms/internal/housekeeping/service"
	inventoryhandler "hms/internal/inventory/handler"
	inventoryrepo "hms/internal/inventory/repository"
	inventorysvc "hms/internal/inventory/service"
	inventoryvalidator "hms/internal/inventory/validator"
	"hms/pkg/app"
	"hms/pkg/config"
	"hms/pkg/events"
	"hms/pkg/kafka"
	kafka_config "hms/pkg/kafka/config"
)

const ServiceName = "hms"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting hotel management service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	serverApp := app.NewApplication(cfg)

	publisher := initPublisher(cfg)
	serverApp.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close event publisher", "error", err)
		}
	})

	inventoryService := inventorysvc.NewInventoryService(
		cfg,
		inventoryrepo.NewMongoRoomRepository(cfg),
		inventoryvalidator.NewRoomValidator(cfg.Log),
		cfg.Log,
	)

	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	bookingService := bookingssvc.NewBookingService(
		bookingRepo,
		bookingsrepo.NewMongoBedLockRepository(cfg),
		inventoryService,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	lifecycleService := bookingssvc.NewLifecycleService(bookingRepo, inventoryService, publisher, cfg)

	taskService := hksvc.NewTaskService(
		hkrepo.NewMongoTaskRepository(cfg),
		inventoryService,
		bookingRepo,
		cfg,
	)

	if cfg.EventsEnabled {
		startConsumer(cfg, serverApp, taskService)
	}

	serverApp.SetApp(
		inventoryhandler.NewRoomHandler(inventoryService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, lifecycleService, cfg.Log),
		hkhandler.NewTaskHandler(taskService, cfg.Log),
	)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Event publishing disabled")
		return events.NewNopPublisher(cfg.Log)
	}

	kcfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kcfg, cfg.BookingEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Event publishing enabled",
		"topic", cfg.BookingEventsTopic,
		"brokers", kcfg.Brokers,
	)
	return events.NewKafkaPublisher(producer, ServiceName)
}

func startConsumer(cfg *config.Config, serverApp *app.Application, taskService hksvc.TaskService) {
	kcfg := kafka_config.Load()
	consumer, err := hkconsumer.NewBookingEventConsumer(
		kcfg,
		cfg.BookingEventsTopic,
		cfg.HousekeepingGroup,
		taskService,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create booking event consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Booking event consumer stopped", "error", err)
		}
	}()

	serverApp.OnShutdown(func() {
		cancel()
		if err := consumer.Close(); err != nil {
			cfg.Log.Warn("Failed to close booking event consumer", "error", err)
		}
	})

	cfg.Log.Info("Booking event consumer started", "group", cfg.HousekeepingGroup)
}
