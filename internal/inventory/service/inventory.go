package service

import (
	"context"
	"errors"
	"fmt"

	inventoryerrors "hms/internal/inventory/errors"
	"hms/internal/inventory/repository"
	"hms/internal/inventory/validator"
	"hms/pkg/config"
	mongodb "hms/pkg/db/mongo"
	apperrors "hms/pkg/errors"
	"hms/pkg/logger"
	"hms/pkg/model"
)

type InventoryService interface {
	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, roomNumber int) (*model.Room, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)
	ListAvailableBeds(ctx context.Context) ([]*model.Room, error)
	ListRoomAvailableBeds(ctx context.Context, roomNumber int) ([]model.Bed, error)
	UpdateRoom(ctx context.Context, roomNumber int, update *model.RoomUpdate) error
	AddBeds(ctx context.Context, roomNumber int, beds []model.Bed) error
	UpdateBed(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus, price *float64) error
	SetBedStatus(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error
	GetBed(ctx context.Context, roomNumber int, bedNumber string) (*model.Bed, error)
	Stats(ctx context.Context) (*model.InventoryStats, error)
}

type inventoryService struct {
	cfg       *config.Config
	repo      repository.RoomRepository
	validator *validator.RoomValidator
	log       *logger.Logger
}

func NewInventoryService(cfg *config.Config, repo repository.RoomRepository, v *validator.RoomValidator, log *logger.Logger) InventoryService {
	return &inventoryService{
		cfg:       cfg,
		repo:      repo,
		validator: v,
		log:       log,
	}
}

func (s *inventoryService) CreateRoom(ctx context.Context, room *model.Room) error {
	for i := range room.Beds {
		if room.Beds[i].Status == "" {
			room.Beds[i].Status = model.BedAvailable
		}
	}

	if err := s.validator.Validate(room); err != nil {
		return apperrors.Validation("invalid room", map[string]any{"reason": err.Error()})
	}

	if err := s.repo.Create(ctx, room); err != nil {
		if errors.Is(err, inventoryerrors.ErrDuplicateRoom) {
			return apperrors.Conflict(fmt.Sprintf("room %d already exists", room.RoomNumber))
		}
		return s.storageError("create room", err)
	}

	s.log.Info("room created", "room_number", room.RoomNumber, "beds", len(room.Beds))
	return nil
}

func (s *inventoryService) GetRoom(ctx context.Context, roomNumber int) (*model.Room, error) {
	var room *model.Room
	err := mongodb.WithRetry(ctx, s.cfg.StorageRetries, s.cfg.StorageRetryBackoff, func(ctx context.Context) error {
		var findErr error
		room, findErr = s.repo.FindByNumber(ctx, roomNumber)
		return findErr
	})
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("room", fmt.Sprintf("%d", roomNumber))
		}
		return nil, s.storageError("find room", err)
	}
	return room, nil
}

func (s *inventoryService) ListRooms(ctx context.Context) ([]*model.Room, error) {
	var rooms []*model.Room
	err := mongodb.WithRetry(ctx, s.cfg.StorageRetries, s.cfg.StorageRetryBackoff, func(ctx context.Context) error {
		var findErr error
		rooms, findErr = s.repo.FindAll(ctx)
		return findErr
	})
	if err != nil {
		return nil, s.storageError("list rooms", err)
	}
	return rooms, nil
}

// ListAvailableBeds returns rooms filtered down to their available beds.
// Rooms with no available bed are dropped from the result.
func (s *inventoryService) ListAvailableBeds(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		var beds []model.Bed
		for _, bed := range room.Beds {
			if bed.Status == model.BedAvailable {
				beds = append(beds, bed)
			}
		}
		if len(beds) == 0 {
			continue
		}
		filtered := *room
		filtered.Beds = beds
		available = append(available, &filtered)
	}
	return available, nil
}

// ListRoomAvailableBeds returns the beds in one room that are currently
// bookable.
func (s *inventoryService) ListRoomAvailableBeds(ctx context.Context, roomNumber int) ([]model.Bed, error) {
	room, err := s.GetRoom(ctx, roomNumber)
	if err != nil {
		return nil, err
	}

	beds := make([]model.Bed, 0, len(room.Beds))
	for _, bed := range room.Beds {
		if bed.Status == model.BedAvailable {
			beds = append(beds, bed)
		}
	}
	return beds, nil
}

func (s *inventoryService) UpdateRoom(ctx context.Context, roomNumber int, update *model.RoomUpdate) error {
	if err := s.validator.ValidateUpdate(update); err != nil {
		return apperrors.Validation("invalid room update", map[string]any{"reason": err.Error()})
	}
	if update.Type == "" && update.Features == nil {
		return apperrors.InvalidInput("room update must change at least one field")
	}

	if err := s.repo.Update(ctx, roomNumber, update); err != nil {
		if errors.Is(err, inventoryerrors.ErrRoomNotFound) {
			return apperrors.NotFoundWithID("room", fmt.Sprintf("%d", roomNumber))
		}
		return s.storageError("update room", err)
	}
	return nil
}

func (s *inventoryService) AddBeds(ctx context.Context, roomNumber int, beds []model.Bed) error {
	if len(beds) == 0 {
		return apperrors.InvalidInput("at least one bed is required")
	}
	for i := range beds {
		if beds[i].Status == "" {
			beds[i].Status = model.BedAvailable
		}
	}
	if err := s.validator.ValidateBeds(beds); err != nil {
		return apperrors.Validation("invalid beds", map[string]any{"reason": err.Error()})
	}

	if err := s.repo.AddBeds(ctx, roomNumber, beds); err != nil {
		if errors.Is(err, inventoryerrors.ErrDuplicateBed) {
			return apperrors.Conflict(fmt.Sprintf("one of the bed numbers already exists in room %d", roomNumber))
		}
		if errors.Is(err, inventoryerrors.ErrRoomNotFound) {
			return apperrors.NotFoundWithID("room", fmt.Sprintf("%d", roomNumber))
		}
		return s.storageError("add beds", err)
	}

	s.log.Info("beds added", "room_number", roomNumber, "count", len(beds))
	return nil
}

func (s *inventoryService) UpdateBed(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus, price *float64) error {
	if !status.Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("unknown bed status: %s", status))
	}
	if price != nil && *price < 0 {
		return apperrors.InvalidInput("price_per_bed cannot be negative")
	}

	if err := s.repo.UpdateBed(ctx, roomNumber, bedNumber, status, price); err != nil {
		return s.mapBedError(roomNumber, bedNumber, "update bed", err)
	}
	return nil
}

// SetBedStatus is idempotent: setting a bed to its current status succeeds
// without a separate read, the positional update simply rewrites the value.
func (s *inventoryService) SetBedStatus(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error {
	if !status.Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("unknown bed status: %s", status))
	}

	if err := s.repo.SetBedStatus(ctx, roomNumber, bedNumber, status); err != nil {
		return s.mapBedError(roomNumber, bedNumber, "set bed status", err)
	}

	s.log.Info("bed status set", "room_number", roomNumber, "bed_number", bedNumber, "status", status)
	return nil
}

func (s *inventoryService) GetBed(ctx context.Context, roomNumber int, bedNumber string) (*model.Bed, error) {
	room, err := s.GetRoom(ctx, roomNumber)
	if err != nil {
		return nil, err
	}
	bed := room.FindBed(bedNumber)
	if bed == nil {
		return nil, apperrors.NotFoundWithID("bed", fmt.Sprintf("room %d bed %s", roomNumber, bedNumber))
	}
	return bed, nil
}

func (s *inventoryService) Stats(ctx context.Context) (*model.InventoryStats, error) {
	var stats *model.InventoryStats
	err := mongodb.WithRetry(ctx, s.cfg.StorageRetries, s.cfg.StorageRetryBackoff, func(ctx context.Context) error {
		var statsErr error
		stats, statsErr = s.repo.Stats(ctx)
		return statsErr
	})
	if err != nil {
		return nil, s.storageError("compute inventory stats", err)
	}
	return stats, nil
}

func (s *inventoryService) mapBedError(roomNumber int, bedNumber, op string, err error) error {
	switch {
	case errors.Is(err, inventoryerrors.ErrRoomNotFound):
		return apperrors.NotFoundWithID("room", fmt.Sprintf("%d", roomNumber))
	case errors.Is(err, inventoryerrors.ErrBedNotFound):
		return apperrors.NotFoundWithID("bed", fmt.Sprintf("room %d bed %s", roomNumber, bedNumber))
	}
	return s.storageError(op, err)
}

func (s *inventoryService) storageError(op string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if mongodb.IsTransient(err) {
		return apperrors.Unavailable("storage", err)
	}
	s.log.Error("storage operation failed", "op", op, "error", err)
	return apperrors.Internal(fmt.Sprintf("failed to %s", op), err)
}
