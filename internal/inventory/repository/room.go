package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	inventoryerrors "hms/internal/inventory/errors"
	"hms/pkg/config"
	"hms/pkg/model"
)

const CollectionName = "rooms"

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	FindByNumber(ctx context.Context, roomNumber int) (*model.Room, error)
	FindAll(ctx context.Context) ([]*model.Room, error)
	Update(ctx context.Context, roomNumber int, update *model.RoomUpdate) error
	AddBeds(ctx context.Context, roomNumber int, beds []model.Bed) error
	SetBedStatus(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error
	UpdateBed(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus, price *float64) error
	Stats(ctx context.Context) (*model.InventoryStats, error)
}

type mongoRoomRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout bounds a single storage call. Inside a transaction the
// session context passes through untouched.
func (r *mongoRoomRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRoomRepository) Create(ctx context.Context, room *model.Room) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	room.CreatedAt = now
	room.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, room); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return inventoryerrors.ErrDuplicateRoom
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (r *mongoRoomRepository) FindByNumber(ctx context.Context, roomNumber int) (*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"room_number": roomNumber}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventoryerrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

func (r *mongoRoomRepository) FindAll(ctx context.Context) ([]*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "room_number", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}

func (r *mongoRoomRepository) Update(ctx context.Context, roomNumber int, update *model.RoomUpdate) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Type != "" {
		set["type"] = update.Type
	}
	if update.Features != nil {
		set["features"] = *update.Features
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"room_number": roomNumber}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	if result.MatchedCount == 0 {
		return inventoryerrors.ErrRoomNotFound
	}
	return nil
}

func (r *mongoRoomRepository) AddBeds(ctx context.Context, roomNumber int, beds []model.Bed) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	numbers := make([]string, 0, len(beds))
	for _, bed := range beds {
		numbers = append(numbers, bed.BedNumber)
	}

	// The filter only matches a room holding none of the new bed numbers,
	// so a racing insert of the same number cannot slip through.
	filter := bson.M{
		"room_number":     roomNumber,
		"beds.bed_number": bson.M{"$nin": numbers},
	}
	update := bson.M{
		"$push": bson.M{"beds": bson.M{"$each": beds}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add beds: %w", err)
	}
	if result.MatchedCount == 0 {
		if _, findErr := r.FindByNumber(ctx, roomNumber); errors.Is(findErr, inventoryerrors.ErrRoomNotFound) {
			return inventoryerrors.ErrRoomNotFound
		}
		return inventoryerrors.ErrDuplicateBed
	}
	return nil
}

func (r *mongoRoomRepository) SetBedStatus(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"room_number":     roomNumber,
		"beds.bed_number": bedNumber,
	}
	update := bson.M{
		"$set": bson.M{
			"beds.$.status": status,
			"updated_at":    time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set bed status: %w", err)
	}
	if result.MatchedCount == 0 {
		return inventoryerrors.ErrBedNotFound
	}
	return nil
}

func (r *mongoRoomRepository) UpdateBed(ctx context.Context, roomNumber int, bedNumber string, status model.BedStatus, price *float64) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	set := bson.M{
		"beds.$.status": status,
		"updated_at":    time.Now().UTC(),
	}
	if price != nil {
		set["beds.$.price_per_bed"] = *price
	}

	filter := bson.M{
		"room_number":     roomNumber,
		"beds.bed_number": bedNumber,
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update bed: %w", err)
	}
	if result.MatchedCount == 0 {
		return inventoryerrors.ErrBedNotFound
	}
	return nil
}

// Stats derives the occupancy counts in one aggregation so dashboards do
// not re-walk every room on each fetch.
func (r *mongoRoomRepository) Stats(ctx context.Context) (*model.InventoryStats, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$beds"}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$beds.status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bed stats: %w", err)
	}
	defer cursor.Close(ctx)

	var buckets []struct {
		Status model.BedStatus `bson:"_id"`
		Count  int64           `bson:"count"`
	}
	if err = cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode bed stats: %w", err)
	}

	stats := &model.InventoryStats{}
	for _, b := range buckets {
		stats.TotalBeds += b.Count
		switch b.Status {
		case model.BedAvailable:
			stats.AvailableBeds = b.Count
		case model.BedOccupied:
			stats.OccupiedBeds = b.Count
		case model.BedMaintenance:
			stats.MaintenanceBeds = b.Count
		}
	}

	totalRooms, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}
	stats.TotalRooms = totalRooms

	return stats, nil
}
