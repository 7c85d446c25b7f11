package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "hms/internal/bookings/errors"
	"hms/pkg/config"
	"hms/pkg/model"
)

const LockCollectionName = "bed_locks"

// BedLockRepository implements advisory locks over a Mongo collection.
// The unique _id index makes a second concurrent insert fail, and a TTL
// index on expires_at reaps locks abandoned by a crashed process.
type BedLockRepository interface {
	Acquire(ctx context.Context, roomNumber int, bedNumber string, ttl time.Duration) (*model.BedLock, error)
	Release(ctx context.Context, lockID string) error
}

type mongoBedLockRepository struct {
	collection *mongo.Collection
}

func NewMongoBedLockRepository(cfg *config.Config) BedLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBedLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoBedLockRepository) Acquire(ctx context.Context, roomNumber int, bedNumber string, ttl time.Duration) (*model.BedLock, error) {
	now := time.Now().UTC()
	lock := &model.BedLock{
		ID:        model.BedLockID(roomNumber, bedNumber),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingserrors.ErrBedLocked
		}
		return nil, fmt.Errorf("failed to acquire bed lock: %w", err)
	}
	return lock, nil
}

func (r *mongoBedLockRepository) Release(ctx context.Context, lockID string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID}); err != nil {
		return fmt.Errorf("failed to release bed lock: %w", err)
	}
	return nil
}
