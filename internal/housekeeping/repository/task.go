package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	housekeepingerrors "hms/internal/housekeeping/errors"
	"hms/pkg/config"
	"hms/pkg/model"
)

const CollectionName = "housekeeping_tasks"

type TaskRepository interface {
	CreateMany(ctx context.Context, tasks []*model.HousekeepingTask) error
	FindByID(ctx context.Context, id string) (*model.HousekeepingTask, error)
	UpdateStatus(ctx context.Context, id string, status model.TaskStatus, completionDate *time.Time) error
	FindByStaff(ctx context.Context, staffID string, status model.TaskStatus) ([]*model.HousekeepingTask, error)
	Stats(ctx context.Context) (*model.TaskStats, error)
}

type mongoTaskRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTaskRepository(cfg *config.Config) TaskRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTaskRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoTaskRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoTaskRepository) CreateMany(ctx context.Context, tasks []*model.HousekeepingTask) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, 0, len(tasks))
	for _, task := range tasks {
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		task.AssignedDate = now
		docs = append(docs, task)
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to create housekeeping tasks: %w", err)
	}
	return nil
}

func (r *mongoTaskRepository) FindByID(ctx context.Context, id string) (*model.HousekeepingTask, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if id == "" {
		return nil, housekeepingerrors.ErrInvalidID
	}

	var task model.HousekeepingTask
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, housekeepingerrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

func (r *mongoTaskRepository) UpdateStatus(ctx context.Context, id string, status model.TaskStatus, completionDate *time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	set := bson.M{"task_status": status}
	if completionDate != nil {
		set["completion_date"] = *completionDate
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	if result.MatchedCount == 0 {
		return housekeepingerrors.ErrTaskNotFound
	}
	return nil
}

// FindByStaff lists a staff member's tasks, newest first. An empty status
// means all statuses.
func (r *mongoTaskRepository) FindByStaff(ctx context.Context, staffID string, status model.TaskStatus) ([]*model.HousekeepingTask, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"staff_id": staffID}
	if status != "" {
		filter["task_status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "assigned_date", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []*model.HousekeepingTask
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

func (r *mongoTaskRepository) Stats(ctx context.Context) (*model.TaskStats, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$task_status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate task stats: %w", err)
	}
	defer cursor.Close(ctx)

	var buckets []struct {
		Status model.TaskStatus `bson:"_id"`
		Count  int64            `bson:"count"`
	}
	if err = cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode task stats: %w", err)
	}

	stats := &model.TaskStats{}
	for _, b := range buckets {
		switch b.Status {
		case model.TaskPending:
			stats.Pending = b.Count
		case model.TaskInProgress:
			stats.InProgress = b.Count
		case model.TaskCompleted:
			stats.Completed = b.Count
		}
	}
	return stats, nil
}
