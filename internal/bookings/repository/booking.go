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

	bookingserrors "hms/internal/bookings/errors"
	"hms/pkg/config"
	mongotx "hms/pkg/db/mongo"
	"hms/pkg/model"
)

const CollectionName = "bookings"

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, error)
	Count(ctx context.Context, filter *model.BookingFilter) (int64, error)
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error
	UpdatePayment(ctx context.Context, id string, payment model.PaymentStatus, method model.PaymentMethod, transactionID string) error
	FindConfirmedOverlapping(ctx context.Context, roomNumber int, bedNumber string, checkin, checkout time.Time) ([]*model.Booking, error)
	HasActiveConfirmed(ctx context.Context, roomNumber int, bedNumber string, at time.Time) (bool, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout bounds a single storage call. Inside a transaction the
// session context passes through untouched.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if id == "" {
		return nil, bookingserrors.ErrInvalidID
	}

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func buildFilterQuery(filter *model.BookingFilter) bson.M {
	query := bson.M{}
	if filter == nil {
		return query
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	// A booking matches the window when its stay intersects [From, To).
	if filter.From != nil {
		query["checkout_date"] = bson.M{"$gt": *filter.From}
	}
	if filter.To != nil {
		query["checkin_date"] = bson.M{"$lt": *filter.To}
	}
	return query
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter != nil {
		if filter.Limit > 0 {
			opts.SetLimit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			opts.SetSkip(filter.Offset)
		}
	}

	cursor, err := r.collection.Find(ctx, buildFilterQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) Count(ctx context.Context, filter *model.BookingFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilterQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrBookingNotFound
	}
	return nil
}

func (r *mongoBookingRepository) UpdatePayment(ctx context.Context, id string, payment model.PaymentStatus, method model.PaymentMethod, transactionID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	set := bson.M{"payment_status": payment}
	if method != "" {
		set["payment_method"] = method
	}
	if transactionID != "" {
		set["transaction_id"] = transactionID
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking payment: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrBookingNotFound
	}
	return nil
}

// FindConfirmedOverlapping returns confirmed bookings for the bed whose
// half-open stay intersects [checkin, checkout). Back-to-back stays that
// share a changeover day do not match.
func (r *mongoBookingRepository) FindConfirmedOverlapping(ctx context.Context, roomNumber int, bedNumber string, checkin, checkout time.Time) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"room_number":   roomNumber,
		"bed_number":    bedNumber,
		"status":        model.BookingConfirmed,
		"checkin_date":  bson.M{"$lt": checkout},
		"checkout_date": bson.M{"$gt": checkin},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping bookings: %w", err)
	}
	return bookings, nil
}

// HasActiveConfirmed reports whether a confirmed stay covers the instant.
// Housekeeping consults this before releasing a bed after cleaning.
func (r *mongoBookingRepository) HasActiveConfirmed(ctx context.Context, roomNumber int, bedNumber string, at time.Time) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"room_number":   roomNumber,
		"bed_number":    bedNumber,
		"status":        model.BookingConfirmed,
		"checkin_date":  bson.M{"$lte": at},
		"checkout_date": bson.M{"$gt": at},
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check active bookings: %w", err)
	}
	return count > 0, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
