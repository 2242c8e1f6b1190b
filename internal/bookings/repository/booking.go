package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "toolrent/internal/bookings/errors"
	"toolrent/pkg/config"
	mongotx "toolrent/pkg/db/mongo"
	"toolrent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName         = "Bookings"
	SequenceCollectionName = "Booking_sequences"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	sequences  *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context) (int64, error)
	// FindByTool returns every stored booking for the tool, including
	// malformed ones; callers decide what to ignore.
	FindByTool(ctx context.Context, toolID string) ([]model.Booking, error)
	Search(ctx context.Context, toolID, userID string, limit int, offset int64) ([]*model.Booking, error)
	CountSearch(ctx context.Context, toolID, userID string) (int64, error)
	Delete(ctx context.Context, id string) (*model.Booking, error)
	DeleteMatching(ctx context.Context, req *model.CancelRequest) (*model.Booking, error)
	// AdvanceToolSequence increments the tool's admission counter. Inside a
	// transaction it makes concurrent admissions for the same tool conflict.
	AdvanceToolSequence(ctx context.Context, toolID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		sequences:  db.Collection(SequenceCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout leaves a SessionContext untouched; wrapping it would detach the
// operation from its transaction.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.ID = ""
	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, bson.M{}, pageOptions(limit, offset))
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) FindByTool(ctx context.Context, toolID string) ([]model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"tool_id": toolID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings for tool: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]model.Booking, 0)
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) Search(ctx context.Context, toolID, userID string, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, buildSearchFilter(toolID, userID), pageOptions(limit, offset))
}

func (r *mongoBookingRepository) CountSearch(ctx context.Context, toolID, userID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildSearchFilter(toolID, userID))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings by search: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	return r.findOneAndDelete(ctx, bson.M{"_id": objectID})
}

// DeleteMatching removes a single booking whose tool, user and stored date
// text equal the request.
func (r *mongoBookingRepository) DeleteMatching(ctx context.Context, req *model.CancelRequest) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	return r.findOneAndDelete(ctx, bson.M{
		"tool_id":    req.ToolID,
		"user_id":    req.UserID,
		"start_date": req.StartDate,
		"end_date":   req.EndDate,
	})
}

func (r *mongoBookingRepository) AdvanceToolSequence(ctx context.Context, toolID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"seq": int64(1)},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var seq model.ToolSequence
	if err := r.sequences.FindOneAndUpdate(ctx, bson.M{"_id": toolID}, update, opts).Decode(&seq); err != nil {
		return 0, fmt.Errorf("failed to advance admission sequence for tool %s: %w", toolID, err)
	}
	return seq.Seq, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoBookingRepository) findOneAndDelete(ctx context.Context, filter bson.M) (*model.Booking, error) {
	var deleted model.Booking
	opts := options.FindOneAndDelete().SetSort(bson.D{{Key: "created_at", Value: 1}})
	err := r.collection.FindOneAndDelete(ctx, filter, opts).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete booking: %w", err)
	}
	return &deleted, nil
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]*model.Booking, 0)
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func pageOptions(limit int, offset int64) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)
}

func buildSearchFilter(toolID, userID string) bson.M {
	filter := bson.M{}
	if toolID != "" {
		filter["tool_id"] = toolID
	}
	if userID != "" {
		filter["user_id"] = userID
	}
	return filter
}
