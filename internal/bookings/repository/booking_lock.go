package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "toolrent/internal/bookings/errors"
	"toolrent/pkg/config"
	"toolrent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Booking_locks"

// BookingLockRepository stores advisory locks. Create returns
// bookingserrors.ErrLockBusy while the lock is held.
type BookingLockRepository interface {
	Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	// Release removes lockID only while owner still holds it. It reports
	// false when the lock was reclaimed by someone else.
	Release(ctx context.Context, lockID, owner string) (bool, error)
	// DeleteIfExpired removes lockID only when its expiry has passed.
	DeleteIfExpired(ctx context.Context, lockID string, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoBookingLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lock.CreatedAt = time.Now().UTC()
	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingserrors.ErrLockBusy
		}
		return nil, fmt.Errorf("failed to acquire lock %s: %w", lock.ID, err)
	}
	return lock, nil
}

func (r *mongoBookingLockRepository) Release(ctx context.Context, lockID, owner string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "owner": owner})
	if err != nil {
		return false, fmt.Errorf("failed to release lock %s: %w", lockID, err)
	}
	return result.DeletedCount > 0, nil
}

func (r *mongoBookingLockRepository) DeleteIfExpired(ctx context.Context, lockID string, now time.Time) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":        lockID,
		"expires_at": bson.M{"$lte": now},
	})
	if err != nil {
		return false, fmt.Errorf("failed to reclaim lock %s: %w", lockID, err)
	}
	return result.DeletedCount > 0, nil
}

func (r *mongoBookingLockRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired locks: %w", err)
	}
	return result.DeletedCount, nil
}
