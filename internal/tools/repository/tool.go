package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	toolserrors "toolrent/internal/tools/errors"
	"toolrent/pkg/config"
	"toolrent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Tools"
)

type ToolRepository interface {
	Create(ctx context.Context, tool *model.Tool) error
	FindByID(ctx context.Context, id string) (*model.Tool, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Tool, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, tool *model.Tool) error
	Delete(ctx context.Context, id string) error

	Search(ctx context.Context, city, category string, limit int, offset int64) ([]*model.Tool, error)
	CountSearch(ctx context.Context, city, category string) (int64, error)

	// Exists reports false, without error, for ids that are not ObjectIDs.
	Exists(ctx context.Context, id string) (bool, error)
}

type mongoToolRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoToolRepository(cfg *config.Config) ToolRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoToolRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoToolRepository) Create(ctx context.Context, tool *model.Tool) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	tool.ID = ""
	tool.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, tool)
	if err != nil {
		return fmt.Errorf("failed to create tool: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		tool.ID = oid.Hex()
	}
	return nil
}

func (r *mongoToolRepository) FindByID(ctx context.Context, id string) (*model.Tool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", toolserrors.ErrInvalidID, id)
	}

	var tool model.Tool
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&tool); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", toolserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find tool: %w", err)
	}
	return &tool, nil
}

func (r *mongoToolRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Tool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, bson.M{}, limit, offset)
}

func (r *mongoToolRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count tools: %w", err)
	}
	return count, nil
}

func (r *mongoToolRepository) Update(ctx context.Context, id string, tool *model.Tool) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", toolserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":        tool.Name,
			"description": tool.Description,
			"category":    tool.Category,
			"city":        tool.City,
			"daily_rate":  tool.DailyRate,
			"currency":    tool.Currency,
			"owner_phone": tool.OwnerPhone,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update tool: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", toolserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoToolRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", toolserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete tool: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", toolserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoToolRepository) Search(ctx context.Context, city, category string, limit int, offset int64) ([]*model.Tool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, searchFilter(city, category), limit, offset)
}

func (r *mongoToolRepository) CountSearch(ctx context.Context, city, category string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, searchFilter(city, category))
	if err != nil {
		return 0, fmt.Errorf("failed to count tools by search: %w", err)
	}
	return count, nil
}

func (r *mongoToolRepository) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check tool existence: %w", err)
	}
	return count > 0, nil
}

func (r *mongoToolRepository) find(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.Tool, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query tools: %w", err)
	}
	defer cursor.Close(ctx)

	tools := make([]*model.Tool, 0)
	if err = cursor.All(ctx, &tools); err != nil {
		return nil, fmt.Errorf("failed to decode tools: %w", err)
	}
	return tools, nil
}

func searchFilter(city, category string) bson.M {
	filter := bson.M{}
	if city != "" {
		filter["city"] = city
	}
	if category != "" {
		filter["category"] = category
	}
	return filter
}
