package repository

import (
	"context"

	"dating_match_service/internal/notification/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FeedRepository definition notification feed store
type FeedRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	FindByUser(ctx context.Context, userID int64, limit int64) ([]domain.Notification, error)
}

type feedRepository struct {
	coll *mongo.Collection
}

// NewMongoFeedRepository create a FeedRepository
func NewMongoFeedRepository(db *mongo.Database) FeedRepository {
	return &feedRepository{
		coll: db.Collection("notifications"),
	}
}

// Insert append one feed entry
func (r *feedRepository) Insert(ctx context.Context, n *domain.Notification) error {
	_, err := r.coll.InsertOne(ctx, n)
	return err
}

// FindByUser newest-first feed page for one user
func (r *feedRepository) FindByUser(ctx context.Context, userID int64, limit int64) ([]domain.Notification, error) {
	opts := options.Find()
	opts.SetSort(bson.M{"created_at": -1})
	opts.SetLimit(limit)

	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	var feed []domain.Notification
	if err := cur.All(ctx, &feed); err != nil {
		return nil, err
	}
	return feed, nil
}
