package dbmongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityStore persists the append-only audit log. Records are never
// updated or deleted here.
type ActivityStore struct {
	coll *mongo.Collection
}

func NewActivityStore(mc *MongoClient) *ActivityStore {
	return &ActivityStore{
		coll: mc.Database.Collection(activitiesCollection),
	}
}

func (s *ActivityStore) Append(ctx context.Context, activity *Activity) error {
	if activity.Type == "" {
		return fmt.Errorf("activity type is required")
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	result, err := s.coll.InsertOne(ctx, activity)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		activity.ID = oid
	}
	return nil
}

// Since returns every activity created at or after the given instant, oldest
// first. This is the generator's window read.
func (s *ActivityStore) Since(ctx context.Context, t time.Time) ([]*Activity, error) {
	cursor, err := s.coll.Find(ctx,
		bson.M{"createdAt": bson.M{"$gte": t}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}
	defer cursor.Close(ctx)

	var activities []*Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return activities, nil
}
