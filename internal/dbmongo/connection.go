package dbmongo

import (
	"context"
	"fmt"
	"time"

	"labtrack/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	notificationsCollection = "notifications"
	activitiesCollection    = "activities"
)

type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoConnection(c *config.Config) (*MongoClient, error) {
	uri := c.GetMongoURI()
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	database := client.Database(c.MongoDB.Database)

	return &MongoClient{
		Client:   client,
		Database: database,
	}, nil
}

// EnsureIndexes creates the secondary indexes the query paths depend on:
// the recipient list/unread index, the TTL index that expires notifications
// once expiresAt passes, the generator's dedup index, and the activity
// window index.
func (mc *MongoClient) EnsureIndexes(ctx context.Context) error {
	notifIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "recipient", Value: 1},
				{Key: "isRead", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "metadata.activityId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	if _, err := mc.Database.Collection(notificationsCollection).Indexes().CreateMany(ctx, notifIndexes); err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}

	activityIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	}

	if _, err := mc.Database.Collection(activitiesCollection).Indexes().CreateMany(ctx, activityIndexes); err != nil {
		return fmt.Errorf("failed to create activity indexes: %w", err)
	}

	return nil
}

func (mc *MongoClient) Close(ctx context.Context) error {
	return mc.Client.Disconnect(ctx)
}
