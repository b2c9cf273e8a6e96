package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"labtrack/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListFilter narrows a recipient-scoped listing.
type ListFilter struct {
	IsRead   *bool
	Type     common.NotificationType
	Category common.Category
	Limit    int
	Skip     int
}

// GroupCount is one bucket of a grouped count, descending by count.
type GroupCount struct {
	Value string `bson:"_id" json:"value"`
	Count int64  `bson:"count" json:"count"`
}

type NotificationStore struct {
	coll *mongo.Collection
}

func NewNotificationStore(mc *MongoClient) *NotificationStore {
	return &NotificationStore{
		coll: mc.Database.Collection(notificationsCollection),
	}
}

// Insert validates the record, applies schema defaults and timestamps, and
// persists it. The assigned id is written back into the record.
func (s *NotificationStore) Insert(ctx context.Context, n *Notification) error {
	n.ApplyDefaults()
	if err := n.Validate(); err != nil {
		return err
	}

	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now

	result, err := s.coll.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

// InsertMany is all-or-nothing: every record is validated before anything is
// written, so a bad record rejects the whole batch.
func (s *NotificationStore) InsertMany(ctx context.Context, ns []*Notification) error {
	if len(ns) == 0 {
		return common.NewValidationError("notifications", "batch is empty")
	}

	now := time.Now()
	docs := make([]interface{}, len(ns))
	for i, n := range ns {
		n.ApplyDefaults()
		if err := n.Validate(); err != nil {
			return err
		}
		n.CreatedAt = now
		n.UpdatedAt = now
		docs[i] = n
	}

	result, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}
	for i, id := range result.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			ns[i].ID = oid
		}
	}
	return nil
}

func (s *NotificationStore) ByID(ctx context.Context, id string) (*Notification, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrNotFound
	}

	var notification Notification
	err = s.coll.FindOne(ctx, s.withNotExpired(bson.M{"_id": oid})).Decode(&notification)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return &notification, nil
}

// ByRecipient returns one page of a recipient's notifications, most recent
// first, plus the total matching the filter.
func (s *NotificationStore) ByRecipient(ctx context.Context, recipient string, f ListFilter) ([]*Notification, int64, error) {
	filter := s.withNotExpired(s.recipientFilter(recipient, f))

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if f.Skip > 0 {
		opts.SetSkip(int64(f.Skip))
	}
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get recipient notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []*Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, fmt.Errorf("failed to decode notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *NotificationStore) UnreadCount(ctx context.Context, recipient string) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, s.withNotExpired(bson.M{
		"recipient": recipient,
		"isRead":    false,
	}))
	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return count, nil
}

// MarkRead transitions isRead false->true and stamps readAt, atomically in a
// single document update. Marking an already-read notification is a no-op
// that returns the record unchanged, so readAt is only ever set once.
func (s *NotificationStore) MarkRead(ctx context.Context, id string) (*Notification, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrNotFound
	}

	now := time.Now()
	var notification Notification
	err = s.coll.FindOneAndUpdate(ctx,
		s.withNotExpired(bson.M{"_id": oid, "isRead": false}),
		bson.M{"$set": bson.M{
			"isRead":    true,
			"readAt":    now,
			"updatedAt": now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&notification)

	if err == nil {
		return &notification, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to mark notification as read: %w", err)
	}

	// Already read, or genuinely absent.
	return s.ByID(ctx, id)
}

// MarkAllRead flips every unread notification of the recipient in one batch
// update. Returns the number of records transitioned.
func (s *NotificationStore) MarkAllRead(ctx context.Context, recipient string) (int64, error) {
	now := time.Now()
	result, err := s.coll.UpdateMany(ctx,
		s.withNotExpired(bson.M{"recipient": recipient, "isRead": false}),
		bson.M{"$set": bson.M{
			"isRead":    true,
			"readAt":    now,
			"updatedAt": now,
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return result.ModifiedCount, nil
}

// UpdateByID overwrites the given fields. The recipient is immutable and the
// read/readAt pair has its own dedicated transition, so neither is patchable
// here.
func (s *NotificationStore) UpdateByID(ctx context.Context, id string, patch map[string]interface{}) (*Notification, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range patch {
		switch k {
		case "recipient", "isRead", "readAt", "_id", "createdAt":
			return nil, common.NewValidationError(k, "field is not updatable")
		}
		set[k] = v
	}

	var notification Notification
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&notification)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}
	return &notification, nil
}

func (s *NotificationStore) Delete(ctx context.Context, id string) (*Notification, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrNotFound
	}

	var notification Notification
	err = s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&notification)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete notification: %w", err)
	}
	return &notification, nil
}

func (s *NotificationStore) DeleteAllForRecipient(ctx context.Context, recipient string) (int64, error) {
	result, err := s.coll.DeleteMany(ctx, bson.M{"recipient": recipient})
	if err != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", err)
	}
	return result.DeletedCount, nil
}

// ExistsForActivity is the generator's dedup probe against the
// metadata.activityId back-reference.
func (s *NotificationStore) ExistsForActivity(ctx context.Context, activityID string) (bool, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"metadata.activityId": activityID})
	if err != nil {
		return false, fmt.Errorf("failed to check activity notification: %w", err)
	}
	return count > 0, nil
}

// TypeCounts groups the recipient's notifications by type, descending count.
func (s *NotificationStore) TypeCounts(ctx context.Context, recipient string) ([]GroupCount, error) {
	return s.groupCounts(ctx, recipient, "$type")
}

// CategoryCounts groups the recipient's notifications by category, descending
// count.
func (s *NotificationStore) CategoryCounts(ctx context.Context, recipient string) ([]GroupCount, error) {
	return s.groupCounts(ctx, recipient, "$category")
}

func (s *NotificationStore) groupCounts(ctx context.Context, recipient, field string) ([]GroupCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: s.withNotExpired(bson.M{"recipient": recipient})}},
		{{Key: "$group", Value: bson.M{
			"_id":   field,
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to group notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var counts []GroupCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode group counts: %w", err)
	}
	return counts, nil
}

// Recent returns the recipient's most recent notifications.
func (s *NotificationStore) Recent(ctx context.Context, recipient string, limit int) ([]*Notification, error) {
	notifications, _, err := s.ByRecipient(ctx, recipient, ListFilter{Limit: limit})
	return notifications, err
}

func (s *NotificationStore) recipientFilter(recipient string, f ListFilter) bson.M {
	filter := bson.M{"recipient": recipient}
	if f.IsRead != nil {
		filter["isRead"] = *f.IsRead
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	return filter
}

// withNotExpired excludes records whose expiresAt has already elapsed. The
// TTL monitor removes them physically on its own schedule; until it does they
// must stay invisible.
func (s *NotificationStore) withNotExpired(filter bson.M) bson.M {
	filter["$or"] = bson.A{
		bson.M{"expiresAt": bson.M{"$exists": false}},
		bson.M{"expiresAt": bson.M{"$gt": time.Now()}},
	}
	return filter
}
