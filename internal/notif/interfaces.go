package notif

import (
	"context"
	"time"

	"labtrack/internal/common"
	"labtrack/internal/dbmongo"
)

// NotificationRepository is the persistence port of the notification service.
// Implemented by dbmongo.NotificationStore.
type NotificationRepository interface {
	Insert(ctx context.Context, n *dbmongo.Notification) error
	InsertMany(ctx context.Context, ns []*dbmongo.Notification) error
	ByID(ctx context.Context, id string) (*dbmongo.Notification, error)
	ByRecipient(ctx context.Context, recipient string, f dbmongo.ListFilter) ([]*dbmongo.Notification, int64, error)
	UnreadCount(ctx context.Context, recipient string) (int64, error)
	MarkRead(ctx context.Context, id string) (*dbmongo.Notification, error)
	MarkAllRead(ctx context.Context, recipient string) (int64, error)
	UpdateByID(ctx context.Context, id string, patch map[string]interface{}) (*dbmongo.Notification, error)
	Delete(ctx context.Context, id string) (*dbmongo.Notification, error)
	DeleteAllForRecipient(ctx context.Context, recipient string) (int64, error)
	ExistsForActivity(ctx context.Context, activityID string) (bool, error)
	TypeCounts(ctx context.Context, recipient string) ([]dbmongo.GroupCount, error)
	CategoryCounts(ctx context.Context, recipient string) ([]dbmongo.GroupCount, error)
	Recent(ctx context.Context, recipient string, limit int) ([]*dbmongo.Notification, error)
}

// ActivityRepository is the audit-log port. Implemented by
// dbmongo.ActivityStore.
type ActivityRepository interface {
	Append(ctx context.Context, activity *dbmongo.Activity) error
	Since(ctx context.Context, t time.Time) ([]*dbmongo.Activity, error)
}

// UserDirectory resolves user ids to display projections for response
// expansion. Implemented by dbmysql.UserRepository.
type UserDirectory interface {
	DisplayByIDs(ctx context.Context, ids []string) (map[string]common.UserDisplay, error)
}
