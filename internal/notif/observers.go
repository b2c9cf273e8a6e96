package notif

import (
	"context"
	"fmt"
	"time"

	"labtrack/internal/common"
	"labtrack/internal/dbmongo"
)

// ActivityLogObserver appends every published event to the activity log.
// It subscribes to the ActivityManager, keeping audit persistence off the
// request path.
type ActivityLogObserver struct {
	repo ActivityRepository
}

func NewActivityLogObserver(repo ActivityRepository) *ActivityLogObserver {
	return &ActivityLogObserver{
		repo: repo,
	}
}

func (o *ActivityLogObserver) Name() string {
	return "activity_log_observer"
}

func (o *ActivityLogObserver) Update(event common.ActivityEvent) error {
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	activity := &dbmongo.Activity{
		Type:        event.Type,
		Description: event.Description,
		User:        event.ActorID,
		Meta:        event.Meta,
		CreatedAt:   createdAt,
	}

	if err := o.repo.Append(context.Background(), activity); err != nil {
		return fmt.Errorf("failed to store activity: %w", err)
	}

	return nil
}
