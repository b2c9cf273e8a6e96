package notif

import (
	"context"
	"fmt"
	"log"
	"time"

	"labtrack/internal/common"
	"labtrack/internal/dbmongo"
)

// activityWindow is how far back the generator scans. Fixed, matching the
// batch job it replaces.
const activityWindow = 24 * time.Hour

var activityTitles = map[string]string{
	"project_created":           "New Project Created",
	"project_updated":           "Project Updated",
	"project_deleted":           "Project Deleted",
	"task_created":              "New Task Assigned",
	"task_updated":              "Task Updated",
	"task_deleted":              "Task Deleted",
	"user_created":              "New User Registered",
	"user_updated":              "User Profile Updated",
	"user_deleted":              "User Account Deleted",
	"user_login":                "Login Activity",
	"failed_login_attempt":      "Failed Login Attempt",
	"notification_created":      "New Notification",
	"notification_read":         "Notification Read",
	"notifications_all_read":    "All Notifications Read",
	"notification_deleted":      "Notification Deleted",
	"notifications_all_deleted": "All Notifications Deleted",
	"notifications_bulk_sent":   "Bulk Notifications Sent",
}

var activitySeverities = map[string]common.NotificationType{
	"project_created":      common.TypeSuccess,
	"project_updated":      common.TypeInfo,
	"project_deleted":      common.TypeWarning,
	"task_created":         common.TypeSuccess,
	"task_updated":         common.TypeInfo,
	"task_deleted":         common.TypeWarning,
	"user_created":         common.TypeSuccess,
	"user_updated":         common.TypeInfo,
	"user_deleted":         common.TypeWarning,
	"user_login":           common.TypeInfo,
	"failed_login_attempt": common.TypeError,
	"notification_created": common.TypeInfo,
	"notification_deleted": common.TypeWarning,
}

func activityTitle(activityType string) string {
	if title, ok := activityTitles[activityType]; ok {
		return title
	}
	return "System Activity"
}

func activitySeverity(activityType string) common.NotificationType {
	if severity, ok := activitySeverities[activityType]; ok {
		return severity
	}
	return common.TypeInfo
}

type GenerateResult struct {
	Count         int                     `json:"count"`
	Notifications []*dbmongo.Notification `json:"notifications"`
}

// Generator synthesizes at most one notification per recent activity event,
// deduplicated through the metadata.activityId back-reference.
type Generator struct {
	repo       NotificationRepository
	activities ActivityRepository
}

func NewGenerator(repo NotificationRepository, activities ActivityRepository) *Generator {
	return &Generator{
		repo:       repo,
		activities: activities,
	}
}

// Run scans the last 24 hours of activities. Activities that already have a
// derived notification, or that carry no resolvable user, are skipped. An
// insert failure aborts the remainder of the batch.
func (g *Generator) Run(ctx context.Context) (*GenerateResult, error) {
	since := time.Now().Add(-activityWindow)
	activities, err := g.activities.Since(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to read activity window: %w", err)
	}

	result := &GenerateResult{Notifications: []*dbmongo.Notification{}}

	for _, activity := range activities {
		activityID := activity.ID.Hex()

		exists, err := g.repo.ExistsForActivity(ctx, activityID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing notification: %w", err)
		}
		if exists {
			continue
		}

		if activity.User == "" {
			log.Printf("Skipping activity %s: no resolvable user", activityID)
			continue
		}

		notification := &dbmongo.Notification{
			Title:     activityTitle(activity.Type),
			Message:   activity.Description,
			Type:      activitySeverity(activity.Type),
			Recipient: activity.User,
			Category:  activityCategory(activity.Meta),
			Metadata: &common.NotificationMetadata{
				ActivityID:   activityID,
				ActivityType: activity.Type,
			},
		}

		if err := g.repo.Insert(ctx, notification); err != nil {
			return nil, fmt.Errorf("failed to insert generated notification: %w", err)
		}

		result.Notifications = append(result.Notifications, notification)
	}

	result.Count = len(result.Notifications)
	return result, nil
}

func activityCategory(meta map[string]interface{}) common.Category {
	if meta != nil {
		if raw, ok := meta["category"].(string); ok {
			category := common.Category(raw)
			if category.Valid() {
				return category
			}
		}
	}
	return common.CategoryGeneral
}
