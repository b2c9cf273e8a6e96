package notif

import (
	"context"
	"fmt"
	"log"
	"time"

	"labtrack/internal/common"
	"labtrack/internal/dbmongo"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	recentLimit  = 5
)

type ListQuery struct {
	Page     int
	Limit    int
	IsRead   *bool
	Type     common.NotificationType
	Category common.Category
}

type ListResult struct {
	Notifications []*dbmongo.Notification `json:"notifications"`
	TotalPages    int64                   `json:"totalPages"`
	CurrentPage   int                     `json:"currentPage"`
	Total         int64                   `json:"total"`
	UnreadCount   int64                   `json:"unreadCount"`
}

type CreateInput struct {
	Title         string                       `json:"title"`
	Message       string                       `json:"message"`
	Type          common.NotificationType      `json:"type"`
	Priority      common.Priority              `json:"priority"`
	Recipient     string                       `json:"recipient"`
	Sender        string                       `json:"sender"`
	Category      common.Category              `json:"category"`
	RelatedEntity *common.RelatedEntity        `json:"relatedEntity"`
	ActionURL     string                       `json:"actionUrl"`
	ExpiresAt     *time.Time                   `json:"expiresAt"`
	Metadata      *common.NotificationMetadata `json:"metadata"`
}

// UpdateInput carries a partial update. Nil fields are left untouched; the
// recipient and the read state cannot be changed through this path.
type UpdateInput struct {
	Title     *string                  `json:"title"`
	Message   *string                  `json:"message"`
	Type      *common.NotificationType `json:"type"`
	Priority  *common.Priority         `json:"priority"`
	Category  *common.Category         `json:"category"`
	ActionURL *string                  `json:"actionUrl"`
	ExpiresAt *time.Time               `json:"expiresAt"`
}

type BulkSendInput struct {
	Recipients []string                `json:"recipients"`
	Title      string                  `json:"title"`
	Message    string                  `json:"message"`
	Type       common.NotificationType `json:"type"`
	Category   common.Category         `json:"category"`
	ActionURL  string                  `json:"actionUrl"`
}

// NotificationResponse is a notification with its user references expanded to
// display projections.
type NotificationResponse struct {
	ID            string                       `json:"id"`
	Title         string                       `json:"title"`
	Message       string                       `json:"message"`
	Type          common.NotificationType      `json:"type"`
	Priority      common.Priority              `json:"priority"`
	Sender        *common.UserDisplay          `json:"sender,omitempty"`
	Recipient     *common.UserDisplay          `json:"recipient,omitempty"`
	IsRead        bool                         `json:"isRead"`
	ReadAt        *time.Time                   `json:"readAt,omitempty"`
	Category      common.Category              `json:"category"`
	RelatedEntity *common.RelatedEntity        `json:"relatedEntity,omitempty"`
	ActionURL     string                       `json:"actionUrl,omitempty"`
	ExpiresAt     *time.Time                   `json:"expiresAt,omitempty"`
	Metadata      *common.NotificationMetadata `json:"metadata,omitempty"`
	CreatedAt     time.Time                    `json:"createdAt"`
	UpdatedAt     time.Time                    `json:"updatedAt"`
}

type RecentNotification struct {
	ID        string                  `json:"id"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      common.NotificationType `json:"type"`
	Category  common.Category         `json:"category"`
	IsRead    bool                    `json:"isRead"`
	Sender    *common.UserDisplay     `json:"sender,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}

type Stats struct {
	TotalNotifications  int64                 `json:"totalNotifications"`
	UnreadNotifications int64                 `json:"unreadNotifications"`
	ReadNotifications   int64                 `json:"readNotifications"`
	TypeStats           []dbmongo.GroupCount  `json:"typeStats"`
	CategoryStats       []dbmongo.GroupCount  `json:"categoryStats"`
	RecentNotifications []*RecentNotification `json:"recentNotifications"`
}

type NotificationService struct {
	repo    NotificationRepository
	users   UserDirectory
	manager *ActivityManager
}

func NewNotificationService(
	repo NotificationRepository,
	users UserDirectory,
	manager *ActivityManager,
) *NotificationService {
	return &NotificationService{
		repo:    repo,
		users:   users,
		manager: manager,
	}
}

// List returns one page of a recipient's notifications, newest first,
// together with the paging envelope and the recipient's unread count.
func (s *NotificationService) List(ctx context.Context, recipient string, q ListQuery) (*ListResult, error) {
	page := q.Page
	if page <= 0 {
		page = defaultPage
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	filter := dbmongo.ListFilter{
		IsRead:   q.IsRead,
		Type:     q.Type,
		Category: q.Category,
		Limit:    limit,
		Skip:     (page - 1) * limit,
	}

	notifications, total, err := s.repo.ByRecipient(ctx, recipient, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.repo.UnreadCount(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to get unread count: %w", err)
	}

	if notifications == nil {
		notifications = []*dbmongo.Notification{}
	}

	return &ListResult{
		Notifications: notifications,
		TotalPages:    (total + int64(limit) - 1) / int64(limit),
		CurrentPage:   page,
		Total:         total,
		UnreadCount:   unread,
	}, nil
}

func (s *NotificationService) Get(ctx context.Context, id string) (*NotificationResponse, error) {
	notification, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.expandOne(ctx, notification)
}

func (s *NotificationService) Create(ctx context.Context, input CreateInput, actor *common.Actor) (*NotificationResponse, error) {
	notification := &dbmongo.Notification{
		Title:         input.Title,
		Message:       input.Message,
		Type:          input.Type,
		Priority:      input.Priority,
		Recipient:     input.Recipient,
		Sender:        input.Sender,
		Category:      input.Category,
		RelatedEntity: input.RelatedEntity,
		ActionURL:     input.ActionURL,
		ExpiresAt:     input.ExpiresAt,
		Metadata:      input.Metadata,
	}

	if err := s.repo.Insert(ctx, notification); err != nil {
		return nil, err
	}

	s.publish(actor, "notification_created",
		fmt.Sprintf("Created notification: %s", notification.Title),
		map[string]interface{}{
			"notificationId": notification.ID.Hex(),
			"category":       "system",
		})

	return s.expandOne(ctx, notification)
}

// BulkSend fans one notification per recipient out of a single call. The
// caller becomes the sender on every record.
func (s *NotificationService) BulkSend(ctx context.Context, input BulkSendInput, actor *common.Actor) ([]*dbmongo.Notification, error) {
	if len(input.Recipients) == 0 {
		return nil, common.NewValidationError("recipients", "must be a non-empty list")
	}

	sender := ""
	if actor != nil {
		sender = actor.ID
	}

	notifications := make([]*dbmongo.Notification, len(input.Recipients))
	for i, recipient := range input.Recipients {
		notifications[i] = &dbmongo.Notification{
			Title:     input.Title,
			Message:   input.Message,
			Type:      input.Type,
			Category:  input.Category,
			ActionURL: input.ActionURL,
			Recipient: recipient,
			Sender:    sender,
		}
	}

	if err := s.repo.InsertMany(ctx, notifications); err != nil {
		return nil, err
	}

	s.publish(actor, "notifications_bulk_sent",
		fmt.Sprintf("Sent bulk notification to %d recipients: %s", len(notifications), input.Title),
		map[string]interface{}{
			"count":    len(notifications),
			"category": "system",
		})

	return notifications, nil
}

func (s *NotificationService) Update(ctx context.Context, id string, input UpdateInput, actor *common.Actor) (*NotificationResponse, error) {
	patch := map[string]interface{}{}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, common.NewValidationError("title", "must not be empty")
		}
		patch["title"] = *input.Title
	}
	if input.Message != nil {
		if *input.Message == "" {
			return nil, common.NewValidationError("message", "must not be empty")
		}
		patch["message"] = *input.Message
	}
	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, common.NewValidationError("type", "invalid notification type")
		}
		patch["type"] = *input.Type
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, common.NewValidationError("priority", "invalid priority")
		}
		patch["priority"] = *input.Priority
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, common.NewValidationError("category", "invalid category")
		}
		patch["category"] = *input.Category
	}
	if input.ActionURL != nil {
		patch["actionUrl"] = *input.ActionURL
	}
	if input.ExpiresAt != nil {
		patch["expiresAt"] = *input.ExpiresAt
	}
	if len(patch) == 0 {
		return nil, common.NewValidationError("body", "no updatable fields provided")
	}

	notification, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.publish(actor, "notification_updated",
		fmt.Sprintf("Updated notification: %s", notification.Title),
		map[string]interface{}{
			"notificationId": notification.ID.Hex(),
			"category":       "system",
		})

	return s.expandOne(ctx, notification)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string, actor *common.Actor) (*NotificationResponse, error) {
	notification, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(actor, "notification_read",
		fmt.Sprintf("Marked notification as read: %s", notification.Title),
		map[string]interface{}{
			"notificationId": notification.ID.Hex(),
			"category":       "system",
		})

	return s.expandOne(ctx, notification)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipient string, actor *common.Actor) (int64, error) {
	modified, err := s.repo.MarkAllRead(ctx, recipient)
	if err != nil {
		return 0, err
	}

	s.publish(actor, "notifications_all_read",
		"Marked all notifications as read",
		map[string]interface{}{
			"count":    modified,
			"category": "system",
		})

	return modified, nil
}

func (s *NotificationService) Delete(ctx context.Context, id string, actor *common.Actor) error {
	notification, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.publish(actor, "notification_deleted",
		fmt.Sprintf("Deleted notification: %s", notification.Title),
		map[string]interface{}{
			"category": "system",
		})

	return nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, recipient string, actor *common.Actor) (int64, error) {
	deleted, err := s.repo.DeleteAllForRecipient(ctx, recipient)
	if err != nil {
		return 0, err
	}

	s.publish(actor, "notifications_all_deleted",
		"Deleted all notifications",
		map[string]interface{}{
			"count":    deleted,
			"category": "system",
		})

	return deleted, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipient string) (int64, error) {
	return s.repo.UnreadCount(ctx, recipient)
}

// GetStats assembles the per-recipient aggregate view: totals, read/unread
// split, descending groupings by type and category, and the five most recent
// records with the sender reduced to a display name.
func (s *NotificationService) GetStats(ctx context.Context, recipient string) (*Stats, error) {
	_, total, err := s.repo.ByRecipient(ctx, recipient, dbmongo.ListFilter{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	unread, err := s.repo.UnreadCount(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to get unread count: %w", err)
	}

	typeStats, err := s.repo.TypeCounts(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to group by type: %w", err)
	}

	categoryStats, err := s.repo.CategoryCounts(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to group by category: %w", err)
	}

	recent, err := s.repo.Recent(ctx, recipient, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent notifications: %w", err)
	}

	senders := make([]string, 0, len(recent))
	for _, n := range recent {
		if n.Sender != "" {
			senders = append(senders, n.Sender)
		}
	}
	displays, err := s.users.DisplayByIDs(ctx, senders)
	if err != nil {
		log.Printf("Failed to resolve senders for stats: %v", err)
		displays = map[string]common.UserDisplay{}
	}

	recentResponses := make([]*RecentNotification, len(recent))
	for i, n := range recent {
		item := &RecentNotification{
			ID:        n.ID.Hex(),
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			Category:  n.Category,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if display, ok := displays[n.Sender]; ok {
			item.Sender = &common.UserDisplay{ID: display.ID, Name: display.Name}
		}
		recentResponses[i] = item
	}

	return &Stats{
		TotalNotifications:  total,
		UnreadNotifications: unread,
		ReadNotifications:   total - unread,
		TypeStats:           typeStats,
		CategoryStats:       categoryStats,
		RecentNotifications: recentResponses,
	}, nil
}

func (s *NotificationService) Shutdown() {
	s.manager.Shutdown()
	log.Println("NotificationService shutdown complete")
}

// publish queues an audit event. Anonymous callers produce no audit record;
// the primary operation has already succeeded by the time this runs.
func (s *NotificationService) publish(actor *common.Actor, eventType, description string, meta map[string]interface{}) {
	if actor == nil {
		return
	}
	s.manager.NotifyAsync(common.ActivityEvent{
		Type:        eventType,
		Description: description,
		ActorID:     actor.ID,
		Meta:        meta,
	})
}

func (s *NotificationService) expandOne(ctx context.Context, n *dbmongo.Notification) (*NotificationResponse, error) {
	ids := []string{n.Recipient}
	if n.Sender != "" {
		ids = append(ids, n.Sender)
	}

	displays, err := s.users.DisplayByIDs(ctx, ids)
	if err != nil {
		log.Printf("Failed to resolve users for notification %s: %v", n.ID.Hex(), err)
		displays = map[string]common.UserDisplay{}
	}

	response := &NotificationResponse{
		ID:            n.ID.Hex(),
		Title:         n.Title,
		Message:       n.Message,
		Type:          n.Type,
		Priority:      n.Priority,
		IsRead:        n.IsRead,
		ReadAt:        n.ReadAt,
		Category:      n.Category,
		RelatedEntity: n.RelatedEntity,
		ActionURL:     n.ActionURL,
		ExpiresAt:     n.ExpiresAt,
		Metadata:      n.Metadata,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}

	if display, ok := displays[n.Recipient]; ok {
		response.Recipient = &display
	} else {
		response.Recipient = &common.UserDisplay{ID: n.Recipient}
	}

	if n.Sender != "" {
		if display, ok := displays[n.Sender]; ok {
			response.Sender = &display
		} else {
			response.Sender = &common.UserDisplay{ID: n.Sender}
		}
	}

	return response, nil
}
