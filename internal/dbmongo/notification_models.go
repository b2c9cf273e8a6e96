package dbmongo

import (
	"time"

	"labtrack/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is the persisted notification record.
type Notification struct {
	ID            primitive.ObjectID           `bson:"_id,omitempty" json:"id"`
	Title         string                       `bson:"title" json:"title"`
	Message       string                       `bson:"message" json:"message"`
	Type          common.NotificationType      `bson:"type" json:"type"`
	Priority      common.Priority              `bson:"priority" json:"priority"`
	Recipient     string                       `bson:"recipient" json:"recipient"`
	Sender        string                       `bson:"sender,omitempty" json:"sender,omitempty"`
	IsRead        bool                         `bson:"isRead" json:"isRead"`
	ReadAt        *time.Time                   `bson:"readAt,omitempty" json:"readAt,omitempty"`
	Category      common.Category              `bson:"category" json:"category"`
	RelatedEntity *common.RelatedEntity        `bson:"relatedEntity,omitempty" json:"relatedEntity,omitempty"`
	ActionURL     string                       `bson:"actionUrl,omitempty" json:"actionUrl,omitempty"`
	ExpiresAt     *time.Time                   `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	Metadata      *common.NotificationMetadata `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt     time.Time                    `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time                    `bson:"updatedAt" json:"updatedAt"`
}

// ApplyDefaults fills the schema defaults on an incoming record.
func (n *Notification) ApplyDefaults() {
	if n.Type == "" {
		n.Type = common.TypeInfo
	}
	if n.Priority == "" {
		n.Priority = common.PriorityMedium
	}
	if n.Category == "" {
		n.Category = common.CategoryGeneral
	}
}

// Validate checks required fields and enum membership. Runs after
// ApplyDefaults, before any write.
func (n *Notification) Validate() error {
	if n.Title == "" {
		return common.NewValidationError("title", "is required")
	}
	if n.Message == "" {
		return common.NewValidationError("message", "is required")
	}
	if n.Recipient == "" {
		return common.NewValidationError("recipient", "is required")
	}
	if !n.Type.Valid() {
		return common.NewValidationError("type", "invalid value: "+string(n.Type))
	}
	if !n.Priority.Valid() {
		return common.NewValidationError("priority", "invalid value: "+string(n.Priority))
	}
	if !n.Category.Valid() {
		return common.NewValidationError("category", "invalid value: "+string(n.Category))
	}
	if n.RelatedEntity != nil && !n.RelatedEntity.Kind.Valid() {
		return common.NewValidationError("relatedEntity.entityType", "invalid value: "+string(n.RelatedEntity.Kind))
	}
	return nil
}

// Activity is an immutable append-only audit event. The generator reads it,
// the event observers write it.
type Activity struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Type        string                 `bson:"type" json:"type"`
	Description string                 `bson:"description" json:"description"`
	User        string                 `bson:"user,omitempty" json:"user,omitempty"`
	Meta        map[string]interface{} `bson:"meta,omitempty" json:"meta,omitempty"`
	CreatedAt   time.Time              `bson:"createdAt" json:"createdAt"`
}
