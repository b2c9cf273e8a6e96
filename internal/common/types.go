package common

import (
	"time"
)

type NotificationType string

const (
	TypeInfo    NotificationType = "info"
	TypeSuccess NotificationType = "success"
	TypeWarning NotificationType = "warning"
	TypeError   NotificationType = "error"
	TypeSystem  NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeWarning, TypeError, TypeSystem:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Category string

const (
	CategoryTask       Category = "task"
	CategoryProject    Category = "project"
	CategoryExperiment Category = "experiment"
	CategoryInventory  Category = "inventory"
	CategorySystem     Category = "system"
	CategoryUser       Category = "user"
	CategoryGeneral    Category = "general"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTask, CategoryProject, CategoryExperiment, CategoryInventory,
		CategorySystem, CategoryUser, CategoryGeneral:
		return true
	}
	return false
}

// EntityKind tags the polymorphic back-reference a notification may carry.
type EntityKind string

const (
	EntityTask          EntityKind = "Task"
	EntityProject       EntityKind = "Project"
	EntityExperiment    EntityKind = "Experiment"
	EntityInventoryItem EntityKind = "InventoryItem"
	EntityUser          EntityKind = "User"
	EntityOrder         EntityKind = "Order"
)

func (k EntityKind) Valid() bool {
	switch k {
	case EntityTask, EntityProject, EntityExperiment, EntityInventoryItem,
		EntityUser, EntityOrder:
		return true
	}
	return false
}

// RelatedEntity points a notification at the record it is about.
type RelatedEntity struct {
	Kind EntityKind `bson:"entityType" json:"entityType"`
	ID   string     `bson:"entityId" json:"entityId"`
}

// NotificationMetadata carries structured back-references. ActivityID is the
// generator's dedup key; Extra keeps the ad hoc keys other writers attach so
// they round-trip through the store untouched.
type NotificationMetadata struct {
	ActivityID   string                 `bson:"activityId,omitempty" json:"activityId,omitempty"`
	ActivityType string                 `bson:"activityType,omitempty" json:"activityType,omitempty"`
	Extra        map[string]interface{} `bson:",inline" json:"extra,omitempty"`
}

// Actor is the authenticated caller, supplied by the auth middleware. A nil
// actor means the request was anonymous; mutations still run, audit events
// are skipped.
type Actor struct {
	ID   string
	Name string
}

type UserDisplay struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ActivityEvent is the audit record a mutating operation publishes after its
// primary write succeeds.
type ActivityEvent struct {
	Type        string
	Description string
	ActorID     string
	Meta        map[string]interface{}
	CreatedAt   time.Time
}
