package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationType_Valid(t *testing.T) {
	assert.True(t, TypeInfo.Valid())
	assert.True(t, TypeSuccess.Valid())
	assert.True(t, TypeWarning.Valid())
	assert.True(t, TypeError.Valid())
	assert.True(t, TypeSystem.Valid())

	assert.False(t, NotificationType("loud").Valid())
	assert.False(t, NotificationType("").Valid())
}

func TestPriority_Valid(t *testing.T) {
	assert.True(t, PriorityLow.Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.True(t, PriorityUrgent.Valid())

	assert.False(t, Priority("extreme").Valid())
	assert.False(t, Priority("").Valid())
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range []Category{
		CategoryTask, CategoryProject, CategoryExperiment,
		CategoryInventory, CategorySystem, CategoryUser, CategoryGeneral,
	} {
		assert.True(t, c.Valid(), string(c))
	}

	assert.False(t, Category("misc").Valid())
}

func TestEntityKind_Valid(t *testing.T) {
	assert.True(t, EntityTask.Valid())
	assert.True(t, EntityInventoryItem.Valid())

	// Enum values are capitalized; the lowercase form is not accepted.
	assert.False(t, EntityKind("task").Valid())
	assert.False(t, EntityKind("Gadget").Valid())
}
