package models_test

import (
	"campusdesk/backend/internal/models"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID and default role.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	// Arrange
	user := &models.User{Email: "student@campus.edu"}

	// Act
	err := user.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	_, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
	assert.Equal(t, models.RoleStudent, user.Role)
}

// TestUserBeforeCreate_PreservesExisting verifies that the hook doesn't overwrite an existing ID or role.
func TestUserBeforeCreate_PreservesExisting(t *testing.T) {
	existingID := uuid.New().String()
	user := &models.User{ID: existingID, Role: models.RoleAdmin}

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestComplaintBeforeCreate_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		c := &models.Complaint{}
		assert.NoError(t, c.BeforeCreate(nil))
		assert.NotContains(t, seen, c.ID)
		seen[c.ID] = true
	}
}

// TestComplaintStructTags catches accidental removal of the tags the store relies on.
func TestComplaintStructTags(t *testing.T) {
	complaintType := reflect.TypeOf(models.Complaint{})

	idField, found := complaintType.FieldByName("ID")
	assert.True(t, found)
	assert.Contains(t, idField.Tag.Get("gorm"), "primaryKey")

	userField, _ := complaintType.FieldByName("UserID")
	assert.Contains(t, userField.Tag.Get("gorm"), "idx_complaints_user_ts")
	assert.Equal(t, "userId", userField.Tag.Get("json"))

	tsField, _ := complaintType.FieldByName("Timestamp")
	assert.Contains(t, tsField.Tag.Get("gorm"), "autoCreateTime")

	updField, _ := complaintType.FieldByName("UpdatedAt")
	assert.Contains(t, updField.Tag.Get("gorm"), "autoUpdateTime")
}

func TestPrincipal(t *testing.T) {
	tests := []struct {
		name        string
		principal   *models.Principal
		wantAdmin   bool
		wantDisplay string
	}{
		{"named student", &models.Principal{UserID: "u1", Email: "ann@campus.edu", Name: "Ann", Role: models.RoleStudent}, false, "Ann"},
		{"unnamed student", &models.Principal{UserID: "u2", Email: "bob@campus.edu"}, false, "bob"},
		{"admin", &models.Principal{UserID: "a1", Email: "desk@campus.edu", Role: models.RoleAdmin}, true, "desk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAdmin, tt.principal.IsAdmin())
			assert.Equal(t, tt.wantDisplay, tt.principal.DisplayName())
		})
	}

	var nilPrincipal *models.Principal
	assert.False(t, nilPrincipal.IsAdmin())
}
