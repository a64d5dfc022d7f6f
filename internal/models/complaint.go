package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationNotSpecified is stored when the submitter leaves the location blank.
const LocationNotSpecified = "Not specified"

// Complaint is a facility complaint filed by a campus user.
// Submitter fields are written once at creation; Status and AdminReply belong to administrators.
type Complaint struct {
	// ID is the opaque identifier (UUID) assigned on creation.
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	// UserID, UserEmail and UserName identify the submitting principal.
	UserID    string `gorm:"type:text;not null;index:idx_complaints_user_ts,priority:1" json:"userId"`
	UserEmail string `gorm:"type:text" json:"userEmail"`
	UserName  string `gorm:"type:text" json:"userName"`

	Department  Department `gorm:"type:text;not null;index" json:"department"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Location    string     `gorm:"type:text;not null" json:"location"`

	// Urgency is fixed at creation by the classifier and never recomputed.
	Urgency Urgency `gorm:"type:text;not null;index" json:"urgency"`
	// Status starts at Pending and ends at Resolved or Rejected.
	Status     Status `gorm:"type:text;not null;index" json:"status"`
	AdminReply string `gorm:"type:text" json:"adminReply"`

	// Timestamp is the creation time, set by the store.
	Timestamp time.Time `gorm:"column:created_at;autoCreateTime;index:idx_complaints_user_ts,priority:2,sort:desc" json:"timestamp"`
	// UpdatedAt is stamped on every administrative mutation.
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller has not set one.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
