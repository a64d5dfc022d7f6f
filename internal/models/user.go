package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles understood by the complaint desk.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is the role record of an authenticated account.
// Accounts without a record, or with an empty role, are students.
type User struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Email       string `gorm:"uniqueIndex" json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `gorm:"type:text;not null;default:student" json:"role"`
}

// BeforeCreate fills in the ID and the default role.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	return
}

// Principal is the authenticated caller of a complaint operation.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// DisplayName falls back to the local part of the e-mail address.
func (p *Principal) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	if at := strings.Index(p.Email, "@"); at > 0 {
		return p.Email[:at]
	}
	return p.Email
}
