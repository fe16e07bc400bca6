package users

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

// User is a portal account. Identity and sessions live in the external auth
// provider; this record carries the role, contact details and active flag
// the backend governs.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"not null" json:"name"`
	Phone        string         `json:"phone,omitempty"`
	Role         workflow.Role  `gorm:"not null;default:'requester';index" json:"role"`
	Active       bool           `gorm:"not null;default:true" json:"active"`
	PasswordHash string         `gorm:"not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
