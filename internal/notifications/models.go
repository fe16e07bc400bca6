package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a persisted in-app notification row.
type Notification struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Kind        string     `gorm:"not null" json:"kind"`
	Title       string     `gorm:"not null" json:"title"`
	Message     string     `json:"message"`
	RequestID   *uuid.UUID `gorm:"type:uuid;index" json:"request_id,omitempty"`
	Read        bool       `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time  `json:"created_at"`
}
