package comments

import (
	"time"

	"github.com/google/uuid"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

// Comment is a discussion entry on a design request.
type Comment struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RequestID uuid.UUID     `gorm:"type:uuid;not null;index" json:"requestId"`
	AuthorID  uuid.UUID     `gorm:"type:uuid;not null" json:"authorId"`
	Role      workflow.Role `gorm:"type:varchar(20);not null" json:"role"`
	Body      string        `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time     `json:"createdAt"`
}
