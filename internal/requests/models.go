package requests

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

// Request is a tracked design work request.
type Request struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code          string            `gorm:"uniqueIndex;not null" json:"code"`
	Title         string            `gorm:"not null" json:"title"`
	Description   string            `json:"description"`
	Status        workflow.Status   `gorm:"not null;default:'draft';index" json:"status"`
	Priority      workflow.Priority `gorm:"not null;default:'medium'" json:"priority"`
	RequesterID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"requester_id"`
	DesignerID    *uuid.UUID        `gorm:"type:uuid;index" json:"designer_id,omitempty"`
	PublishedLink *string           `json:"published_link,omitempty"`
	PublishedAt   *time.Time        `json:"published_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
}

// RequestCounter backs the per-year monotonic numbering of request codes.
type RequestCounter struct {
	Year  int   `gorm:"primaryKey"`
	Value int64 `gorm:"not null"`
}

// Snapshot projects the record into the slice of state the workflow engine
// operates on.
func (r *Request) Snapshot() workflow.RequestSnapshot {
	return workflow.RequestSnapshot{
		ID:            r.ID,
		Code:          r.Code,
		Status:        r.Status,
		RequesterID:   r.RequesterID,
		DesignerID:    r.DesignerID,
		Priority:      r.Priority,
		PublishedLink: r.PublishedLink,
		PublishedAt:   r.PublishedAt,
	}
}

// applySnapshot writes the workflow-owned fields back onto the record.
// Identity, ownership of the requester, and catalogue fields stay untouched.
func (r *Request) applySnapshot(s workflow.RequestSnapshot) {
	r.Status = s.Status
	r.DesignerID = s.DesignerID
	r.PublishedLink = s.PublishedLink
	r.PublishedAt = s.PublishedAt
}

// FormatCode renders the human-readable request code. Codes are immutable
// once assigned and unique per year.
func FormatCode(year int, n int64) string {
	return fmt.Sprintf("DR-%d-%04d", year, n)
}
