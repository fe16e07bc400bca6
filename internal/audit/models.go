package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

// Event kinds on the request trail.
const (
	EventTransition = "transition"
	EventAssignment = "assignment"
)

// RequestEvent is one append-only entry describing a committed workflow
// action. Detail carries the kind-specific payload (from/to statuses or the
// assigned designer).
type RequestEvent struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"requestId"`
	RequestCode string         `gorm:"type:varchar(20);not null;index" json:"requestCode"`
	Kind        string         `gorm:"type:varchar(20);not null" json:"kind"`
	ActorID     uuid.UUID      `gorm:"type:uuid;not null" json:"actorId"`
	ActorRole   workflow.Role  `gorm:"type:varchar(20);not null" json:"actorRole"`
	Detail      datatypes.JSON `gorm:"type:jsonb" json:"detail"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type transitionDetail struct {
	From workflow.Status `json:"from"`
	To   workflow.Status `json:"to"`
}

type assignmentDetail struct {
	DesignerID uuid.UUID `json:"designerId"`
}
