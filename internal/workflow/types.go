package workflow

import (
	"time"

	"github.com/google/uuid"
)

// Status is a design request lifecycle state.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusSubmitted        Status = "submitted"
	StatusAssigned         Status = "assigned"
	StatusInDesign         Status = "in_design"
	StatusInReview         Status = "in_review"
	StatusChangesRequested Status = "changes_requested"
	StatusReadyToPublish   Status = "ready_to_publish"
	StatusCompleted        Status = "completed"
	StatusPublished        Status = "published"
	StatusArchived         Status = "archived"
)

// AllStatuses lists every lifecycle state in workflow order.
var AllStatuses = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusAssigned,
	StatusInDesign,
	StatusInReview,
	StatusChangesRequested,
	StatusReadyToPublish,
	StatusCompleted,
	StatusPublished,
	StatusArchived,
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Role is the policy axis of an actor.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDesigner  Role = "designer"
	RoleRequester Role = "requester"
)

// AllRoles lists every actor role.
var AllRoles = []Role{RoleAdmin, RoleDesigner, RoleRequester}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDesigner || r == RoleRequester
}

// Priority is carried on a request but plays no part in transition legality.
type Priority string

const (
	PriorityLow              Priority = "low"
	PriorityMedium           Priority = "medium"
	PriorityHigh             Priority = "high"
	PriorityCampaignCritical Priority = "campaign_critical"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCampaignCritical:
		return true
	}
	return false
}

// Actor is the entity attempting an operation. Role drives the transition
// table; ID is used only for ownership and self-assignment checks.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// RequestSnapshot is the slice of a request record the workflow engine reads
// and rewrites. Callers hand in a fresh snapshot per invocation; the engine
// never retains one between calls.
type RequestSnapshot struct {
	ID            uuid.UUID
	Code          string
	Status        Status
	RequesterID   uuid.UUID
	DesignerID    *uuid.UUID
	Priority      Priority
	PublishedLink *string
	PublishedAt   *time.Time
}

// Operation is a tagged variant describing exactly one workflow action, so
// the validator can match on the operation kind instead of probing optional
// fields on a loose update payload.
type Operation interface {
	isOperation()
}

// ChangeStatus moves a request to Target. PublishedLink is required (and
// only consulted) when Target is StatusPublished.
type ChangeStatus struct {
	Target        Status
	PublishedLink string
}

func (ChangeStatus) isOperation() {}

// AssignDesigner sets the request's designer. Designers may only assign
// themselves to an unclaimed submitted request; admins may assign anyone.
type AssignDesigner struct {
	DesignerID uuid.UUID
}

func (AssignDesigner) isOperation() {}

// NotificationIntent instructs the dispatch layer to notify one user. The
// workflow only decides what to emit, never how it is delivered.
type NotificationIntent struct {
	RecipientID uuid.UUID
	Kind        IntentKind
	Title       string
	Message     string
	RequestID   uuid.UUID
}

// IntentKind classifies a notification intent.
type IntentKind string

const (
	KindStatusChange IntentKind = "status_change"
	KindAssignment   IntentKind = "assignment"
	KindComment      IntentKind = "comment"
	KindFeedback     IntentKind = "feedback"
	KindRoleChange   IntentKind = "role_change"
	KindAccount      IntentKind = "account"
	KindReminder     IntentKind = "reminder"
)
