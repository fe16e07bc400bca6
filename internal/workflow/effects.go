package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Apply computes the outcome of an already-validated operation: the updated
// request snapshot plus the notification intents the transition generates.
// It is pure and performs no business-rule checking of its own; calling it
// without a prior successful Validate for the same operation is a
// programming error and panics.
func Apply(req RequestSnapshot, actor Actor, op Operation, adminIDs []uuid.UUID, now time.Time) (RequestSnapshot, []NotificationIntent) {
	switch o := op.(type) {
	case ChangeStatus:
		return applyChangeStatus(req, actor, o, adminIDs, now)
	case AssignDesigner:
		return applyAssignDesigner(req, o)
	default:
		panic(fmt.Sprintf("workflow: apply called with unknown operation %T", op))
	}
}

func applyChangeStatus(req RequestSnapshot, actor Actor, op ChangeStatus, adminIDs []uuid.UUID, now time.Time) (RequestSnapshot, []NotificationIntent) {
	if !op.Target.Valid() {
		panic(fmt.Sprintf("workflow: apply called with unknown status %q", op.Target))
	}

	req.Status = op.Target
	if op.Target == StatusPublished {
		link := strings.TrimSpace(op.PublishedLink)
		if link == "" {
			// Validate would have rejected this; the pair was not called
			// together.
			panic("workflow: apply called without a published link")
		}
		req.PublishedLink = &link
		publishedAt := now
		req.PublishedAt = &publishedAt
	}

	var intents []NotificationIntent

	switch actor.Role {
	case RoleDesigner:
		if req.RequesterID != actor.ID {
			intents = append(intents, NotificationIntent{
				RecipientID: req.RequesterID,
				Kind:        KindStatusChange,
				Title:       statusTitle(op.Target),
				Message:     fmt.Sprintf("Request %s moved to %s.", req.Code, op.Target),
				RequestID:   req.ID,
			})
		}
		if op.Target == StatusInReview {
			for _, adminID := range adminIDs {
				intents = append(intents, NotificationIntent{
					RecipientID: adminID,
					Kind:        KindStatusChange,
					Title:       "Review requested",
					Message:     fmt.Sprintf("Request %s is ready for your approval.", req.Code),
					RequestID:   req.ID,
				})
			}
		}
	case RoleRequester:
		if req.DesignerID != nil && *req.DesignerID != actor.ID {
			intents = append(intents, NotificationIntent{
				RecipientID: *req.DesignerID,
				Kind:        KindStatusChange,
				Title:       statusTitle(op.Target),
				Message:     requesterActionMessage(req.Code, op.Target),
				RequestID:   req.ID,
			})
		}
	}

	return req, intents
}

func applyAssignDesigner(req RequestSnapshot, op AssignDesigner) (RequestSnapshot, []NotificationIntent) {
	if op.DesignerID == uuid.Nil {
		panic("workflow: apply called with an empty designer id")
	}

	wasUnassigned := req.DesignerID == nil
	designerID := op.DesignerID
	req.DesignerID = &designerID
	// Assignment of a freshly submitted request promotes it in the same
	// step; any explicitly requested status is irrelevant here.
	if req.Status == StatusSubmitted {
		req.Status = StatusAssigned
	}

	var intents []NotificationIntent
	// Only the nil-to-set edge fires; reassignments stay silent.
	if wasUnassigned {
		intents = append(intents, NotificationIntent{
			RecipientID: req.RequesterID,
			Kind:        KindAssignment,
			Title:       "Designer assigned",
			Message:     fmt.Sprintf("A designer has been assigned to request %s.", req.Code),
			RequestID:   req.ID,
		})
	}

	return req, intents
}

// CommentIntents computes the notifications a new comment on a request
// generates. A designer's comment notifies the requester; a requester's
// comment notifies the assigned designer when there is one, and is silently
// skipped otherwise.
func CommentIntents(req RequestSnapshot, actor Actor) []NotificationIntent {
	var intents []NotificationIntent

	switch actor.Role {
	case RoleDesigner:
		if req.DesignerID != nil && req.RequesterID != actor.ID {
			intents = append(intents, NotificationIntent{
				RecipientID: req.RequesterID,
				Kind:        KindComment,
				Title:       "New comment",
				Message:     fmt.Sprintf("The designer commented on request %s.", req.Code),
				RequestID:   req.ID,
			})
		}
	case RoleRequester:
		if req.DesignerID != nil && *req.DesignerID != actor.ID {
			intents = append(intents, NotificationIntent{
				RecipientID: *req.DesignerID,
				Kind:        KindFeedback,
				Title:       "New feedback",
				Message:     fmt.Sprintf("The requester left feedback on request %s.", req.Code),
				RequestID:   req.ID,
			})
		}
	}

	return intents
}

func statusTitle(s Status) string {
	switch s {
	case StatusSubmitted:
		return "Submitted"
	case StatusAssigned:
		return "Assigned"
	case StatusInDesign:
		return "In design"
	case StatusInReview:
		return "In review"
	case StatusChangesRequested:
		return "Changes requested"
	case StatusReadyToPublish:
		return "Ready to publish"
	case StatusCompleted:
		return "Completed"
	case StatusPublished:
		return "Published! 🎉"
	case StatusArchived:
		return "Archived"
	default:
		return "Updated"
	}
}

func requesterActionMessage(code string, target Status) string {
	switch target {
	case StatusReadyToPublish:
		return fmt.Sprintf("Request %s was accepted by the requester.", code)
	case StatusPublished:
		return fmt.Sprintf("Request %s was published.", code)
	case StatusChangesRequested:
		return fmt.Sprintf("The requester asked for changes on request %s.", code)
	default:
		return fmt.Sprintf("Request %s moved to %s.", code, target)
	}
}
