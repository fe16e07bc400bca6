package workflow

import "strings"

// Validator decides whether an actor may perform an operation on a request.
// It is pure: every invocation gets a fresh snapshot and holds no state
// beyond the policy table.
type Validator struct {
	policy *Policy
}

// NewValidator creates a validator over the given policy table.
func NewValidator(policy *Policy) *Validator {
	return &Validator{policy: policy}
}

// Validate returns nil when the actor may perform op on the request, or a
// typed *Error naming the specific denial. Checks run in order and the
// first failure wins: scope, then the transition table, then the
// publish-link precondition.
func (v *Validator) Validate(actor Actor, req RequestSnapshot, op Operation) error {
	switch o := op.(type) {
	case ChangeStatus:
		return v.validateChangeStatus(actor, req, o)
	case AssignDesigner:
		return v.validateAssignDesigner(actor, req, o)
	default:
		return AccessDenied("unsupported operation")
	}
}

func (v *Validator) validateChangeStatus(actor Actor, req RequestSnapshot, op ChangeStatus) error {
	switch actor.Role {
	case RoleRequester:
		if req.RequesterID != actor.ID {
			return AccessDenied("request %s does not belong to this requester", req.Code)
		}
	case RoleDesigner:
		if req.DesignerID == nil || *req.DesignerID != actor.ID {
			return AccessDenied("request %s is not assigned to this designer", req.Code)
		}
	}

	if !v.policy.CanTransition(actor.Role, req.Status, op.Target) {
		return InvalidTransition(actor.Role, req.Status, op.Target)
	}

	if op.Target == StatusPublished && strings.TrimSpace(op.PublishedLink) == "" {
		return MissingPublishedLink()
	}

	return nil
}

// validateAssignDesigner gates the assignment special case. A designer may
// claim an unassigned submitted request for themselves; an admin may assign
// any designer to any request. Requesters never assign.
func (v *Validator) validateAssignDesigner(actor Actor, req RequestSnapshot, op AssignDesigner) error {
	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleDesigner:
		if op.DesignerID != actor.ID {
			return AccessDenied("designers may only assign themselves")
		}
		if req.DesignerID != nil {
			return AccessDenied("request %s already has a designer", req.Code)
		}
		if req.Status != StatusSubmitted {
			return AccessDenied("request %s is not open for self-assignment", req.Code)
		}
		return nil
	default:
		return AccessDenied("requesters may not assign designers")
	}
}
